package loggers

import (
	"context"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slog"
)

var _ slog.Handler = (*LogrusHandler)(nil)

var levelMapReverse = map[logrus.Level]slog.Level{
	logrus.TraceLevel: log.LevelTrace,
	logrus.DebugLevel: slog.LevelDebug,
	logrus.InfoLevel:  slog.LevelInfo,
	logrus.WarnLevel:  slog.LevelWarn,
	logrus.ErrorLevel: slog.LevelError,
	logrus.FatalLevel: log.LevelCrit,
	logrus.PanicLevel: log.LevelCrit,
}

func toLogrusLevel(level slog.Level) logrus.Level {
	switch {
	case level <= log.LevelTrace:
		return logrus.TraceLevel
	case level <= slog.LevelDebug:
		return logrus.DebugLevel
	case level <= slog.LevelInfo:
		return logrus.InfoLevel
	case level <= slog.LevelWarn:
		return logrus.WarnLevel
	default:
		// crit from geth must not exit the process through logrus.Fatal
		return logrus.ErrorLevel
	}
}

// LogrusHandler forwards go-ethereum's structured records (rpc client,
// ethclient) into a module logger.
type LogrusHandler struct {
	Logger *logrus.Entry
	Level  slog.Leveler
	attrs  logrus.Fields
}

func (h *LogrusHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.Level.Level()
}

func (h *LogrusHandler) Handle(ctx context.Context, record slog.Record) error {
	args := make(logrus.Fields, len(h.attrs)+record.NumAttrs())
	for k, v := range h.attrs {
		args[k] = v
	}
	record.Attrs(func(attr slog.Attr) bool {
		args[attr.Key] = attr.Value.Any()
		return true
	})

	h.Logger.
		WithContext(ctx).
		WithTime(record.Time).
		WithFields(args).
		Log(toLogrusLevel(record.Level), record.Message)
	return nil
}

func (h *LogrusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make(logrus.Fields, len(h.attrs)+len(attrs))
	for k, v := range h.attrs {
		fields[k] = v
	}
	for _, attr := range attrs {
		fields[attr.Key] = attr.Value.Any()
	}
	return &LogrusHandler{
		Logger: h.Logger,
		Level:  h.Level,
		attrs:  fields,
	}
}

func (h *LogrusHandler) WithGroup(_ string) slog.Handler {
	return h
}
