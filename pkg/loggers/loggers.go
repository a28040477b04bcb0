package loggers

import (
	"context"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-txflow/pkg/repo"
)

const (
	App     = "app"
	Engine  = "engine"
	Backend = "backend"
	Console = "console"
)

var w = &LoggerWrapper{
	loggers: map[string]*logrus.Entry{
		App:     NewWithModule(App),
		Engine:  NewWithModule(Engine),
		Backend: NewWithModule(Backend),
		Console: NewWithModule(Console),
	},
}

type LoggerWrapper struct {
	loggers map[string]*logrus.Entry
}

type options struct {
	out              io.Writer
	reportCaller     bool
	enableColor      bool
	disableTimestamp bool
}

func NewWithModule(name string) *logrus.Entry {
	return newWithModule(name, options{out: os.Stdout, enableColor: true})
}

func newWithModule(name string, opts options) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(opts.out)
	l.SetReportCaller(opts.reportCaller)
	l.SetFormatter(&logrus.TextFormatter{
		ForceColors:      opts.enableColor,
		DisableColors:    !opts.enableColor,
		DisableTimestamp: opts.disableTimestamp,
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02T15:04:05.000",
	})
	return l.WithField("module", name)
}

func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func InitializeEthLog(logger *logrus.Entry) {
	log.SetDefault(log.NewLogger(&LogrusHandler{
		Logger: logger,
		Level:  levelMapReverse[logger.Logger.Level],
	}))
}

func Initialize(_ context.Context, rep *repo.Repo) error {
	return initialize(rep.Config.Log, os.Stdout)
}

func initialize(config repo.Log, out io.Writer) error {
	opts := options{
		out:              out,
		reportCaller:     config.ReportCaller,
		enableColor:      config.EnableColor,
		disableTimestamp: config.DisableTimestamp,
	}

	m := make(map[string]*logrus.Entry)
	m[App] = newWithModule(App, opts)
	m[App].Logger.SetLevel(ParseLevel(config.Level))
	m[Engine] = newWithModule(Engine, opts)
	m[Engine].Logger.SetLevel(ParseLevel(config.Module.Engine))
	m[Backend] = newWithModule(Backend, opts)
	m[Backend].Logger.SetLevel(ParseLevel(config.Module.Backend))
	m[Console] = newWithModule(Console, opts)
	m[Console].Logger.SetLevel(ParseLevel(config.Module.Console))

	w = &LoggerWrapper{loggers: m}
	InitializeEthLog(m[Backend])
	return nil
}

func Logger(name string) logrus.FieldLogger {
	return w.loggers[name]
}
