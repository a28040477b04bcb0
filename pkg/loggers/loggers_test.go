package loggers

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-txflow/pkg/repo"
)

func TestInitialize(t *testing.T) {
	cfg := repo.DefaultConfig()
	cfg.Log.Module.Engine = "debug"
	cfg.Log.Module.Console = "bad-level"
	cfg.Log.EnableColor = false

	out := &bytes.Buffer{}
	require.Nil(t, initialize(cfg.Log, out))

	engineLogger := Logger(Engine).(*logrus.Entry)
	require.Equal(t, logrus.DebugLevel, engineLogger.Logger.GetLevel())
	require.Equal(t, logrus.InfoLevel, Logger(Console).(*logrus.Entry).Logger.GetLevel())

	engineLogger.Info("engine started")
	require.Contains(t, out.String(), "module=engine")
	require.Contains(t, out.String(), "engine started")
}

func TestEthLogAdaptor(t *testing.T) {
	cfg := repo.DefaultConfig()
	cfg.Log.EnableColor = false
	cfg.Log.Module.Backend = "info"

	out := &bytes.Buffer{}
	require.Nil(t, initialize(cfg.Log, out))

	log.Info("rpc dial", "url", "http://127.0.0.1:8881")
	log.Debug("hidden below level")
	log.Root().With("peer", "p1").Warn("slow response")

	require.Contains(t, out.String(), "rpc dial")
	require.Contains(t, out.String(), "module=backend")
	require.NotContains(t, out.String(), "hidden below level")
	require.Contains(t, out.String(), "peer=p1")
}

func TestToLogrusLevel(t *testing.T) {
	require.Equal(t, logrus.TraceLevel, toLogrusLevel(log.LevelTrace))
	require.Equal(t, logrus.WarnLevel, toLogrusLevel(log.LevelWarn))
	require.Equal(t, logrus.ErrorLevel, toLogrusLevel(log.LevelCrit))
}
