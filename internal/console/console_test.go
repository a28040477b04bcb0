package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/axiomesh/axiom-txflow/internal/flowcontrol"
)

func TestExecute(t *testing.T) {
	flow := flowcontrol.New()
	logger, hook := test.NewNullLogger()
	c := New(flow, nil, io.Discard, logger)

	require.Equal(t, "state: ready", c.Execute("state"))
	require.Contains(t, c.Execute("stop"), "stop rejected")
	require.Contains(t, c.Execute("continue"), "continue rejected")
	require.Equal(t, flowcontrol.Ready, flow.State())
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	require.True(t, flow.Enter())
	require.Equal(t, "stopping current wait", c.Execute(" STOP "))
	require.Equal(t, flowcontrol.Stopping, flow.State())
	require.Equal(t, "stop cleared", c.Execute("c"))
	require.Equal(t, flowcontrol.Ready, flow.State())

	require.True(t, flow.Enter())
	require.Equal(t, "current wait released", c.Execute("continue"))
	require.Equal(t, flowcontrol.Ready, flow.State())

	require.Empty(t, c.Execute(""))
	require.Contains(t, c.Execute("help"), "commands")
	require.Contains(t, c.Execute("reboot"), "unknown command")
}

func TestRun(t *testing.T) {
	flow := flowcontrol.New()
	require.True(t, flow.Enter())
	logger, _ := test.NewNullLogger()
	out := &bytes.Buffer{}
	c := New(flow, strings.NewReader("state\nstop\nstate\n"), out, logger)

	require.Nil(t, c.Run(context.Background()))
	require.Equal(t, "state: waiting\nstopping current wait\nstate: stopping\n", out.String())
	require.Equal(t, flowcontrol.Stopping, flow.State())
}

func TestRunStopsWithContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	logger, _ := test.NewNullLogger()
	c := New(flowcontrol.New(), r, io.Discard, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Nil(t, c.Run(ctx))
}
