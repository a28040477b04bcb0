package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-txflow/internal/flowcontrol"
)

const (
	CmdStop     = "stop"
	CmdContinue = "continue"
	CmdState    = "state"
	CmdHelp     = "help"
)

var aliases = map[string]string{
	"s":      CmdStop,
	"c":      CmdContinue,
	"cont":   CmdContinue,
	"status": CmdState,
	"?":      CmdHelp,
}

// Console lets an operator release or abandon confirmation waits. Invalid
// transitions are reported back and never forced.
type Console struct {
	flow   *flowcontrol.FlowControl
	in     io.Reader
	out    io.Writer
	logger logrus.FieldLogger
}

func New(flow *flowcontrol.FlowControl, in io.Reader, out io.Writer, logger logrus.FieldLogger) *Console {
	return &Console{
		flow:   flow,
		in:     in,
		out:    out,
		logger: logger,
	}
}

// Run reads commands line by line until the input ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		case line := <-lines:
			if reply := c.Execute(line); reply != "" {
				fmt.Fprintln(c.out, reply)
			}
		}
	}
}

// Execute runs one command and returns the reply for the operator.
func (c *Console) Execute(line string) string {
	cmd := strings.ToLower(strings.TrimSpace(line))
	if cmd == "" {
		return ""
	}
	if full, ok := aliases[cmd]; ok {
		cmd = full
	}

	switch cmd {
	case CmdStop:
		if err := c.flow.Stop(); err != nil {
			c.logger.WithField("state", c.flow.State().String()).Warning("Ignore stop, no wait in progress")
			return fmt.Sprintf("stop rejected: %v", err)
		}
		c.logger.Info("Operator requested stop")
		return "stopping current wait"
	case CmdContinue:
		before := c.flow.State()
		if err := c.flow.Continue(); err != nil {
			c.logger.WithField("state", before.String()).Warning("Ignore continue, nothing to release")
			return fmt.Sprintf("continue rejected: %v", err)
		}
		c.logger.WithField("from", before.String()).Info("Operator requested continue")
		if before == flowcontrol.Stopping {
			return "stop cleared"
		}
		return "current wait released"
	case CmdState:
		return fmt.Sprintf("state: %s", c.flow.State())
	case CmdHelp:
		return "commands: stop(s), continue(c), state, help"
	default:
		return fmt.Sprintf("unknown command %q, type help", cmd)
	}
}
