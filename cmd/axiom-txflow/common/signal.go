//go:build !windows

package common

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-txflow/internal/console"
)

// handleSignals lets a headless operator drive waits: SIGUSR1 stops the
// current wait, SIGUSR2 releases it.
func handleSignals(ctx context.Context, c *console.Console, logger logrus.FieldLogger) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		defer signal.Stop(sig)
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-sig:
				cmd := "stop"
				if s == syscall.SIGUSR2 {
					cmd = "continue"
				}
				logger.WithFields(logrus.Fields{"signal": s.String(), "reply": c.Execute(cmd)}).Info("Operator signal handled")
			}
		}
	}()
}
