//go:build windows

package common

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-txflow/internal/console"
)

func handleSignals(_ context.Context, _ *console.Console, _ logrus.FieldLogger) {}
