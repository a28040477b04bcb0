package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/samber/lo"
)

var (
	ErrTransport             = errors.New("transport error")
	ErrSimulationFailed      = errors.New("simulation never succeeded")
	ErrCostCeilingExceeded   = errors.New("estimate exceeds configured ceiling")
	ErrConfirmationAbandoned = errors.New("confirmation abandoned by operator")
	ErrExecutionFailed       = errors.New("tx confirmed, but execution failed")
	ErrSequenceAborted       = errors.New("sequence aborted")
)

func transportError(err error) error {
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// classifyCallError splits failures of read-only calls: an error response
// produced by the node (revert, bad call) means the operation would not
// succeed, anything else is the transport itself failing.
func classifyCallError(err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("%w: %w", ErrSimulationFailed, err)
	}
	return transportError(err)
}

// nodeRejections are the transaction validation errors a node reports for a
// sender, whatever the target is.
var nodeRejections = []error{
	core.ErrInsufficientFunds,
	core.ErrInsufficientFundsForTransfer,
	core.ErrNonceTooLow,
	core.ErrNonceTooHigh,
	core.ErrIntrinsicGas,
	core.ErrGasLimitReached,
}

// isNodeRejection reports whether err is a node refusing the transaction
// itself. These travel as json-rpc error messages, so they are matched by text.
func isNodeRejection(err error) bool {
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) {
		return false
	}
	msg := rpcErr.Error()
	return lo.SomeBy(nodeRejections, func(e error) bool {
		return strings.Contains(msg, e.Error())
	})
}

// SequenceAbortedError reports the task that stopped a sequence together with
// the work completed before it. Completed tasks are never rolled back.
type SequenceAbortedError struct {
	Index  int
	Name   string
	Ledger *SequenceLedger
	Cause  error
}

func (e *SequenceAbortedError) Error() string {
	return fmt.Sprintf("%s at task %d(%s): %v", ErrSequenceAborted, e.Index, e.Name, e.Cause)
}

func (e *SequenceAbortedError) Unwrap() []error {
	return []error{ErrSequenceAborted, e.Cause}
}
