package engine

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/looplab/fsm"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-txflow/internal/backend"
	"github.com/axiomesh/axiom-txflow/internal/flowcontrol"
)

type Strategy int

const (
	// StrategyReceipt waits for a receipt with a block number.
	StrategyReceipt Strategy = iota
	// StrategyInclusion only waits for the transaction to leave the pending block.
	StrategyInclusion
)

func (s Strategy) String() string {
	if s == StrategyInclusion {
		return "inclusion"
	}
	return "receipt"
}

const (
	stateSubmitted   = "submitted"
	statePendingWait = "pending-wait"
	stateConfirmed   = "confirmed"
	stateAbandoned   = "abandoned"
	stateFailed      = "failed"

	// strategyRecord labels the lookup of the tx record behind a handle
	strategyRecord = "record"

	eventWait    = "wait"
	eventConfirm = "confirm"
	eventAbandon = "abandon"
	eventFail    = "fail"
)

// Tracker polls the ledger until a submitted transaction is confirmed, or the
// operator releases or abandons the wait through the shared FlowControl.
type Tracker struct {
	backend backend.Backend
	cfg     *Config
	flow    *flowcontrol.FlowControl
	clock   clock.Clock
	logger  logrus.FieldLogger
}

func NewTracker(b backend.Backend, cfg *Config, flow *flowcontrol.FlowControl, clk clock.Clock, logger logrus.FieldLogger) *Tracker {
	return &Tracker{
		backend: b,
		cfg:     cfg,
		flow:    flow,
		clock:   clk,
		logger:  logger,
	}
}

// probeResult is non-nil once inclusion is observed.
type probeResult struct {
	blockNumber *big.Int
	receipt     *types.Receipt
}

type probe func(ctx context.Context) (*probeResult, error)

func (t *Tracker) WaitReceipt(ctx context.Context, h *Handle) (*ConfirmationResult, error) {
	return t.track(ctx, h, StrategyReceipt)
}

func (t *Tracker) WaitInclusion(ctx context.Context, h *Handle) (*ConfirmationResult, error) {
	return t.track(ctx, h, StrategyInclusion)
}

func (t *Tracker) Wait(ctx context.Context, h *Handle, strategy Strategy) (*ConfirmationResult, error) {
	return t.track(ctx, h, strategy)
}

func (t *Tracker) receiptProbe(h *Handle) probe {
	return func(ctx context.Context) (*probeResult, error) {
		receipt, err := t.backend.TransactionReceipt(ctx, h.Hash)
		if err != nil {
			return nil, err
		}
		if receipt == nil || receipt.BlockNumber == nil {
			return nil, nil
		}
		return &probeResult{blockNumber: receipt.BlockNumber, receipt: receipt}, nil
	}
}

func (t *Tracker) inclusionProbe(h *Handle) probe {
	return func(ctx context.Context) (*probeResult, error) {
		record, err := t.backend.TransactionByHash(ctx, h.Hash)
		if err != nil {
			return nil, err
		}
		if record.Mined() {
			return &probeResult{blockNumber: record.BlockNumber}, nil
		}
		// unknown to the node yet, it may still be propagating
		if record == nil {
			return nil, nil
		}
		pending, err := t.backend.PendingTransactions(ctx)
		if err != nil {
			return nil, err
		}
		if lo.Contains(pending, h.Hash) {
			return nil, nil
		}
		return &probeResult{}, nil
	}
}

func (t *Tracker) newWaitFSM(strategy Strategy, start time.Time) *fsm.FSM {
	return fsm.NewFSM(
		stateSubmitted,
		fsm.Events{
			{Name: eventWait, Src: []string{stateSubmitted}, Dst: statePendingWait},
			{Name: eventConfirm, Src: []string{statePendingWait}, Dst: stateConfirmed},
			{Name: eventAbandon, Src: []string{statePendingWait}, Dst: stateAbandoned},
			{Name: eventFail, Src: []string{stateSubmitted, statePendingWait}, Dst: stateFailed},
		},
		fsm.Callbacks{
			"enter_" + statePendingWait: func(_ context.Context, _ *fsm.Event) {
				t.flow.Enter()
			},
			"enter_state": func(_ context.Context, e *fsm.Event) {
				if e.Dst == statePendingWait {
					return
				}
				if e.Src == statePendingWait {
					t.flow.Leave()
				}
				confirmationDuration.WithLabelValues(strategy.String(), e.Dst).Observe(t.clock.Since(start).Seconds())
			},
		},
	)
}

func (t *Tracker) track(ctx context.Context, h *Handle, strategy Strategy) (*ConfirmationResult, error) {
	start := t.clock.Now()
	machine := t.newWaitFSM(strategy, start)
	// transitions must complete even when ctx is the reason for failing
	fsmCtx := context.WithoutCancel(ctx)
	logger := t.logger.WithFields(logrus.Fields{
		"hash":     h.Hash.String(),
		"strategy": strategy.String(),
	})

	fail := func(err error) (*ConfirmationResult, error) {
		_ = machine.Event(fsmCtx, eventFail)
		logger.WithField("err", err).Warning("Wait tx failed")
		return nil, err
	}

	var (
		check    probe
		interval time.Duration
	)
	switch strategy {
	case StrategyInclusion:
		check, interval = t.inclusionProbe(h), t.cfg.InclusionInterval
	default:
		check, interval = t.receiptProbe(h), t.cfg.ReceiptInterval
	}

	if err := machine.Event(fsmCtx, eventWait); err != nil {
		return fail(err)
	}

	ticker := t.clock.Ticker(interval)
	defer ticker.Stop()
	deadline := start.Add(t.cfg.SoftDeadline)
	for {
		found, err := check(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fail(ctxErr)
			}
			return fail(transportError(err))
		}

		now := t.clock.Now()
		if found != nil {
			_ = machine.Event(fsmCtx, eventConfirm)
			logger.WithField("block", found.blockNumber).Debug("Tx confirmed")
			return t.result(h, found, OutcomeConfirmed, now.Sub(start)), nil
		}

		switch t.flow.State() {
		case flowcontrol.Ready:
			_ = machine.Event(fsmCtx, eventConfirm)
			logger.Info("Wait released by operator, treat tx as confirmed")
			return t.result(h, &probeResult{}, OutcomeForced, now.Sub(start)), nil
		case flowcontrol.Stopping:
			_ = machine.Event(fsmCtx, eventAbandon)
			logger.Warning("Wait stopped by operator")
			return nil, fmt.Errorf("%w: %s", ErrConfirmationAbandoned, h.Hash)
		}

		if strategy == StrategyReceipt && now.After(deadline) {
			deadline = deadline.Add(t.cfg.DeadlineExtension)
			deadlineExtensionCounter.Inc()
			logger.WithFields(logrus.Fields{
				"elapsed":      now.Sub(start).String(),
				"new_deadline": deadline.Sub(start).String(),
			}).Warning("Tx still not confirmed, extend wait deadline")
		}

		select {
		case <-ctx.Done():
			return fail(ctx.Err())
		case <-ticker.C:
		}
	}
}

func (t *Tracker) result(h *Handle, found *probeResult, outcome Outcome, elapsed time.Duration) *ConfirmationResult {
	res := &ConfirmationResult{
		Handle:      h,
		BlockNumber: found.blockNumber,
		Elapsed:     elapsed,
		Outcome:     outcome,
	}
	if r := found.receipt; r != nil {
		res.GasUsed = r.GasUsed
		res.Cost = t.cfg.cost(r.GasUsed)
		res.Reverted = r.Status != types.ReceiptStatusSuccessful
		if r.ContractAddress != (common.Address{}) {
			res.ContractAddress = lo.ToPtr(r.ContractAddress)
		}
	}
	return res
}

// AwaitRecord polls until the ledger knows the transaction behind h. The
// operator can stop it like any wait. A release does not end it, the record
// is still needed, so the state is rearmed and polling goes on.
func (t *Tracker) AwaitRecord(ctx context.Context, h *Handle) (*backend.TxRecord, error) {
	start := t.clock.Now()
	logger := t.logger.WithFields(logrus.Fields{
		"hash":     h.Hash.String(),
		"strategy": strategyRecord,
	})
	t.flow.Enter()
	final := stateFailed
	defer func() {
		t.flow.Leave()
		confirmationDuration.WithLabelValues(strategyRecord, final).Observe(t.clock.Since(start).Seconds())
	}()

	ticker := t.clock.Ticker(t.cfg.InclusionInterval)
	defer ticker.Stop()
	for {
		record, err := t.backend.TransactionByHash(ctx, h.Hash)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, transportError(err)
		}
		if record != nil {
			final = stateConfirmed
			return record, nil
		}

		switch t.flow.State() {
		case flowcontrol.Ready:
			if t.flow.Rearm() {
				logger.Warning("Wait released by operator, tx record is still needed, keep waiting")
			}
		case flowcontrol.Stopping:
			final = stateAbandoned
			logger.Warning("Wait stopped by operator")
			return nil, fmt.Errorf("%w: %s", ErrConfirmationAbandoned, h.Hash)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
