package engine

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-txflow/internal/backend"
	"github.com/axiomesh/axiom-txflow/internal/flowcontrol"
)

type SimulateMode int

const (
	// ModeEstimate asks for a gas estimate once.
	ModeEstimate SimulateMode = iota
	// ModePredicate retries a pending-state call until it reports success, then estimates.
	ModePredicate
)

type SimulateOptions struct {
	Mode SimulateMode
}

type SubmitOptions struct {
	WaitReceipt bool
	FastRun     bool
	TestRun     bool
	Simulation  SimulateOptions
}

// Engine drives operations through simulation, submission and confirmation.
// One Engine serves one run and owns the FlowControl shared by its waits.
type Engine struct {
	cfg     *Config
	backend backend.Backend
	flow    *flowcontrol.FlowControl
	clock   clock.Clock
	logger  logrus.FieldLogger

	simulator *Simulator
	submitter *Submitter
	tracker   *Tracker
	gateway   *Gateway
	sequencer *Sequencer
}

type Option func(*Engine)

func WithClock(clk clock.Clock) Option {
	return func(e *Engine) {
		e.clock = clk
	}
}

func WithFlowControl(flow *flowcontrol.FlowControl) Option {
	return func(e *Engine) {
		e.flow = flow
	}
}

func New(b backend.Backend, cfg *Config, logger logrus.FieldLogger, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		backend: b,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = clock.New()
	}
	if e.flow == nil {
		e.flow = flowcontrol.New()
	}

	e.simulator = NewSimulator(b, cfg, e.clock, logger)
	e.submitter = NewSubmitter(b, cfg, e.clock, logger)
	e.tracker = NewTracker(b, cfg, e.flow, e.clock, logger)
	e.gateway = NewGateway(cfg, e.submitter, e.tracker, logger)
	e.sequencer = NewSequencer(e, logger)
	return e
}

func (e *Engine) FlowControl() *flowcontrol.FlowControl {
	return e.flow
}

func (e *Engine) Simulate(ctx context.Context, op *Operation, opts SimulateOptions) (*SimulationResult, error) {
	if opts.Mode != ModePredicate {
		return e.simulator.Estimate(ctx, op)
	}

	predicate, err := e.simulator.SimulatePredicate(ctx, op)
	if err != nil {
		return nil, err
	}
	est, err := e.simulator.Estimate(ctx, op)
	if err != nil {
		return nil, err
	}
	est.ReturnData = predicate.ReturnData
	est.Attempts = predicate.Attempts
	return est, nil
}

// SubmitAndTrack simulates op, submits it and waits according to opts. The
// operation is never submitted when the simulation fails.
func (e *Engine) SubmitAndTrack(ctx context.Context, op *Operation, opts SubmitOptions) (*ConfirmationResult, error) {
	sim, err := e.Simulate(ctx, op, opts.Simulation)
	if err != nil {
		return nil, err
	}

	h, err := e.submitter.Submit(ctx, op, opts.TestRun)
	if err != nil {
		return nil, err
	}

	var res *ConfirmationResult
	switch {
	case h.Synthetic:
		res = &ConfirmationResult{Handle: h, Outcome: OutcomeSynthetic}
	case opts.FastRun:
		res = &ConfirmationResult{Handle: h, Outcome: OutcomeSkipped}
	case opts.WaitReceipt:
		res, err = e.tracker.WaitReceipt(ctx, h)
	default:
		res, err = e.tracker.WaitInclusion(ctx, h)
	}
	if err != nil {
		return nil, err
	}

	res.ReturnData = sim.ReturnData
	res.Value = op.value()
	if res.Cost == nil {
		res.Cost = sim.Cost
	}
	if res.Reverted {
		return res, fmt.Errorf("%w: %s", ErrExecutionFailed, h.Hash)
	}
	return res, nil
}

func (e *Engine) Deploy(ctx context.Context, op *Operation, opts DeployOptions) (*ConfirmationResult, error) {
	return e.gateway.Deploy(ctx, op, opts)
}

func (e *Engine) RunSequence(ctx context.Context, tasks []*Task, testRun, fastRun bool, opts ...RunOption) (*SequenceLedger, error) {
	return e.sequencer.Run(ctx, tasks, testRun, fastRun, opts...)
}
