package engine

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type TaskKind int

const (
	KindCall TaskKind = iota
	KindDeploy
)

func (k TaskKind) String() string {
	if k == KindDeploy {
		return "deploy"
	}
	return "call"
}

// Task is one step of a sequence. Its values are resolved right before it
// runs, so a Deferred value may read the results of earlier tasks.
type Task struct {
	Name string
	Kind TaskKind

	From   Value[common.Address]
	To     Value[*common.Address]
	Data   Value[[]byte]
	Amount Value[*big.Int]

	Nonce    *uint64
	GasLimit uint64

	// Predicate gates submission on a pending-state call returning success.
	Predicate   bool
	WaitReceipt bool

	// Known short-circuits a deploy task when it resolves to a non-nil address.
	Known Value[*common.Address]
}

func (t *Task) operation() (*Operation, error) {
	from, err := t.From.Resolve()
	if err != nil {
		return nil, errors.Wrap(err, "resolve from")
	}
	to, err := t.To.Resolve()
	if err != nil {
		return nil, errors.Wrap(err, "resolve to")
	}
	data, err := t.Data.Resolve()
	if err != nil {
		return nil, errors.Wrap(err, "resolve data")
	}
	amount, err := t.Amount.Resolve()
	if err != nil {
		return nil, errors.Wrap(err, "resolve value")
	}
	if t.Kind == KindDeploy && to != nil {
		return nil, errors.New("deploy task must not have a target address")
	}
	if t.Kind == KindCall && to == nil {
		return nil, errors.New("call task needs a target address")
	}
	return &Operation{
		From:     from,
		To:       to,
		Data:     data,
		Value:    amount,
		Nonce:    t.Nonce,
		GasLimit: t.GasLimit,
	}, nil
}

type TaskResult struct {
	Index        int
	Name         string
	Kind         TaskKind
	Operation    *Operation
	Confirmation *ConfirmationResult
}

// Address is the contract created by the task, or the target it called.
func (r *TaskResult) Address() (common.Address, bool) {
	if c := r.Confirmation; c != nil && c.ContractAddress != nil {
		return *c.ContractAddress, true
	}
	if r.Operation != nil && r.Operation.To != nil {
		return *r.Operation.To, true
	}
	return common.Address{}, false
}

// Results holds completed tasks of a sequence, addressable by name.
type Results struct {
	list   []*TaskResult
	byName map[string]*TaskResult
}

func NewResults() *Results {
	return &Results{byName: make(map[string]*TaskResult)}
}

func (r *Results) add(res *TaskResult) {
	r.list = append(r.list, res)
	r.byName[res.Name] = res
}

func (r *Results) Get(name string) (*TaskResult, bool) {
	res, ok := r.byName[name]
	return res, ok
}

func (r *Results) Address(name string) (common.Address, error) {
	res, ok := r.byName[name]
	if !ok {
		return common.Address{}, errors.Errorf("task %s has not completed", name)
	}
	addr, ok := res.Address()
	if !ok {
		return common.Address{}, errors.Errorf("task %s produced no address", name)
	}
	return addr, nil
}

func (r *Results) List() []*TaskResult {
	return r.list
}

func (r *Results) Len() int {
	return len(r.list)
}

// SequenceLedger accumulates the totals of a sequence run.
type SequenceLedger struct {
	TotalCost  *big.Int
	TotalValue *big.Int
	Completed  int
	Results    *Results
}

func (l *SequenceLedger) add(res *TaskResult) {
	if c := res.Confirmation; c != nil {
		if c.Cost != nil {
			l.TotalCost.Add(l.TotalCost, c.Cost)
		}
		if c.Value != nil {
			l.TotalValue.Add(l.TotalValue, c.Value)
		}
	}
	l.Completed++
	l.Results.add(res)
}

type runOptions struct {
	results *Results
}

type RunOption func(*runOptions)

// WithResults lets Deferred values built by the caller observe the results of the run.
func WithResults(results *Results) RunOption {
	return func(o *runOptions) {
		o.results = results
	}
}

// Sequencer runs tasks strictly in order and stops at the first failure.
// Completed tasks are never rolled back.
type Sequencer struct {
	engine *Engine
	logger logrus.FieldLogger
}

func NewSequencer(e *Engine, logger logrus.FieldLogger) *Sequencer {
	return &Sequencer{
		engine: e,
		logger: logger,
	}
}

func (s *Sequencer) Run(ctx context.Context, tasks []*Task, testRun, fastRun bool, opts ...RunOption) (*SequenceLedger, error) {
	o := &runOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.results == nil {
		o.results = NewResults()
	}
	ledger := &SequenceLedger{
		TotalCost:  big.NewInt(0),
		TotalValue: big.NewInt(0),
		Results:    o.results,
	}

	for i, task := range tasks {
		name := task.Name
		if name == "" {
			name = fmt.Sprintf("task-%d", i)
		}
		res, err := s.runTask(ctx, i, name, task, testRun, fastRun)
		if err != nil {
			sequenceTaskCounter.WithLabelValues("failed").Inc()
			s.logger.WithFields(logrus.Fields{
				"task":        name,
				"index":       i,
				"completed":   ledger.Completed,
				"total_cost":  ledger.TotalCost.String(),
				"total_value": ledger.TotalValue.String(),
				"err":         err,
			}).Error("Sequence aborted")
			return ledger, &SequenceAbortedError{
				Index:  i,
				Name:   name,
				Ledger: ledger,
				Cause:  err,
			}
		}
		ledger.add(res)
		sequenceTaskCounter.WithLabelValues("success").Inc()
		s.logTask(res)
	}

	s.logger.WithFields(logrus.Fields{
		"tasks":       ledger.Completed,
		"total_cost":  ledger.TotalCost.String(),
		"total_value": ledger.TotalValue.String(),
		"test_run":    testRun,
		"fast_run":    fastRun,
	}).Info("Sequence finished")
	return ledger, nil
}

func (s *Sequencer) runTask(ctx context.Context, index int, name string, task *Task, testRun, fastRun bool) (*TaskResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	op, err := task.operation()
	if err != nil {
		return nil, err
	}

	var conf *ConfirmationResult
	switch task.Kind {
	case KindDeploy:
		known, err := task.Known.Resolve()
		if err != nil {
			return nil, errors.Wrap(err, "resolve known address")
		}
		conf, err = s.engine.Deploy(ctx, op, DeployOptions{
			Known:       known,
			WaitReceipt: task.WaitReceipt,
			FastRun:     fastRun,
			TestRun:     testRun,
		})
		if err != nil {
			return nil, err
		}
	default:
		mode := ModeEstimate
		if task.Predicate {
			mode = ModePredicate
		}
		conf, err = s.engine.SubmitAndTrack(ctx, op, SubmitOptions{
			WaitReceipt: task.WaitReceipt,
			FastRun:     fastRun,
			TestRun:     testRun,
			Simulation:  SimulateOptions{Mode: mode},
		})
		if err != nil {
			return nil, err
		}
	}

	return &TaskResult{
		Index:        index,
		Name:         name,
		Kind:         task.Kind,
		Operation:    op,
		Confirmation: conf,
	}, nil
}

func (s *Sequencer) logTask(res *TaskResult) {
	c := res.Confirmation
	fields := logrus.Fields{
		"task":    res.Name,
		"kind":    res.Kind.String(),
		"op":      res.Operation.String(),
		"outcome": c.Outcome.String(),
	}
	if c.Cost != nil {
		fields["cost"] = c.Cost.String()
	}
	if c.Handle != nil {
		fields["hash"] = c.Handle.Hash.String()
	}
	if c.ContractAddress != nil {
		fields["address"] = c.ContractAddress.String()
	}
	if len(c.ReturnData) != 0 {
		fields["result"] = hexutil.Encode(c.ReturnData)
	}
	s.logger.WithFields(fields).Info("Task succeeded")
}
