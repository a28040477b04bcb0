package engine

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/strategy"
	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-txflow/internal/backend"
)

type attemptOutcome int

const (
	attemptSuccess attemptOutcome = iota
	attemptRetry
	attemptFatal
)

var errPredicateFalse = errors.New("predicate is false")

// Simulator performs read-only dry runs before anything is submitted.
type Simulator struct {
	backend backend.Backend
	cfg     *Config
	clock   clock.Clock
	logger  logrus.FieldLogger
}

func NewSimulator(b backend.Backend, cfg *Config, clk clock.Clock, logger logrus.FieldLogger) *Simulator {
	return &Simulator{
		backend: b,
		cfg:     cfg,
		clock:   clk,
		logger:  logger,
	}
}

// Estimate asks for the gas of op once. A target without deployed code is
// charged the minimal transfer cost instead of failing.
func (s *Simulator) Estimate(ctx context.Context, op *Operation) (*SimulationResult, error) {
	res := &SimulationResult{}
	gas, err := s.backend.EstimateGas(ctx, op.callMsg())
	if err != nil {
		if op.IsCreation() {
			simulationCounter.WithLabelValues("estimate", "failed").Inc()
			return nil, classifyCallError(err)
		}
		code, codeErr := s.backend.CodeAt(ctx, *op.To)
		if codeErr != nil {
			simulationCounter.WithLabelValues("estimate", "failed").Inc()
			return nil, transportError(codeErr)
		}
		if len(code) != 0 || isNodeRejection(err) {
			simulationCounter.WithLabelValues("estimate", "failed").Inc()
			return nil, classifyCallError(err)
		}
		s.logger.WithFields(logrus.Fields{
			"to":  op.To.String(),
			"err": err,
		}).Warning("Target has no code, use minimal transfer cost")
		gas = s.cfg.MinimalTransfer
		res.NoCode = true
	}

	if ceiling := s.cfg.ceiling(op); gas > ceiling {
		simulationCounter.WithLabelValues("estimate", "ceiling").Inc()
		return nil, fmt.Errorf("%w: estimated gas %d, ceiling %d", ErrCostCeilingExceeded, gas, ceiling)
	}
	res.Gas = gas
	res.Cost = s.cfg.cost(gas)
	simulationCounter.WithLabelValues("estimate", "success").Inc()
	return res, nil
}

// SimulatePredicate calls op against the pending state until the returned
// predicate holds, at most SimulationAttempts times. Transport errors stop
// the loop immediately.
func (s *Simulator) SimulatePredicate(ctx context.Context, op *Operation) (*SimulationResult, error) {
	var (
		attempts int
		ret      []byte
		fatal    error
	)
	msg := op.callMsg()
	err := retry.Retry(func(attempt uint) error {
		attempts = int(attempt)
		outcome, data, err := s.predicateAttempt(ctx, msg)
		switch outcome {
		case attemptSuccess:
			ret = data
			return nil
		case attemptFatal:
			fatal = err
			return nil
		default:
			return errPredicateFalse
		}
	}, strategy.Limit(s.cfg.SimulationAttempts), s.wait(ctx))
	simulationAttempts.Observe(float64(attempts))

	if fatal != nil {
		simulationCounter.WithLabelValues("predicate", "failed").Inc()
		return nil, fatal
	}
	if err != nil {
		simulationCounter.WithLabelValues("predicate", "exhausted").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: predicate remained false after %d attempts", ErrSimulationFailed, attempts)
	}

	s.logger.WithFields(logrus.Fields{
		"attempts": attempts,
		"op":       op.String(),
	}).Debug("Predicate simulation succeeded")
	simulationCounter.WithLabelValues("predicate", "success").Inc()
	return &SimulationResult{
		ReturnData: ret,
		Attempts:   attempts,
	}, nil
}

func (s *Simulator) predicateAttempt(ctx context.Context, msg ethereum.CallMsg) (attemptOutcome, []byte, error) {
	data, err := s.backend.CallContract(ctx, msg, true)
	if err != nil {
		return attemptFatal, nil, classifyCallError(err)
	}
	if !predicateHolds(data) {
		return attemptRetry, data, nil
	}
	return attemptSuccess, data, nil
}

// wait sleeps on the injected clock between attempts and gives up when ctx is done.
func (s *Simulator) wait(ctx context.Context) strategy.Strategy {
	return func(attempt uint) bool {
		if attempt == 0 {
			return true
		}
		if s.cfg.SimulationInterval <= 0 {
			return ctx.Err() == nil
		}
		timer := s.clock.Timer(s.cfg.SimulationInterval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		}
	}
}

// predicateHolds decodes the first returned word as a signed integer; abi
// encoded true and any positive number are success.
func predicateHolds(ret []byte) bool {
	if len(ret) == 0 {
		return false
	}
	if len(ret) > 32 {
		ret = ret[:32]
	}
	return math.S256(new(big.Int).SetBytes(ret)).Sign() > 0
}
