package engine

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-txflow/internal/backend"
)

// Submitter issues the state-changing call. It never waits for inclusion.
type Submitter struct {
	backend backend.Backend
	cfg     *Config
	clock   clock.Clock
	logger  logrus.FieldLogger
}

func NewSubmitter(b backend.Backend, cfg *Config, clk clock.Clock, logger logrus.FieldLogger) *Submitter {
	return &Submitter{
		backend: b,
		cfg:     cfg,
		clock:   clk,
		logger:  logger,
	}
}

// GasFor returns the gas sent with op: the larger of its ceiling and the floor.
func (s *Submitter) GasFor(op *Operation) uint64 {
	return max(s.cfg.ceiling(op), s.cfg.GasFloor)
}

// Submit sends op and returns its handle once the ledger accepted it. In test
// mode a synthetic handle is returned and the network is never touched.
func (s *Submitter) Submit(ctx context.Context, op *Operation, testMode bool) (*Handle, error) {
	if testMode {
		submittedCounter.WithLabelValues("synthetic").Inc()
		return &Handle{
			Hash:        common.Hash{},
			From:        op.From,
			Nonce:       op.Nonce,
			Synthetic:   true,
			SubmittedAt: s.clock.Now(),
		}, nil
	}

	gas := s.GasFor(op)
	hash, err := s.backend.SendTransaction(ctx, &backend.SendRequest{
		From:     op.From,
		To:       op.To,
		Data:     op.Data,
		Value:    op.Value,
		Gas:      gas,
		GasPrice: s.cfg.GasPrice,
		Nonce:    op.Nonce,
	})
	if err != nil {
		return nil, transportError(err)
	}

	kind := "call"
	if op.IsCreation() {
		kind = "create"
	}
	submittedCounter.WithLabelValues(kind).Inc()
	s.logger.WithFields(logrus.Fields{
		"hash": hash.String(),
		"from": op.From.String(),
		"gas":  gas,
		"kind": kind,
	}).Debug("Tx submitted")
	return &Handle{
		Hash:        hash,
		From:        op.From,
		Nonce:       op.Nonce,
		SubmittedAt: s.clock.Now(),
	}, nil
}
