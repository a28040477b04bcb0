package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type DeployOptions struct {
	// Known skips the deployment and returns this address.
	Known       *common.Address
	WaitReceipt bool
	FastRun     bool
	TestRun     bool
}

// Gateway deploys contracts on top of the submitter and the tracker.
type Gateway struct {
	cfg       *Config
	submitter *Submitter
	tracker   *Tracker
	logger    logrus.FieldLogger
}

func NewGateway(cfg *Config, submitter *Submitter, tracker *Tracker, logger logrus.FieldLogger) *Gateway {
	return &Gateway{
		cfg:       cfg,
		submitter: submitter,
		tracker:   tracker,
		logger:    logger,
	}
}

func (g *Gateway) Deploy(ctx context.Context, op *Operation, opts DeployOptions) (*ConfirmationResult, error) {
	if opts.Known != nil {
		g.logger.WithField("address", opts.Known.String()).Info("Contract already deployed, skip")
		return &ConfirmationResult{
			Outcome:         OutcomeKnown,
			Value:           big0(),
			Cost:            big0(),
			ContractAddress: lo.ToPtr(*opts.Known),
		}, nil
	}
	if !op.IsCreation() {
		return nil, errors.New("deploy operation must not have a target address")
	}

	op = op.Clone()
	if op.GasLimit == 0 {
		op.GasLimit = g.cfg.DeployGasLimit
	}
	h, err := g.submitter.Submit(ctx, op, opts.TestRun)
	if err != nil {
		return nil, err
	}
	if h.Synthetic {
		return &ConfirmationResult{
			Handle:          h,
			Outcome:         OutcomeSynthetic,
			Cost:            g.cfg.cost(g.submitter.GasFor(op)),
			Value:           op.value(),
			ContractAddress: &common.Address{},
		}, nil
	}

	var res *ConfirmationResult
	if opts.WaitReceipt {
		res, err = g.tracker.WaitReceipt(ctx, h)
		if err != nil {
			return nil, err
		}
		if res.Reverted {
			return res, fmt.Errorf("%w: %s", ErrExecutionFailed, h.Hash)
		}
		if res.ContractAddress == nil {
			// released by the operator before the receipt showed up
			addr, err := g.derive(ctx, h)
			if err != nil {
				return nil, err
			}
			res.ContractAddress = &addr
		}
	} else {
		addr, err := g.derive(ctx, h)
		if err != nil {
			return nil, err
		}
		if opts.FastRun {
			res = &ConfirmationResult{Handle: h, Outcome: OutcomeSkipped}
		} else {
			res, err = g.tracker.WaitInclusion(ctx, h)
			if err != nil {
				return nil, err
			}
		}
		res.ContractAddress = &addr
	}
	res.Value = op.value()
	if res.Cost == nil {
		// no receipt, account the whole gas ceiling
		res.Cost = g.cfg.cost(g.submitter.GasFor(op))
	}

	g.logger.WithFields(logrus.Fields{
		"address": res.ContractAddress.String(),
		"hash":    h.Hash.String(),
		"outcome": res.Outcome.String(),
	}).Info("Contract deployed")
	return res, nil
}

// derive computes the contract address from the sender and nonce of the transaction.
func (g *Gateway) derive(ctx context.Context, h *Handle) (common.Address, error) {
	if h.Nonce != nil {
		return ethcrypto.CreateAddress(h.From, *h.Nonce), nil
	}
	record, err := g.tracker.AwaitRecord(ctx, h)
	if err != nil {
		return common.Address{}, err
	}
	return ethcrypto.CreateAddress(record.From, record.Nonce), nil
}
