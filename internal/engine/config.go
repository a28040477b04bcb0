package engine

import (
	"math/big"
	"time"

	"github.com/axiomesh/axiom-txflow/pkg/repo"
)

// Config is the runtime view of repo.Config. The gas price is resolved once
// and stays fixed for the whole process.
type Config struct {
	GasPrice        *big.Int
	GasLimit        uint64
	GasFloor        uint64
	DeployGasLimit  uint64
	MinimalTransfer uint64

	SimulationAttempts uint
	SimulationInterval time.Duration

	ReceiptInterval   time.Duration
	InclusionInterval time.Duration
	SoftDeadline      time.Duration
	DeadlineExtension time.Duration
}

func NewConfig(cfg *repo.Config) *Config {
	return &Config{
		GasPrice:           cfg.Gas.Price.ToBigInt(),
		GasLimit:           cfg.Gas.Limit,
		GasFloor:           cfg.Gas.Floor,
		DeployGasLimit:     cfg.Gas.DeployLimit,
		MinimalTransfer:    cfg.Gas.MinimalTransfer,
		SimulationAttempts: cfg.Simulation.Attempts,
		SimulationInterval: cfg.Simulation.Interval.ToDuration(),
		ReceiptInterval:    cfg.Confirm.ReceiptInterval.ToDuration(),
		InclusionInterval:  cfg.Confirm.InclusionInterval.ToDuration(),
		SoftDeadline:       cfg.Confirm.SoftDeadline.ToDuration(),
		DeadlineExtension:  cfg.Confirm.DeadlineExtension.ToDuration(),
	}
}

func DefaultConfig() *Config {
	return NewConfig(repo.DefaultConfig())
}

func (c *Config) ceiling(op *Operation) uint64 {
	if op.GasLimit != 0 {
		return op.GasLimit
	}
	return c.GasLimit
}

func (c *Config) cost(gas uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(gas), c.GasPrice)
}
