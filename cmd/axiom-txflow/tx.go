package main

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	txflowcommon "github.com/axiomesh/axiom-txflow/cmd/axiom-txflow/common"
	"github.com/axiomesh/axiom-txflow/internal/engine"
)

var txArgs = struct {
	To          string
	Data        string
	Value       string
	Known       string
	Nonce       uint64
	Gas         uint64
	Predicate   bool
	WaitReceipt bool
	FastRun     bool
	TestRun     bool
}{}

func toFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "to",
		Usage:       "Target address",
		Destination: &txArgs.To,
		Required:    required,
	}
}

func dataFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "data",
		Usage:       "Hex encoded payload",
		Destination: &txArgs.Data,
		Required:    required,
	}
}

func valueFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "value",
		Usage:       "Transferred value in wei",
		Destination: &txArgs.Value,
		Required:    false,
	}
}

func gasFlag() *cli.Uint64Flag {
	return &cli.Uint64Flag{
		Name:        "gas",
		Usage:       "Gas ceiling, default from config",
		Destination: &txArgs.Gas,
		Required:    false,
	}
}

func confirmFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "wait-receipt",
			Usage:       "Wait for the receipt instead of inclusion",
			Destination: &txArgs.WaitReceipt,
		},
		&cli.BoolFlag{
			Name:        "fast",
			Usage:       "Do not wait for confirmation",
			Destination: &txArgs.FastRun,
		},
		&cli.BoolFlag{
			Name:        "test",
			Usage:       "Simulate only, nothing is submitted",
			Destination: &txArgs.TestRun,
		},
	}
}

var simulateCMD = &cli.Command{
	Name:   "simulate",
	Usage:  "Estimate the gas of a call, optionally waiting until it reports success",
	Action: simulate,
	Flags: []cli.Flag{
		toFlag(true),
		dataFlag(false),
		valueFlag(),
		gasFlag(),
		&cli.BoolFlag{
			Name:        "predicate",
			Usage:       "Retry the call against pending state until it returns true or a positive number",
			Destination: &txArgs.Predicate,
		},
		txflowcommon.KeystorePasswordFlag(),
	},
}

var sendCMD = &cli.Command{
	Name:   "send",
	Usage:  "Submit a transaction and wait for its confirmation",
	Action: send,
	Flags: append([]cli.Flag{
		toFlag(true),
		dataFlag(false),
		valueFlag(),
		gasFlag(),
		&cli.Uint64Flag{
			Name:        "nonce",
			Usage:       "Nonce override, default assigned by the node",
			Destination: &txArgs.Nonce,
		},
		&cli.BoolFlag{
			Name:        "predicate",
			Usage:       "Gate the submission on a pending-state call that reports success",
			Destination: &txArgs.Predicate,
		},
		txflowcommon.KeystorePasswordFlag(),
	}, confirmFlags()...),
}

var deployCMD = &cli.Command{
	Name:   "deploy",
	Usage:  "Deploy a contract, or reuse a known address",
	Action: deploy,
	Flags: append([]cli.Flag{
		dataFlag(true),
		valueFlag(),
		gasFlag(),
		&cli.StringFlag{
			Name:        "known",
			Usage:       "Address of an existing deployment, skips submission",
			Destination: &txArgs.Known,
		},
		txflowcommon.KeystorePasswordFlag(),
	}, confirmFlags()...),
}

func simulate(ctx *cli.Context) error {
	s, err := txflowcommon.PrepareSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	op, err := buildOperation(s.Sender, ctx.IsSet("nonce"))
	if err != nil {
		return err
	}
	mode := engine.ModeEstimate
	if txArgs.Predicate {
		mode = engine.ModePredicate
	}
	res, err := s.Engine.Simulate(ctx.Context, op, engine.SimulateOptions{Mode: mode})
	if err != nil {
		return err
	}
	return txflowcommon.Pretty(simulationView{
		Gas:        res.Gas,
		Cost:       res.Cost.String(),
		ReturnData: res.ReturnData,
		Attempts:   res.Attempts,
		NoCode:     res.NoCode,
	})
}

func send(ctx *cli.Context) error {
	s, err := txflowcommon.PrepareSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	op, err := buildOperation(s.Sender, ctx.IsSet("nonce"))
	if err != nil {
		return err
	}
	opts := engine.SubmitOptions{
		WaitReceipt: txArgs.WaitReceipt,
		FastRun:     txArgs.FastRun,
		TestRun:     txArgs.TestRun,
	}
	if txArgs.Predicate {
		opts.Simulation.Mode = engine.ModePredicate
	}
	res, err := s.Engine.SubmitAndTrack(ctx.Context, op, opts)
	if err != nil {
		return err
	}
	return txflowcommon.Pretty(newConfirmationView(res))
}

func deploy(ctx *cli.Context) error {
	s, err := txflowcommon.PrepareSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	op, err := buildOperation(s.Sender, false)
	if err != nil {
		return err
	}
	opts := engine.DeployOptions{
		WaitReceipt: txArgs.WaitReceipt,
		FastRun:     txArgs.FastRun,
		TestRun:     txArgs.TestRun,
	}
	if txArgs.Known != "" {
		known, err := parseAddress(txArgs.Known)
		if err != nil {
			return err
		}
		opts.Known = &known
	}
	res, err := s.Engine.Deploy(ctx.Context, op, opts)
	if err != nil {
		return err
	}
	return txflowcommon.Pretty(newConfirmationView(res))
}

func buildOperation(from common.Address, withNonce bool) (*engine.Operation, error) {
	op := &engine.Operation{
		From:     from,
		GasLimit: txArgs.Gas,
	}
	if txArgs.To != "" {
		to, err := parseAddress(txArgs.To)
		if err != nil {
			return nil, err
		}
		op.To = &to
	}
	if txArgs.Data != "" {
		data, err := hexutil.Decode(txArgs.Data)
		if err != nil {
			return nil, errors.Wrap(err, "invalid data")
		}
		op.Data = data
	}
	if txArgs.Value != "" {
		v, ok := math.ParseBig256(txArgs.Value)
		if !ok || v.Sign() < 0 {
			return nil, errors.Errorf("invalid value %q", txArgs.Value)
		}
		op.Value = v
	}
	if withNonce {
		nonce := txArgs.Nonce
		op.Nonce = &nonce
	}
	return op, nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

type simulationView struct {
	Gas        uint64        `json:"gas"`
	Cost       string        `json:"cost"`
	ReturnData hexutil.Bytes `json:"return_data,omitempty"`
	Attempts   int           `json:"attempts,omitempty"`
	NoCode     bool          `json:"no_code,omitempty"`
}

type confirmationView struct {
	Hash            string          `json:"hash,omitempty"`
	Outcome         string          `json:"outcome"`
	BlockNumber     string          `json:"block_number,omitempty"`
	Elapsed         string          `json:"elapsed"`
	GasUsed         uint64          `json:"gas_used,omitempty"`
	Cost            string          `json:"cost"`
	Value           string          `json:"value"`
	ReturnData      hexutil.Bytes   `json:"return_data,omitempty"`
	ContractAddress *common.Address `json:"contract_address,omitempty"`
}

func newConfirmationView(res *engine.ConfirmationResult) confirmationView {
	v := confirmationView{
		Outcome:         res.Outcome.String(),
		Elapsed:         res.Elapsed.String(),
		GasUsed:         res.GasUsed,
		Cost:            bigString(res.Cost),
		Value:           bigString(res.Value),
		ReturnData:      res.ReturnData,
		ContractAddress: res.ContractAddress,
	}
	if res.Handle != nil && !res.Handle.Synthetic {
		v.Hash = res.Handle.Hash.String()
	}
	if res.BlockNumber != nil {
		v.BlockNumber = res.BlockNumber.String()
	}
	return v
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
