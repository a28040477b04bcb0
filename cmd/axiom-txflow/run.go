package main

import (
	"github.com/urfave/cli/v2"

	txflowcommon "github.com/axiomesh/axiom-txflow/cmd/axiom-txflow/common"
	"github.com/axiomesh/axiom-txflow/internal/engine"
	"github.com/axiomesh/axiom-txflow/internal/plan"
)

var runArgs = struct {
	Plan    string
	TestRun bool
	FastRun bool
}{}

var runCMD = &cli.Command{
	Name:   "run",
	Usage:  "Run the tasks of a plan file in order, stopping at the first failure",
	Action: run,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "plan",
			Usage:       "Plan file path (toml)",
			Destination: &runArgs.Plan,
			Required:    true,
		},
		&cli.BoolFlag{
			Name:        "test",
			Usage:       "Simulate every task, nothing is submitted",
			Destination: &runArgs.TestRun,
		},
		&cli.BoolFlag{
			Name:        "fast",
			Usage:       "Do not wait for confirmations",
			Destination: &runArgs.FastRun,
		},
		txflowcommon.KeystorePasswordFlag(),
	},
}

type taskView struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Address string `json:"address,omitempty"`
	confirmationView
}

type ledgerView struct {
	Completed  int        `json:"completed"`
	TotalCost  string     `json:"total_cost"`
	TotalValue string     `json:"total_value"`
	Tasks      []taskView `json:"tasks"`
}

func run(ctx *cli.Context) error {
	p, err := plan.Load(runArgs.Plan)
	if err != nil {
		return err
	}

	s, err := txflowcommon.PrepareSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	results := engine.NewResults()
	tasks, err := p.Build(s.Sender, results)
	if err != nil {
		return err
	}
	ledger, runErr := s.Engine.RunSequence(ctx.Context, tasks, runArgs.TestRun, runArgs.FastRun, engine.WithResults(results))
	if ledger != nil {
		if err := txflowcommon.Pretty(newLedgerView(ledger)); err != nil {
			return err
		}
	}
	return runErr
}

func newLedgerView(ledger *engine.SequenceLedger) ledgerView {
	v := ledgerView{
		Completed:  ledger.Completed,
		TotalCost:  bigString(ledger.TotalCost),
		TotalValue: bigString(ledger.TotalValue),
	}
	for _, res := range ledger.Results.List() {
		tv := taskView{
			Index: res.Index,
			Name:  res.Name,
			Kind:  res.Kind.String(),
		}
		if addr, ok := res.Address(); ok {
			tv.Address = addr.String()
		}
		if res.Confirmation != nil {
			tv.confirmationView = newConfirmationView(res.Confirmation)
		}
		v.Tasks = append(v.Tasks, tv)
	}
	return v
}
