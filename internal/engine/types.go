package engine

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// Operation describes a state-changing call that has not been submitted yet.
// Data is an opaque payload produced by an external encoder.
type Operation struct {
	From common.Address

	// To is nil for contract creation.
	To    *common.Address
	Data  []byte
	Value *big.Int

	// Nonce overrides remote assignment when set.
	Nonce *uint64

	// GasLimit is the caller's gas ceiling, 0 means the configured default.
	GasLimit uint64
}

func (op *Operation) IsCreation() bool {
	return op.To == nil
}

func (op *Operation) Clone() *Operation {
	cp := &Operation{
		From:     op.From,
		Data:     common.CopyBytes(op.Data),
		GasLimit: op.GasLimit,
	}
	if op.To != nil {
		cp.To = lo.ToPtr(*op.To)
	}
	if op.Value != nil {
		cp.Value = new(big.Int).Set(op.Value)
	}
	if op.Nonce != nil {
		cp.Nonce = lo.ToPtr(*op.Nonce)
	}
	return cp
}

func (op *Operation) value() *big.Int {
	if op.Value == nil {
		return big.NewInt(0)
	}
	return op.Value
}

func (op *Operation) callMsg() ethereum.CallMsg {
	return ethereum.CallMsg{
		From:  op.From,
		To:    op.To,
		Value: op.Value,
		Data:  op.Data,
	}
}

func (op *Operation) String() string {
	to := "<create>"
	if op.To != nil {
		to = op.To.String()
	}
	return fmt.Sprintf("from=%s to=%s value=%s data_len=%d", op.From, to, op.value(), len(op.Data))
}

type SimulationResult struct {
	Gas        uint64
	Cost       *big.Int
	ReturnData []byte

	// Attempts is the number of predicate calls made, 0 for a direct estimate.
	Attempts int

	// NoCode reports that the target has no code and the minimal transfer cost was applied.
	NoCode bool
}

// Handle identifies a submitted transaction until it is confirmed or abandoned.
type Handle struct {
	Hash  common.Hash
	From  common.Address
	Nonce *uint64

	// Synthetic handles come from test mode and never reached the network.
	Synthetic   bool
	SubmittedAt time.Time
}

type Outcome int

const (
	// OutcomeConfirmed means the ledger reported the transaction as included.
	OutcomeConfirmed Outcome = iota
	// OutcomeForced means the operator released the wait before inclusion was seen.
	OutcomeForced
	// OutcomeSkipped means confirmation was not waited for (fast run).
	OutcomeSkipped
	// OutcomeSynthetic means nothing was submitted (test run).
	OutcomeSynthetic
	// OutcomeKnown means a deployment was skipped because its address was supplied.
	OutcomeKnown
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeForced:
		return "forced"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeSynthetic:
		return "synthetic"
	case OutcomeKnown:
		return "known"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

type ConfirmationResult struct {
	Handle *Handle

	// BlockNumber is nil when inclusion was not observed.
	BlockNumber *big.Int
	Elapsed     time.Duration
	ReturnData  []byte
	GasUsed     uint64
	Cost        *big.Int
	Value       *big.Int
	Outcome     Outcome

	// Reverted is set when the receipt reports a failed execution.
	Reverted bool

	ContractAddress *common.Address
}

func big0() *big.Int {
	return big.NewInt(0)
}
