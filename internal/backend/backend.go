package backend

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

//go:generate mockgen -destination mock_backend/mock_backend.go -package mock_backend -source backend.go -typed
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)

	// EstimateGas asks the remote ledger for the gas an operation would use.
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)

	// CallContract executes a read-only call, against the pending block when pending is set.
	CallContract(ctx context.Context, msg ethereum.CallMsg, pending bool) ([]byte, error)

	CodeAt(ctx context.Context, account common.Address) ([]byte, error)

	// SendTransaction returns as soon as the remote ledger accepted the transaction.
	SendTransaction(ctx context.Context, req *SendRequest) (common.Hash, error)

	// TransactionByHash returns nil when the transaction is unknown.
	TransactionByHash(ctx context.Context, hash common.Hash) (*TxRecord, error)

	// TransactionReceipt returns nil when no receipt is available yet.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)

	// PendingTransactions lists the transaction hashes of the pending block.
	PendingTransactions(ctx context.Context) ([]common.Hash, error)
}

type SendRequest struct {
	From     common.Address
	To       *common.Address
	Data     []byte
	Value    *big.Int
	Gas      uint64
	GasPrice *big.Int

	// Nonce is assigned by the remote side when nil.
	Nonce *uint64
}

type TxRecord struct {
	Hash  common.Hash
	From  common.Address
	To    *common.Address
	Nonce uint64

	// BlockNumber is nil while the transaction is pending.
	BlockNumber *big.Int
}

func (r *TxRecord) Mined() bool {
	return r != nil && r.BlockNumber != nil
}
