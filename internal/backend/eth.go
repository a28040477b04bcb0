package backend

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var _ Backend = (*EthBackend)(nil)

// EthBackend talks JSON-RPC to an axiom-ledger (or any EVM compatible) node.
// Transactions from the configured key are signed locally, everything else
// goes through eth_sendTransaction with a node managed account.
type EthBackend struct {
	client    *ethclient.Client
	rpcClient *rpc.Client
	logger    logrus.FieldLogger

	signerKey  *ecdsa.PrivateKey
	signerAddr common.Address

	chainIDOnce sync.Once
	chainID     *big.Int
	chainIDErr  error
}

func Dial(ctx context.Context, url string, dialTimeout time.Duration, sk *ecdsa.PrivateKey, logger logrus.FieldLogger) (*EthBackend, error) {
	if dialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dialTimeout)
		defer cancel()
	}
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial rpc %s failed", url)
	}
	logger.WithField("url", url).Debug("Rpc client connected")
	return NewEthBackend(rpcClient, sk, logger), nil
}

func NewEthBackend(rpcClient *rpc.Client, sk *ecdsa.PrivateKey, logger logrus.FieldLogger) *EthBackend {
	b := &EthBackend{
		client:    ethclient.NewClient(rpcClient),
		rpcClient: rpcClient,
		logger:    logger,
		signerKey: sk,
	}
	if sk != nil {
		b.signerAddr = ethcrypto.PubkeyToAddress(sk.PublicKey)
	}
	return b
}

func (b *EthBackend) Close() {
	b.rpcClient.Close()
}

func (b *EthBackend) ChainID(ctx context.Context) (*big.Int, error) {
	b.chainIDOnce.Do(func() {
		b.chainID, b.chainIDErr = b.client.ChainID(ctx)
	})
	if b.chainIDErr != nil {
		return nil, errors.Wrap(b.chainIDErr, "get chain id failed")
	}
	return new(big.Int).Set(b.chainID), nil
}

func (b *EthBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := b.client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, errors.Wrap(err, "estimate gas failed")
	}
	return gas, nil
}

func (b *EthBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, pending bool) ([]byte, error) {
	var (
		ret []byte
		err error
	)
	if pending {
		ret, err = b.client.PendingCallContract(ctx, msg)
	} else {
		ret, err = b.client.CallContract(ctx, msg, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, "call contract failed")
	}
	return ret, nil
}

func (b *EthBackend) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	code, err := b.client.CodeAt(ctx, account, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "get code of %s failed", account)
	}
	return code, nil
}

func (b *EthBackend) SendTransaction(ctx context.Context, req *SendRequest) (common.Hash, error) {
	if b.signerKey != nil && req.From == b.signerAddr {
		return b.sendSigned(ctx, req)
	}
	return b.sendUnsigned(ctx, req)
}

func (b *EthBackend) sendSigned(ctx context.Context, req *SendRequest) (common.Hash, error) {
	chainID, err := b.ChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	var nonce uint64
	if req.Nonce != nil {
		nonce = *req.Nonce
	} else {
		nonce, err = b.client.PendingNonceAt(ctx, req.From)
		if err != nil {
			return common.Hash{}, errors.Wrapf(err, "get pending nonce of %s failed", req.From)
		}
	}

	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: req.GasPrice,
		Gas:      req.Gas,
		To:       req.To,
		Value:    value,
		Data:     req.Data,
	})
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), b.signerKey)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "sign tx failed")
	}
	if err := b.client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, errors.Wrap(err, "send tx failed")
	}
	b.logger.WithFields(logrus.Fields{
		"hash":  signedTx.Hash().String(),
		"nonce": nonce,
	}).Debug("Send signed tx")
	return signedTx.Hash(), nil
}

type sendTxArgs struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to,omitempty"`
	Gas      hexutil.Uint64  `json:"gas"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
	Value    *hexutil.Big    `json:"value,omitempty"`
	Nonce    *hexutil.Uint64 `json:"nonce,omitempty"`
	Data     hexutil.Bytes   `json:"data"`
}

func (b *EthBackend) sendUnsigned(ctx context.Context, req *SendRequest) (common.Hash, error) {
	args := sendTxArgs{
		From:     req.From,
		To:       req.To,
		Gas:      hexutil.Uint64(req.Gas),
		GasPrice: (*hexutil.Big)(req.GasPrice),
		Value:    (*hexutil.Big)(req.Value),
		Data:     req.Data,
	}
	if req.Nonce != nil {
		nonce := hexutil.Uint64(*req.Nonce)
		args.Nonce = &nonce
	}

	var hash common.Hash
	if err := b.rpcClient.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, errors.Wrap(err, "send tx failed")
	}
	b.logger.WithField("hash", hash.String()).Debug("Send tx through node account")
	return hash, nil
}

type rpcTxRecord struct {
	Hash        common.Hash     `json:"hash"`
	From        common.Address  `json:"from"`
	To          *common.Address `json:"to"`
	Nonce       hexutil.Uint64  `json:"nonce"`
	BlockNumber *hexutil.Big    `json:"blockNumber"`
}

func (b *EthBackend) TransactionByHash(ctx context.Context, hash common.Hash) (*TxRecord, error) {
	var raw *rpcTxRecord
	if err := b.rpcClient.CallContext(ctx, &raw, "eth_getTransactionByHash", hash); err != nil {
		return nil, errors.Wrapf(err, "get tx %s failed", hash)
	}
	if raw == nil {
		return nil, nil
	}
	record := &TxRecord{
		Hash:  raw.Hash,
		From:  raw.From,
		To:    raw.To,
		Nonce: uint64(raw.Nonce),
	}
	if raw.BlockNumber != nil {
		record.BlockNumber = raw.BlockNumber.ToInt()
	}
	return record, nil
}

func (b *EthBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	receipt, err := b.client.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get receipt of %s failed", hash)
	}
	return receipt, nil
}

type rpcBlockTxs struct {
	Transactions []common.Hash `json:"transactions"`
}

func (b *EthBackend) PendingTransactions(ctx context.Context) ([]common.Hash, error) {
	var block *rpcBlockTxs
	if err := b.rpcClient.CallContext(ctx, &block, "eth_getBlockByNumber", "pending", false); err != nil {
		return nil, errors.Wrap(err, "get pending block failed")
	}
	if block == nil {
		return nil, nil
	}
	return block.Transactions, nil
}
