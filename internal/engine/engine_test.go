package engine

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/axiomesh/axiom-txflow/internal/backend"
	"github.com/axiomesh/axiom-txflow/internal/backend/mock_backend"
	"github.com/axiomesh/axiom-txflow/internal/flowcontrol"
)

var (
	senderAddr   = common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	contractAddr = common.HexToAddress("0x1000000000000000000000000000000000000001")
	plainAddr    = common.HexToAddress("0x2000000000000000000000000000000000000002")

	trueWord  = common.LeftPadBytes([]byte{1}, 32)
	falseWord = make([]byte, 32)
)

// revertError mimics the error object a node returns for a reverted call.
type revertError struct{}

func (revertError) Error() string  { return "execution reverted" }
func (revertError) ErrorCode() int { return 3 }

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.SimulationInterval = 0
	cfg.ReceiptInterval = time.Millisecond
	cfg.InclusionInterval = time.Millisecond
	return cfg
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *mock_backend.MockBackend, *test.Hook) {
	ctrl := gomock.NewController(t)
	b := mock_backend.NewMockBackend(ctrl)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return New(b, testConfig(), logger, opts...), b, hook
}

func countEntries(hook *test.Hook, level logrus.Level, msg string) int {
	n := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == level && entry.Message == msg {
			n++
		}
	}
	return n
}

func callOp(to common.Address, data []byte) *Operation {
	return &Operation{
		From: senderAddr,
		To:   &to,
		Data: data,
	}
}

func TestSimulateGatesSubmission(t *testing.T) {
	e, b, _ := newTestEngine(t)
	b.EXPECT().CallContract(gomock.Any(), gomock.Any(), true).Return(falseWord, nil).Times(100)

	res, err := e.SubmitAndTrack(context.Background(), callOp(contractAddr, []byte{0x01}), SubmitOptions{
		WaitReceipt: true,
		Simulation:  SimulateOptions{Mode: ModePredicate},
	})
	require.Nil(t, res)
	require.ErrorIs(t, err, ErrSimulationFailed)
	require.Contains(t, err.Error(), "predicate remained false after 100 attempts")
	require.Equal(t, flowcontrol.Ready, e.FlowControl().State())
}

func TestSubmitAndTrackReceipt(t *testing.T) {
	e, b, _ := newTestEngine(t)
	hash := common.HexToHash("0x01")
	op := callOp(contractAddr, []byte{0xde, 0xad, 0xbe, 0xef})
	op.Value = big.NewInt(10)

	b.EXPECT().CallContract(gomock.Any(), gomock.Any(), true).Return(trueWord, nil)
	b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(30000), nil)
	b.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *backend.SendRequest) (common.Hash, error) {
		require.Equal(t, senderAddr, req.From)
		require.Equal(t, &contractAddr, req.To)
		require.EqualValues(t, e.cfg.GasLimit, req.Gas)
		require.Equal(t, e.cfg.GasPrice, req.GasPrice)
		require.Nil(t, req.Nonce)
		return hash, nil
	})
	b.EXPECT().TransactionReceipt(gomock.Any(), hash).Return(nil, nil)
	b.EXPECT().TransactionReceipt(gomock.Any(), hash).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(12),
		GasUsed:     25000,
	}, nil)

	res, err := e.SubmitAndTrack(context.Background(), op, SubmitOptions{
		WaitReceipt: true,
		Simulation:  SimulateOptions{Mode: ModePredicate},
	})
	require.Nil(t, err)
	require.Equal(t, OutcomeConfirmed, res.Outcome)
	require.EqualValues(t, 12, res.BlockNumber.Int64())
	require.Equal(t, hash, res.Handle.Hash)
	require.Equal(t, trueWord, res.ReturnData)
	require.Equal(t, e.cfg.cost(25000), res.Cost)
	require.EqualValues(t, 10, res.Value.Int64())
	require.Equal(t, flowcontrol.Ready, e.FlowControl().State())
}

func TestSubmitAndTrackReverted(t *testing.T) {
	e, b, _ := newTestEngine(t)
	hash := common.HexToHash("0x02")
	b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(30000), nil)
	b.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(hash, nil)
	b.EXPECT().TransactionReceipt(gomock.Any(), hash).Return(&types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(3),
		GasUsed:     30000,
	}, nil)

	res, err := e.SubmitAndTrack(context.Background(), callOp(contractAddr, nil), SubmitOptions{WaitReceipt: true})
	require.ErrorIs(t, err, ErrExecutionFailed)
	require.NotNil(t, res)
	require.True(t, res.Reverted)
}

func TestSubmitAndTrackInclusionByDefault(t *testing.T) {
	e, b, _ := newTestEngine(t)
	hash := common.HexToHash("0x03")
	b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(21000), nil)
	b.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(hash, nil)
	b.EXPECT().TransactionByHash(gomock.Any(), hash).Return(&backend.TxRecord{Hash: hash, BlockNumber: big.NewInt(4)}, nil)

	res, err := e.SubmitAndTrack(context.Background(), callOp(plainAddr, nil), SubmitOptions{})
	require.Nil(t, err)
	require.Equal(t, OutcomeConfirmed, res.Outcome)
	require.EqualValues(t, 4, res.BlockNumber.Int64())
	require.Equal(t, e.cfg.cost(21000), res.Cost)
}

func TestSubmitTransportError(t *testing.T) {
	e, b, _ := newTestEngine(t)
	b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(21000), nil)
	b.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).Return(common.Hash{}, errors.New("connection refused"))

	_, err := e.SubmitAndTrack(context.Background(), callOp(plainAddr, nil), SubmitOptions{WaitReceipt: true})
	require.ErrorIs(t, err, ErrTransport)
}

func TestSubmitterGas(t *testing.T) {
	cfg := testConfig()
	s := NewSubmitter(nil, cfg, nil, logrus.New())

	op := callOp(plainAddr, nil)
	require.Equal(t, cfg.GasLimit, s.GasFor(op))

	op.GasLimit = 100
	require.Equal(t, cfg.GasFloor, s.GasFor(op))

	op.GasLimit = 90000
	require.EqualValues(t, 90000, s.GasFor(op))
}

func TestSubmitterNonceOverride(t *testing.T) {
	e, b, _ := newTestEngine(t)
	nonce := uint64(17)
	op := callOp(plainAddr, nil)
	op.Nonce = &nonce
	b.EXPECT().SendTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *backend.SendRequest) (common.Hash, error) {
		require.NotNil(t, req.Nonce)
		require.EqualValues(t, 17, *req.Nonce)
		return common.HexToHash("0x04"), nil
	})

	h, err := e.submitter.Submit(context.Background(), op, false)
	require.Nil(t, err)
	require.False(t, h.Synthetic)
	require.EqualValues(t, 17, *h.Nonce)
}

func TestSubmitterTestMode(t *testing.T) {
	e, _, _ := newTestEngine(t)
	h, err := e.submitter.Submit(context.Background(), callOp(plainAddr, nil), true)
	require.Nil(t, err)
	require.True(t, h.Synthetic)
	require.Equal(t, common.Hash{}, h.Hash)
	require.Equal(t, senderAddr, h.From)
}

func TestOperationClone(t *testing.T) {
	nonce := uint64(1)
	op := callOp(contractAddr, []byte{1, 2})
	op.Value = big.NewInt(5)
	op.Nonce = &nonce

	cp := op.Clone()
	cp.Data[0] = 9
	cp.Value.SetInt64(6)
	*cp.Nonce = 2
	*cp.To = plainAddr

	require.Equal(t, []byte{1, 2}, op.Data)
	require.EqualValues(t, 5, op.Value.Int64())
	require.EqualValues(t, 1, *op.Nonce)
	require.Equal(t, contractAddr, *op.To)
	require.False(t, op.IsCreation())
	require.True(t, (&Operation{}).IsCreation())
}

func TestCallMsg(t *testing.T) {
	op := callOp(contractAddr, []byte{1})
	require.Equal(t, ethereum.CallMsg{From: senderAddr, To: &contractAddr, Data: []byte{1}}, op.callMsg())
}
