package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEstimate(t *testing.T) {
	e, b, _ := newTestEngine(t)
	b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(46000), nil)

	res, err := e.simulator.Estimate(context.Background(), callOp(contractAddr, []byte{1}))
	require.Nil(t, err)
	require.EqualValues(t, 46000, res.Gas)
	require.Equal(t, e.cfg.cost(46000), res.Cost)
	require.False(t, res.NoCode)
	require.Zero(t, res.Attempts)
}

// nodeError is a json-rpc error response carrying a node validation message.
type nodeError struct{ msg string }

func (e nodeError) Error() string  { return e.msg }
func (e nodeError) ErrorCode() int { return -32000 }

func TestEstimateNoCodeTarget(t *testing.T) {
	e, b, hook := newTestEngine(t)
	b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(0), errors.New("no code at target"))
	b.EXPECT().CodeAt(gomock.Any(), plainAddr).Return(nil, nil)

	res, err := e.simulator.Estimate(context.Background(), callOp(plainAddr, nil))
	require.Nil(t, err)
	require.NotErrorIs(t, err, ErrTransport)
	require.True(t, res.NoCode)
	require.EqualValues(t, 21000, res.Gas)
	require.Equal(t, e.cfg.cost(21000), res.Cost)
	require.Equal(t, 1, countEntries(hook, logrus.WarnLevel, "Target has no code, use minimal transfer cost"))
}

func TestEstimateNoCodeTargetNodeRejection(t *testing.T) {
	for _, msg := range []string{
		"insufficient funds for gas * price + value: address 0x1000 have 0 want 21000",
		"nonce too low: address 0x1000, tx: 3 state: 5",
		"intrinsic gas too low: have 100, want 21000",
	} {
		t.Run(msg, func(t *testing.T) {
			e, b, hook := newTestEngine(t)
			b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(0), nodeError{msg: msg})
			b.EXPECT().CodeAt(gomock.Any(), plainAddr).Return(nil, nil)

			_, err := e.simulator.Estimate(context.Background(), callOp(plainAddr, nil))
			require.ErrorIs(t, err, ErrSimulationFailed)
			require.Contains(t, err.Error(), msg)
			require.Zero(t, countEntries(hook, logrus.WarnLevel, "Target has no code, use minimal transfer cost"))
		})
	}

	t.Run("other node error keeps the fallback", func(t *testing.T) {
		e, b, _ := newTestEngine(t)
		b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(0), nodeError{msg: "method handler crashed"})
		b.EXPECT().CodeAt(gomock.Any(), plainAddr).Return(nil, nil)

		res, err := e.simulator.Estimate(context.Background(), callOp(plainAddr, nil))
		require.Nil(t, err)
		require.True(t, res.NoCode)
	})
}

func TestEstimateFailures(t *testing.T) {
	t.Run("revert on contract", func(t *testing.T) {
		e, b, _ := newTestEngine(t)
		b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(0), revertError{})
		b.EXPECT().CodeAt(gomock.Any(), contractAddr).Return([]byte{0x60}, nil)

		_, err := e.simulator.Estimate(context.Background(), callOp(contractAddr, nil))
		require.ErrorIs(t, err, ErrSimulationFailed)
		require.NotErrorIs(t, err, ErrTransport)
	})

	t.Run("transport on contract", func(t *testing.T) {
		e, b, _ := newTestEngine(t)
		b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(0), errors.New("connection reset"))
		b.EXPECT().CodeAt(gomock.Any(), contractAddr).Return([]byte{0x60}, nil)

		_, err := e.simulator.Estimate(context.Background(), callOp(contractAddr, nil))
		require.ErrorIs(t, err, ErrTransport)
	})

	t.Run("code lookup failed", func(t *testing.T) {
		e, b, _ := newTestEngine(t)
		b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(0), errors.New("timeout"))
		b.EXPECT().CodeAt(gomock.Any(), plainAddr).Return(nil, errors.New("timeout"))

		_, err := e.simulator.Estimate(context.Background(), callOp(plainAddr, nil))
		require.ErrorIs(t, err, ErrTransport)
	})

	t.Run("creation", func(t *testing.T) {
		e, b, _ := newTestEngine(t)
		b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(0), revertError{})

		_, err := e.simulator.Estimate(context.Background(), &Operation{From: senderAddr, Data: []byte{0x60}})
		require.ErrorIs(t, err, ErrSimulationFailed)
	})

	t.Run("ceiling", func(t *testing.T) {
		e, b, _ := newTestEngine(t)
		b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(50000), nil)

		op := callOp(contractAddr, nil)
		op.GasLimit = 40000
		_, err := e.simulator.Estimate(context.Background(), op)
		require.ErrorIs(t, err, ErrCostCeilingExceeded)
	})
}

func TestCostCeilingStopsSubmission(t *testing.T) {
	e, b, _ := newTestEngine(t)
	b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(e.cfg.GasLimit+1, nil)

	_, err := e.SubmitAndTrack(context.Background(), callOp(contractAddr, nil), SubmitOptions{})
	require.ErrorIs(t, err, ErrCostCeilingExceeded)
}

func TestSimulatePredicateSucceedsOnLastAttempt(t *testing.T) {
	e, b, _ := newTestEngine(t)
	calls := 0
	b.EXPECT().CallContract(gomock.Any(), gomock.Any(), true).DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ bool) ([]byte, error) {
		calls++
		if calls < 100 {
			return falseWord, nil
		}
		return trueWord, nil
	}).Times(100)

	res, err := e.simulator.SimulatePredicate(context.Background(), callOp(contractAddr, []byte{1}))
	require.Nil(t, err)
	require.Equal(t, 100, res.Attempts)
	require.Equal(t, trueWord, res.ReturnData)
}

func TestSimulatePredicateTransportErrorIsFatal(t *testing.T) {
	e, b, _ := newTestEngine(t)
	b.EXPECT().CallContract(gomock.Any(), gomock.Any(), true).Return(falseWord, nil).Times(2)
	b.EXPECT().CallContract(gomock.Any(), gomock.Any(), true).Return(nil, errors.New("connection refused")).Times(1)

	_, err := e.simulator.SimulatePredicate(context.Background(), callOp(contractAddr, nil))
	require.ErrorIs(t, err, ErrTransport)
}

func TestSimulatePredicateNumericSuccess(t *testing.T) {
	e, b, _ := newTestEngine(t)
	b.EXPECT().CallContract(gomock.Any(), gomock.Any(), true).Return(common.LeftPadBytes([]byte{0x02, 0x00}, 32), nil)

	res, err := e.simulator.SimulatePredicate(context.Background(), callOp(contractAddr, nil))
	require.Nil(t, err)
	require.Equal(t, 1, res.Attempts)
}

func TestSimulatePredicateContextCancel(t *testing.T) {
	e, b, _ := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	b.EXPECT().CallContract(gomock.Any(), gomock.Any(), true).DoAndReturn(func(context.Context, ethereum.CallMsg, bool) ([]byte, error) {
		cancel()
		return falseWord, nil
	})

	_, err := e.simulator.SimulatePredicate(ctx, callOp(contractAddr, nil))
	require.ErrorIs(t, err, context.Canceled)
}

func TestPredicateHolds(t *testing.T) {
	require.False(t, predicateHolds(nil))
	require.False(t, predicateHolds(falseWord))
	require.True(t, predicateHolds(trueWord))
	require.True(t, predicateHolds([]byte{0x05}))
	require.True(t, predicateHolds(append(common.LeftPadBytes([]byte{1}, 32), falseWord...)))
	require.False(t, predicateHolds(math.U256Bytes(math.S256(math.MaxBig256))))
}
