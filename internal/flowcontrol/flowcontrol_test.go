package flowcontrol

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitions(t *testing.T) {
	f := New()
	require.Equal(t, Ready, f.State())

	require.ErrorIs(t, f.Stop(), ErrInvalidTransition)
	require.ErrorIs(t, f.Continue(), ErrInvalidTransition)
	require.Equal(t, Ready, f.State())

	require.True(t, f.Enter())
	require.Equal(t, Waiting, f.State())
	require.False(t, f.Enter())

	require.Nil(t, f.Stop())
	require.Equal(t, Stopping, f.State())
	require.ErrorIs(t, f.Stop(), ErrInvalidTransition)
	require.False(t, f.Enter())
	require.Equal(t, Stopping, f.State())

	require.Nil(t, f.Continue())
	require.Equal(t, Ready, f.State())

	require.True(t, f.Enter())
	require.Nil(t, f.Continue())
	require.Equal(t, Ready, f.State())

	require.True(t, f.Enter())
	f.Reset()
	require.Equal(t, Ready, f.State())
}

func TestLeaveKeepsStateForOtherWaits(t *testing.T) {
	f := New()
	require.True(t, f.Enter())
	require.False(t, f.Enter())
	require.Equal(t, 2, f.Waiters())

	// first wait finishes, the second one must not read it as a release
	f.Leave()
	require.Equal(t, Waiting, f.State())
	require.Equal(t, 1, f.Waiters())

	require.Nil(t, f.Stop())
	require.True(t, f.Enter())
	f.Leave()
	require.Equal(t, Stopping, f.State())
	f.Leave()
	require.Equal(t, Ready, f.State())
	require.Zero(t, f.Waiters())

	f.Leave()
	require.Equal(t, Ready, f.State())
	require.Zero(t, f.Waiters())
}

func TestRearm(t *testing.T) {
	f := New()
	require.True(t, f.Enter())
	require.False(t, f.Rearm())

	require.Nil(t, f.Continue())
	require.True(t, f.Rearm())
	require.Equal(t, Waiting, f.State())
	require.Equal(t, 1, f.Waiters())
	require.Nil(t, f.Stop())

	require.False(t, f.Rearm())
	require.Equal(t, Stopping, f.State())
}

func TestOperatorNeverEntersWaiting(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		f := New()
		for i := 0; i < 50; i++ {
			before := f.State()
			if r.Intn(2) == 0 {
				_ = f.Stop()
			} else {
				_ = f.Continue()
			}
			after := f.State()
			if before == Ready {
				require.Equal(t, Ready, after)
			}
			require.NotEqual(t, Waiting, after)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	f := New()
	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				switch (i + j) % 5 {
				case 0:
					f.Enter()
				case 1:
					f.Leave()
				case 2:
					_ = f.Stop()
				case 3:
					_ = f.Continue()
				default:
					_ = f.State().String()
				}
			}
		}(i)
	}
	wg.Wait()
	require.Contains(t, []State{Ready, Waiting, Stopping}, f.State())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "ready", Ready.String())
	require.Equal(t, "waiting", Waiting.String())
	require.Equal(t, "stopping", Stopping.String())
	require.Equal(t, "unknown(7)", State(7).String())
}
