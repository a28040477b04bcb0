package flowcontrol

import (
	"errors"
	"fmt"

	"go.uber.org/atomic"
)

type State uint32

const (
	Ready State = iota
	Waiting
	Stopping
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Waiting:
		return "waiting"
	case Stopping:
		return "stopping"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(s))
	}
}

var ErrInvalidTransition = errors.New("invalid flow control transition")

// FlowControl is shared by every confirmation wait of a run and by the
// operator console. Only waits move the state into Waiting.
//
// The state and the number of active waits live in one word: the state in
// the low 32 bits, the waiter count in the high 32 bits. The state returns to
// Ready on its own only when the last wait leaves.
type FlowControl struct {
	word *atomic.Uint64
}

func pack(state State, waiters uint32) uint64 {
	return uint64(waiters)<<32 | uint64(state)
}

func unpack(word uint64) (State, uint32) {
	return State(uint32(word)), uint32(word >> 32)
}

func New() *FlowControl {
	return &FlowControl{word: atomic.NewUint64(pack(Ready, 0))}
}

func (f *FlowControl) State() State {
	state, _ := unpack(f.word.Load())
	return state
}

// Waiters is the number of waits that entered and have not left yet.
func (f *FlowControl) Waiters() int {
	_, waiters := unpack(f.word.Load())
	return int(waiters)
}

// Enter registers a wait. Ready moves to Waiting; an operator driven state is
// never overwritten. The returned bool reports whether the state moved.
func (f *FlowControl) Enter() bool {
	for {
		old := f.word.Load()
		state, waiters := unpack(old)
		next := state
		if state == Ready {
			next = Waiting
		}
		if f.word.CompareAndSwap(old, pack(next, waiters+1)) {
			return next != state
		}
	}
}

// Rearm moves a released state back to Waiting for a wait that still needs
// to poll. It does not register a new wait.
func (f *FlowControl) Rearm() bool {
	for {
		old := f.word.Load()
		state, waiters := unpack(old)
		if state != Ready {
			return false
		}
		if f.word.CompareAndSwap(old, pack(Waiting, waiters)) {
			return true
		}
	}
}

// Leave unregisters a wait on its terminal state. The last wait to leave
// restores Ready; earlier ones keep the state for the waits still running.
func (f *FlowControl) Leave() {
	for {
		old := f.word.Load()
		state, waiters := unpack(old)
		if waiters > 0 {
			waiters--
		}
		if waiters == 0 {
			state = Ready
		}
		if f.word.CompareAndSwap(old, pack(state, waiters)) {
			return
		}
	}
}

// Stop requests abandonment of the current waits.
func (f *FlowControl) Stop() error {
	for {
		old := f.word.Load()
		state, waiters := unpack(old)
		if state != Waiting {
			return fmt.Errorf("%w: stop from %s", ErrInvalidTransition, state)
		}
		if f.word.CompareAndSwap(old, pack(Stopping, waiters)) {
			return nil
		}
	}
}

// Continue clears a pending stop, or forces the current waits to succeed.
func (f *FlowControl) Continue() error {
	for {
		old := f.word.Load()
		state, waiters := unpack(old)
		if state == Ready {
			return fmt.Errorf("%w: continue from %s", ErrInvalidTransition, state)
		}
		if f.word.CompareAndSwap(old, pack(Ready, waiters)) {
			return nil
		}
	}
}

// Reset drops every registered wait and returns to Ready.
func (f *FlowControl) Reset() {
	f.word.Store(pack(Ready, 0))
}
