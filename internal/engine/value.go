package engine

// Value is either a literal or a deferred evaluator. Deferred values are
// resolved right before the owning task runs, which lets a task consume the
// results of the tasks before it.
type Value[T any] struct {
	literal  T
	deferred func() (T, error)
}

func Literal[T any](v T) Value[T] {
	return Value[T]{literal: v}
}

func Deferred[T any](f func() (T, error)) Value[T] {
	return Value[T]{deferred: f}
}

func (v Value[T]) IsDeferred() bool {
	return v.deferred != nil
}

func (v Value[T]) Resolve() (T, error) {
	if v.deferred == nil {
		return v.literal, nil
	}
	return v.deferred()
}
