package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	lit := Literal(3)
	require.False(t, lit.IsDeferred())
	v, err := lit.Resolve()
	require.Nil(t, err)
	require.Equal(t, 3, v)

	calls := 0
	def := Deferred(func() (int, error) {
		calls++
		return 4, nil
	})
	require.True(t, def.IsDeferred())
	v, err = def.Resolve()
	require.Nil(t, err)
	require.Equal(t, 4, v)
	require.Equal(t, 1, calls)

	_, err = Deferred(func() (int, error) { return 0, errors.New("unresolved") }).Resolve()
	require.EqualError(t, err, "unresolved")

	var zero Value[[]byte]
	b, err := zero.Resolve()
	require.Nil(t, err)
	require.Nil(t, b)
}
