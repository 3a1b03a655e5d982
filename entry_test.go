package hotpatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:noinline
func entryProbe() int {
	return 42
}

func TestFuncEntry(t *testing.T) {
	addr, length, err := FuncEntry(entryProbe)
	require.NoError(t, err)
	assert.NotZero(t, addr)
	assert.GreaterOrEqual(t, length, jumpSize)
}

func TestFuncEntry_NotAFunction(t *testing.T) {
	for _, v := range []any{"nope", 42, []int{1}, nil} {
		_, _, err := FuncEntry(v)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}
