//go:build amd64 || arm64

package hotpatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:noinline
func liveTarget() string {
	return "original"
}

//go:noinline
func liveReplacement() string {
	return "hooked"
}

//go:noinline
func liveTarget2(v int) int {
	return v + 1
}

//go:noinline
func liveReplacement2(v int) int {
	return v * 100
}

func liveAttachment(t *testing.T, original, replacement any) Attachment {
	t.Helper()

	orig, length, err := FuncEntry(original)
	require.NoError(t, err)
	require.GreaterOrEqual(t, length, jumpSize)

	repl, _, err := FuncEntry(replacement)
	require.NoError(t, err)

	return Attachment{Original: orig, Replacement: repl}
}

func TestJumpBackend_EndToEnd(t *testing.T) {
	assert := assert.New(t)

	store := NewStore(ProcessMemory{})
	engine := NewEngine(store, NewJumpBackend(store), nil)

	require.NoError(t, engine.Activate(
		liveAttachment(t, liveTarget, liveReplacement),
		liveAttachment(t, liveTarget2, liveReplacement2),
	))

	assert.Equal("hooked", liveTarget())
	assert.Equal(700, liveTarget2(7))

	engine.Deactivate()

	assert.Equal("original", liveTarget())
	assert.Equal(8, liveTarget2(7))
	assert.Equal(0, store.Active())
}

func TestJumpBackend_AbortLeavesOriginals(t *testing.T) {
	assert := assert.New(t)

	store := NewStore(ProcessMemory{})
	backend := NewJumpBackend(store)

	tx, err := Begin(backend)
	require.NoError(t, err)

	at := liveAttachment(t, liveTarget, liveReplacement)
	require.NoError(t, tx.Attach(at.Original, at.Replacement))
	require.NoError(t, tx.Abort())

	assert.Equal("original", liveTarget())
	assert.Equal(0, store.Active())
}

func TestJumpBackend_Detach(t *testing.T) {
	assert := assert.New(t)

	store := NewStore(ProcessMemory{})
	backend := NewJumpBackend(store)

	tx, err := Begin(backend)
	require.NoError(t, err)
	defer tx.Abort()

	at := liveAttachment(t, liveTarget, liveReplacement)
	require.NoError(t, tx.Attach(at.Original, at.Replacement))
	require.NoError(t, tx.Commit())

	assert.Equal("hooked", liveTarget())
	assert.True(backend.Detach(at.Original))
	assert.Equal("original", liveTarget())
	assert.False(backend.Detach(at.Original))
}

func TestJumpBackend_NestedBeginRefused(t *testing.T) {
	backend := NewJumpBackend(NewStore(ProcessMemory{}))

	require.NoError(t, backend.BeginTransaction())
	assert.ErrorIs(t, backend.BeginTransaction(), ErrInvalidState)
	require.NoError(t, backend.AbortTransaction())
}
