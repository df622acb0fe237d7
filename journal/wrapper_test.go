package journal

import (
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qtumproject/neutron-core/kvstore"
)

func newTestWrapper() *Wrapper {
	return New(kvstore.Wrap(memdb.New()))
}

func TestConstructorStartsWithOneCheckpoint(t *testing.T) {
	w := newTestWrapper()
	assert.Equal(t, 1, w.Depth())
}

// P1: journal fallthrough.
func TestReadFallsThroughToStoreWhenAbsentFromJournal(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	require.NoError(t, store.Write([]byte("k"), []byte("from-disk")))
	w := New(store)

	v, found, err := w.rawRead([]byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("from-disk"), v)
}

func TestWriteShadowsStore(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	require.NoError(t, store.Write([]byte("k"), []byte("from-disk")))
	w := New(store)
	w.rawWrite([]byte("k"), []byte("from-journal"))

	v, found, err := w.rawRead([]byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("from-journal"), v)
}

// Exercises the fixed read-fallthrough: a write in an older (non-top)
// checkpoint must still be visible even though the top checkpoint never
// saw that key.
func TestReadScansEveryCheckpointNotJustTop(t *testing.T) {
	w := newTestWrapper()
	w.rawWrite([]byte("k"), []byte("v1"))
	w.Checkpoint()
	w.rawWrite([]byte("other"), []byte("v2"))

	v, found, err := w.rawRead([]byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v1"), v)
}

// Tombstone (empty-value) entries must be visible as present-with-empty,
// not fall through to disk (scenario 7 / §4.3 observation).
func TestTombstoneReadVisibleBeforeCommit(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	w.rawWrite([]byte("k"), []byte("v"))
	require.NoError(t, w.Commit())

	w.rawWrite([]byte("k"), []byte(""))
	v, found, err := w.rawRead([]byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, v)

	require.NoError(t, w.Commit())
	_, found, err = store.Read([]byte("k"))
	require.NoError(t, err)
	assert.False(t, found)
}

// P2: revert idempotence.
func TestRevertUndoesAllWritesSinceCheckpoint(t *testing.T) {
	w := newTestWrapper()
	w.rawWrite([]byte("k"), []byte("v1"))
	w.Checkpoint()
	w.rawWrite([]byte("k"), []byte("v2"))
	w.Revert()

	v, found, err := w.rawRead([]byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v1"), v)
	assert.Equal(t, 1, w.Depth())
}

func TestRevertAtBaseCheckpointIsNoOp(t *testing.T) {
	w := newTestWrapper()
	assert.Equal(t, 0, w.Revert())
	assert.Equal(t, 1, w.Depth())
}

// P3: condense_all equivalent to repeated condense_single.
func TestCondenseAllEquivalentToRepeatedCondenseSingle(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w1 := New(store)
	w1.Checkpoint()
	w1.rawWrite([]byte("a"), []byte("1"))
	w1.Checkpoint()
	w1.rawWrite([]byte("b"), []byte("2"))
	w1.CondenseAll()

	w2 := New(store)
	w2.Checkpoint()
	w2.rawWrite([]byte("a"), []byte("1"))
	w2.Checkpoint()
	w2.rawWrite([]byte("b"), []byte("2"))
	w2.CondenseSingle()
	w2.CondenseSingle()

	assert.Equal(t, w1.checkpoints[0].deltas, w2.checkpoints[0].deltas)
	assert.Equal(t, 1, w1.Depth())
	assert.Equal(t, 1, w2.Depth())
}

func TestCondenseSingleLatestValueWins(t *testing.T) {
	w := newTestWrapper()
	w.rawWrite([]byte("k"), []byte("v1"))
	w.Checkpoint()
	w.rawWrite([]byte("k"), []byte("v2"))
	w.CondenseSingle()

	assert.Equal(t, []byte("v2"), w.checkpoints[0].deltas["k"])
}

func TestCommitFlushesAndResetsJournal(t *testing.T) {
	store := kvstore.Wrap(memdb.New())
	w := New(store)
	w.rawWrite([]byte("k"), []byte("v"))
	require.NoError(t, w.Commit())

	v, found, err := store.Read([]byte("k"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, 1, w.Depth())
}
