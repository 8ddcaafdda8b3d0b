package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	req := require.New(t)
	store := NewStore(record("1", "a.txt", 1, 0))

	snapshot := store.Snapshot()
	store.Append(record("2", "b.txt", 2, 0))
	req.Len(snapshot, 1)
	req.Equal(2, store.Len())

	snapshot[0].OriginalFilename = "changed"
	got, ok := store.Get("1")
	req.True(ok)
	req.Equal("a.txt", got.OriginalFilename)
}

func TestStore_RemoveAndReplace(t *testing.T) {
	req := require.New(t)
	store := NewStore(record("1", "a.txt", 1, 0), record("2", "b.txt", 2, 0))

	req.True(store.Remove("1"))
	req.False(store.Remove("1"))
	_, ok := store.Get("1")
	req.False(ok)

	store.Replace(nil)
	req.Zero(store.Len())
}
