package mvs_test

import (
	"testing"
	"time"

	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/mvs"
	"github.com/reifydb/reifydb/internal/storage/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) encoding.Key { return encoding.NewKey([]byte(s)) }

func TestGetReturnsLatestVisibleVersion(t *testing.T) {
	s := mvs.New(memstore.New(), nil, nil)
	defer s.Close()

	require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Value: []byte("v1")}}, 1))
	require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Value: []byte("v2")}}, 2))

	v, ok, err := s.Get(key("a"), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), v)

	v, ok, err = s.Get(key("a"), 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), v)

	v, ok, err = s.Get(key("a"), 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), v)
}

func TestGetBeforeFirstWriteIsNotFound(t *testing.T) {
	s := mvs.New(memstore.New(), nil, nil)
	defer s.Close()

	require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Value: []byte("v1")}}, 5))

	_, ok, err := s.Get(key("a"), 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTombstoneHidesValue(t *testing.T) {
	s := mvs.New(memstore.New(), nil, nil)
	defer s.Close()

	require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Value: []byte("v1")}}, 1))
	require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Tombstone: true}}, 2))

	_, ok, err := s.Get(key("a"), 2)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := s.Get(key("a"), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), v)
}

func TestGetPrevious(t *testing.T) {
	s := mvs.New(memstore.New(), nil, nil)
	defer s.Close()

	require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Value: []byte("v1")}}, 1))
	require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Value: []byte("v2")}}, 2))

	v, ok, err := s.GetPrevious(key("a"), 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), v)

	_, ok, err = s.GetPrevious(key("a"), 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRangeNextMergesAcrossKeysAtVersion(t *testing.T) {
	s := mvs.New(memstore.New(), nil, nil)
	defer s.Close()

	require.NoError(t, s.Commit([]mvs.Write{
		{Key: key("a"), Value: []byte("1")},
		{Key: key("b"), Value: []byte("2")},
		{Key: key("c"), Value: []byte("3")},
	}, 1))
	require.NoError(t, s.Commit([]mvs.Write{{Key: key("b"), Value: []byte("2b")}}, 2))

	cursor := &mvs.RangeCursor{}
	entries, hasMore, err := s.RangeNext(cursor, encoding.All(), 2, 10)
	require.NoError(t, err)
	assert.False(t, hasMore)
	require.Len(t, entries, 3)

	byKey := map[string]string{}
	for _, e := range entries {
		byKey[e.Key.String()] = string(e.Value)
	}
	assert.Equal(t, "1", byKey["a"])
	assert.Equal(t, "2b", byKey["b"])
	assert.Equal(t, "3", byKey["c"])
}

func TestRangeNextCarriesChunkOverflowAcrossCalls(t *testing.T) {
	s := mvs.New(memstore.New(), nil, nil)
	defer s.Close()

	const totalKeys = 20
	const batchSize = 5

	writes := make([]mvs.Write, 0, totalKeys)
	for i := 0; i < totalKeys; i++ {
		writes = append(writes, mvs.Write{Key: key(string(rune('a' + i))), Value: []byte{byte(i)}})
	}
	require.NoError(t, s.Commit(writes, 1))

	cursor := &mvs.RangeCursor{}
	seen := map[string]bool{}
	for {
		entries, hasMore, err := s.RangeNext(cursor, encoding.All(), 1, batchSize)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(entries), batchSize)
		for _, e := range entries {
			k := e.Key.String()
			assert.False(t, seen[k], "key %q returned twice", k)
			seen[k] = true
		}
		if !hasMore {
			break
		}
	}

	assert.Len(t, seen, totalKeys, "every committed key should eventually be returned, none dropped by an overflowing chunk fetch")
}

func TestRangeRevNextCarriesChunkOverflowAcrossCalls(t *testing.T) {
	s := mvs.New(memstore.New(), nil, nil)
	defer s.Close()

	const totalKeys = 20
	const batchSize = 5

	writes := make([]mvs.Write, 0, totalKeys)
	for i := 0; i < totalKeys; i++ {
		writes = append(writes, mvs.Write{Key: key(string(rune('a' + i))), Value: []byte{byte(i)}})
	}
	require.NoError(t, s.Commit(writes, 1))

	cursor := &mvs.RangeCursor{}
	seen := map[string]bool{}
	for {
		entries, hasMore, err := s.RangeRevNext(cursor, encoding.All(), 1, batchSize)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(entries), batchSize)
		for _, e := range entries {
			k := e.Key.String()
			assert.False(t, seen[k], "key %q returned twice", k)
			seen[k] = true
		}
		if !hasMore {
			break
		}
	}

	assert.Len(t, seen, totalKeys, "every committed key should eventually be returned, none dropped by an overflowing chunk fetch")
}

func TestBackgroundGCRespectsWatermark(t *testing.T) {
	hot := memstore.New()
	s := mvs.New(hot, nil, nil)
	defer s.Close()

	for v := uint64(1); v <= 5; v++ {
		require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Value: []byte("value")}}, v))
	}

	// A watermark of 3 means a reader at snapshot 3 must still see
	// version 3; versions 1 and 2 are no longer reachable by anyone and
	// may be reclaimed, but 3, 4, 5 must all survive.
	s.ScheduleVersionGC([]encoding.Key{key("a")}, 3)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_, ok, err := s.Get(key("a"), 1)
		require.NoError(t, err)
		if !ok {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	_, ok, err := s.Get(key("a"), 1)
	require.NoError(t, err)
	assert.False(t, ok, "version below watermark should have been reclaimed")

	v, ok, err := s.Get(key("a"), 3)
	require.NoError(t, err)
	assert.True(t, ok, "version at watermark must survive")
	assert.Equal(t, []byte("value"), v)

	v, ok, err = s.Get(key("a"), 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), v)
}
