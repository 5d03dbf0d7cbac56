package mvs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/mvs"
	"github.com/reifydb/reifydb/internal/storage/memstore"
)

func TestStatsReportsOnlyConfiguredTiers(t *testing.T) {
	s := mvs.New(memstore.New(), nil, memstore.New())
	defer s.Close()

	require.NoError(t, s.Commit([]mvs.Write{
		{Key: key("a"), Value: []byte("v1")},
		{Key: key("b"), Value: []byte("v22")},
	}, 1))

	stats, err := s.Stats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "hot", stats[0].Name)
	assert.Equal(t, 2, stats[0].Keys)
	assert.Equal(t, int64(7), stats[0].Bytes)

	assert.Equal(t, "cold", stats[1].Name)
	assert.Equal(t, 0, stats[1].Keys)
}

func TestGCAllReclaimsOlderVersionsOfEachKey(t *testing.T) {
	s := mvs.New(memstore.New(), nil, nil)
	defer s.Close()

	require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Value: []byte("v1")}}, 1))
	require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Value: []byte("v2")}}, 2))

	scheduled, err := s.GCAll(2)
	require.NoError(t, err)
	assert.Equal(t, 1, scheduled)

	require.Eventually(t, func() bool {
		stats, err := s.Stats()
		require.NoError(t, err)
		return stats[0].Keys == 1
	}, time.Second, 10*time.Millisecond)

	v, ok, err := s.Get(key("a"), 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), v)
}

func TestStatsOnEmptyStoreReturnsZeroCounts(t *testing.T) {
	s := mvs.New(memstore.New(), nil, nil)
	defer s.Close()

	stats, err := s.Stats()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 0, stats[0].Keys)
	assert.Equal(t, int64(0), stats[0].Bytes)
}
