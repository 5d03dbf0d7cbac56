package mvs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reifydb/reifydb/internal/mvs"
)

func TestOpenWithNoPathsOnlyOpensHotTier(t *testing.T) {
	s, err := mvs.Open(mvs.Config{})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Commit([]mvs.Write{{Key: key("a"), Value: []byte("v1")}}, 1))
	v, ok, err := s.Get(key("a"), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), v)
}

func TestOpenWithWarmAndColdPathsCommitsAndReads(t *testing.T) {
	dir := t.TempDir()
	cfg := mvs.Config{
		WarmPath: filepath.Join(dir, "warm.db"),
		ColdPath: filepath.Join(dir, "cold.db"),
	}

	s, err := mvs.Open(cfg)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Commit([]mvs.Write{{Key: key("b"), Value: []byte("v1")}}, 1))
	v, ok, err := s.Get(key("b"), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), v)
}

func TestOpenRejectsUnwritablePath(t *testing.T) {
	_, err := mvs.Open(mvs.Config{WarmPath: "/nonexistent-dir/warm.db"})
	assert.Error(t, err)
}
