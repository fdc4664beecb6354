package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCacheLookupRespectsModTime(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer conn.Close()

	dao := NewHashCacheDAO(conn)

	_, ok, err := dao.Lookup(ctx, "/roms/a.gb", 100)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, dao.Upsert(ctx, "/roms/a.gb", 100, "aabbcc"))

	hash, ok, err := dao.Lookup(ctx, "/roms/a.gb", 100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "aabbcc", hash)

	// stale mod time invalidates the entry
	_, ok, err = dao.Lookup(ctx, "/roms/a.gb", 200)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, dao.Upsert(ctx, "/roms/a.gb", 200, "ddeeff"))
	hash, ok, err = dao.Lookup(ctx, "/roms/a.gb", 200)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ddeeff", hash)
}
