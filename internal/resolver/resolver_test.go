package resolver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
)

func newTestResolver(t *testing.T) (*Resolver, *db.RomDAO, *db.SourceDAO, int64, int64) {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	roms := db.NewRomDAO(conn)
	sources := db.NewSourceDAO(conn)
	platformID, err := roms.EnsurePlatform(ctx, "gb", "Game Boy", 9)
	require.NoError(t, err)
	sourceID, err := sources.Ensure(ctx, model.SourceTypeLocal, "sdcard", "/mnt/sd")
	require.NoError(t, err)
	return New(roms, sources), roms, sources, platformID, sourceID
}

func TestUpsertCreatesThenMatchesByHash(t *testing.T) {
	ctx := context.Background()
	r, roms, sources, platformID, sourceID := newTestResolver(t)

	id, created, err := r.Upsert(ctx, Incoming{
		PlatformID: platformID,
		Name:       "Tetris",
		FileName:   "Tetris (World).gb",
		FileSize:   32768,
		Regions:    `["World"]`,
		HashMD5:    "aabbccdd00112233aabbccdd00112233",
		SourceID:   sourceID,
	})
	require.NoError(t, err)
	require.True(t, created)

	// same content under a different file name resolves to the same entry
	id2, created2, err := r.Upsert(ctx, Incoming{
		PlatformID: platformID,
		Name:       "tetris-rev1",
		FileName:   "tetris.gb",
		HashMD5:    "aabbccdd00112233aabbccdd00112233",
		SourceID:   sourceID,
	})
	require.NoError(t, err)
	require.False(t, created2)
	require.Equal(t, id, id2)

	// hash match links without touching stored fields
	rom, err := roms.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Tetris", rom.Name)
	require.Equal(t, "Tetris (World).gb", rom.FileName)

	count, err := sources.CountLinks(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestUpsertFileNameMatchNeverRegresses(t *testing.T) {
	ctx := context.Background()
	r, roms, _, platformID, sourceID := newTestResolver(t)

	id, _, err := r.Upsert(ctx, Incoming{
		PlatformID: platformID,
		Name:       "Pokemon Red",
		FileName:   "Pokemon Red (USA).gb",
		FileSize:   1048576,
		Regions:    `["USA"]`,
		SourceID:   sourceID,
	})
	require.NoError(t, err)

	// a later sighting with empty fields must not erase anything
	id2, created, err := r.Upsert(ctx, Incoming{
		PlatformID: platformID,
		FileName:   "Pokemon Red (USA).gb",
		HashMD5:    "ffeeddcc00112233ffeeddcc00112233",
		SourceID:   sourceID,
	})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, id, id2)

	rom, err := roms.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Pokemon Red", rom.Name)
	require.Equal(t, int64(1048576), rom.FileSize)
	require.Equal(t, `["USA"]`, rom.Regions)
	require.Equal(t, "ffeeddcc00112233ffeeddcc00112233", rom.HashMD5)

	// and a sighting with better values fills what was empty only
	_, _, err = r.Upsert(ctx, Incoming{
		PlatformID: platformID,
		Name:       "Pokemon Red Version",
		FileName:   "Pokemon Red (USA).gb",
		Regions:    `["World"]`,
		HashMD5:    "0000000000000000000000000000000",
		SourceID:   sourceID,
	})
	require.NoError(t, err)
	rom, err = roms.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Pokemon Red Version", rom.Name)
	require.Equal(t, `["World"]`, rom.Regions)
}

func TestUpsertLinksMultipleSources(t *testing.T) {
	ctx := context.Background()
	r, _, sources, platformID, sourceID := newTestResolver(t)

	remoteID, err := sources.Ensure(ctx, model.SourceTypeRomm, "homelab", "")
	require.NoError(t, err)

	id, _, err := r.Upsert(ctx, Incoming{
		PlatformID: platformID,
		Name:       "Zelda",
		FileName:   "Zelda (USA).gb",
		HashMD5:    "11112222333344441111222233334444",
		SourceID:   sourceID,
	})
	require.NoError(t, err)

	id2, _, err := r.Upsert(ctx, Incoming{
		PlatformID:  platformID,
		Name:        "Zelda",
		FileName:    "zelda_usa.gb",
		HashMD5:     "11112222333344441111222233334444",
		SourceID:    remoteID,
		SourceRomID: "42",
		SourceURL:   "https://romm.local/api/roms/42",
	})
	require.NoError(t, err)
	require.Equal(t, id, id2)

	count, err := sources.CountLinks(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestReconcileMergesDuplicates(t *testing.T) {
	ctx := context.Background()
	r, roms, sources, platformID, sourceID := newTestResolver(t)

	// two entries created before either had a hash, then hashed to the
	// same content
	keeper, err := roms.Insert(ctx, model.Rom{
		PlatformID: platformID, Name: "Mario", FileName: "mario.gb", Regions: "[]",
		HashMD5: "99998888777766669999888877776666",
	})
	require.NoError(t, err)
	dupe, err := roms.Insert(ctx, model.Rom{
		PlatformID: platformID, Name: "Mario Land", FileName: "Mario Land (World).gb", Regions: "[]",
		HashMD5: "99998888777766669999888877776666",
	})
	require.NoError(t, err)
	require.NoError(t, sources.Link(ctx, model.SourceLink{RomID: dupe, SourceID: sourceID}))

	merged, err := r.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), merged)

	// dependent rows follow the keeper
	count, err := sources.CountLinks(ctx, keeper)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	_, err = roms.Get(ctx, dupe)
	require.ErrorIs(t, err, model.ErrNotFound)

	// second run is a no-op
	merged, err = r.Reconcile(ctx)
	require.NoError(t, err)
	require.Zero(t, merged)
}
