package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/enrich/hasheous"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
)

const testMD5 = "aabbccdd00112233aabbccdd00112233"

func newTestOrchestrator(t *testing.T, hasheousHost string) (*Orchestrator, *db.RomDAO, *db.MetaDAO, int64) {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	roms := db.NewRomDAO(conn)
	// the slug is deliberately absent from the platform registry so
	// only the hash lookup source runs
	platformID, err := roms.EnsurePlatform(ctx, "testonly", "Test Platform", 0)
	require.NoError(t, err)
	romID, err := roms.Insert(ctx, model.Rom{
		PlatformID: platformID,
		Name:       "Tetris",
		FileName:   "Tetris (World).gb",
		Regions:    "[]",
		HashMD5:    testMD5,
	})
	require.NoError(t, err)

	orch := NewOrchestrator(conn, platform.NewRegistry(), Clients{
		Hasheous: hasheous.New(hasheousHost),
	})
	return orch, roms, db.NewMetaDAO(conn), romID
}

func hasheousServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Path != "/api/v1/Lookup/ByHash/md5/"+testMD5 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": 11,
			"name": "Tetris",
			"publisher": {"name": "Nintendo"},
			"signature": {"game": {"year": "1989"}},
			"metadata": [{"source": "RetroAchievements", "objectType": "Game", "id": 14402}],
			"attributes": [
				{"attributeName": "AIDescription", "value": "Stack the blocks."},
				{"attributeName": "Tags", "value": {"GameGenre": {"Tags": [{"Text": "Puzzle"}]}}}
			]
		}`)
	}))
}

func TestEnrichOnePersistsMergedMetadata(t *testing.T) {
	ctx := context.Background()
	var hits int
	srv := hasheousServer(t, &hits)
	defer srv.Close()

	orch, roms, meta, romID := newTestOrchestrator(t, srv.URL)
	require.NoError(t, orch.EnrichOne(ctx, romID, false))

	got, err := meta.Get(ctx, romID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Stack the blocks.", got.Description)
	assert.Equal(t, "Nintendo", got.Publisher)
	assert.Equal(t, `["Puzzle"]`, got.Genres)
	assert.Equal(t, "1989", got.ReleaseDate)
	assert.Equal(t, "14402", got.RAGameID)

	rom, err := roms.Get(ctx, romID)
	require.NoError(t, err)
	assert.NotEmpty(t, rom.MetadataFetchedAt)
	assert.Equal(t, 1, hits)
}

func TestEnrichOneUsesCacheOnSecondRun(t *testing.T) {
	ctx := context.Background()
	var hits int
	srv := hasheousServer(t, &hits)
	defer srv.Close()

	orch, _, _, romID := newTestOrchestrator(t, srv.URL)
	require.NoError(t, orch.EnrichOne(ctx, romID, false))
	require.NoError(t, orch.EnrichOne(ctx, romID, false))
	assert.Equal(t, 1, hits)

	// forced refresh drops the cache and queries again
	require.NoError(t, orch.EnrichOne(ctx, romID, true))
	assert.Equal(t, 2, hits)
}

func TestEnrichOneCachesMisses(t *testing.T) {
	ctx := context.Background()
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	orch, _, meta, romID := newTestOrchestrator(t, srv.URL)
	require.NoError(t, orch.EnrichOne(ctx, romID, false))
	require.NoError(t, orch.EnrichOne(ctx, romID, false))
	assert.Equal(t, 1, hits)

	got, err := meta.Get(ctx, romID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Description)
}

func TestEnrichOneKeepsStoredMetadataOnSourceMiss(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	orch, _, meta, romID := newTestOrchestrator(t, srv.URL)
	require.NoError(t, meta.Put(ctx, model.Metadata{
		RomID:       romID,
		Description: "carried from sync",
		Genres:      `["Puzzle"]`,
		Themes:      "[]",
		ReleaseDate: "1989-06-02",
	}))

	// every source missing must not wipe what the catalog already holds
	require.NoError(t, orch.EnrichOne(ctx, romID, false))

	got, err := meta.Get(ctx, romID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "carried from sync", got.Description)
	assert.Equal(t, `["Puzzle"]`, got.Genres)
	assert.Equal(t, "1989-06-02", got.ReleaseDate)
}

func TestEnrichAllReportsStats(t *testing.T) {
	ctx := context.Background()
	var hits int
	srv := hasheousServer(t, &hits)
	defer srv.Close()

	orch, _, _, _ := newTestOrchestrator(t, srv.URL)
	stats, err := orch.EnrichAll(ctx, 0, true, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Enriched)
	assert.Equal(t, int64(0), stats.Skipped)

	// coverless entries stay eligible, but the cache absorbs the rerun
	stats, err = orch.EnrichAll(ctx, 0, true, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Enriched)
	assert.Equal(t, 1, hits)
}