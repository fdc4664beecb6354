package source

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
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
	"github.com/xxxsen/romkeep/internal/resolver"
	"github.com/xxxsen/romkeep/internal/romm"
)

func newRommTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token": "tok", "refresh_token": "r", "token_type": "bearer"}`)
	})
	mux.HandleFunc("/api/platforms", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 1, "slug": "game-boy", "name": "gb", "display_name": "Game Boy", "rom_count": 1},
			{"id": 2, "slug": "downloads", "name": "downloads", "display_name": "downloads", "rom_count": 1, "is_unidentified": true}
		]`)
	})
	mux.HandleFunc("/api/roms", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") != "0" {
			fmt.Fprint(w, `{"items": [], "total": 2, "limit": 50, "offset": 50}`)
			return
		}
		fmt.Fprint(w, `{
			"items": [
				{"id": 7, "platform_id": 1, "fs_name": "Tetris (World).gb", "name": "Tetris",
				 "fs_size_bytes": 32768, "regions": ["World"], "summary": "Stack the blocks.",
				 "url_cover": "/assets/covers/7.png",
				 "metadatum": {"genres": ["Puzzle"], "first_release_date": 612748800000}},
				{"id": 8, "platform_id": 2, "fs_name": "random.bin", "name": "Random"}
			],
			"total": 2, "limit": 50, "offset": 0
		}`)
	})
	return httptest.NewServer(mux)
}

func newTestRommSyncer(t *testing.T, host string) (*RommSyncer, *db.RomDAO, *db.MetaDAO, int64) {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	roms := db.NewRomDAO(conn)
	sources := db.NewSourceDAO(conn)
	meta := db.NewMetaDAO(conn)
	sourceID, err := sources.Ensure(ctx, model.SourceTypeRomm, "homelab", host)
	require.NoError(t, err)

	client, err := romm.New(host, "admin", "secret")
	require.NoError(t, err)
	syncer := NewRommSyncer(client, platform.NewRegistry(), roms, meta, resolver.New(roms, sources))
	return syncer, roms, meta, sourceID
}

func TestRommSyncIndexesLibrary(t *testing.T) {
	ctx := context.Background()
	srv := newRommTestServer(t)
	defer srv.Close()

	syncer, roms, meta, sourceID := newTestRommSyncer(t, srv.URL)
	indexed, err := syncer.Sync(ctx, sourceID, nil)
	require.NoError(t, err)
	// the unidentified platform's rom is skipped
	assert.Equal(t, int64(1), indexed)

	p, err := roms.FindPlatform(ctx, "gb")
	require.NoError(t, err)
	require.NotNil(t, p)

	id, found, err := roms.FindIDByFileName(ctx, p.ID, "Tetris (World).gb")
	require.NoError(t, err)
	require.True(t, found)
	rom, err := roms.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tetris", rom.Name)
	assert.Equal(t, `["World"]`, rom.Regions)

	got, err := meta.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Stack the blocks.", got.Description)
	assert.Equal(t, `["Puzzle"]`, got.Genres)
	// millisecond timestamps are detected and reduced
	assert.Equal(t, "1989-06-02", got.ReleaseDate)
	assert.Equal(t, srv.URL+"/assets/covers/7.png", got.CoverURL)

	art, err := meta.ListArtwork(ctx, id, model.ArtCover)
	require.NoError(t, err)
	require.Len(t, art, 1)
}

func TestRommSyncKeepsRicherMetadata(t *testing.T) {
	ctx := context.Background()
	srv := newRommTestServer(t)
	defer srv.Close()

	syncer, roms, meta, sourceID := newTestRommSyncer(t, srv.URL)
	_, err := syncer.Sync(ctx, sourceID, nil)
	require.NoError(t, err)

	p, err := roms.FindPlatform(ctx, "gb")
	require.NoError(t, err)
	id, _, err := roms.FindIDByFileName(ctx, p.ID, "Tetris (World).gb")
	require.NoError(t, err)

	richer := model.Metadata{
		RomID:       id,
		Description: "A much longer write-up.",
		Genres:      `["Puzzle","Strategy"]`,
		Themes:      "[]",
		ReleaseDate: "1989-06-02",
		CoverURL:    "https://cdn.example/cover.png",
	}
	require.NoError(t, meta.Put(ctx, richer))

	_, err = syncer.Sync(ctx, sourceID, nil)
	require.NoError(t, err)

	got, err := meta.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A much longer write-up.", got.Description)
	assert.Equal(t, "https://cdn.example/cover.png", got.CoverURL)
}

func TestFormatReleaseDate(t *testing.T) {
	assert.Equal(t, "1989-06-02", formatReleaseDate(612748800))
	assert.Equal(t, "1989-06-02", formatReleaseDate(612748800000))
	assert.Equal(t, "", formatReleaseDate(0))
}