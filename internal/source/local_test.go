package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
	"github.com/xxxsen/romkeep/internal/resolver"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
}

func writeRom(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func TestDetectLayout(t *testing.T) {
	registry := platform.NewRegistry()

	esde := t.TempDir()
	mkdirs(t, esde, "gb", "gba", "snes")
	assert.Equal(t, LayoutEsDe, DetectLayout(esde, registry))

	batocera := t.TempDir()
	mkdirs(t, batocera, "roms/gb", "roms/snes", "bios")
	assert.Equal(t, LayoutBatocera, DetectLayout(batocera, registry))

	muos := t.TempDir()
	mkdirs(t, muos, "ROMS", "MUOS")
	assert.Equal(t, LayoutMuOS, DetectLayout(muos, registry))

	minui := t.TempDir()
	mkdirs(t, minui, "Game Boy (GB)", "Game Boy Advance (GBA)", "Super Nintendo (SFC)")
	assert.Equal(t, LayoutMinUI, DetectLayout(minui, registry))

	onion := t.TempDir()
	mkdirs(t, onion, "GB", "GBA", "SFC", "PORTS")
	assert.Equal(t, LayoutOnionOS, DetectLayout(onion, registry))

	assert.Equal(t, LayoutUnknown, DetectLayout(t.TempDir(), registry))
}

func TestResolveFolderSlug(t *testing.T) {
	registry := platform.NewRegistry()

	slug, ok := resolveFolderSlug("gb", LayoutEsDe, registry)
	require.True(t, ok)
	assert.Equal(t, "gb", slug)

	// MinUI resolves through the parenthesized tag
	slug, ok = resolveFolderSlug("Game Boy (GB)", LayoutMinUI, registry)
	require.True(t, ok)
	assert.Equal(t, "gb", slug)

	_, ok = resolveFolderSlug("Saves (SAV)", LayoutMinUI, registry)
	assert.False(t, ok)
}

func TestIsRomFile(t *testing.T) {
	assert.True(t, IsRomFile("Tetris (World).gb"))
	assert.True(t, IsRomFile("game.ZIP"))
	assert.False(t, IsRomFile("readme.txt"))
	assert.False(t, IsRomFile("noextension"))
}

func newTestScanner(t *testing.T) (*LocalScanner, *db.RomDAO, *db.SourceDAO, int64) {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	roms := db.NewRomDAO(conn)
	sources := db.NewSourceDAO(conn)
	sourceID, err := sources.Ensure(ctx, model.SourceTypeLocal, "sdcard", "/mnt/sd")
	require.NoError(t, err)

	registry := platform.NewRegistry()
	scanner := NewLocalScanner(registry, roms, resolver.New(roms, sources))
	return scanner, roms, sources, sourceID
}

func TestSyncIndexesRomFiles(t *testing.T) {
	ctx := context.Background()
	scanner, roms, sources, sourceID := newTestScanner(t)

	root := t.TempDir()
	writeRom(t, filepath.Join(root, "gb", "Tetris (World).gb"), []byte("abc"))
	writeRom(t, filepath.Join(root, "gb", "notes.txt"), []byte("skip me"))
	writeRom(t, filepath.Join(root, "snes", "Star Fox (USA).sfc"), []byte("defg"))
	writeRom(t, filepath.Join(root, "gba", "placeholder.gba"), []byte("hij"))
	mkdirs(t, root, "unknownfolder")

	var reported int
	indexed, err := scanner.Sync(ctx, sourceID, root, func(model.ScanProgress) { reported++ })
	require.NoError(t, err)
	assert.Equal(t, int64(3), indexed)
	assert.Equal(t, 3, reported)

	p, err := roms.FindPlatform(ctx, "gb")
	require.NoError(t, err)
	require.NotNil(t, p)

	id, found, err := roms.FindIDByFileName(ctx, p.ID, "Tetris (World).gb")
	require.NoError(t, err)
	require.True(t, found)
	rom, err := roms.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tetris (World)", rom.Name)
	assert.Equal(t, int64(3), rom.FileSize)
	// "abc" hashed on first sighting
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", rom.HashMD5)

	links, err := sources.CountLinks(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), links)
}

func TestSyncIsIdempotent(t *testing.T) {
	ctx := context.Background()
	scanner, roms, _, sourceID := newTestScanner(t)

	root := t.TempDir()
	writeRom(t, filepath.Join(root, "gb", "Tetris (World).gb"), []byte("abc"))

	_, err := scanner.Sync(ctx, sourceID, root, nil)
	require.NoError(t, err)
	_, err = scanner.Sync(ctx, sourceID, root, nil)
	require.NoError(t, err)

	p, err := roms.FindPlatform(ctx, "gb")
	require.NoError(t, err)
	stats, err := roms.CountByStatus(ctx, p.ID)
	require.NoError(t, err)
	total := stats.Verified + stats.Unverified + stats.BadDump + stats.NotChecked
	assert.Equal(t, int64(1), total)
}

func TestTestPathCounts(t *testing.T) {
	scanner, _, _, _ := newTestScanner(t)

	root := t.TempDir()
	writeRom(t, filepath.Join(root, "gb", "a.gb"), []byte("a"))
	writeRom(t, filepath.Join(root, "gb", "b.gb"), []byte("b"))
	writeRom(t, filepath.Join(root, "snes", "c.sfc"), []byte("c"))
	mkdirs(t, root, "gba")

	report, err := scanner.TestPath(root)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Platforms)
	assert.Equal(t, int64(3), report.Roms)

	_, err = scanner.TestPath(filepath.Join(root, "missing"))
	assert.Error(t, err)
}