package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/metadata"
	"github.com/xxxsen/romkeep/internal/model"
)

func TestSortKey(t *testing.T) {
	assert.Equal(t, "Tetris", sortKey("Tetris"))
	assert.Equal(t, "chao ji ma li ao", sortKey("超级马里奥"))
	assert.Equal(t, "yong zhe dou e long III", sortKey("勇者斗恶龙III"))
}

func TestGamelistDate(t *testing.T) {
	assert.Equal(t, "19890602T000000", gamelistDate("1989-06-02"))
	assert.Equal(t, "", gamelistDate(""))
	assert.Equal(t, "", gamelistDate("1989"))
}

func TestDecodeGenres(t *testing.T) {
	assert.Nil(t, decodeGenres(""))
	assert.Nil(t, decodeGenres("[]"))
	assert.Nil(t, decodeGenres("not json"))
	assert.Equal(t, []string{"Puzzle", "Action"}, decodeGenres(`["Puzzle","Action"]`))
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "a b", cleanDescription("a   b"))
	assert.Equal(t, "end.", cleanDescription("end..."))
	assert.Equal(t, "", cleanDescription(""))
}

func seedCatalog(t *testing.T) (context.Context, func()) {
	t.Helper()
	ctx := context.Background()
	conn, err := appdb.Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	appdb.SetDefault(conn)

	roms := appdb.NewRomDAO(conn)
	platformID, err := roms.EnsurePlatform(ctx, "gb", "Game Boy", 9)
	require.NoError(t, err)
	romID, err := roms.Insert(ctx, model.Rom{
		PlatformID: platformID,
		Name:       "Tetris",
		FileName:   "Tetris (World).gb",
		Regions:    "[]",
		HashMD5:    "aabbcc",
	})
	require.NoError(t, err)

	meta := appdb.NewMetaDAO(conn)
	require.NoError(t, meta.Put(ctx, model.Metadata{
		RomID:       romID,
		Description: "Stack   falling blocks...",
		Developer:   "Nintendo",
		Genres:      `["Puzzle"]`,
		Themes:      "[]",
		Rating:      8.5,
		ReleaseDate: "1989-06-02",
		CoverURL:    "https://img.example/tetris.png",
		RAGameID:    "14402",
	}))

	return ctx, func() {
		appdb.SetDefault(nil)
		conn.Close()
	}
}

func TestExportGamelistWritesPlatformFile(t *testing.T) {
	_, cleanup := seedCatalog(t)
	defer cleanup()

	outDir := t.TempDir()
	cmd := NewExportGamelistCommand()
	cmd.outDir = outDir

	ctx := context.Background()
	require.NoError(t, cmd.PreRun(ctx))
	require.NoError(t, cmd.Run(ctx))

	doc, err := metadata.ParseGamelistFile(filepath.Join(outDir, "gb", "gamelist.xml"))
	require.NoError(t, err)
	require.Len(t, doc.Games, 1)

	game := doc.Games[0]
	assert.Equal(t, "./Tetris (World).gb", game.Path)
	assert.Equal(t, "Tetris", game.Name)
	assert.Equal(t, "Stack falling blocks.", game.Description)
	assert.Equal(t, "Nintendo", game.Developer)
	assert.Equal(t, []string{"Puzzle"}, game.Genres)
	assert.Equal(t, "19890602T000000", game.ReleaseDate)
	assert.Equal(t, "0.85", game.Rating)
	assert.Equal(t, "https://img.example/tetris.png", game.Image)
	assert.Equal(t, "aabbcc", game.MD5)
	assert.Equal(t, "14402", game.CheevosID)
	assert.Equal(t, "aabbcc", game.CheevosHash)
	// latin title keeps its natural sort order
	assert.Equal(t, "", game.SortName)
}

func TestExportGamelistUnknownPlatform(t *testing.T) {
	_, cleanup := seedCatalog(t)
	defer cleanup()

	cmd := NewExportGamelistCommand()
	cmd.outDir = t.TempDir()
	cmd.platformSlug = "ps2"

	ctx := context.Background()
	require.NoError(t, cmd.PreRun(ctx))
	assert.Error(t, cmd.Run(ctx))
}

func TestExportPegasusWritesPlatformFile(t *testing.T) {
	_, cleanup := seedCatalog(t)
	defer cleanup()

	outDir := t.TempDir()
	cmd := NewExportPegasusCommand()
	cmd.outDir = outDir

	ctx := context.Background()
	require.NoError(t, cmd.PreRun(ctx))
	require.NoError(t, cmd.Run(ctx))

	dest := filepath.Join(outDir, "gb", "metadata.pegasus.txt")
	raw, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "collection: Game Boy")
	assert.Contains(t, string(raw), "shortname: gb")

	doc, err := metadata.ParseMetadataFile(dest)
	require.NoError(t, err)
	games, err := doc.Games()
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Tetris", games[0].Title)
	assert.Equal(t, []string{"Tetris (World).gb"}, games[0].Files)
	assert.Equal(t, []string{"Nintendo"}, games[0].Developers)
	assert.Equal(t, []string{"Puzzle"}, games[0].Genres)
	assert.Equal(t, "85%", games[0].Rating)
	// parse folds keys to lower case
	assert.Equal(t, "https://img.example/tetris.png", games[0].Assets["boxfront"])
}
