package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
)

func TestResolveHostPath(t *testing.T) {
	cmd := NewExportRetromCommand()
	cmd.rootMapping = "/mnt/roms:/library"
	require.NoError(t, cmd.PreRun(context.Background()))

	resolved, ok := cmd.resolveHostPath("/library/gb/Tetris (World).gb")
	require.True(t, ok)
	assert.Equal(t, "/mnt/roms/gb/Tetris (World).gb", resolved)

	_, ok = cmd.resolveHostPath("/other/gb/Tetris.gb")
	assert.False(t, ok)
}

func TestResolveHostPathWithoutMapping(t *testing.T) {
	cmd := NewExportRetromCommand()
	require.NoError(t, cmd.PreRun(context.Background()))

	resolved, ok := cmd.resolveHostPath("/library/gb/Tetris.gb")
	require.True(t, ok)
	assert.Equal(t, "/library/gb/Tetris.gb", resolved)
}

func TestBuildRetromPayload(t *testing.T) {
	ctx, cleanup := seedCatalog(t)
	defer cleanup()

	conn := appdb.Default()
	meta := appdb.NewMetaDAO(conn)
	matches, err := appdb.NewRomDAO(conn).FindByMD5(ctx, "aabbcc")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	require.NoError(t, meta.AddArtwork(ctx, model.Artwork{
		RomID: matches[0].ID, ArtType: model.ArtScreenshot, URL: "https://img.example/shot1.png",
	}))
	require.NoError(t, meta.AddArtwork(ctx, model.Artwork{
		RomID: matches[0].ID, ArtType: model.ArtScreenshot, URL: "https://img.example/shot2.png",
	}))

	cmd := NewExportRetromCommand()
	payload, err := cmd.buildPayload(ctx, meta, matches[0])
	require.NoError(t, err)

	assert.Equal(t, "Tetris", payload.Name.String)
	assert.True(t, payload.Description.Valid)
	assert.Equal(t, "https://img.example/tetris.png", payload.CoverURL.String)
	assert.Equal(t, "https://img.example/shot1.png", payload.BackgroundURL.String)
	assert.Len(t, payload.ScreenshotURLs, 2)
	assert.Equal(t, []string{"https://img.example/tetris.png"}, payload.ArtworkURLs)
}
