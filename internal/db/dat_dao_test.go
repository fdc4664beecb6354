package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/romkeep/internal/model"
)

func newDatFixture(t *testing.T) (context.Context, *DatDAO) {
	t.Helper()
	ctx := context.Background()
	conn, err := Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return ctx, NewDatDAO(conn)
}

func importEntries(t *testing.T, ctx context.Context, dao *DatDAO, entries []model.DatEntry) {
	t.Helper()
	_, err := dao.ReplaceSet(ctx, model.DatFile{
		Name:         "Nintendo - Game Boy",
		DatType:      "no-intro",
		PlatformSlug: "gb",
	}, entries, nil)
	require.NoError(t, err)
}

func TestLookupPrefersSHA1OverWeakerHashes(t *testing.T) {
	ctx, dao := newDatFixture(t)
	importEntries(t, ctx, dao, []model.DatEntry{
		{
			GameName: "Alphabet (World)",
			RomName:  "Alphabet (World).gb",
			CRC32:    "11111111",
			SHA1:     "a9993e364706816aba3e25717850c26c9cd0d89d",
		},
		{
			GameName: "Impostor (USA)",
			RomName:  "Impostor (USA).gb",
			CRC32:    "352441C2",
		},
	})

	// the CRC32 points at a different record, but the SHA1 match wins
	entry, err := dao.Lookup(ctx, "352441C2", "", "a9993e364706816aba3e25717850c26c9cd0d89d")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Alphabet (World)", entry.GameName)
	assert.Equal(t, "11111111", entry.CRC32)
}

func TestLookupFallsBackToMD5ThenCRC32(t *testing.T) {
	ctx, dao := newDatFixture(t)
	importEntries(t, ctx, dao, []model.DatEntry{
		{
			GameName: "ByMD5 (Japan)",
			RomName:  "ByMD5 (Japan).gb",
			MD5:      "900150983cd24fb0d6963f7d28e17f72",
		},
		{
			GameName: "ByCRC (Europe)",
			RomName:  "ByCRC (Europe).gb",
			CRC32:    "352441C2",
		},
	})

	entry, err := dao.Lookup(ctx, "352441C2", "900150983cd24fb0d6963f7d28e17f72", "ffffffffffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "ByMD5 (Japan)", entry.GameName)

	entry, err = dao.Lookup(ctx, "352441C2", "", "")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "ByCRC (Europe)", entry.GameName)
}

func TestLookupMissReturnsNil(t *testing.T) {
	ctx, dao := newDatFixture(t)
	importEntries(t, ctx, dao, []model.DatEntry{{
		GameName: "Alphabet (World)",
		RomName:  "Alphabet (World).gb",
		SHA1:     "a9993e364706816aba3e25717850c26c9cd0d89d",
	}})

	entry, err := dao.Lookup(ctx, "", "", "ffffffffffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	assert.Nil(t, entry)
}
