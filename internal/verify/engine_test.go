package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/romhash"
)

// hashes of the payload "abc"
const (
	abcCRC32 = "352441C2"
	abcMD5   = "900150983cd24fb0d6963f7d28e17f72"
	abcSHA1  = "a9993e364706816aba3e25717850c26c9cd0d89d"
)

type verifyFixture struct {
	conn       *db.RomDAO
	dats       *db.DatDAO
	sources    *db.SourceDAO
	engine     *Engine
	platformID int64
	sourceID   int64
}

func newVerifyFixture(t *testing.T) *verifyFixture {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	roms := db.NewRomDAO(conn)
	dats := db.NewDatDAO(conn)
	sources := db.NewSourceDAO(conn)
	platformID, err := roms.EnsurePlatform(ctx, "gb", "Game Boy", 9)
	require.NoError(t, err)
	sourceID, err := sources.Ensure(ctx, model.SourceTypeLocal, "sdcard", "/mnt/sd")
	require.NoError(t, err)
	return &verifyFixture{
		conn:       roms,
		dats:       dats,
		sources:    sources,
		engine:     NewEngine(roms, dats),
		platformID: platformID,
		sourceID:   sourceID,
	}
}

func (f *verifyFixture) importDat(t *testing.T, entries []model.DatEntry) {
	t.Helper()
	_, err := f.dats.ReplaceSet(context.Background(), model.DatFile{
		Name:         "Nintendo - Game Boy",
		DatType:      "no-intro",
		PlatformSlug: "gb",
	}, entries, nil)
	require.NoError(t, err)
}

func TestRunVerifiesStoredHashes(t *testing.T) {
	ctx := context.Background()
	f := newVerifyFixture(t)
	f.importDat(t, []model.DatEntry{{
		GameName: "Alphabet (World)",
		RomName:  "Alphabet (World).gb",
		CRC32:    abcCRC32,
		MD5:      abcMD5,
		SHA1:     abcSHA1,
	}})

	romID, err := f.conn.Insert(ctx, model.Rom{
		PlatformID: f.platformID, Name: "alphabet", FileName: "alphabet.gb", Regions: "[]",
	})
	require.NoError(t, err)
	require.NoError(t, f.conn.UpdateHashes(ctx, romID, digestOf(abcCRC32, abcMD5, abcSHA1)))

	stats, err := f.engine.Run(ctx, f.platformID, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Verified)

	rom, err := f.conn.Get(ctx, romID)
	require.NoError(t, err)
	require.Equal(t, model.StatusVerified, rom.VerificationStatus)
	require.Equal(t, "Alphabet (World)", rom.DatGameName)
	require.NotZero(t, rom.DatEntryID)
}

func TestRunComputesAndPersistsMissingHashes(t *testing.T) {
	ctx := context.Background()
	f := newVerifyFixture(t)
	f.importDat(t, []model.DatEntry{{
		GameName: "Alphabet (World)",
		RomName:  "Alphabet (World).gb",
		SHA1:     abcSHA1,
	}})

	path := filepath.Join(t.TempDir(), "alphabet.gb")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	romID, err := f.conn.Insert(ctx, model.Rom{
		PlatformID: f.platformID, Name: "alphabet", FileName: "alphabet.gb", Regions: "[]",
	})
	require.NoError(t, err)
	require.NoError(t, f.sources.Link(ctx, model.SourceLink{
		RomID: romID, SourceID: f.sourceID, SourceRomID: path,
	}))

	stats, err := f.engine.Run(ctx, f.platformID, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Verified)

	rom, err := f.conn.Get(ctx, romID)
	require.NoError(t, err)
	require.Equal(t, abcCRC32, rom.HashCRC32)
	require.Equal(t, abcMD5, rom.HashMD5)
	require.Equal(t, abcSHA1, rom.HashSHA1)
}

func TestRunIsStableOnRerun(t *testing.T) {
	ctx := context.Background()
	f := newVerifyFixture(t)
	f.importDat(t, []model.DatEntry{{
		GameName: "Alphabet (World)",
		RomName:  "Alphabet (World).gb",
		SHA1:     abcSHA1,
	}})

	romID, err := f.conn.Insert(ctx, model.Rom{
		PlatformID: f.platformID, Name: "alphabet", FileName: "alphabet.gb", Regions: "[]",
	})
	require.NoError(t, err)
	require.NoError(t, f.conn.UpdateHashes(ctx, romID, digestOf(abcCRC32, abcMD5, abcSHA1)))

	for run := 0; run < 2; run++ {
		stats, err := f.engine.Run(ctx, f.platformID, nil)
		require.NoError(t, err)
		require.Equal(t, int64(1), stats.Verified)
	}

	rom, err := f.conn.Get(ctx, romID)
	require.NoError(t, err)
	require.Equal(t, model.StatusVerified, rom.VerificationStatus)
	require.Equal(t, "Alphabet (World)", rom.DatGameName)
}

func TestRunFlagsBadDumps(t *testing.T) {
	ctx := context.Background()
	f := newVerifyFixture(t)
	f.importDat(t, []model.DatEntry{{
		GameName: "Broken (USA)",
		RomName:  "Broken (USA).gb",
		SHA1:     abcSHA1,
		Status:   "baddump",
	}})

	romID, err := f.conn.Insert(ctx, model.Rom{
		PlatformID: f.platformID, Name: "broken", FileName: "broken.gb", Regions: "[]",
	})
	require.NoError(t, err)
	require.NoError(t, f.conn.UpdateHashes(ctx, romID, digestOf(abcCRC32, abcMD5, abcSHA1)))

	stats, err := f.engine.Run(ctx, f.platformID, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.BadDump)
}

func TestRunUnmatchedAndUnchecked(t *testing.T) {
	ctx := context.Background()
	f := newVerifyFixture(t)
	f.importDat(t, []model.DatEntry{{
		GameName: "Other Game",
		RomName:  "Other Game.gb",
		SHA1:     "1111111111111111111111111111111111111111",
	}})

	hashed, err := f.conn.Insert(ctx, model.Rom{
		PlatformID: f.platformID, Name: "stranger", FileName: "stranger.gb", Regions: "[]",
	})
	require.NoError(t, err)
	require.NoError(t, f.conn.UpdateHashes(ctx, hashed, digestOf(abcCRC32, abcMD5, abcSHA1)))

	_, err = f.conn.Insert(ctx, model.Rom{
		PlatformID: f.platformID, Name: "ghost", FileName: "ghost.gb", Regions: "[]",
	})
	require.NoError(t, err)

	stats, err := f.engine.Run(ctx, f.platformID, nil)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Unverified)
	require.Equal(t, int64(1), stats.NotChecked)
}

func TestRunHonorsCancellation(t *testing.T) {
	f := newVerifyFixture(t)
	_, err := f.conn.Insert(context.Background(), model.Rom{
		PlatformID: f.platformID, Name: "a", FileName: "a.gb", Regions: "[]",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.engine.Run(ctx, f.platformID, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func digestOf(crc, md5sum, sha1sum string) romhash.Digest {
	return romhash.Digest{CRC32: crc, MD5: md5sum, SHA1: sha1sum}
}
