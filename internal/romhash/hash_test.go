package romhash

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/romkeep/internal/model"
)

func writeZip(t *testing.T, path string, entries map[string][]byte, order []string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, name := range order {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestHashDeterministic(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "game.nes")
	require.NoError(t, os.WriteFile(path, []byte("hello rom payload"), 0o644))

	first, err := Hash(path)
	require.NoError(t, err)
	second, err := Hash(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.CRC32, 8)
	assert.Len(t, first.MD5, 32)
	assert.Len(t, first.SHA1, 40)
}

func TestHashKnownVector(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "abc.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	digest, err := Hash(path)
	require.NoError(t, err)
	assert.Equal(t, "352441C2", digest.CRC32)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", digest.MD5)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", digest.SHA1)
}

func TestHashZipMatchesPayload(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	payload := []byte("the actual rom contents")

	plain := filepath.Join(dir, "game.gba")
	require.NoError(t, os.WriteFile(plain, payload, 0o644))
	zipped := filepath.Join(dir, "game.zip")
	writeZip(t, zipped, map[string][]byte{"game.gba": payload}, []string{"game.gba"})

	direct, err := Hash(plain)
	require.NoError(t, err)
	unwrapped, err := Hash(zipped)
	require.NoError(t, err)
	assert.Equal(t, direct, unwrapped)
}

func TestHashZipFirstEntryOnly(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	zipped := filepath.Join(dir, "multi.zip")
	writeZip(t, zipped,
		map[string][]byte{"a.bin": []byte("first"), "b.bin": []byte("second")},
		[]string{"a.bin", "b.bin"})

	plain := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(plain, []byte("first"), 0o644))

	fromZip, err := Hash(zipped)
	require.NoError(t, err)
	fromFirst, err := Hash(plain)
	require.NoError(t, err)
	assert.Equal(t, fromFirst, fromZip)
}

func TestHashEmptyZip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	zipped := filepath.Join(dir, "empty.zip")
	writeZip(t, zipped, nil, nil)

	_, err := Hash(zipped)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrEmptyArchive))
}

func TestHashMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Hash(filepath.Join(t.TempDir(), "missing.nes"))
	require.Error(t, err)
}

func TestMD5MatchesTriple(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "game.sfc")
	require.NoError(t, os.WriteFile(path, []byte("snes rom"), 0o644))

	digest, err := Hash(path)
	require.NoError(t, err)
	md5Only, err := MD5(path)
	require.NoError(t, err)
	assert.Equal(t, digest.MD5, md5Only)
}
