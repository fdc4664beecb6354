package romhash

import (
	"archive/zip"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"strings"

	"github.com/xxxsen/romkeep/internal/model"
)

// Digest carries the three hashes used for DAT verification. CRC32 is
// uppercase hex, MD5/SHA1 lowercase hex, matching DAT conventions.
type Digest struct {
	CRC32 string
	MD5   string
	SHA1  string
}

// Hash computes CRC32, MD5 and SHA1 of a file in a single read pass.
// A .zip file is unwrapped to its first entry by archive index; archives
// with the payload in a later slot hash the wrong entry, which is the
// accepted convention for no-intro style packaging.
func Hash(path string) (Digest, error) {
	reader, closer, err := openRomReader(path)
	if err != nil {
		return Digest{}, err
	}
	defer closer()
	return hashReader(reader)
}

// MD5 computes only the MD5 hash, with the same zip unwrapping as Hash.
func MD5(path string) (string, error) {
	reader, closer, err := openRomReader(path)
	if err != nil {
		return "", err
	}
	defer closer()

	hasher := md5.New()
	if _, err := io.Copy(hasher, reader); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func hashReader(reader io.Reader) (Digest, error) {
	crcHasher := crc32.NewIEEE()
	md5Hasher := md5.New()
	sha1Hasher := sha1.New()

	buf := make([]byte, 8192)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			crcHasher.Write(buf[:n])
			md5Hasher.Write(buf[:n])
			sha1Hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Digest{}, fmt.Errorf("read for hash: %w", err)
		}
	}

	return Digest{
		CRC32: fmt.Sprintf("%08X", crcHasher.Sum32()),
		MD5:   hex.EncodeToString(md5Hasher.Sum(nil)),
		SHA1:  hex.EncodeToString(sha1Hasher.Sum(nil)),
	}, nil
}

func openRomReader(path string) (io.Reader, func(), error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		archive, err := zip.OpenReader(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open zip %s: %w", path, err)
		}
		if len(archive.File) == 0 {
			archive.Close()
			return nil, nil, fmt.Errorf("%s: %w", path, model.ErrEmptyArchive)
		}
		inner, err := archive.File[0].Open()
		if err != nil {
			archive.Close()
			return nil, nil, fmt.Errorf("open zip entry %s: %w", archive.File[0].Name, err)
		}
		return inner, func() {
			inner.Close()
			archive.Close()
		}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open file for hash %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
