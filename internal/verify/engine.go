package verify

import (
	"context"
	"os"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/romhash"
)

const progressInterval = 10

// Engine checks catalog entries against imported reference sets.
type Engine struct {
	roms *db.RomDAO
	dats *db.DatDAO
}

// NewEngine wires the engine to the catalog DAOs.
func NewEngine(roms *db.RomDAO, dats *db.DatDAO) *Engine {
	return &Engine{roms: roms, dats: dats}
}

// Run verifies every entry, optionally limited to one platform.
// Cancellation is honored between entries, so each entry's outcome is
// either fully recorded or untouched.
func (e *Engine) Run(ctx context.Context, platformID int64, progress model.ProgressFunc) (model.VerifyStats, error) {
	var stats model.VerifyStats

	rows, err := e.roms.ListForVerification(ctx, platformID)
	if err != nil {
		return stats, err
	}

	logger := logutil.GetLogger(ctx)
	total := int64(len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if i%progressInterval == 0 {
			progress.Report(model.ScanProgress{
				Total:       total,
				Current:     int64(i),
				CurrentItem: row.Name,
			})
		}

		status, err := e.verifyOne(ctx, row)
		if err != nil {
			return stats, err
		}
		switch status {
		case model.StatusVerified:
			stats.Verified++
		case model.StatusUnverified:
			stats.Unverified++
		case model.StatusBadDump:
			stats.BadDump++
			logger.Warn("bad dump detected", zap.Int64("rom_id", row.ID), zap.String("name", row.Name))
		case model.StatusNotChecked:
			stats.NotChecked++
		}
	}
	progress.Report(model.ScanProgress{Total: total, Current: total})
	return stats, nil
}

// verifyOne resolves the entry's hashes, preferring stored values and
// falling back to recomputing from a local copy, then matches them
// against the reference sets.
func (e *Engine) verifyOne(ctx context.Context, row db.VerifyRow) (string, error) {
	crc, md5sum, sha1sum := row.HashCRC32, row.HashMD5, row.HashSHA1
	if crc == "" || md5sum == "" || sha1sum == "" {
		if row.LocalPath == "" || !fileExists(row.LocalPath) {
			return e.record(ctx, row.ID, model.StatusNotChecked, nil)
		}
		digest, err := romhash.Hash(row.LocalPath)
		if err != nil {
			logutil.GetLogger(ctx).Warn("failed to hash file",
				zap.String("path", row.LocalPath), zap.Error(err))
			return e.record(ctx, row.ID, model.StatusNotChecked, nil)
		}
		if err := e.roms.UpdateHashes(ctx, row.ID, digest); err != nil {
			return "", err
		}
		crc, md5sum, sha1sum = digest.CRC32, digest.MD5, digest.SHA1
	}

	entry, err := e.dats.Lookup(ctx, crc, md5sum, sha1sum)
	if err != nil {
		return "", err
	}
	if entry == nil {
		return e.record(ctx, row.ID, model.StatusUnverified, nil)
	}
	status := model.StatusVerified
	if entry.Status == "baddump" {
		status = model.StatusBadDump
	}
	return e.record(ctx, row.ID, status, entry)
}

func (e *Engine) record(ctx context.Context, romID int64, status string, entry *model.DatEntry) (string, error) {
	var entryID int64
	var gameName string
	if entry != nil {
		entryID = entry.ID
		gameName = entry.GameName
	}
	if err := e.roms.SetVerification(ctx, romID, status, entryID, gameName); err != nil {
		return "", err
	}
	return status, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
