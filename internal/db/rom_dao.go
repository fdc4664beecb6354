package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/romhash"
)

const romTableName = "roms"

// RomDAO exposes catalog entry access for the resolver, verification
// engine and enrichment orchestrator.
type RomDAO struct {
	db *sql.DB
}

// NewRomDAO builds a DAO on top of an opened catalog database.
func NewRomDAO(db *sql.DB) *RomDAO {
	return &RomDAO{db: db}
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// EnsurePlatform finds or creates the platform row for a slug.
func (dao *RomDAO) EnsurePlatform(ctx context.Context, slug, name string, screenscraperID int64) (int64, error) {
	const query = `SELECT id FROM platforms WHERE slug = ? LIMIT 1`
	var id int64
	err := dao.db.QueryRowContext(ctx, query, slug).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("query platform %s: %w", slug, err)
	}

	now := nowStamp()
	insertSQL, args, err := builder.BuildInsert("platforms", []map[string]interface{}{{
		"slug":             slug,
		"name":             name,
		"screenscraper_id": nullableInt64(screenscraperID),
		"created_at":       now,
		"updated_at":       now,
	}})
	if err != nil {
		return 0, err
	}
	res, err := dao.db.ExecContext(ctx, insertSQL, args...)
	if err != nil {
		return 0, fmt.Errorf("insert platform %s: %w", slug, err)
	}
	return res.LastInsertId()
}

// FindPlatform returns the platform row for a slug.
func (dao *RomDAO) FindPlatform(ctx context.Context, slug string) (*model.Platform, error) {
	const query = `SELECT id, slug, name, screenscraper_id FROM platforms WHERE slug = ? LIMIT 1`
	var p model.Platform
	var ssID sql.NullInt64
	err := dao.db.QueryRowContext(ctx, query, slug).Scan(&p.ID, &p.Slug, &p.Name, &ssID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("platform %s: %w", slug, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query platform %s: %w", slug, err)
	}
	p.ScreenScraperID = ssID.Int64
	return &p, nil
}

// FindIDByHash returns the entry id sharing (platform, md5), if any.
func (dao *RomDAO) FindIDByHash(ctx context.Context, platformID int64, hashMD5 string) (int64, bool, error) {
	const query = `SELECT id FROM roms WHERE platform_id = ? AND hash_md5 = ? LIMIT 1`
	var id int64
	err := dao.db.QueryRowContext(ctx, query, platformID, hashMD5).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query rom by hash: %w", err)
	}
	return id, true, nil
}

// FindIDByFileName returns the entry id sharing (platform, file name), if any.
func (dao *RomDAO) FindIDByFileName(ctx context.Context, platformID int64, fileName string) (int64, bool, error) {
	const query = `SELECT id FROM roms WHERE platform_id = ? AND file_name = ? LIMIT 1`
	var id int64
	err := dao.db.QueryRowContext(ctx, query, platformID, fileName).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query rom by file name: %w", err)
	}
	return id, true, nil
}

// Insert creates a new catalog entry and returns its id.
func (dao *RomDAO) Insert(ctx context.Context, rom model.Rom) (int64, error) {
	now := nowStamp()
	insertSQL, args, err := builder.BuildInsert(romTableName, []map[string]interface{}{{
		"platform_id": rom.PlatformID,
		"name":        rom.Name,
		"file_name":   rom.FileName,
		"file_size":   nullableInt64(rom.FileSize),
		"regions":     rom.Regions,
		"hash_md5":    nullableString(rom.HashMD5),
		"created_at":  now,
		"updated_at":  now,
	}})
	if err != nil {
		return 0, err
	}
	res, err := dao.db.ExecContext(ctx, insertSQL, args...)
	if err != nil {
		return 0, fmt.Errorf("insert rom %s: %w", rom.FileName, err)
	}
	return res.LastInsertId()
}

const coalesceUpdateSQL = `
UPDATE roms SET
	name = COALESCE(NULLIF(?, ''), name),
	file_size = COALESCE(NULLIF(?, 0), file_size),
	regions = CASE WHEN ? != '[]' THEN ? ELSE regions END,
	hash_md5 = COALESCE(NULLIF(?, ''), hash_md5),
	updated_at = ?
WHERE id = ?`

// CoalesceUpdate fills empty fields on an existing entry without ever
// regressing stored values.
func (dao *RomDAO) CoalesceUpdate(ctx context.Context, romID int64, name string, fileSize int64, regions, hashMD5 string) error {
	_, err := dao.db.ExecContext(ctx, coalesceUpdateSQL,
		name, fileSize, regions, regions, hashMD5, nowStamp(), romID)
	if err != nil {
		return fmt.Errorf("coalesce update rom %d: %w", romID, err)
	}
	return nil
}

// Get loads a single catalog entry.
func (dao *RomDAO) Get(ctx context.Context, romID int64) (*model.Rom, error) {
	const query = `
SELECT id, platform_id, name, file_name, file_size, regions,
	hash_crc32, hash_md5, hash_sha1,
	verification_status, dat_entry_id, dat_game_name, metadata_fetched_at
FROM roms WHERE id = ?`
	row := dao.db.QueryRowContext(ctx, query, romID)
	rom, err := scanRom(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rom %d: %w", romID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query rom %d: %w", romID, err)
	}
	return rom, nil
}

type romScanner interface {
	Scan(dest ...interface{}) error
}

func scanRom(row romScanner) (*model.Rom, error) {
	var rom model.Rom
	var fileSize, datEntryID sql.NullInt64
	var crc, md5sum, sha1sum, status, datGameName, fetchedAt sql.NullString
	err := row.Scan(&rom.ID, &rom.PlatformID, &rom.Name, &rom.FileName, &fileSize, &rom.Regions,
		&crc, &md5sum, &sha1sum, &status, &datEntryID, &datGameName, &fetchedAt)
	if err != nil {
		return nil, err
	}
	rom.FileSize = fileSize.Int64
	rom.HashCRC32 = crc.String
	rom.HashMD5 = md5sum.String
	rom.HashSHA1 = sha1sum.String
	rom.VerificationStatus = status.String
	rom.DatEntryID = datEntryID.Int64
	rom.DatGameName = datGameName.String
	rom.MetadataFetchedAt = fetchedAt.String
	return &rom, nil
}

// UpdateHashes persists a freshly computed triple hash.
func (dao *RomDAO) UpdateHashes(ctx context.Context, romID int64, digest romhash.Digest) error {
	const query = `UPDATE roms SET hash_crc32 = ?, hash_md5 = ?, hash_sha1 = ?, updated_at = ? WHERE id = ?`
	if _, err := dao.db.ExecContext(ctx, query, digest.CRC32, digest.MD5, digest.SHA1, nowStamp(), romID); err != nil {
		return fmt.Errorf("update hashes for rom %d: %w", romID, err)
	}
	return nil
}

// SetVerification records a terminal verification result with its DAT linkage.
func (dao *RomDAO) SetVerification(ctx context.Context, romID int64, status string, datEntryID int64, datGameName string) error {
	const query = `UPDATE roms SET verification_status = ?, dat_entry_id = ?, dat_game_name = ?, updated_at = ? WHERE id = ?`
	_, err := dao.db.ExecContext(ctx, query, status, nullableInt64(datEntryID), nullableString(datGameName), nowStamp(), romID)
	if err != nil {
		return fmt.Errorf("set verification for rom %d: %w", romID, err)
	}
	return nil
}

// MarkEnriched stamps the entry enriched, keeping the first timestamp on
// re-runs.
func (dao *RomDAO) MarkEnriched(ctx context.Context, romID int64) error {
	const query = `UPDATE roms SET metadata_fetched_at = COALESCE(metadata_fetched_at, ?) WHERE id = ?`
	if _, err := dao.db.ExecContext(ctx, query, nowStamp(), romID); err != nil {
		return fmt.Errorf("mark rom %d enriched: %w", romID, err)
	}
	return nil
}

// VerifyRow is one candidate returned by ListForVerification: the stored
// hashes plus the local path to recompute them from, when any source
// offers one.
type VerifyRow struct {
	ID        int64
	Name      string
	HashCRC32 string
	HashMD5   string
	HashSHA1  string
	LocalPath string
}

const listForVerificationSQL = `
SELECT r.id, r.name, r.hash_crc32, r.hash_md5, r.hash_sha1, sr.source_rom_id
FROM roms r
LEFT JOIN source_roms sr ON sr.rom_id = r.id
LEFT JOIN sources s ON s.id = sr.source_id AND s.source_type = 'local'
%s
GROUP BY r.id
ORDER BY r.id`

// ListForVerification returns every entry to verify, optionally limited
// to one platform.
func (dao *RomDAO) ListForVerification(ctx context.Context, platformID int64) ([]VerifyRow, error) {
	query := fmt.Sprintf(listForVerificationSQL, "")
	args := []interface{}{}
	if platformID != 0 {
		query = fmt.Sprintf(listForVerificationSQL, "WHERE r.platform_id = ?")
		args = append(args, platformID)
	}

	rows, err := dao.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list roms for verification: %w", err)
	}
	defer rows.Close()

	var result []VerifyRow
	for rows.Next() {
		var row VerifyRow
		var crc, md5sum, sha1sum, localPath sql.NullString
		if err := rows.Scan(&row.ID, &row.Name, &crc, &md5sum, &sha1sum, &localPath); err != nil {
			return nil, fmt.Errorf("scan verification row: %w", err)
		}
		row.HashCRC32 = crc.String
		row.HashMD5 = md5sum.String
		row.HashSHA1 = sha1sum.String
		row.LocalPath = localPath.String
		result = append(result, row)
	}
	return result, rows.Err()
}

// EnrichRow is one candidate for the enrichment pipeline.
type EnrichRow struct {
	ID           int64
	PlatformID   int64
	PlatformSlug string
	Name         string
	FileName     string
	HashMD5      string
	LocalPath    string
}

const listForEnrichmentSQL = `
SELECT r.id, r.platform_id, p.slug, r.name, r.file_name, r.hash_md5, sr.source_rom_id
FROM roms r
JOIN platforms p ON p.id = r.platform_id
LEFT JOIN source_roms sr ON sr.rom_id = r.id
LEFT JOIN sources s ON s.id = sr.source_id AND s.source_type = 'local'
WHERE %s
GROUP BY r.id
ORDER BY r.id`

// ListForEnrichment returns unenriched entries, optionally limited to a
// platform. With onlyUnenriched false (forced refresh paths) already
// enriched entries are returned too.
func (dao *RomDAO) ListForEnrichment(ctx context.Context, platformID int64, onlyUnenriched bool) ([]EnrichRow, error) {
	where := "1 = 1"
	args := []interface{}{}
	if onlyUnenriched {
		// An entry counts as unenriched until it has a fetch stamp, a
		// hash lookup cache row and a cover.
		where = `(r.metadata_fetched_at IS NULL
		OR NOT EXISTS (SELECT 1 FROM hasheous_cache hc WHERE hc.rom_id = r.id)
		OR NOT EXISTS (SELECT 1 FROM metadata m WHERE m.rom_id = r.id AND m.cover_url IS NOT NULL))`
	}
	if platformID != 0 {
		where += " AND r.platform_id = ?"
		args = append(args, platformID)
	}

	rows, err := dao.db.QueryContext(ctx, fmt.Sprintf(listForEnrichmentSQL, where), args...)
	if err != nil {
		return nil, fmt.Errorf("list roms for enrichment: %w", err)
	}
	defer rows.Close()

	var result []EnrichRow
	for rows.Next() {
		row, err := scanEnrichRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *row)
	}
	return result, rows.Err()
}

// GetForEnrichment loads one entry in enrichment-row shape.
func (dao *RomDAO) GetForEnrichment(ctx context.Context, romID int64) (*EnrichRow, error) {
	const query = `
SELECT r.id, r.platform_id, p.slug, r.name, r.file_name, r.hash_md5, sr.source_rom_id
FROM roms r
JOIN platforms p ON p.id = r.platform_id
LEFT JOIN source_roms sr ON sr.rom_id = r.id
LEFT JOIN sources s ON s.id = sr.source_id AND s.source_type = 'local'
WHERE r.id = ?
GROUP BY r.id`
	rows, err := dao.db.QueryContext(ctx, query, romID)
	if err != nil {
		return nil, fmt.Errorf("query rom %d for enrichment: %w", romID, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("rom %d: %w", romID, model.ErrNotFound)
	}
	return scanEnrichRow(rows)
}

func scanEnrichRow(rows *sql.Rows) (*EnrichRow, error) {
	var row EnrichRow
	var md5sum, localPath sql.NullString
	if err := rows.Scan(&row.ID, &row.PlatformID, &row.PlatformSlug, &row.Name, &row.FileName, &md5sum, &localPath); err != nil {
		return nil, fmt.Errorf("scan enrichment row: %w", err)
	}
	row.HashMD5 = md5sum.String
	row.LocalPath = localPath.String
	return &row, nil
}

// DuplicateGroup identifies one (platform, hash) set holding more than
// one entry.
type DuplicateGroup struct {
	PlatformID int64
	HashMD5    string
}

// ListDuplicateGroups finds hash groups needing reconciliation.
func (dao *RomDAO) ListDuplicateGroups(ctx context.Context) ([]DuplicateGroup, error) {
	const query = `
SELECT platform_id, hash_md5
FROM roms
WHERE hash_md5 IS NOT NULL AND hash_md5 != ''
GROUP BY platform_id, hash_md5
HAVING COUNT(*) > 1`
	rows, err := dao.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list duplicate groups: %w", err)
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var g DuplicateGroup
		if err := rows.Scan(&g.PlatformID, &g.HashMD5); err != nil {
			return nil, fmt.Errorf("scan duplicate group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListGroupIDs returns every entry id in one duplicate group, oldest first.
func (dao *RomDAO) ListGroupIDs(ctx context.Context, platformID int64, hashMD5 string) ([]int64, error) {
	const query = `SELECT id FROM roms WHERE platform_id = ? AND hash_md5 = ? ORDER BY id`
	rows, err := dao.db.QueryContext(ctx, query, platformID, hashMD5)
	if err != nil {
		return nil, fmt.Errorf("list duplicate ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// retargetTables lists every table carrying a rom_id that must follow the
// keeper on merge. Existing keeper rows win on conflict.
var retargetTables = []string{"source_roms", "metadata", "artwork", "library", "hasheous_cache"}

// MergeInto retargets every dependent row from a duplicate onto the
// keeper and deletes the duplicate.
func (dao *RomDAO) MergeInto(ctx context.Context, keeperID, dupeID int64) error {
	for _, table := range retargetTables {
		query := fmt.Sprintf(`UPDATE OR IGNORE %s SET rom_id = ? WHERE rom_id = ?`, table)
		if _, err := dao.db.ExecContext(ctx, query, keeperID, dupeID); err != nil {
			return fmt.Errorf("retarget %s from rom %d: %w", table, dupeID, err)
		}
	}

	deleteSQL, args, err := builder.BuildDelete(romTableName, map[string]interface{}{"id": dupeID})
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, deleteSQL, args...); err != nil {
		return fmt.Errorf("delete duplicate rom %d: %w", dupeID, err)
	}
	return nil
}

// ListPlatforms returns every platform known to the catalog.
func (dao *RomDAO) ListPlatforms(ctx context.Context) ([]model.Platform, error) {
	const query = `SELECT id, slug, name, screenscraper_id FROM platforms ORDER BY slug`
	rows, err := dao.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()

	var result []model.Platform
	for rows.Next() {
		var p model.Platform
		var ssID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &ssID); err != nil {
			return nil, err
		}
		p.ScreenScraperID = ssID.Int64
		result = append(result, p)
	}
	return result, rows.Err()
}

const listByPlatformSQL = `
SELECT id, platform_id, name, file_name, file_size, regions,
	hash_crc32, hash_md5, hash_sha1,
	verification_status, dat_entry_id, dat_game_name, metadata_fetched_at
FROM roms WHERE platform_id = ? ORDER BY name, id`

// ListByPlatform loads every catalog entry of one platform, name order.
func (dao *RomDAO) ListByPlatform(ctx context.Context, platformID int64) ([]model.Rom, error) {
	rows, err := dao.db.QueryContext(ctx, listByPlatformSQL, platformID)
	if err != nil {
		return nil, fmt.Errorf("list roms for platform %d: %w", platformID, err)
	}
	defer rows.Close()

	var result []model.Rom
	for rows.Next() {
		rom, err := scanRom(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rom)
	}
	return result, rows.Err()
}

const findByMD5SQL = `
SELECT id, platform_id, name, file_name, file_size, regions,
	hash_crc32, hash_md5, hash_sha1,
	verification_status, dat_entry_id, dat_game_name, metadata_fetched_at
FROM roms WHERE hash_md5 = ? ORDER BY id`

// FindByMD5 returns every entry carrying the hash, across platforms.
func (dao *RomDAO) FindByMD5(ctx context.Context, hashMD5 string) ([]model.Rom, error) {
	rows, err := dao.db.QueryContext(ctx, findByMD5SQL, hashMD5)
	if err != nil {
		return nil, fmt.Errorf("find roms by md5 %s: %w", hashMD5, err)
	}
	defer rows.Close()

	var result []model.Rom
	for rows.Next() {
		rom, err := scanRom(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rom)
	}
	return result, rows.Err()
}

// CountByStatus tallies verification statuses, optionally per platform.
func (dao *RomDAO) CountByStatus(ctx context.Context, platformID int64) (model.VerifyStats, error) {
	query := `
SELECT
	SUM(CASE WHEN verification_status = 'verified' THEN 1 ELSE 0 END),
	SUM(CASE WHEN verification_status = 'unverified' THEN 1 ELSE 0 END),
	SUM(CASE WHEN verification_status = 'bad_dump' THEN 1 ELSE 0 END),
	SUM(CASE WHEN verification_status = 'not_checked' OR verification_status IS NULL THEN 1 ELSE 0 END)
FROM roms`
	args := []interface{}{}
	if platformID != 0 {
		query += ` WHERE platform_id = ?`
		args = append(args, platformID)
	}

	var stats model.VerifyStats
	var verified, unverified, badDump, notChecked sql.NullInt64
	if err := dao.db.QueryRowContext(ctx, query, args...).Scan(&verified, &unverified, &badDump, &notChecked); err != nil {
		return stats, fmt.Errorf("count verification stats: %w", err)
	}
	stats.Verified = verified.Int64
	stats.Unverified = unverified.Int64
	stats.BadDump = badDump.Int64
	stats.NotChecked = notChecked.Int64
	return stats, nil
}
