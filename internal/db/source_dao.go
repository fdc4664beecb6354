package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/romkeep/internal/model"
)

// SourceDAO manages source rows and per-source links to catalog entries.
type SourceDAO struct {
	db *sql.DB
}

// NewSourceDAO builds a DAO on top of an opened catalog database.
func NewSourceDAO(db *sql.DB) *SourceDAO {
	return &SourceDAO{db: db}
}

// Ensure finds or creates a source identified by (type, name).
func (dao *SourceDAO) Ensure(ctx context.Context, sourceType, name, rootPath string) (int64, error) {
	const query = `SELECT id FROM sources WHERE source_type = ? AND name = ? LIMIT 1`
	var id int64
	err := dao.db.QueryRowContext(ctx, query, sourceType, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("query source %s/%s: %w", sourceType, name, err)
	}

	insertSQL, args, err := builder.BuildInsert("sources", []map[string]interface{}{{
		"source_type": sourceType,
		"name":        name,
		"root_path":   rootPath,
	}})
	if err != nil {
		return 0, err
	}
	res, err := dao.db.ExecContext(ctx, insertSQL, args...)
	if err != nil {
		return 0, fmt.Errorf("insert source %s/%s: %w", sourceType, name, err)
	}
	return res.LastInsertId()
}

const linkSourceSQL = `
INSERT INTO source_roms (rom_id, source_id, source_rom_id, source_url, file_name, hash_md5)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(rom_id, source_id) DO UPDATE SET
	source_rom_id = COALESCE(excluded.source_rom_id, source_roms.source_rom_id),
	source_url = COALESCE(excluded.source_url, source_roms.source_url),
	file_name = COALESCE(excluded.file_name, source_roms.file_name),
	hash_md5 = COALESCE(excluded.hash_md5, source_roms.hash_md5)`

// Link creates or refreshes the (entry, source) mapping. Existing values
// survive NULL updates.
func (dao *SourceDAO) Link(ctx context.Context, link model.SourceLink) error {
	_, err := dao.db.ExecContext(ctx, linkSourceSQL,
		link.RomID, link.SourceID,
		nullableString(link.SourceRomID),
		nullableString(link.SourceURL),
		nullableString(link.FileName),
		nullableString(link.HashMD5),
	)
	if err != nil {
		return fmt.Errorf("link rom %d to source %d: %w", link.RomID, link.SourceID, err)
	}
	return nil
}

// CountLinks returns the number of sources offering one entry.
func (dao *SourceDAO) CountLinks(ctx context.Context, romID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM source_roms WHERE rom_id = ?`
	var count int64
	if err := dao.db.QueryRowContext(ctx, query, romID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count links for rom %d: %w", romID, err)
	}
	return count, nil
}

// TouchSynced stamps the source's last sync time.
func (dao *SourceDAO) TouchSynced(ctx context.Context, sourceID int64) error {
	updateSQL, args, err := builder.BuildUpdate("sources",
		map[string]interface{}{"id": sourceID},
		map[string]interface{}{"last_synced_at": nowStamp()},
	)
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, updateSQL, args...); err != nil {
		return fmt.Errorf("touch source %d: %w", sourceID, err)
	}
	return nil
}
