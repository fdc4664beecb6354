package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/romkeep/internal/model"
)

const datInsertBatchSize = 500

// DatDAO stores imported reference sets and answers hash lookups.
type DatDAO struct {
	db *sql.DB
}

// NewDatDAO builds a DAO on top of an opened catalog database.
func NewDatDAO(db *sql.DB) *DatDAO {
	return &DatDAO{db: db}
}

// ReplaceSet atomically replaces the reference set for one
// (platform, dat type) key and returns the new dat_files id. Entries are
// inserted in fixed-size batches; onBatch is invoked after each one.
func (dao *DatDAO) ReplaceSet(ctx context.Context, file model.DatFile, entries []model.DatEntry, onBatch func(inserted int)) (int64, error) {
	tx, err := dao.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin dat import: %w", err)
	}
	defer tx.Rollback()

	deleteSQL, args, err := builder.BuildDelete("dat_files", map[string]interface{}{
		"platform_slug": file.PlatformSlug,
		"dat_type":      file.DatType,
	})
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, args...); err != nil {
		return 0, fmt.Errorf("delete previous dat set: %w", err)
	}

	insertSQL, args, err := builder.BuildInsert("dat_files", []map[string]interface{}{{
		"name":          file.Name,
		"description":   nullableString(file.Description),
		"version":       nullableString(file.Version),
		"dat_type":      file.DatType,
		"platform_slug": file.PlatformSlug,
		"entry_count":   len(entries),
		"imported_at":   nowStamp(),
	}})
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, insertSQL, args...)
	if err != nil {
		return 0, fmt.Errorf("insert dat file record: %w", err)
	}
	datFileID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for start := 0; start < len(entries); start += datInsertBatchSize {
		end := start + datInsertBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		chunk := entries[start:end]
		rows := make([]map[string]interface{}, 0, len(chunk))
		for _, entry := range chunk {
			rows = append(rows, map[string]interface{}{
				"dat_file_id": datFileID,
				"game_name":   entry.GameName,
				"rom_name":    entry.RomName,
				"size":        nullableInt64(entry.Size),
				"crc32":       nullableString(entry.CRC32),
				"md5":         nullableString(entry.MD5),
				"sha1":        nullableString(entry.SHA1),
				"status":      nullableString(entry.Status),
			})
		}
		batchSQL, batchArgs, err := builder.BuildInsert("dat_entries", rows)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, batchSQL, batchArgs...); err != nil {
			return 0, fmt.Errorf("insert dat entries batch: %w", err)
		}
		if onBatch != nil {
			onBatch(end)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit dat import: %w", err)
	}
	return datFileID, nil
}

const datLookupSQL = `SELECT id, dat_file_id, game_name, rom_name, size, crc32, md5, sha1, status
FROM dat_entries WHERE %s = ? LIMIT 1`

// Lookup finds a reference entry by hash, trying SHA1, then MD5, then
// CRC32. The first hash kind that matches wins.
func (dao *DatDAO) Lookup(ctx context.Context, crc, md5sum, sha1sum string) (*model.DatEntry, error) {
	probes := []struct {
		column string
		value  string
	}{
		{"sha1", sha1sum},
		{"md5", md5sum},
		{"crc32", crc},
	}
	for _, probe := range probes {
		if probe.value == "" {
			continue
		}
		entry, err := dao.lookupByColumn(ctx, probe.column, probe.value)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			return entry, nil
		}
	}
	return nil, nil
}

func (dao *DatDAO) lookupByColumn(ctx context.Context, column, value string) (*model.DatEntry, error) {
	query := fmt.Sprintf(datLookupSQL, column)
	var entry model.DatEntry
	var size sql.NullInt64
	var crc, md5sum, sha1sum, status sql.NullString
	err := dao.db.QueryRowContext(ctx, query, value).Scan(
		&entry.ID, &entry.DatFileID, &entry.GameName, &entry.RomName,
		&size, &crc, &md5sum, &sha1sum, &status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup dat entry by %s: %w", column, err)
	}
	entry.Size = size.Int64
	entry.CRC32 = crc.String
	entry.MD5 = md5sum.String
	entry.SHA1 = sha1sum.String
	entry.Status = status.String
	return &entry, nil
}

// ListFiles returns every imported reference set.
func (dao *DatDAO) ListFiles(ctx context.Context) ([]model.DatFile, error) {
	const query = `SELECT id, name, description, version, dat_type, platform_slug, entry_count, imported_at
FROM dat_files ORDER BY platform_slug, dat_type`
	rows, err := dao.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list dat files: %w", err)
	}
	defer rows.Close()

	var result []model.DatFile
	for rows.Next() {
		var file model.DatFile
		var desc, version sql.NullString
		if err := rows.Scan(&file.ID, &file.Name, &desc, &version, &file.DatType,
			&file.PlatformSlug, &file.EntryCount, &file.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan dat file: %w", err)
		}
		file.Description = desc.String
		file.Version = version.String
		result = append(result, file)
	}
	return result, rows.Err()
}
