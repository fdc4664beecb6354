package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"
)

// HasheousCacheRow is the cached outcome of one reference-hash lookup.
// A row with empty fields is a valid "looked up, no match" marker.
type HasheousCacheRow struct {
	RomID          int64
	RawResponse    string
	Name           string
	Publisher      string
	Year           string
	Description    string
	Genres         string
	IGDBID         string
	TGDBID         string
	RAID           string
	WikipediaURL   string
	PlatformIGDBID string
	PlatformRAID   string
	FetchedAt      string
}

// CacheDAO persists per-source lookup caches keyed by entry id.
type CacheDAO struct {
	db *sql.DB
}

// NewCacheDAO builds a DAO on top of an opened catalog database.
func NewCacheDAO(db *sql.DB) *CacheDAO {
	return &CacheDAO{db: db}
}

// GetHasheous loads the cached reference-hash lookup. found reports
// whether a cache row exists at all, miss markers included.
func (dao *CacheDAO) GetHasheous(ctx context.Context, romID int64) (*HasheousCacheRow, bool, error) {
	const query = `SELECT rom_id, raw_response, name, publisher, year, description, genres,
	igdb_id, tgdb_id, ra_id, wikipedia_url, platform_igdb_id, platform_ra_id, fetched_at
FROM hasheous_cache WHERE rom_id = ?`
	var row HasheousCacheRow
	raw := make([]sql.NullString, 12)
	err := dao.db.QueryRowContext(ctx, query, romID).Scan(
		&row.RomID, &raw[0], &raw[1], &raw[2], &raw[3], &raw[4], &raw[5],
		&raw[6], &raw[7], &raw[8], &raw[9], &raw[10], &raw[11], &row.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query hasheous cache for rom %d: %w", romID, err)
	}
	row.RawResponse = raw[0].String
	row.Name = raw[1].String
	row.Publisher = raw[2].String
	row.Year = raw[3].String
	row.Description = raw[4].String
	row.Genres = raw[5].String
	row.IGDBID = raw[6].String
	row.TGDBID = raw[7].String
	row.RAID = raw[8].String
	row.WikipediaURL = raw[9].String
	row.PlatformIGDBID = raw[10].String
	row.PlatformRAID = raw[11].String
	return &row, true, nil
}

// PutHasheous stores a lookup result (or a miss marker with empty fields).
func (dao *CacheDAO) PutHasheous(ctx context.Context, row HasheousCacheRow) error {
	payload := map[string]interface{}{
		"rom_id":           row.RomID,
		"raw_response":     nullableString(row.RawResponse),
		"name":             nullableString(row.Name),
		"publisher":        nullableString(row.Publisher),
		"year":             nullableString(row.Year),
		"description":      nullableString(row.Description),
		"genres":           nullableString(row.Genres),
		"igdb_id":          nullableString(row.IGDBID),
		"tgdb_id":          nullableString(row.TGDBID),
		"ra_id":            nullableString(row.RAID),
		"wikipedia_url":    nullableString(row.WikipediaURL),
		"platform_igdb_id": nullableString(row.PlatformIGDBID),
		"platform_ra_id":   nullableString(row.PlatformRAID),
		"fetched_at":       nowStamp(),
	}
	return dao.upsertByRomID(ctx, "hasheous_cache", row.RomID, payload)
}

// GetRaw loads a raw-payload cache row from one of the simple cache
// tables (igdb_cache, screenscraper_cache).
func (dao *CacheDAO) GetRaw(ctx context.Context, table string, romID int64) (string, bool, error) {
	query := fmt.Sprintf(`SELECT raw_response FROM %s WHERE rom_id = ?`, table)
	var raw sql.NullString
	err := dao.db.QueryRowContext(ctx, query, romID).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query %s for rom %d: %w", table, romID, err)
	}
	return raw.String, true, nil
}

// PutRaw stores a raw-payload cache row.
func (dao *CacheDAO) PutRaw(ctx context.Context, table string, romID int64, raw string) error {
	payload := map[string]interface{}{
		"rom_id":       romID,
		"raw_response": nullableString(raw),
		"fetched_at":   nowStamp(),
	}
	return dao.upsertByRomID(ctx, table, romID, payload)
}

// Delete drops a cache row, used by forced refreshes.
func (dao *CacheDAO) Delete(ctx context.Context, table string, romID int64) error {
	deleteSQL, args, err := builder.BuildDelete(table, map[string]interface{}{"rom_id": romID})
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, deleteSQL, args...); err != nil {
		return fmt.Errorf("delete %s for rom %d: %w", table, romID, err)
	}
	return nil
}

func (dao *CacheDAO) upsertByRomID(ctx context.Context, table string, romID int64, payload map[string]interface{}) error {
	insertSQL, args, err := builder.BuildInsert(table, []map[string]interface{}{payload})
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, insertSQL, args...); err != nil {
		if !isUniqueConstraintError(err) {
			return fmt.Errorf("insert %s for rom %d: %w", table, romID, err)
		}
		delete(payload, "rom_id")
		updateSQL, updateArgs, err := builder.BuildUpdate(table,
			map[string]interface{}{"rom_id": romID}, payload)
		if err != nil {
			return err
		}
		if _, err := dao.db.ExecContext(ctx, updateSQL, updateArgs...); err != nil {
			return fmt.Errorf("update %s for rom %d: %w", table, romID, err)
		}
	}
	return nil
}
