package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"
)

const hashCacheTableName = "file_hash_cache"

// HashCacheDAO caches file content hashes keyed by path and modification
// time, so repeated export runs skip re-reading unchanged files.
type HashCacheDAO struct {
	db *sql.DB
}

// NewHashCacheDAO builds a DAO on top of an opened catalog database.
func NewHashCacheDAO(db *sql.DB) *HashCacheDAO {
	return &HashCacheDAO{db: db}
}

// Lookup returns a cached hash for the location when the file
// modification time matches.
func (dao *HashCacheDAO) Lookup(ctx context.Context, location string, modTime int64) (string, bool, error) {
	const query = `SELECT hash, file_modtime FROM file_hash_cache WHERE location = ? LIMIT 1`
	var hash string
	var cachedModTime int64
	err := dao.db.QueryRowContext(ctx, query, location).Scan(&hash, &cachedModTime)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query hash cache: %w", err)
	}
	if cachedModTime != modTime {
		return "", false, nil
	}
	return hash, true, nil
}

// Upsert stores or updates the cached hash for the provided location.
func (dao *HashCacheDAO) Upsert(ctx context.Context, location string, modTime int64, hash string) error {
	payload := []map[string]interface{}{{
		"location":     location,
		"file_modtime": modTime,
		"hash":         hash,
	}}
	insertSQL, insertArgs, err := builder.BuildInsert(hashCacheTableName, payload)
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
		if !isUniqueConstraintError(err) {
			return fmt.Errorf("insert hash cache: %w", err)
		}
		updateSQL, updateArgs, err := builder.BuildUpdate(hashCacheTableName,
			map[string]interface{}{"location": location},
			map[string]interface{}{
				"file_modtime": modTime,
				"hash":         hash,
			},
		)
		if err != nil {
			return err
		}
		if _, err := dao.db.ExecContext(ctx, updateSQL, updateArgs...); err != nil {
			return fmt.Errorf("update hash cache: %w", err)
		}
	}
	return nil
}
