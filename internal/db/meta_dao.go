package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/romkeep/internal/model"
)

// MetaDAO persists the merged per-entry metadata view and artwork refs.
type MetaDAO struct {
	db *sql.DB
}

// NewMetaDAO builds a DAO on top of an opened catalog database.
func NewMetaDAO(db *sql.DB) *MetaDAO {
	return &MetaDAO{db: db}
}

// Get loads the merged metadata for one entry; nil when never written.
func (dao *MetaDAO) Get(ctx context.Context, romID int64) (*model.Metadata, error) {
	const query = `SELECT rom_id, description, developer, publisher, genres, themes, rating, release_date, cover_url, ra_game_id
FROM metadata WHERE rom_id = ?`
	var meta model.Metadata
	var desc, dev, pub, release, cover, raGameID sql.NullString
	var rating sql.NullFloat64
	err := dao.db.QueryRowContext(ctx, query, romID).Scan(
		&meta.RomID, &desc, &dev, &pub, &meta.Genres, &meta.Themes, &rating, &release, &cover, &raGameID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query metadata for rom %d: %w", romID, err)
	}
	meta.Description = desc.String
	meta.Developer = dev.String
	meta.Publisher = pub.String
	meta.Rating = rating.Float64
	meta.ReleaseDate = release.String
	meta.CoverURL = cover.String
	meta.RAGameID = raGameID.String
	return &meta, nil
}

// Put writes the merged metadata row. Merging happens in memory before
// this call, so the write is a plain replace.
func (dao *MetaDAO) Put(ctx context.Context, meta model.Metadata) error {
	payload := map[string]interface{}{
		"rom_id":       meta.RomID,
		"description":  nullableString(meta.Description),
		"developer":    nullableString(meta.Developer),
		"publisher":    nullableString(meta.Publisher),
		"genres":       meta.Genres,
		"themes":       meta.Themes,
		"rating":       sql.NullFloat64{Float64: meta.Rating, Valid: meta.Rating != 0},
		"release_date": nullableString(meta.ReleaseDate),
		"cover_url":    nullableString(meta.CoverURL),
		"ra_game_id":   nullableString(meta.RAGameID),
	}
	insertSQL, args, err := builder.BuildInsert("metadata", []map[string]interface{}{payload})
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, insertSQL, args...); err != nil {
		if !isUniqueConstraintError(err) {
			return fmt.Errorf("insert metadata for rom %d: %w", meta.RomID, err)
		}
		delete(payload, "rom_id")
		updateSQL, updateArgs, err := builder.BuildUpdate("metadata",
			map[string]interface{}{"rom_id": meta.RomID}, payload)
		if err != nil {
			return err
		}
		if _, err := dao.db.ExecContext(ctx, updateSQL, updateArgs...); err != nil {
			return fmt.Errorf("update metadata for rom %d: %w", meta.RomID, err)
		}
	}
	return nil
}

// Delete removes the merged metadata row, used by forced refreshes.
func (dao *MetaDAO) Delete(ctx context.Context, romID int64) error {
	deleteSQL, args, err := builder.BuildDelete("metadata", map[string]interface{}{"rom_id": romID})
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, deleteSQL, args...); err != nil {
		return fmt.Errorf("delete metadata for rom %d: %w", romID, err)
	}
	return nil
}

const addArtworkSQL = `INSERT INTO artwork (rom_id, art_type, url) VALUES (?, ?, ?)
ON CONFLICT(rom_id, art_type, url) DO NOTHING`

// AddArtwork appends one artwork ref; duplicates are ignored.
func (dao *MetaDAO) AddArtwork(ctx context.Context, art model.Artwork) error {
	if _, err := dao.db.ExecContext(ctx, addArtworkSQL, art.RomID, art.ArtType, art.URL); err != nil {
		return fmt.Errorf("add %s artwork for rom %d: %w", art.ArtType, art.RomID, err)
	}
	return nil
}

// ListArtwork returns artwork refs for one entry, optionally filtered by
// type.
func (dao *MetaDAO) ListArtwork(ctx context.Context, romID int64, artType string) ([]model.Artwork, error) {
	query := `SELECT rom_id, art_type, url FROM artwork WHERE rom_id = ?`
	args := []interface{}{romID}
	if artType != "" {
		query += ` AND art_type = ?`
		args = append(args, artType)
	}
	rows, err := dao.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list artwork for rom %d: %w", romID, err)
	}
	defer rows.Close()

	var result []model.Artwork
	for rows.Next() {
		var art model.Artwork
		if err := rows.Scan(&art.RomID, &art.ArtType, &art.URL); err != nil {
			return nil, err
		}
		result = append(result, art)
	}
	return result, rows.Err()
}

// ListUnmirroredArtwork returns artwork refs not yet copied into the
// object store.
func (dao *MetaDAO) ListUnmirroredArtwork(ctx context.Context) ([]model.Artwork, error) {
	const query = `SELECT rom_id, art_type, url FROM artwork WHERE mirror_url IS NULL ORDER BY rom_id, art_type, url`
	rows, err := dao.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list unmirrored artwork: %w", err)
	}
	defer rows.Close()

	var result []model.Artwork
	for rows.Next() {
		var art model.Artwork
		if err := rows.Scan(&art.RomID, &art.ArtType, &art.URL); err != nil {
			return nil, err
		}
		result = append(result, art)
	}
	return result, rows.Err()
}

// SetArtworkMirror records where a mirrored copy of one ref lives.
func (dao *MetaDAO) SetArtworkMirror(ctx context.Context, art model.Artwork, mirrorURL string) error {
	const query = `UPDATE artwork SET mirror_url = ? WHERE rom_id = ? AND art_type = ? AND url = ?`
	if _, err := dao.db.ExecContext(ctx, query, mirrorURL, art.RomID, art.ArtType, art.URL); err != nil {
		return fmt.Errorf("set mirror for %s artwork of rom %d: %w", art.ArtType, art.RomID, err)
	}
	return nil
}

// DeleteArtwork drops artwork of one type for an entry, used by forced
// refreshes before re-collection.
func (dao *MetaDAO) DeleteArtwork(ctx context.Context, romID int64, artType string) error {
	deleteSQL, args, err := builder.BuildDelete("artwork", map[string]interface{}{
		"rom_id":   romID,
		"art_type": artType,
	})
	if err != nil {
		return err
	}
	if _, err := dao.db.ExecContext(ctx, deleteSQL, args...); err != nil {
		return fmt.Errorf("delete %s artwork for rom %d: %w", artType, romID, err)
	}
	return nil
}
