package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// RetromFile is one playable file row from a retrom library database.
type RetromFile struct {
	GameID int
	Path   string
}

// RetromPayload holds the metadata values pushed into retrom.
type RetromPayload struct {
	Name           sql.NullString
	Description    sql.NullString
	CoverURL       sql.NullString
	BackgroundURL  sql.NullString
	IconURL        sql.NullString
	Links          []string
	VideoURLs      []string
	ScreenshotURLs []string
	ArtworkURLs    []string
}

// RetromDAO accesses a retrom PostgreSQL instance for metadata export.
type RetromDAO struct {
	db *sql.DB
}

// NewRetromDAO opens a PostgreSQL connection to a retrom instance.
func NewRetromDAO(dsn string) (*RetromDAO, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &RetromDAO{db: db}, nil
}

// Close releases the underlying database connection.
func (dao *RetromDAO) Close() error {
	if dao.db == nil {
		return nil
	}
	return dao.db.Close()
}

const retromListFilesSQL = `
SELECT gf.game_id, gf.path
FROM game_files gf
JOIN games g ON g.id = gf.game_id
WHERE NOT gf.is_deleted AND NOT g.is_deleted`

// ForEachFile iterates over non-deleted retrom game files.
func (dao *RetromDAO) ForEachFile(ctx context.Context, fn func(RetromFile) error) error {
	rows, err := dao.db.QueryContext(ctx, retromListFilesSQL)
	if err != nil {
		return fmt.Errorf("query retrom game files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec RetromFile
		if err := rows.Scan(&rec.GameID, &rec.Path); err != nil {
			return fmt.Errorf("scan retrom game file: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

const retromMetaExistsSQL = `SELECT 1 FROM game_metadata WHERE game_id = $1 LIMIT 1`

// MetadataExists checks whether retrom already has metadata for a game.
func (dao *RetromDAO) MetadataExists(ctx context.Context, gameID int) (bool, error) {
	var dummy int
	err := dao.db.QueryRowContext(ctx, retromMetaExistsSQL, gameID).Scan(&dummy)
	if err == nil {
		return true, nil
	}
	if err == sql.ErrNoRows {
		return false, nil
	}
	return false, err
}

const retromInsertMetaSQL = `
INSERT INTO game_metadata (
	game_id, name, description, cover_url, background_url, icon_url,
	links, video_urls, screenshot_urls, artwork_urls, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6,
	$7, $8, $9, $10, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
)`

// InsertMetadata inserts a new metadata record for the given game.
func (dao *RetromDAO) InsertMetadata(ctx context.Context, gameID int, payload RetromPayload) error {
	_, err := dao.db.ExecContext(ctx, retromInsertMetaSQL,
		gameID,
		payload.Name,
		payload.Description,
		payload.CoverURL,
		payload.BackgroundURL,
		payload.IconURL,
		pq.Array(payload.Links),
		pq.Array(payload.VideoURLs),
		pq.Array(payload.ScreenshotURLs),
		pq.Array(payload.ArtworkURLs),
	)
	if err != nil {
		return fmt.Errorf("insert retrom metadata for game %d: %w", gameID, err)
	}
	return nil
}

const retromUpsertMetaSQL = `
INSERT INTO game_metadata (
	game_id, name, description, cover_url, background_url, icon_url,
	links, video_urls, screenshot_urls, artwork_urls, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6,
	$7, $8, $9, $10, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
) ON CONFLICT (game_id) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	cover_url = EXCLUDED.cover_url,
	background_url = EXCLUDED.background_url,
	icon_url = EXCLUDED.icon_url,
	links = EXCLUDED.links,
	video_urls = EXCLUDED.video_urls,
	screenshot_urls = EXCLUDED.screenshot_urls,
	artwork_urls = EXCLUDED.artwork_urls,
	updated_at = CURRENT_TIMESTAMP
RETURNING (xmax = 0)`

// UpsertMetadata inserts or updates metadata, returning true on insert.
func (dao *RetromDAO) UpsertMetadata(ctx context.Context, gameID int, payload RetromPayload) (bool, error) {
	var inserted bool
	err := dao.db.QueryRowContext(ctx, retromUpsertMetaSQL,
		gameID,
		payload.Name,
		payload.Description,
		payload.CoverURL,
		payload.BackgroundURL,
		payload.IconURL,
		pq.Array(payload.Links),
		pq.Array(payload.VideoURLs),
		pq.Array(payload.ScreenshotURLs),
		pq.Array(payload.ArtworkURLs),
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert retrom metadata for game %d: %w", gameID, err)
	}
	return inserted, nil
}
