package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"
)

const (
	lbGameBatchSize  = 500
	lbImageBatchSize = 1000
)

// LaunchBoxGame is one game record from the LaunchBox metadata mirror.
type LaunchBoxGame struct {
	DatabaseID      int64
	Name            string
	NormalizedName  string
	Platform        string
	Description     string
	Developer       string
	Publisher       string
	Genres          string // JSON array
	ReleaseDate     string
	CommunityRating float64
}

// LaunchBoxImage is one image record keyed by the game's database id.
type LaunchBoxImage struct {
	DatabaseID int64
	FileName   string
	ImageType  string
	Region     string
}

// LaunchBoxDAO maintains the local LaunchBox metadata mirror.
type LaunchBoxDAO struct {
	db *sql.DB
}

// NewLaunchBoxDAO builds a DAO on top of an opened catalog database.
func NewLaunchBoxDAO(db *sql.DB) *LaunchBoxDAO {
	return &LaunchBoxDAO{db: db}
}

// ReplaceGames rebuilds the mirrored game table from a fresh download.
// onBatch is invoked with the running insert count.
func (dao *LaunchBoxDAO) ReplaceGames(ctx context.Context, games []LaunchBoxGame, onBatch func(inserted int)) error {
	tx, err := dao.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin launchbox game import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM launchbox_games`); err != nil {
		return fmt.Errorf("clear launchbox games: %w", err)
	}
	for start := 0; start < len(games); start += lbGameBatchSize {
		end := start + lbGameBatchSize
		if end > len(games) {
			end = len(games)
		}
		chunk := games[start:end]
		rows := make([]map[string]interface{}, 0, len(chunk))
		for _, game := range chunk {
			rows = append(rows, map[string]interface{}{
				"database_id":      game.DatabaseID,
				"name":             game.Name,
				"normalized_name":  game.NormalizedName,
				"platform":         game.Platform,
				"description":      nullableString(game.Description),
				"developer":        nullableString(game.Developer),
				"publisher":        nullableString(game.Publisher),
				"genres":           orEmptyList(game.Genres),
				"release_date":     nullableString(game.ReleaseDate),
				"community_rating": sql.NullFloat64{Float64: game.CommunityRating, Valid: game.CommunityRating != 0},
			})
		}
		insertSQL, args, err := builder.BuildInsert("launchbox_games", rows)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertSQL, args...); err != nil {
			return fmt.Errorf("insert launchbox games batch: %w", err)
		}
		if onBatch != nil {
			onBatch(end)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit launchbox game import: %w", err)
	}
	return nil
}

// ReplaceImages rebuilds the mirrored image table from a fresh download.
func (dao *LaunchBoxDAO) ReplaceImages(ctx context.Context, images []LaunchBoxImage, onBatch func(inserted int)) error {
	tx, err := dao.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin launchbox image import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM launchbox_images`); err != nil {
		return fmt.Errorf("clear launchbox images: %w", err)
	}
	for start := 0; start < len(images); start += lbImageBatchSize {
		end := start + lbImageBatchSize
		if end > len(images) {
			end = len(images)
		}
		chunk := images[start:end]
		rows := make([]map[string]interface{}, 0, len(chunk))
		for _, image := range chunk {
			rows = append(rows, map[string]interface{}{
				"database_id": image.DatabaseID,
				"file_name":   image.FileName,
				"image_type":  image.ImageType,
				"region":      nullableString(image.Region),
			})
		}
		insertSQL, args, err := builder.BuildInsert("launchbox_images", rows)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertSQL, args...); err != nil {
			return fmt.Errorf("insert launchbox images batch: %w", err)
		}
		if onBatch != nil {
			onBatch(end)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit launchbox image import: %w", err)
	}
	return nil
}

const lbFindGameSQL = `SELECT database_id, name, normalized_name, platform, description, developer, publisher, genres, release_date, community_rating
FROM launchbox_games WHERE normalized_name = ? AND platform = ? LIMIT 1`

// FindGame looks up one mirrored game by normalized name and LaunchBox
// platform name. Returns nil when the mirror has no match.
func (dao *LaunchBoxDAO) FindGame(ctx context.Context, normalizedName, platform string) (*LaunchBoxGame, error) {
	var game LaunchBoxGame
	var desc, dev, pub, release sql.NullString
	var rating sql.NullFloat64
	err := dao.db.QueryRowContext(ctx, lbFindGameSQL, normalizedName, platform).Scan(
		&game.DatabaseID, &game.Name, &game.NormalizedName, &game.Platform,
		&desc, &dev, &pub, &game.Genres, &release, &rating)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find launchbox game %q: %w", normalizedName, err)
	}
	game.Description = desc.String
	game.Developer = dev.String
	game.Publisher = pub.String
	game.ReleaseDate = release.String
	game.CommunityRating = rating.Float64
	return &game, nil
}

const lbCoverSQL = `SELECT file_name FROM launchbox_images
WHERE database_id = ?
ORDER BY (image_type = 'Box - Front') DESC
LIMIT 1`

// FindCover returns the best cover file name for a game, preferring the
// front box shot, "" when the mirror has no images at all.
func (dao *LaunchBoxDAO) FindCover(ctx context.Context, databaseID int64) (string, error) {
	var fileName string
	err := dao.db.QueryRowContext(ctx, lbCoverSQL, databaseID).Scan(&fileName)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find launchbox cover for game %d: %w", databaseID, err)
	}
	return fileName, nil
}

const lbScreenshotsSQL = `SELECT file_name FROM launchbox_images
WHERE database_id = ? AND image_type LIKE '%Screenshot%'
ORDER BY id LIMIT 10`

// ListScreenshots returns up to ten screenshot file names for a game.
func (dao *LaunchBoxDAO) ListScreenshots(ctx context.Context, databaseID int64) ([]string, error) {
	rows, err := dao.db.QueryContext(ctx, lbScreenshotsSQL, databaseID)
	if err != nil {
		return nil, fmt.Errorf("list launchbox screenshots for game %d: %w", databaseID, err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var fileName string
		if err := rows.Scan(&fileName); err != nil {
			return nil, err
		}
		result = append(result, fileName)
	}
	return result, rows.Err()
}

// CountGames reports the mirrored game count, used by status output.
func (dao *LaunchBoxDAO) CountGames(ctx context.Context) (int64, error) {
	var count int64
	if err := dao.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM launchbox_games`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count launchbox games: %w", err)
	}
	return count, nil
}
