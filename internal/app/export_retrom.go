package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/romhash"
)

type ExportRetromCommand struct {
	configPath    string
	dblink        string
	dryRun        bool
	allowUpdate   bool
	rootMapping   string
	hostRoot      string
	containerRoot string
	useMapping    bool
}

func NewExportRetromCommand() *ExportRetromCommand { return &ExportRetromCommand{} }

func (c *ExportRetromCommand) Name() string { return "export-retrom" }

func (c *ExportRetromCommand) Desc() string {
	return "根据收藏目录补齐 Retrom 库中的 game_metadata 数据"
}

func (c *ExportRetromCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.dblink, "dblink", "", "PostgreSQL 连接字符串，留空则使用配置文件")
	f.BoolVar(&c.dryRun, "dryrun", false, "测试模式，只打印操作不写入数据库")
	f.BoolVar(&c.allowUpdate, "allow-update", false, "允许更新已存在的元数据，默认只新增")
	f.StringVar(&c.rootMapping, "root-mapping", "", "路径映射，格式为 \"{host-root}:{container-root}\"，留空则使用原始路径")
}

func (c *ExportRetromCommand) PreRun(ctx context.Context) error {
	mapping := strings.TrimSpace(c.rootMapping)
	c.useMapping = mapping != ""
	if c.useMapping {
		parts := strings.SplitN(mapping, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid root-mapping format: %s", mapping)
		}
		c.hostRoot = filepath.Clean(parts[0])
		c.containerRoot = filepath.Clean(parts[1])
		if c.containerRoot == "." || !filepath.IsAbs(c.containerRoot) {
			return fmt.Errorf("container part must be absolute path: %s", c.containerRoot)
		}
	}

	logutil.GetLogger(ctx).Info("starting export-retrom",
		zap.Bool("dry_run", c.dryRun),
		zap.Bool("allow_update", c.allowUpdate),
		zap.String("root_mapping", c.rootMapping),
	)
	return nil
}

func (c *ExportRetromCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.dblink == "" {
		c.dblink = cfg.Retrom.DBLink
	}
	if strings.TrimSpace(c.dblink) == "" {
		return errors.New("export-retrom requires --dblink or config.retrom.db_link")
	}

	database, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	retromDAO, err := appdb.NewRetromDAO(c.dblink)
	if err != nil {
		return err
	}
	defer retromDAO.Close()

	roms := appdb.NewRomDAO(database)
	meta := appdb.NewMetaDAO(database)
	hashCache := appdb.NewHashCacheDAO(database)
	logger := logutil.GetLogger(ctx)

	var processed, inserted, updated, skipped int
	err = retromDAO.ForEachFile(ctx, func(record appdb.RetromFile) error {
		processed++

		hostPath, ok := c.resolveHostPath(record.Path)
		if !ok {
			logger.Warn("path not under container root",
				zap.Int("game_id", record.GameID),
				zap.String("path", record.Path),
			)
			skipped++
			return nil
		}

		hash, err := c.fileMD5Cached(ctx, hashCache, hostPath)
		if err != nil {
			logger.Warn("failed to compute md5",
				zap.Int("game_id", record.GameID),
				zap.String("path", hostPath),
				zap.Error(err),
			)
			skipped++
			return nil
		}

		matches, err := roms.FindByMD5(ctx, hash)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			logger.Warn("hash not found in catalog",
				zap.Int("game_id", record.GameID),
				zap.String("hash", hash),
			)
			skipped++
			return nil
		}

		payload, err := c.buildPayload(ctx, meta, matches[0])
		if err != nil {
			return err
		}

		exists, err := retromDAO.MetadataExists(ctx, record.GameID)
		if err != nil {
			return err
		}

		if c.dryRun {
			action := "update"
			if !exists {
				action = "insert"
			} else if !c.allowUpdate {
				action = "skip"
			}
			logger.Info("dryrun export metadata",
				zap.Int("game_id", record.GameID),
				zap.String("hash", hash),
				zap.String("action", action),
			)
			if action == "skip" {
				skipped++
			}
			return nil
		}

		if exists && !c.allowUpdate {
			skipped++
			return nil
		}

		if c.allowUpdate {
			isInsert, err := retromDAO.UpsertMetadata(ctx, record.GameID, payload)
			if err != nil {
				return err
			}
			if isInsert {
				inserted++
			} else {
				updated++
			}
			return nil
		}

		if err := retromDAO.InsertMetadata(ctx, record.GameID, payload); err != nil {
			return err
		}
		inserted++
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("export-retrom finished",
		zap.Int("processed", processed),
		zap.Int("inserted", inserted),
		zap.Int("updated", updated),
		zap.Int("skipped", skipped),
	)
	return nil
}

func (c *ExportRetromCommand) PostRun(ctx context.Context) error { return nil }

func (c *ExportRetromCommand) resolveHostPath(containerPath string) (string, bool) {
	if !c.useMapping {
		return filepath.Clean(containerPath), true
	}
	normalizedRoot := filepath.ToSlash(c.containerRoot)
	clean := filepath.ToSlash(filepath.Clean(containerPath))
	if !strings.HasPrefix(clean, normalizedRoot) {
		return "", false
	}
	rel := strings.TrimPrefix(clean, normalizedRoot)
	rel = strings.TrimPrefix(rel, "/")
	return filepath.Join(c.hostRoot, filepath.FromSlash(rel)), true
}

// fileMD5Cached returns the file's MD5, reusing the catalog hash cache
// when the modification time is unchanged.
func (c *ExportRetromCommand) fileMD5Cached(ctx context.Context, cache *appdb.HashCacheDAO, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	modTime := info.ModTime().Unix()
	if hash, ok, err := cache.Lookup(ctx, path, modTime); err == nil && ok {
		return hash, nil
	}
	hash, err := romhash.MD5(path)
	if err != nil {
		return "", err
	}
	if err := cache.Upsert(ctx, path, modTime, hash); err != nil {
		return "", err
	}
	return hash, nil
}

func (c *ExportRetromCommand) buildPayload(ctx context.Context, meta *appdb.MetaDAO, rom model.Rom) (appdb.RetromPayload, error) {
	payload := appdb.RetromPayload{
		Name:           sql.NullString{String: rom.Name, Valid: rom.Name != ""},
		Links:          make([]string, 0),
		VideoURLs:      make([]string, 0),
		ScreenshotURLs: make([]string, 0),
		ArtworkURLs:    make([]string, 0),
	}

	merged, err := meta.Get(ctx, rom.ID)
	if err != nil {
		return payload, err
	}
	if merged != nil {
		if merged.Description != "" {
			payload.Description = sql.NullString{String: merged.Description, Valid: true}
		}
		if merged.CoverURL != "" {
			payload.CoverURL = sql.NullString{String: merged.CoverURL, Valid: true}
			payload.ArtworkURLs = append(payload.ArtworkURLs, merged.CoverURL)
		}
	}

	shots, err := meta.ListArtwork(ctx, rom.ID, model.ArtScreenshot)
	if err != nil {
		return payload, err
	}
	for _, shot := range shots {
		if !payload.BackgroundURL.Valid {
			payload.BackgroundURL = sql.NullString{String: shot.URL, Valid: true}
		}
		payload.ScreenshotURLs = append(payload.ScreenshotURLs, shot.URL)
	}

	fanarts, err := meta.ListArtwork(ctx, rom.ID, model.ArtFanart)
	if err != nil {
		return payload, err
	}
	for _, art := range fanarts {
		payload.ArtworkURLs = append(payload.ArtworkURLs, art.URL)
	}
	return payload, nil
}

func init() {
	RegisterRunner("export-retrom", func() IRunner { return NewExportRetromCommand() })
}
