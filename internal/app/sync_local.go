package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
	"github.com/xxxsen/romkeep/internal/resolver"
	"github.com/xxxsen/romkeep/internal/source"
)

type SyncLocalCommand struct {
	configPath string
	root       string
	sourceName string
	testOnly   bool
}

func NewSyncLocalCommand() *SyncLocalCommand { return &SyncLocalCommand{} }

func (c *SyncLocalCommand) Name() string { return "sync-local" }

func (c *SyncLocalCommand) Desc() string {
	return "扫描本地 ROM 目录并将文件编入收藏目录"
}

func (c *SyncLocalCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.root, "root", "", "ROM 根目录")
	f.StringVar(&c.sourceName, "name", "", "来源名称，留空则使用目录名")
	f.BoolVar(&c.testOnly, "test", false, "仅探测目录布局，不写入数据库")
}

func (c *SyncLocalCommand) PreRun(ctx context.Context) error {
	if strings.TrimSpace(c.root) == "" {
		return errors.New("sync-local requires --root")
	}
	abs, err := filepath.Abs(c.root)
	if err != nil {
		return err
	}
	c.root = abs
	if c.sourceName == "" {
		c.sourceName = filepath.Base(c.root)
	}
	logutil.GetLogger(ctx).Info("starting sync-local",
		zap.String("root", c.root),
		zap.String("name", c.sourceName),
		zap.Bool("test", c.testOnly),
	)
	return nil
}

func (c *SyncLocalCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	database, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	logger := logutil.GetLogger(ctx)
	registry := platform.NewRegistry()
	roms := appdb.NewRomDAO(database)
	sources := appdb.NewSourceDAO(database)
	scanner := source.NewLocalScanner(registry, roms, resolver.New(roms, sources))

	if c.testOnly {
		report, err := scanner.TestPath(c.root)
		if err != nil {
			return err
		}
		logger.Info("path probe",
			zap.String("layout", string(report.Layout)),
			zap.Int64("platforms", report.Platforms),
			zap.Int64("roms", report.Roms),
		)
		return nil
	}

	sourceID, err := sources.Ensure(ctx, model.SourceTypeLocal, c.sourceName, c.root)
	if err != nil {
		return err
	}

	indexed, err := scanner.Sync(ctx, sourceID, c.root, func(p model.ScanProgress) {
		if p.Current%200 == 0 {
			logger.Info("sync progress",
				zap.Int64("current", p.Current),
				zap.Int64("total", p.Total),
				zap.String("item", p.CurrentItem),
			)
		}
	})
	if err != nil {
		return err
	}
	if err := sources.TouchSynced(ctx, sourceID); err != nil {
		return err
	}

	logger.Info("sync-local finished",
		zap.Int64("source_id", sourceID),
		zap.Int64("indexed", indexed),
	)
	return nil
}

func (c *SyncLocalCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("sync-local", func() IRunner { return NewSyncLocalCommand() })
}
