package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/enrich/launchbox"
	"github.com/xxxsen/romkeep/internal/model"
)

type ImportLaunchBoxCommand struct {
	configPath string
	file       string
	keepXML    bool
}

func NewImportLaunchBoxCommand() *ImportLaunchBoxCommand { return &ImportLaunchBoxCommand{} }

func (c *ImportLaunchBoxCommand) Name() string { return "import-launchbox" }

func (c *ImportLaunchBoxCommand) Desc() string {
	return "下载并导入 LaunchBox 社区元数据库镜像"
}

func (c *ImportLaunchBoxCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.file, "file", "", "已下载的 Metadata.xml 路径，留空则自动下载")
	f.BoolVar(&c.keepXML, "keep-xml", false, "导入后保留下载的 Metadata.xml")
}

func (c *ImportLaunchBoxCommand) PreRun(ctx context.Context) error {
	logutil.GetLogger(ctx).Info("starting import-launchbox",
		zap.String("file", c.file),
	)
	return nil
}

func (c *ImportLaunchBoxCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	database, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)

	xmlPath := c.file
	downloaded := false
	if xmlPath == "" {
		var lastPercent int64 = -1
		xmlPath, err = launchbox.Download(ctx, filepath.Join(cfg.DataDir, "launchbox"), func(p model.ScanProgress) {
			if p.Total <= 0 {
				return
			}
			percent := p.Current * 100 / p.Total
			if percent/5 != lastPercent/5 {
				lastPercent = percent
				logger.Info("download progress", zap.Int64("percent", percent))
			}
		})
		if err != nil {
			return err
		}
		downloaded = true
	}

	games, images, err := launchbox.ParseMetadata(xmlPath)
	if err != nil {
		return err
	}
	logger.Info("parsed launchbox metadata",
		zap.Int("games", len(games)),
		zap.Int("images", len(images)),
	)

	dao := appdb.NewLaunchBoxDAO(database)
	if err := dao.ReplaceGames(ctx, games, func(inserted int) {
		logger.Debug("inserted launchbox games", zap.Int("count", inserted))
	}); err != nil {
		return err
	}
	if err := dao.ReplaceImages(ctx, images, func(inserted int) {
		logger.Debug("inserted launchbox images", zap.Int("count", inserted))
	}); err != nil {
		return err
	}

	if downloaded && !c.keepXML {
		if err := os.Remove(xmlPath); err != nil {
			logger.Warn("remove metadata xml failed", zap.String("path", xmlPath), zap.Error(err))
		}
	}

	logger.Info("import-launchbox finished",
		zap.Int("games", len(games)),
		zap.Int("images", len(images)),
	)
	return nil
}

func (c *ImportLaunchBoxCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("import-launchbox", func() IRunner { return NewImportLaunchBoxCommand() })
}
