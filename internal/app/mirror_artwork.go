package app

import (
	"context"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/storage"
)

type MirrorArtworkCommand struct {
	configPath string
	clear      bool
}

func NewMirrorArtworkCommand() *MirrorArtworkCommand { return &MirrorArtworkCommand{} }

func (c *MirrorArtworkCommand) Name() string { return "mirror-artwork" }

func (c *MirrorArtworkCommand) Desc() string {
	return "将收藏条目引用的封面与截图备份到对象存储"
}

func (c *MirrorArtworkCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.BoolVar(&c.clear, "clear", false, "清空存储桶后重新备份")
}

func (c *MirrorArtworkCommand) PreRun(ctx context.Context) error {
	logutil.GetLogger(ctx).Info("starting mirror-artwork",
		zap.Bool("clear", c.clear),
	)
	return nil
}

func (c *MirrorArtworkCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateS3(); err != nil {
		return err
	}
	database, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	store := storage.DefaultClient()
	if store == nil {
		store, err = storage.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return err
		}
		storage.SetDefaultClient(store)
	}
	logger := logutil.GetLogger(ctx)

	if c.clear {
		if err := store.ClearBucket(ctx); err != nil {
			return err
		}
		logger.Info("bucket cleared", zap.String("bucket", cfg.S3.Bucket))
	}

	mirror := storage.NewMirror(database, store)
	uploaded, err := mirror.Run(ctx, func(p model.ScanProgress) {
		if p.Current%50 == 0 {
			logger.Info("mirror progress",
				zap.Int64("current", p.Current),
				zap.Int64("total", p.Total),
			)
		}
	})
	if err != nil {
		return err
	}

	logger.Info("mirror-artwork finished", zap.Int64("uploaded", uploaded))
	return nil
}

func (c *MirrorArtworkCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("mirror-artwork", func() IRunner { return NewMirrorArtworkCommand() })
}
