package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/verify"
)

type VerifyCommand struct {
	configPath   string
	platformSlug string
}

func NewVerifyCommand() *VerifyCommand { return &VerifyCommand{} }

func (c *VerifyCommand) Name() string { return "verify" }

func (c *VerifyCommand) Desc() string {
	return "根据已导入的 DAT 哈希集校验收藏条目"
}

func (c *VerifyCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.platformSlug, "platform", "", "仅校验指定平台，留空则校验全部")
}

func (c *VerifyCommand) PreRun(ctx context.Context) error {
	logutil.GetLogger(ctx).Info("starting verify",
		zap.String("platform", c.platformSlug),
	)
	return nil
}

func (c *VerifyCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	database, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	roms := appdb.NewRomDAO(database)
	var platformID int64
	if slug := strings.TrimSpace(c.platformSlug); slug != "" {
		plat, err := roms.FindPlatform(ctx, slug)
		if err != nil {
			return err
		}
		if plat == nil {
			return fmt.Errorf("platform %s not present in catalog", slug)
		}
		platformID = plat.ID
	}

	logger := logutil.GetLogger(ctx)
	engine := verify.NewEngine(roms, appdb.NewDatDAO(database))
	stats, err := engine.Run(ctx, platformID, func(p model.ScanProgress) {
		if p.Current%500 == 0 {
			logger.Info("verify progress",
				zap.Int64("current", p.Current),
				zap.Int64("total", p.Total),
			)
		}
	})
	if err != nil {
		return err
	}

	logger.Info("verify finished",
		zap.Int64("verified", stats.Verified),
		zap.Int64("unverified", stats.Unverified),
		zap.Int64("bad_dump", stats.BadDump),
		zap.Int64("not_checked", stats.NotChecked),
	)
	return nil
}

func (c *VerifyCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("verify", func() IRunner { return NewVerifyCommand() })
}
