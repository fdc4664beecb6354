package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/romkeep/internal/config"
	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/enrich"
	"github.com/xxxsen/romkeep/internal/enrich/hasheous"
	"github.com/xxxsen/romkeep/internal/enrich/igdb"
	"github.com/xxxsen/romkeep/internal/enrich/retroach"
	"github.com/xxxsen/romkeep/internal/enrich/screenscraper"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
)

type EnrichCommand struct {
	configPath   string
	platformSlug string
	romID        int64
	force        bool
	all          bool
}

func NewEnrichCommand() *EnrichCommand { return &EnrichCommand{} }

func (c *EnrichCommand) Name() string { return "enrich" }

func (c *EnrichCommand) Desc() string {
	return "从外部元数据源补齐收藏条目的元数据与封面"
}

func (c *EnrichCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.platformSlug, "platform", "", "仅处理指定平台，留空则处理全部")
	f.Int64Var(&c.romID, "rom-id", 0, "仅处理单个条目")
	f.BoolVar(&c.force, "force", false, "清除缓存后重新抓取，仅与 --rom-id 搭配")
	f.BoolVar(&c.all, "all", false, "包含已补齐的条目，默认只处理缺失元数据的条目")
}

func (c *EnrichCommand) PreRun(ctx context.Context) error {
	if c.force && c.romID == 0 {
		return errors.New("--force requires --rom-id")
	}
	logutil.GetLogger(ctx).Info("starting enrich",
		zap.String("platform", c.platformSlug),
		zap.Int64("rom_id", c.romID),
		zap.Bool("force", c.force),
		zap.Bool("all", c.all),
	)
	return nil
}

func (c *EnrichCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	database, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	clients, err := buildEnrichClients(cfg)
	if err != nil {
		return err
	}
	orch := enrich.NewOrchestrator(database, platform.NewRegistry(), clients)
	logger := logutil.GetLogger(ctx)

	if c.romID != 0 {
		if err := orch.EnrichOne(ctx, c.romID, c.force); err != nil {
			return err
		}
		logger.Info("enrich finished", zap.Int64("rom_id", c.romID))
		return nil
	}

	var platformID int64
	if slug := strings.TrimSpace(c.platformSlug); slug != "" {
		plat, err := appdb.NewRomDAO(database).FindPlatform(ctx, slug)
		if err != nil {
			return err
		}
		if plat == nil {
			return fmt.Errorf("platform %s not present in catalog", slug)
		}
		platformID = plat.ID
	}

	stats, err := orch.EnrichAll(ctx, platformID, !c.all, func(p model.ScanProgress) {
		logger.Info("enrich progress",
			zap.Int64("current", p.Current),
			zap.Int64("total", p.Total),
			zap.String("item", p.CurrentItem),
		)
	})
	if err != nil {
		return err
	}

	logger.Info("enrich finished",
		zap.Int64("enriched", stats.Enriched),
		zap.Int64("skipped", stats.Skipped),
	)
	return nil
}

func (c *EnrichCommand) PostRun(ctx context.Context) error { return nil }

// buildEnrichClients assembles the remote lookup clients available with
// the current configuration. Sources without credentials stay nil and
// are skipped by the orchestrator.
func buildEnrichClients(cfg *config.Config) (enrich.Clients, error) {
	clients := enrich.Clients{
		Hasheous: hasheous.New(cfg.Hasheous.Host),
		ScreenScraper: screenscraper.New(screenscraper.Credentials{
			Username: cfg.ScreenScraper.Username,
			Password: cfg.ScreenScraper.Password,
		}),
	}
	if cfg.IGDB.ClientID != "" && cfg.IGDB.ClientSecret != "" {
		igdbClient, err := igdb.New(cfg.IGDB.ClientID, cfg.IGDB.ClientSecret)
		if err != nil {
			return clients, err
		}
		clients.IGDB = igdbClient
	}
	if cfg.RetroAchievements.Username != "" && cfg.RetroAchievements.APIKey != "" {
		clients.RetroAchievements = retroach.New("",
			cfg.RetroAchievements.Username, cfg.RetroAchievements.APIKey)
	}
	return clients, nil
}

func init() {
	RegisterRunner("enrich", func() IRunner { return NewEnrichCommand() })
}
