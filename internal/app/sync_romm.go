package app

import (
	"context"
	"errors"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
	"github.com/xxxsen/romkeep/internal/resolver"
	"github.com/xxxsen/romkeep/internal/romm"
	"github.com/xxxsen/romkeep/internal/source"
)

type SyncRommCommand struct {
	configPath string
	host       string
	username   string
	password   string
	testOnly   bool
}

func NewSyncRommCommand() *SyncRommCommand { return &SyncRommCommand{} }

func (c *SyncRommCommand) Name() string { return "sync-romm" }

func (c *SyncRommCommand) Desc() string {
	return "同步 RomM 服务器的 ROM 库到收藏目录"
}

func (c *SyncRommCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.host, "host", "", "RomM 服务地址，留空则使用配置文件")
	f.StringVar(&c.username, "username", "", "RomM 用户名")
	f.StringVar(&c.password, "password", "", "RomM 密码")
	f.BoolVar(&c.testOnly, "test", false, "仅测试连接，不写入数据库")
}

func (c *SyncRommCommand) PreRun(ctx context.Context) error {
	logutil.GetLogger(ctx).Info("starting sync-romm",
		zap.String("host", c.host),
		zap.Bool("test", c.testOnly),
	)
	return nil
}

func (c *SyncRommCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.host == "" {
		c.host = cfg.Romm.Host
	}
	if c.username == "" {
		c.username = cfg.Romm.Username
	}
	if c.password == "" {
		c.password = cfg.Romm.Password
	}
	if c.host == "" {
		return errors.New("sync-romm requires --host or config.romm.host")
	}

	client, err := romm.New(c.host, c.username, c.password)
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)

	if c.testOnly {
		result, err := client.TestConnection(ctx)
		if err != nil {
			return err
		}
		logger.Info("romm connection ok",
			zap.String("host", client.Host()),
			zap.Int64("platforms", result.PlatformCount),
			zap.Int64("roms", result.RomCount),
		)
		return nil
	}

	database, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	roms := appdb.NewRomDAO(database)
	sources := appdb.NewSourceDAO(database)
	syncer := source.NewRommSyncer(client, platform.NewRegistry(), roms,
		appdb.NewMetaDAO(database), resolver.New(roms, sources))

	sourceID, err := sources.Ensure(ctx, model.SourceTypeRomm, client.Host(), "")
	if err != nil {
		return err
	}

	indexed, err := syncer.Sync(ctx, sourceID, func(p model.ScanProgress) {
		if p.Current%200 == 0 {
			logger.Info("sync progress",
				zap.Int64("current", p.Current),
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

	logger.Info("sync-romm finished",
		zap.Int64("source_id", sourceID),
		zap.Int64("indexed", indexed),
	)
	return nil
}

func (c *SyncRommCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("sync-romm", func() IRunner { return NewSyncRommCommand() })
}
