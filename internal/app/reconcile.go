package app

import (
	"context"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/resolver"
)

type ReconcileCommand struct {
	configPath string
}

func NewReconcileCommand() *ReconcileCommand { return &ReconcileCommand{} }

func (c *ReconcileCommand) Name() string { return "reconcile" }

func (c *ReconcileCommand) Desc() string {
	return "合并哈希相同的重复收藏条目"
}

func (c *ReconcileCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
}

func (c *ReconcileCommand) PreRun(ctx context.Context) error {
	logutil.GetLogger(ctx).Info("starting reconcile")
	return nil
}

func (c *ReconcileCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	database, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	roms := appdb.NewRomDAO(database)
	merged, err := resolver.New(roms, appdb.NewSourceDAO(database)).Reconcile(ctx)
	if err != nil {
		return err
	}

	logutil.GetLogger(ctx).Info("reconcile finished", zap.Int64("merged", merged))
	return nil
}

func (c *ReconcileCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("reconcile", func() IRunner { return NewReconcileCommand() })
}
