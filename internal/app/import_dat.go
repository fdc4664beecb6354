package app

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/romkeep/internal/dat"
	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/platform"
)

type ImportDatCommand struct {
	configPath   string
	file         string
	platformSlug string
	datType      string
}

func NewImportDatCommand() *ImportDatCommand { return &ImportDatCommand{} }

func (c *ImportDatCommand) Name() string { return "import-dat" }

func (c *ImportDatCommand) Desc() string {
	return "导入 DAT 校验文件作为指定平台的参考哈希集"
}

func (c *ImportDatCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.file, "file", "", "DAT 文件路径")
	f.StringVar(&c.platformSlug, "platform", "", "平台标识，留空则从 DAT 头自动识别")
	f.StringVar(&c.datType, "type", "", "DAT 类型 (no-intro/redump/mame/fbneo)，留空自动识别")
}

func (c *ImportDatCommand) PreRun(ctx context.Context) error {
	if strings.TrimSpace(c.file) == "" {
		return errors.New("import-dat requires --file")
	}
	logutil.GetLogger(ctx).Info("starting import-dat",
		zap.String("file", c.file),
		zap.String("platform", c.platformSlug),
		zap.String("type", c.datType),
	)
	return nil
}

func (c *ImportDatCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	database, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	importer := dat.NewImporter(platform.NewRegistry(), appdb.NewDatDAO(database))
	report, err := importer.Import(ctx, c.file, c.platformSlug, c.datType)
	if err != nil {
		return err
	}

	logutil.GetLogger(ctx).Info("import-dat finished",
		zap.Int64("dat_file_id", report.DatFileID),
		zap.String("platform", report.PlatformSlug),
		zap.String("type", report.DatType),
		zap.Int("entries", report.EntryCount),
	)
	return nil
}

func (c *ImportDatCommand) PostRun(ctx context.Context) error { return nil }

func init() {
	RegisterRunner("import-dat", func() IRunner { return NewImportDatCommand() })
}
