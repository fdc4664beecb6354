package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/metadata"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
)

type ExportPegasusCommand struct {
	configPath   string
	outDir       string
	platformSlug string
}

func NewExportPegasusCommand() *ExportPegasusCommand { return &ExportPegasusCommand{} }

func (c *ExportPegasusCommand) Name() string { return "export-pegasus" }

func (c *ExportPegasusCommand) Desc() string {
	return "按平台导出 metadata.pegasus.txt 供 Pegasus 前端使用"
}

func (c *ExportPegasusCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.outDir, "out", "", "输出目录，每个平台一个子目录")
	f.StringVar(&c.platformSlug, "platform", "", "仅导出指定平台，留空则导出全部")
}

func (c *ExportPegasusCommand) PreRun(ctx context.Context) error {
	if strings.TrimSpace(c.outDir) == "" {
		return errors.New("export-pegasus requires --out")
	}
	logutil.GetLogger(ctx).Info("starting export-pegasus",
		zap.String("out", c.outDir),
		zap.String("platform", c.platformSlug),
	)
	return nil
}

func (c *ExportPegasusCommand) Run(ctx context.Context) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	database, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	roms := appdb.NewRomDAO(database)
	meta := appdb.NewMetaDAO(database)
	registry := platform.NewRegistry()
	logger := logutil.GetLogger(ctx)

	platforms, err := roms.ListPlatforms(ctx)
	if err != nil {
		return err
	}

	exported := 0
	for _, plat := range platforms {
		if c.platformSlug != "" && plat.Slug != c.platformSlug {
			continue
		}
		count, err := c.exportPlatform(ctx, roms, meta, registry, plat)
		if err != nil {
			return err
		}
		if count == 0 {
			continue
		}
		exported++
		logger.Info("pegasus metadata written",
			zap.String("platform", plat.Slug),
			zap.Int("games", count),
		)
	}
	if c.platformSlug != "" && exported == 0 {
		return fmt.Errorf("platform %s not present in catalog", c.platformSlug)
	}

	logger.Info("export-pegasus finished", zap.Int("platforms", exported))
	return nil
}

func (c *ExportPegasusCommand) PostRun(ctx context.Context) error { return nil }

func (c *ExportPegasusCommand) exportPlatform(ctx context.Context, roms *appdb.RomDAO, meta *appdb.MetaDAO, registry *platform.Registry, plat model.Platform) (int, error) {
	entries, err := roms.ListByPlatform(ctx, plat.ID)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	doc := &metadata.Document{}
	doc.Blocks = append(doc.Blocks, collectionBlock(registry.DisplayName(plat.Slug), plat.Slug, entries))

	count := 0
	for _, rom := range entries {
		blk, err := c.gameBlock(ctx, meta, rom)
		if err != nil {
			return 0, err
		}
		doc.Blocks = append(doc.Blocks, blk)
		count++
	}

	dest := filepath.Join(c.outDir, plat.Slug, "metadata.pegasus.txt")
	if err := metadata.WriteMetadataFile(dest, doc); err != nil {
		return 0, err
	}
	return count, nil
}

func collectionBlock(name, shortName string, entries []model.Rom) *metadata.Block {
	blk := &metadata.Block{Kind: metadata.KindCollection}
	addInline(blk, "collection", name)
	addInline(blk, "shortname", shortName)

	seen := map[string]bool{}
	var exts []string
	for _, rom := range entries {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(rom.FileName)), ".")
		if ext != "" && !seen[ext] {
			seen[ext] = true
			exts = append(exts, ext)
		}
	}
	if len(exts) > 0 {
		addInline(blk, "extensions", strings.Join(exts, ", "))
	}
	return blk
}

func (c *ExportPegasusCommand) gameBlock(ctx context.Context, meta *appdb.MetaDAO, rom model.Rom) (*metadata.Block, error) {
	blk := &metadata.Block{Kind: metadata.KindGame}
	addInline(blk, "game", rom.Name)
	addInline(blk, "file", rom.FileName)

	merged, err := meta.Get(ctx, rom.ID)
	if err != nil {
		return nil, err
	}
	if merged == nil {
		return blk, nil
	}

	addInline(blk, "developer", merged.Developer)
	addInline(blk, "publisher", merged.Publisher)
	if genres := decodeGenres(merged.Genres); len(genres) > 0 {
		addInline(blk, "genre", strings.Join(genres, ", "))
	}
	addInline(blk, "release", merged.ReleaseDate)
	if merged.Rating > 0 {
		addInline(blk, "rating", fmt.Sprintf("%.0f%%", merged.Rating*10))
	}
	if desc := cleanDescription(merged.Description); desc != "" {
		entry := &metadata.Entry{Key: "description"}
		for _, line := range strings.Split(desc, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				entry.Values = append(entry.Values, line)
			}
		}
		if len(entry.Values) > 0 {
			blk.Entries = append(blk.Entries, entry)
		}
	}
	addInline(blk, "assets.boxFront", merged.CoverURL)
	return blk, nil
}

func addInline(blk *metadata.Block, key, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	blk.Entries = append(blk.Entries, &metadata.Entry{
		Key:    key,
		Values: []string{value},
		Inline: true,
	})
}

func init() {
	RegisterRunner("export-pegasus", func() IRunner { return NewExportPegasusCommand() })
}
