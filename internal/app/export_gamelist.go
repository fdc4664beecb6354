package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/metadata"
	"github.com/xxxsen/romkeep/internal/model"
)

type ExportGamelistCommand struct {
	configPath   string
	outDir       string
	platformSlug string
}

func NewExportGamelistCommand() *ExportGamelistCommand { return &ExportGamelistCommand{} }

func (c *ExportGamelistCommand) Name() string { return "export-gamelist" }

func (c *ExportGamelistCommand) Desc() string {
	return "按平台导出 gamelist.xml 供 EmulationStation 系前端使用"
}

func (c *ExportGamelistCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.outDir, "out", "", "输出目录，每个平台一个子目录")
	f.StringVar(&c.platformSlug, "platform", "", "仅导出指定平台，留空则导出全部")
}

func (c *ExportGamelistCommand) PreRun(ctx context.Context) error {
	if strings.TrimSpace(c.outDir) == "" {
		return errors.New("export-gamelist requires --out")
	}
	logutil.GetLogger(ctx).Info("starting export-gamelist",
		zap.String("out", c.outDir),
		zap.String("platform", c.platformSlug),
	)
	return nil
}

func (c *ExportGamelistCommand) Run(ctx context.Context) error {
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
		count, err := c.exportPlatform(ctx, roms, meta, plat)
		if err != nil {
			return err
		}
		if count == 0 {
			continue
		}
		exported++
		logger.Info("gamelist written",
			zap.String("platform", plat.Slug),
			zap.Int("games", count),
		)
	}
	if c.platformSlug != "" && exported == 0 {
		return fmt.Errorf("platform %s not present in catalog", c.platformSlug)
	}

	logger.Info("export-gamelist finished", zap.Int("platforms", exported))
	return nil
}

func (c *ExportGamelistCommand) PostRun(ctx context.Context) error { return nil }

func (c *ExportGamelistCommand) exportPlatform(ctx context.Context, roms *appdb.RomDAO, meta *appdb.MetaDAO, plat model.Platform) (int, error) {
	entries, err := roms.ListByPlatform(ctx, plat.ID)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	doc := &metadata.GamelistDocument{
		Provider: metadata.ProviderInfo{
			System:   plat.Slug,
			Software: "romkeep",
		},
	}
	for _, rom := range entries {
		entry, err := c.buildEntry(ctx, meta, rom)
		if err != nil {
			return 0, err
		}
		doc.Games = append(doc.Games, entry)
	}

	dest := filepath.Join(c.outDir, plat.Slug, "gamelist.xml")
	if err := metadata.WriteGamelistFile(dest, doc); err != nil {
		return 0, err
	}
	return len(doc.Games), nil
}

func (c *ExportGamelistCommand) buildEntry(ctx context.Context, meta *appdb.MetaDAO, rom model.Rom) (metadata.GamelistEntry, error) {
	entry := metadata.GamelistEntry{
		Path: "./" + rom.FileName,
		Name: rom.Name,
		MD5:  rom.HashMD5,
	}
	if key := sortKey(rom.Name); key != rom.Name {
		entry.SortName = key
	}

	merged, err := meta.Get(ctx, rom.ID)
	if err != nil {
		return entry, err
	}
	if merged == nil {
		return entry, nil
	}

	entry.Description = cleanDescription(merged.Description)
	entry.Developer = merged.Developer
	entry.Publisher = merged.Publisher
	entry.Image = merged.CoverURL
	entry.Genres = decodeGenres(merged.Genres)
	entry.ReleaseDate = gamelistDate(merged.ReleaseDate)
	if merged.Rating > 0 {
		// gamelist ratings are normalized to 0..1
		entry.Rating = fmt.Sprintf("%.2f", merged.Rating/10)
	}
	if merged.RAGameID != "" {
		entry.CheevosID = merged.RAGameID
		entry.CheevosHash = rom.HashMD5
	}
	return entry, nil
}

func decodeGenres(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var genres []string
	if err := json.Unmarshal([]byte(raw), &genres); err != nil {
		return nil
	}
	return genres
}

// gamelistDate converts a stored YYYY-MM-DD date into the ES gamelist
// timestamp form.
func gamelistDate(date string) string {
	if date == "" {
		return ""
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return parsed.Format("20060102T000000")
}

var pinyinArgs = pinyin.NewArgs()

// sortKey builds a latin sort key so CJK titles collate alongside
// romanized ones. Non-Han runes pass through unchanged.
func sortKey(name string) string {
	if !strings.ContainsFunc(name, func(r rune) bool { return unicode.Is(unicode.Han, r) }) {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			if readings := pinyin.SinglePinyin(r, pinyinArgs); len(readings) > 0 {
				b.WriteString(readings[0])
				b.WriteByte(' ')
				continue
			}
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(whitespaceCollapseRegex.ReplaceAllString(b.String(), " "))
}

func init() {
	RegisterRunner("export-gamelist", func() IRunner { return NewExportGamelistCommand() })
}
