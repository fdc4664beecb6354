package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appdb "github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
)

// QueryCommand filters catalog entries by MD5 hash and prints them as
// JSON, including merged metadata and artwork refs.
type QueryCommand struct {
	configPath string
	hashList   string

	hashes []string
}

type queryEntry struct {
	Rom      model.Rom       `json:"rom"`
	Metadata *model.Metadata `json:"metadata,omitempty"`
	Artwork  []model.Artwork `json:"artwork,omitempty"`
}

func NewQueryCommand() *QueryCommand { return &QueryCommand{} }

func (c *QueryCommand) Name() string { return "query" }

func (c *QueryCommand) Desc() string {
	return "根据 ROM 哈希查询收藏条目并输出 JSON"
}

func (c *QueryCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "配置文件路径")
	f.StringVar(&c.hashList, "hash", "", "逗号分隔的 MD5 哈希列表")
}

func (c *QueryCommand) PreRun(ctx context.Context) error {
	c.hashes = c.hashes[:0]
	if strings.TrimSpace(c.hashList) == "" {
		return errors.New("query requires --hash")
	}
	for _, h := range strings.Split(c.hashList, ",") {
		trimmed := strings.ToLower(strings.TrimSpace(h))
		if trimmed != "" {
			c.hashes = append(c.hashes, trimmed)
		}
	}
	if len(c.hashes) == 0 {
		return errors.New("no valid hashes provided")
	}

	logutil.GetLogger(ctx).Info("starting query",
		zap.Strings("hashes", c.hashes),
	)
	return nil
}

func (c *QueryCommand) Run(ctx context.Context) error {
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

	result := make(map[string][]queryEntry)
	for _, hash := range c.hashes {
		matches, err := roms.FindByMD5(ctx, hash)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			logger.Warn("hash not found in catalog", zap.String("hash", hash))
			continue
		}
		entries := make([]queryEntry, 0, len(matches))
		for _, rom := range matches {
			entry := queryEntry{Rom: rom}
			if entry.Metadata, err = meta.Get(ctx, rom.ID); err != nil {
				return err
			}
			if entry.Artwork, err = meta.ListArtwork(ctx, rom.ID, ""); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		result[hash] = entries
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal query result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func (c *QueryCommand) PostRun(ctx context.Context) error {
	logutil.GetLogger(ctx).Info("query completed")
	return nil
}

func init() {
	RegisterRunner("query", func() IRunner { return NewQueryCommand() })
}
