package dat

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
)

// Importer parses a DAT file and replaces the stored reference set for
// its (platform, type) key.
type Importer struct {
	registry *platform.Registry
	dao      *db.DatDAO
}

// NewImporter wires the importer to a platform registry and a DAT DAO.
func NewImporter(registry *platform.Registry, dao *db.DatDAO) *Importer {
	return &Importer{registry: registry, dao: dao}
}

// Report summarizes one import run.
type Report struct {
	DatFileID    int64
	PlatformSlug string
	DatType      string
	EntryCount   int
}

// Import parses the DAT at path and swaps it into the catalog. When
// platformSlug is empty the platform is detected from the header name.
func (imp *Importer) Import(ctx context.Context, path, platformSlug, datType string) (*Report, error) {
	parser := NewParser()
	df, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if len(df.Entries) == 0 {
		return nil, fmt.Errorf("dat %s contains no rom entries", path)
	}

	if platformSlug == "" {
		platformSlug = imp.detectPlatform(df.Header)
		if platformSlug == "" {
			return nil, fmt.Errorf("cannot detect platform from dat header %q, use --platform", df.Header.Name)
		}
	}
	if _, ok := imp.registry.Lookup(platformSlug); !ok {
		return nil, fmt.Errorf("unknown platform slug: %s", platformSlug)
	}
	if datType == "" {
		datType = detectDatType(df.Header)
	}

	logger := logutil.GetLogger(ctx)
	logger.Info("importing dat",
		zap.String("name", df.Header.Name),
		zap.String("version", df.Header.Version),
		zap.String("platform", platformSlug),
		zap.String("type", datType),
		zap.Int("entries", len(df.Entries)),
	)

	file := model.DatFile{
		Name:         df.Header.Name,
		Description:  df.Header.Description,
		Version:      df.Header.Version,
		DatType:      datType,
		PlatformSlug: platformSlug,
	}
	datFileID, err := imp.dao.ReplaceSet(ctx, file, df.Entries, func(inserted int) {
		logger.Debug("inserted dat entries", zap.Int("count", inserted), zap.Int("total", len(df.Entries)))
	})
	if err != nil {
		return nil, err
	}
	return &Report{
		DatFileID:    datFileID,
		PlatformSlug: platformSlug,
		DatType:      datType,
		EntryCount:   len(df.Entries),
	}, nil
}

// detectPlatform tries the full header name first, then the part before
// any parenthesized suffix, e.g. "Nintendo - Game Boy (Parent-Clone)".
func (imp *Importer) detectPlatform(header Header) string {
	if slug, ok := imp.registry.ResolveDatName(header.Name); ok {
		return slug
	}
	trimmed := header.Name
	if idx := strings.Index(trimmed, "("); idx > 0 {
		trimmed = strings.TrimSpace(trimmed[:idx])
	}
	if slug, ok := imp.registry.ResolveDatName(trimmed); ok {
		return slug
	}
	return ""
}

func detectDatType(header Header) string {
	probe := strings.ToLower(header.Name + " " + header.Description)
	switch {
	case strings.Contains(probe, "redump"):
		return "redump"
	case strings.Contains(probe, "mame"):
		return "mame"
	case strings.Contains(probe, "finalburn"):
		return "fbneo"
	default:
		return "no-intro"
	}
}
