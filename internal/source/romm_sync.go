package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
	"github.com/xxxsen/romkeep/internal/resolver"
	"github.com/xxxsen/romkeep/internal/romm"
)

// Timestamps past year 3000 in seconds are actually milliseconds.
const msThreshold = 32503680000

// RommSyncer mirrors a RomM library into the catalog.
type RommSyncer struct {
	client   *romm.Client
	registry *platform.Registry
	roms     *db.RomDAO
	meta     *db.MetaDAO
	resolver *resolver.Resolver
}

// NewRommSyncer wires a syncer to the catalog.
func NewRommSyncer(client *romm.Client, registry *platform.Registry, roms *db.RomDAO, meta *db.MetaDAO, res *resolver.Resolver) *RommSyncer {
	return &RommSyncer{client: client, registry: registry, roms: roms, meta: meta, resolver: res}
}

// Sync walks the remote library page by page and folds every entry into
// the catalog, carrying over the metadata the server already has.
// Returns the number of entries indexed.
func (s *RommSyncer) Sync(ctx context.Context, sourceID int64, progress model.ProgressFunc) (int64, error) {
	logger := logutil.GetLogger(ctx)

	platforms, err := s.client.GetPlatforms(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	platformMap := make(map[int64]int64) // remote platform id -> local id
	for _, p := range platforms {
		total += p.RomCount
		if p.IsUnidentified {
			logger.Info("skip unidentified remote platform", zap.String("slug", p.Slug))
			continue
		}
		slug := s.registry.ResolveRommSlug(p.Slug)
		localID, err := s.roms.EnsurePlatform(ctx, slug, remoteDisplayName(s.registry, slug, p), s.registry.ScreenScraperID(slug))
		if err != nil {
			return 0, err
		}
		platformMap[p.ID] = localID
	}

	var indexed, current int64
	offset := int64(0)
	for {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}
		page, err := s.client.ListRoms(ctx, romm.DefaultPageSize, offset)
		if err != nil {
			return indexed, err
		}
		if len(page.Items) == 0 {
			break
		}

		for i := range page.Items {
			if err := ctx.Err(); err != nil {
				return indexed, err
			}
			rom := &page.Items[i]
			current++

			localPlatformID, ok := platformMap[rom.PlatformID]
			if !ok {
				continue
			}
			name := rom.Name
			if name == "" {
				name = rom.FsName
			}
			progress.Report(model.ScanProgress{
				SourceID:    sourceID,
				Total:       total,
				Current:     current,
				CurrentItem: name,
			})

			if err := s.syncOne(ctx, sourceID, localPlatformID, name, rom); err != nil {
				return indexed, fmt.Errorf("index remote rom %d: %w", rom.ID, err)
			}
			indexed++
		}

		offset += romm.DefaultPageSize
		if int64(len(page.Items)) < romm.DefaultPageSize {
			break
		}
	}
	logger.Info("romm sync finished", zap.Int64("indexed", indexed))
	return indexed, nil
}

func (s *RommSyncer) syncOne(ctx context.Context, sourceID, platformID int64, name string, rom *romm.Rom) error {
	romID, _, err := s.resolver.Upsert(ctx, resolver.Incoming{
		PlatformID:  platformID,
		Name:        name,
		FileName:    rom.FsName,
		FileSize:    rom.FsSizeBytes,
		Regions:     encodeRegions(rom.Regions),
		SourceID:    sourceID,
		SourceRomID: strconv.FormatInt(rom.ID, 10),
		SourceURL:   s.client.DownloadURL(rom.ID, rom.FsName),
	})
	if err != nil {
		return err
	}

	if err := s.carryMetadata(ctx, romID, rom); err != nil {
		return err
	}

	if rom.URLCover != "" {
		cover := rom.URLCover
		if cover[0] == '/' {
			cover = s.client.Host() + cover
		}
		if err := s.meta.AddArtwork(ctx, model.Artwork{RomID: romID, ArtType: model.ArtCover, URL: cover}); err != nil {
			return err
		}
	}
	return nil
}

// carryMetadata folds the server-side metadata into the local record
// without erasing anything a richer source already wrote.
func (s *RommSyncer) carryMetadata(ctx context.Context, romID int64, rom *romm.Rom) error {
	existing, err := s.meta.Get(ctx, romID)
	if err != nil {
		return err
	}
	meta := model.Metadata{RomID: romID, Genres: "[]", Themes: "[]"}
	if existing != nil {
		meta = *existing
	}

	if meta.Description == "" {
		meta.Description = rom.Summary
	}
	if rom.Metadatum != nil {
		if len(rom.Metadatum.Genres) > 0 {
			if raw, err := json.Marshal(rom.Metadatum.Genres); err == nil {
				meta.Genres = string(raw)
			}
		}
		if meta.ReleaseDate == "" {
			meta.ReleaseDate = formatReleaseDate(rom.Metadatum.FirstReleaseDate)
		}
	}
	if meta.CoverURL == "" && rom.URLCover != "" {
		cover := rom.URLCover
		if cover[0] == '/' {
			cover = s.client.Host() + cover
		}
		meta.CoverURL = cover
	}
	if meta.Themes == "" {
		meta.Themes = "[]"
	}
	return s.meta.Put(ctx, meta)
}

func encodeRegions(regions []string) string {
	if len(regions) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(regions)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func formatReleaseDate(ts int64) string {
	if ts <= 0 {
		return ""
	}
	if ts > msThreshold {
		ts /= 1000
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

func remoteDisplayName(registry *platform.Registry, slug string, p romm.Platform) string {
	if name := registry.DisplayName(slug); name != slug {
		return name
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return slug
}
