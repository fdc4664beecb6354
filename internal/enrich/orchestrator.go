package enrich

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/enrich/hasheous"
	"github.com/xxxsen/romkeep/internal/enrich/igdb"
	"github.com/xxxsen/romkeep/internal/enrich/launchbox"
	"github.com/xxxsen/romkeep/internal/enrich/libretro"
	"github.com/xxxsen/romkeep/internal/enrich/retroach"
	"github.com/xxxsen/romkeep/internal/enrich/screenscraper"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
	"github.com/xxxsen/romkeep/internal/romhash"
)

const (
	igdbCacheTable    = "igdb_cache"
	scraperCacheTable = "screenscraper_cache"

	// IGDB id batches resolved ahead of the per-entry walk.
	igdbPrefetchChunk = 10
)

// Clients bundles the remote lookup clients an orchestrator may use.
// Nil clients disable their source.
type Clients struct {
	Hasheous          *hasheous.Client
	IGDB              *igdb.Client
	ScreenScraper     *screenscraper.Client
	RetroAchievements *retroach.Client
}

// Orchestrator walks catalog entries through the metadata sources in a
// fixed order and persists the merged result. Every source is
// best-effort: a failing lookup is logged and the walk continues.
type Orchestrator struct {
	roms     *db.RomDAO
	meta     *db.MetaDAO
	cache    *db.CacheDAO
	lbox     *db.LaunchBoxDAO
	registry *platform.Registry
	clients  Clients
	prober   *libretro.Prober
}

// NewOrchestrator wires an orchestrator on top of an opened catalog
// database.
func NewOrchestrator(database *sql.DB, registry *platform.Registry, clients Clients) *Orchestrator {
	if clients.Hasheous == nil {
		clients.Hasheous = hasheous.New("")
	}
	return &Orchestrator{
		roms:     db.NewRomDAO(database),
		meta:     db.NewMetaDAO(database),
		cache:    db.NewCacheDAO(database),
		lbox:     db.NewLaunchBoxDAO(database),
		registry: registry,
		clients:  clients,
		prober:   libretro.NewProber(),
	}
}

// EnrichAll enriches catalog entries, optionally limited to a platform.
// With onlyUnenriched true, entries that already carry a fetch stamp,
// a hash lookup cache row and a cover are skipped.
func (o *Orchestrator) EnrichAll(ctx context.Context, platformID int64, onlyUnenriched bool, progress model.ProgressFunc) (model.EnrichStats, error) {
	var stats model.EnrichStats
	rows, err := o.roms.ListForEnrichment(ctx, platformID, onlyUnenriched)
	if err != nil {
		return stats, err
	}
	logger := logutil.GetLogger(ctx)
	logger.Info("start metadata enrichment", zap.Int("count", len(rows)))

	o.prefetchIGDB(ctx, rows)

	for idx := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		row := &rows[idx]
		if err := o.enrichOne(ctx, row); err != nil {
			logger.Warn("enrich entry failed", zap.Int64("rom_id", row.ID),
				zap.String("name", row.Name), zap.Error(err))
			stats.Skipped++
		} else {
			stats.Enriched++
		}
		progress.Report(model.ScanProgress{
			Total:       int64(len(rows)),
			Current:     int64(idx + 1),
			CurrentItem: row.Name,
		})
	}
	logger.Info("metadata enrichment finished",
		zap.Int64("enriched", stats.Enriched), zap.Int64("skipped", stats.Skipped))
	return stats, nil
}

// EnrichOne enriches a single entry. With force true the cached source
// responses and collected screenshots are discarded first so every
// source is consulted again.
func (o *Orchestrator) EnrichOne(ctx context.Context, romID int64, force bool) error {
	row, err := o.roms.GetForEnrichment(ctx, romID)
	if err != nil {
		return err
	}
	if force {
		for _, table := range []string{"hasheous_cache", igdbCacheTable, scraperCacheTable} {
			if err := o.cache.Delete(ctx, table, romID); err != nil {
				return err
			}
		}
		if err := o.meta.DeleteArtwork(ctx, romID, model.ArtScreenshot); err != nil {
			return err
		}
	}
	return o.enrichOne(ctx, row)
}

// prefetchIGDB batch-resolves IGDB ids already known from cached hash
// lookups, so the per-entry walk hits the game cache instead of issuing
// one request per entry.
func (o *Orchestrator) prefetchIGDB(ctx context.Context, rows []db.EnrichRow) {
	if o.clients.IGDB == nil {
		return
	}
	logger := logutil.GetLogger(ctx)

	wanted := make(map[int64][]int64) // igdb id -> rom ids
	var order []int64
	for _, row := range rows {
		if _, found, err := o.cache.GetRaw(ctx, igdbCacheTable, row.ID); err != nil || found {
			continue
		}
		cached, ok, err := o.cache.GetHasheous(ctx, row.ID)
		if err != nil || !ok || cached.IGDBID == "" {
			continue
		}
		id, err := strconv.ParseInt(cached.IGDBID, 10, 64)
		if err != nil {
			continue
		}
		if _, seen := wanted[id]; !seen {
			order = append(order, id)
		}
		wanted[id] = append(wanted[id], row.ID)
	}

	for start := 0; start < len(order); start += igdbPrefetchChunk {
		end := start + igdbPrefetchChunk
		if end > len(order) {
			end = len(order)
		}
		games, err := o.clients.IGDB.FetchByIDs(ctx, order[start:end])
		if err != nil {
			logger.Warn("igdb prefetch failed", zap.Error(err))
			return
		}
		for i := range games {
			game := &games[i]
			raw, err := json.Marshal(game)
			if err != nil {
				continue
			}
			for _, romID := range wanted[game.ID] {
				if err := o.cache.PutRaw(ctx, igdbCacheTable, romID, string(raw)); err != nil {
					logger.Warn("store igdb cache failed", zap.Int64("rom_id", romID), zap.Error(err))
				}
			}
		}
	}
}

func (o *Orchestrator) enrichOne(ctx context.Context, row *db.EnrichRow) error {
	logger := logutil.GetLogger(ctx).With(zap.Int64("rom_id", row.ID), zap.String("name", row.Name))

	if err := o.ensureMD5(ctx, row); err != nil {
		logger.Warn("hash entry for enrichment failed", zap.Error(err))
	}

	existing, err := o.meta.Get(ctx, row.ID)
	if err != nil {
		return err
	}
	var cover string
	if existing != nil {
		cover = existing.CoverURL
	}

	var contribs []Contribution
	var screenshots []string
	var fanarts []string

	// 1. Hash lookup, cache first. A cached row with empty fields is a
	// remembered miss and stops re-querying.
	hrow, err := o.hasheousRow(ctx, row)
	if err != nil {
		logger.Warn("hasheous lookup failed", zap.Error(err))
	}
	searchName := row.Name
	if hrow != nil && hrow.Name != "" {
		searchName = hrow.Name
		contribs = append(contribs, hasheousContribution(hrow))
	}

	// The RetroAchievements game id comes from the hash lookup when it
	// knows one, else from RA's own per-console hash index.
	raGameID := ""
	if existing != nil {
		raGameID = existing.RAGameID
	}
	if raGameID == "" && hrow != nil {
		raGameID = hrow.RAID
	}
	if raGameID == "" && o.clients.RetroAchievements != nil && row.HashMD5 != "" {
		if consoleID := o.registry.RAConsoleID(row.PlatformSlug); consoleID != 0 {
			id, err := o.clients.RetroAchievements.FindGameID(ctx, consoleID, row.HashMD5)
			if err != nil {
				logger.Warn("retroachievements lookup failed", zap.Error(err))
			}
			raGameID = id
		}
	}

	// 2. IGDB by id when the hash lookup knows one, else by name.
	if o.clients.IGDB != nil {
		igdbID := ""
		if hrow != nil {
			igdbID = hrow.IGDBID
		}
		game, err := o.igdbGame(ctx, row.ID, igdbID, searchName)
		if err != nil {
			logger.Warn("igdb lookup failed", zap.Error(err))
		}
		if game != nil {
			contribs = append(contribs, Contribution{
				Source:      SourceIGDB,
				Description: game.Description(),
				Developer:   game.Developer(),
				Publisher:   game.Publisher(),
				Genres:      game.GenreNames(),
				Themes:      game.ThemeNames(),
				Rating:      game.Rating(),
				ReleaseDate: game.ReleaseDate(),
			})
			if cover == "" {
				cover = game.CoverURL()
			}
			screenshots = append(screenshots, game.ScreenshotURLs()...)
		}
	}

	// 3. LaunchBox mirror by normalized name.
	if lbName, ok := o.registry.LaunchBoxName(row.PlatformSlug); ok {
		game, err := o.lbox.FindGame(ctx, launchbox.NormalizeName(searchName), lbName)
		if err != nil {
			logger.Warn("launchbox lookup failed", zap.Error(err))
		}
		if game != nil {
			contribs = append(contribs, Contribution{
				Source:      SourceLaunchBox,
				Description: game.Description,
				Developer:   game.Developer,
				Publisher:   game.Publisher,
				Genres:      decodeList(game.Genres),
				Rating:      game.CommunityRating * 2,
				ReleaseDate: game.ReleaseDate,
			})
			if cover == "" {
				if fileName, err := o.lbox.FindCover(ctx, game.DatabaseID); err == nil && fileName != "" {
					cover = launchbox.ImageURL(fileName)
				}
			}
			if shots, err := o.lbox.ListScreenshots(ctx, game.DatabaseID); err == nil {
				for _, fileName := range shots {
					screenshots = append(screenshots, launchbox.ImageURL(fileName))
				}
			}
		}
	}

	// 4. ScreenScraper when the platform has a system id there.
	if o.clients.ScreenScraper != nil {
		if systemID := o.registry.ScreenScraperID(row.PlatformSlug); systemID != 0 {
			data, err := o.screenScraperData(ctx, row, systemID)
			if err != nil {
				logger.Warn("screenscraper lookup failed", zap.Error(err))
			}
			if data != nil {
				contribs = append(contribs, Contribution{
					Source:      SourceScreenScraper,
					Description: data.Description,
					Developer:   data.Developer,
					Publisher:   data.Publisher,
					Genres:      splitComma(data.Genres),
					Rating:      data.Rating,
					ReleaseDate: data.ReleaseDate,
				})
				for _, media := range data.Media {
					switch media.Kind {
					case screenscraper.MediaCover:
						if cover == "" {
							cover = media.URL
						}
					case screenscraper.MediaScreenshot:
						screenshots = append(screenshots, media.URL)
					case screenscraper.MediaFanart:
						fanarts = append(fanarts, media.URL)
					}
				}
			}
		}
	}

	// 5. Libretro thumbnail CDN as the last cover resort, plus snap and
	// title screens when the platform has a thumbnail directory.
	if dir, ok := o.registry.LibretroDir(row.PlatformSlug); ok {
		if cover == "" {
			if url := libretro.BoxartURL(dir, searchName); o.prober.Exists(ctx, url) {
				cover = url
			}
		}
		for _, url := range []string{libretro.SnapURL(dir, searchName), libretro.TitleURL(dir, searchName)} {
			if o.prober.Exists(ctx, url) {
				screenshots = append(screenshots, url)
			}
		}
	}

	meta := Merge(row.ID, existing, contribs)
	meta.CoverURL = cover
	meta.RAGameID = raGameID
	if err := o.meta.Put(ctx, meta); err != nil {
		return err
	}
	if cover != "" {
		if err := o.meta.AddArtwork(ctx, model.Artwork{RomID: row.ID, ArtType: model.ArtCover, URL: cover}); err != nil {
			return err
		}
	}
	for _, url := range screenshots {
		if err := o.meta.AddArtwork(ctx, model.Artwork{RomID: row.ID, ArtType: model.ArtScreenshot, URL: url}); err != nil {
			return err
		}
	}
	for _, url := range fanarts {
		if err := o.meta.AddArtwork(ctx, model.Artwork{RomID: row.ID, ArtType: model.ArtFanart, URL: url}); err != nil {
			return err
		}
	}
	return o.roms.MarkEnriched(ctx, row.ID)
}

// ensureMD5 computes and persists the MD5 of a locally available file
// when the catalog does not know it yet.
func (o *Orchestrator) ensureMD5(ctx context.Context, row *db.EnrichRow) error {
	if row.HashMD5 != "" || row.LocalPath == "" {
		return nil
	}
	digest, err := romhash.Hash(row.LocalPath)
	if err != nil {
		return err
	}
	if err := o.roms.UpdateHashes(ctx, row.ID, digest); err != nil {
		return err
	}
	row.HashMD5 = digest.MD5
	return nil
}

// hasheousRow returns the cached hash lookup, querying and caching the
// result (misses included) on first sight.
func (o *Orchestrator) hasheousRow(ctx context.Context, row *db.EnrichRow) (*db.HasheousCacheRow, error) {
	cached, found, err := o.cache.GetHasheous(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}
	if row.HashMD5 == "" {
		return nil, nil
	}

	result, err := o.clients.Hasheous.LookupMD5(ctx, row.HashMD5)
	if err != nil {
		return nil, err
	}
	store := db.HasheousCacheRow{RomID: row.ID}
	if result != nil {
		store.RawResponse = result.Raw
		store.Name = result.Name
		store.Publisher = result.Publisher
		store.Year = result.Year
		store.Description = result.Description
		store.Genres = encodeList(result.Genres)
		store.IGDBID = result.IGDBGameID
		store.TGDBID = result.TGDBGameID
		store.RAID = result.RAGameID
		store.WikipediaURL = result.WikipediaURL
		store.PlatformIGDBID = result.IGDBPlatformID
		store.PlatformRAID = result.RAPlatformID
	}
	if err := o.cache.PutHasheous(ctx, store); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return &store, nil
}

// igdbGame returns the cached game record, fetching by id or name
// search and caching the result (misses as empty rows) on first sight.
func (o *Orchestrator) igdbGame(ctx context.Context, romID int64, igdbID, searchName string) (*igdb.Game, error) {
	raw, found, err := o.cache.GetRaw(ctx, igdbCacheTable, romID)
	if err != nil {
		return nil, err
	}
	if found {
		if raw == "" {
			return nil, nil
		}
		var game igdb.Game
		if err := json.Unmarshal([]byte(raw), &game); err != nil {
			return nil, fmt.Errorf("decode cached igdb game: %w", err)
		}
		return &game, nil
	}

	var game *igdb.Game
	if id, perr := strconv.ParseInt(igdbID, 10, 64); perr == nil && id > 0 {
		games, err := o.clients.IGDB.FetchByIDs(ctx, []int64{id})
		if err != nil {
			return nil, err
		}
		if len(games) > 0 {
			game = &games[0]
		}
	}
	if game == nil && searchName != "" {
		game, err = o.clients.IGDB.Search(ctx, searchName)
		if err != nil {
			return nil, err
		}
	}

	stored := ""
	if game != nil {
		if encoded, err := json.Marshal(game); err == nil {
			stored = string(encoded)
		}
	}
	if err := o.cache.PutRaw(ctx, igdbCacheTable, romID, stored); err != nil {
		return nil, err
	}
	return game, nil
}

// screenScraperData returns the cached lookup, querying and caching the
// result (misses as empty rows) on first sight.
func (o *Orchestrator) screenScraperData(ctx context.Context, row *db.EnrichRow, systemID int64) (*screenscraper.GameData, error) {
	raw, found, err := o.cache.GetRaw(ctx, scraperCacheTable, row.ID)
	if err != nil {
		return nil, err
	}
	if found {
		if raw == "" {
			return nil, nil
		}
		var data screenscraper.GameData
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("decode cached screenscraper data: %w", err)
		}
		return &data, nil
	}

	data, err := o.clients.ScreenScraper.Lookup(ctx, row.HashMD5, row.FileName, systemID)
	if err != nil {
		return nil, err
	}
	stored := ""
	if data != nil {
		if encoded, err := json.Marshal(data); err == nil {
			stored = string(encoded)
		}
	}
	if err := o.cache.PutRaw(ctx, scraperCacheTable, row.ID, stored); err != nil {
		return nil, err
	}
	return data, nil
}

func hasheousContribution(row *db.HasheousCacheRow) Contribution {
	return Contribution{
		Source:      SourceHasheous,
		Description: row.Description,
		Publisher:   row.Publisher,
		Genres:      decodeList(row.Genres),
		ReleaseDate: row.Year,
	}
}

func decodeList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

func splitComma(raw string) []string {
	var parts []string
	for _, piece := range strings.Split(raw, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			parts = append(parts, piece)
		}
	}
	return parts
}
