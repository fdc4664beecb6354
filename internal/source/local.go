package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/romkeep/internal/db"
	"github.com/xxxsen/romkeep/internal/model"
	"github.com/xxxsen/romkeep/internal/platform"
	"github.com/xxxsen/romkeep/internal/resolver"
	"github.com/xxxsen/romkeep/internal/romhash"
)

// Layout is a detected ROM directory convention.
type Layout string

const (
	// LayoutEsDe is lowercase slug folders: gb/, gba/, snes/.
	LayoutEsDe Layout = "esde"
	// LayoutBatocera nests slug folders under roms/ or EASYROMS/.
	LayoutBatocera Layout = "batocera"
	// LayoutMuOS has ROMS/ and MUOS/ sibling directories.
	LayoutMuOS Layout = "muos"
	// LayoutMinUI uses "Name (TAG)/" folder names.
	LayoutMinUI Layout = "minui"
	// LayoutOnionOS uses ALL_CAPS folder names.
	LayoutOnionOS Layout = "onionos"
	// LayoutUnknown falls back to treating folder names as slugs.
	LayoutUnknown Layout = "unknown"
)

// romExtensions lists the file extensions indexed by a local scan.
var romExtensions = map[string]struct{}{
	"gb": {}, "gbc": {}, "gba": {}, "nes": {}, "sfc": {}, "smc": {},
	"n64": {}, "z64": {}, "v64": {}, "nds": {}, "3ds": {}, "iso": {},
	"bin": {}, "cue": {}, "chd": {}, "rvz": {}, "wbfs": {}, "rom": {},
	"md": {}, "gen": {}, "smd": {}, "gg": {}, "sms": {}, "pce": {},
	"ngp": {}, "ngc": {}, "ws": {}, "wsc": {}, "lnx": {}, "vb": {},
	"zip": {}, "7z": {}, "m3u": {}, "a26": {}, "a78": {}, "col": {},
	"sg": {}, "int": {}, "jag": {}, "psx": {}, "pbp": {}, "cso": {},
	"xci": {}, "nsp": {},
}

// IsRomFile reports whether a file name carries an indexed extension.
func IsRomFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	_, ok := romExtensions[ext]
	return ok
}

// DetectLayout inspects the top-level directories under root and guesses
// the device convention.
func DetectLayout(root string, registry *platform.Registry) Layout {
	entries, err := listDirNames(root)
	if err != nil || len(entries) == 0 {
		return LayoutUnknown
	}

	if contains(entries, "ROMS") && contains(entries, "MUOS") {
		return LayoutMuOS
	}

	for _, sub := range []string{"roms", "EASYROMS"} {
		if !contains(entries, sub) {
			continue
		}
		subNames, err := listDirNames(filepath.Join(root, sub))
		if err != nil {
			continue
		}
		known := 0
		for _, name := range subNames {
			if registry.IsKnownFolder(strings.ToLower(name)) {
				known++
			}
		}
		if known >= 2 {
			return LayoutBatocera
		}
	}

	minui := 0
	for _, name := range entries {
		if open := strings.LastIndexByte(name, '('); open > 0 && strings.HasSuffix(name, ")") {
			minui++
		}
	}
	if minui >= 3 {
		return LayoutMinUI
	}

	upper := 0
	for _, name := range entries {
		if name != "" && isAllCaps(name) {
			upper++
		}
	}
	if upper > len(entries)/2 && upper >= 3 {
		return LayoutOnionOS
	}

	known := 0
	for _, name := range entries {
		if registry.IsKnownFolder(name) {
			known++
		}
	}
	if known >= 3 {
		return LayoutEsDe
	}
	return LayoutUnknown
}

func isAllCaps(name string) bool {
	for _, r := range name {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// romsRoot returns the directory whose children are platform folders.
func romsRoot(root string, layout Layout) string {
	switch layout {
	case LayoutBatocera:
		roms := filepath.Join(root, "roms")
		if _, err := os.Stat(roms); err == nil {
			return roms
		}
		return filepath.Join(root, "EASYROMS")
	case LayoutMuOS:
		return filepath.Join(root, "ROMS")
	default:
		return root
	}
}

// extractMinUITag pulls the trailing "(TAG)" from a MinUI folder name.
func extractMinUITag(name string) (string, bool) {
	open := strings.LastIndexByte(name, '(')
	if open <= 0 || !strings.HasSuffix(name, ")") || len(name)-1 <= open+1 {
		return "", false
	}
	return name[open+1 : len(name)-1], true
}

// resolveFolderSlug maps a platform folder name to a canonical slug.
func resolveFolderSlug(name string, layout Layout, registry *platform.Registry) (string, bool) {
	if layout == LayoutMinUI {
		tag, ok := extractMinUITag(name)
		if !ok {
			return "", false
		}
		return registry.ResolveFolder(strings.ToLower(tag))
	}
	lower := strings.ToLower(name)
	if slug, ok := registry.ResolveFolder(lower); ok {
		return slug, true
	}
	stripped := strings.NewReplacer("-", "", "_", "").Replace(lower)
	return registry.ResolveFolder(stripped)
}

// scannedFile is one ROM file sighting collected from the filesystem.
type scannedFile struct {
	slug     string
	path     string
	fileName string
	romName  string
	size     int64
}

// LocalScanner indexes a ROM directory tree into the catalog.
type LocalScanner struct {
	registry *platform.Registry
	roms     *db.RomDAO
	resolver *resolver.Resolver
}

// NewLocalScanner wires a scanner to the catalog.
func NewLocalScanner(registry *platform.Registry, roms *db.RomDAO, res *resolver.Resolver) *LocalScanner {
	return &LocalScanner{registry: registry, roms: roms, resolver: res}
}

// PathReport summarizes what a scan of root would index.
type PathReport struct {
	Layout    Layout
	Platforms int64
	Roms      int64
}

// TestPath detects the layout and counts indexable platforms and files
// without touching the catalog.
func (s *LocalScanner) TestPath(root string) (*PathReport, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}
	layout := DetectLayout(root, s.registry)
	files, err := s.collect(root, layout)
	if err != nil {
		return nil, err
	}
	report := &PathReport{Layout: layout, Roms: int64(len(files))}
	seen := map[string]struct{}{}
	for _, f := range files {
		if _, ok := seen[f.slug]; !ok {
			seen[f.slug] = struct{}{}
			report.Platforms++
		}
	}
	return report, nil
}

// Sync walks root and folds every ROM file into the catalog, hashing
// each file so content identity works from the first sighting. Returns
// the number of files indexed.
func (s *LocalScanner) Sync(ctx context.Context, sourceID int64, root string, progress model.ProgressFunc) (int64, error) {
	layout := DetectLayout(root, s.registry)
	files, err := s.collect(root, layout)
	if err != nil {
		return 0, err
	}
	logger := logutil.GetLogger(ctx)
	logger.Info("start local sync", zap.String("root", root),
		zap.String("layout", string(layout)), zap.Int("files", len(files)))

	platformIDs := map[string]int64{}
	var indexed int64
	for idx, f := range files {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}

		platformID, ok := platformIDs[f.slug]
		if !ok {
			platformID, err = s.roms.EnsurePlatform(ctx, f.slug,
				s.registry.DisplayName(f.slug), s.registry.ScreenScraperID(f.slug))
			if err != nil {
				return indexed, err
			}
			platformIDs[f.slug] = platformID
		}

		progress.Report(model.ScanProgress{
			SourceID:    sourceID,
			Total:       int64(len(files)),
			Current:     int64(idx + 1),
			CurrentItem: f.romName,
		})

		md5sum, err := romhash.MD5(f.path)
		if err != nil {
			logger.Warn("hash local file failed", zap.String("path", f.path), zap.Error(err))
			md5sum = ""
		}

		if _, _, err := s.resolver.Upsert(ctx, resolver.Incoming{
			PlatformID:  platformID,
			Name:        f.romName,
			FileName:    f.fileName,
			FileSize:    f.size,
			HashMD5:     md5sum,
			SourceID:    sourceID,
			SourceRomID: f.path,
		}); err != nil {
			return indexed, fmt.Errorf("index %s: %w", f.path, err)
		}
		indexed++
	}
	return indexed, nil
}

// collect gathers ROM files from every resolvable platform folder in a
// stable order.
func (s *LocalScanner) collect(root string, layout Layout) ([]scannedFile, error) {
	base := romsRoot(root, layout)
	dirs, err := listDirNames(base)
	if err != nil {
		return nil, fmt.Errorf("read roms root %s: %w", base, err)
	}
	sort.Strings(dirs)

	var result []scannedFile
	for _, dir := range dirs {
		slug, ok := resolveFolderSlug(dir, layout, s.registry)
		if !ok {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(base, dir))
		if err != nil {
			return nil, fmt.Errorf("read platform folder %s: %w", dir, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, entry := range entries {
			if entry.IsDir() || !IsRomFile(entry.Name()) {
				continue
			}
			fileName := entry.Name()
			var size int64
			if info, err := entry.Info(); err == nil {
				size = info.Size()
			}
			path, err := filepath.Abs(filepath.Join(base, dir, fileName))
			if err != nil {
				path = filepath.Join(base, dir, fileName)
			}
			result = append(result, scannedFile{
				slug:     slug,
				path:     path,
				fileName: fileName,
				romName:  strings.TrimSuffix(fileName, filepath.Ext(fileName)),
				size:     size,
			})
		}
	}
	return result, nil
}

func listDirNames(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
