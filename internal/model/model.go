package model

// Verification status values stored on a catalog entry.
const (
	StatusVerified   = "verified"
	StatusUnverified = "unverified"
	StatusBadDump    = "bad_dump"
	// StatusNotChecked is represented as an empty column; the constant
	// exists only for summaries.
	StatusNotChecked = "not_checked"
)

// Source types.
const (
	SourceTypeLocal = "local"
	SourceTypeRomm  = "romm"
)

// Artwork types.
const (
	ArtCover      = "cover"
	ArtScreenshot = "screenshot"
	ArtFanart     = "fanart"
)

// Rom is the canonical catalog entry for a single ROM on a platform.
type Rom struct {
	ID         int64
	PlatformID int64
	Name       string
	FileName   string
	FileSize   int64
	Regions    string // JSON array, "[]" when unknown

	HashCRC32 string
	HashMD5   string
	HashSHA1  string

	VerificationStatus string
	DatEntryID         int64
	DatGameName        string

	MetadataFetchedAt string
}

// Platform is a catalog platform row, created lazily on first sighting.
type Platform struct {
	ID              int64
	Slug            string
	Name            string
	ScreenScraperID int64
}

// Source describes where ROM records come from.
type Source struct {
	ID           int64
	SourceType   string
	Name         string
	RootPath     string
	LastSyncedAt string
}

// SourceLink maps a catalog entry to one source offering it.
type SourceLink struct {
	RomID       int64
	SourceID    int64
	SourceRomID string
	SourceURL   string
	FileName    string
	HashMD5     string
}

// DatFile describes one imported reference set.
type DatFile struct {
	ID           int64
	Name         string
	Description  string
	Version      string
	DatType      string
	PlatformSlug string
	EntryCount   int64
	ImportedAt   string
}

// DatEntry is a single reference hash record from an imported DAT.
type DatEntry struct {
	ID        int64
	DatFileID int64
	GameName  string
	RomName   string
	Size      int64
	CRC32     string
	MD5       string
	SHA1      string
	Status    string
}

// Metadata is the merged per-entry metadata view.
type Metadata struct {
	RomID       int64
	Description string
	Developer   string
	Publisher   string
	Genres      string // JSON array
	Themes      string // JSON array
	Rating      float64
	ReleaseDate string
	CoverURL    string
	RAGameID    string
}

// Artwork references one piece of art for an entry. Append-only,
// deduplicated by (rom id, type, url).
type Artwork struct {
	RomID   int64
	ArtType string
	URL     string
}

// ScanProgress is emitted by long-running operations. Consumers may
// drop records without affecting correctness.
type ScanProgress struct {
	SourceID    int64
	Total       int64
	Current     int64
	CurrentItem string
}

// ProgressFunc receives progress updates. A nil ProgressFunc is valid.
type ProgressFunc func(ScanProgress)

// Report invokes the callback when set.
func (f ProgressFunc) Report(p ScanProgress) {
	if f != nil {
		f(p)
	}
}

// VerifyStats summarizes one verification run.
type VerifyStats struct {
	Verified   int64
	Unverified int64
	BadDump    int64
	NotChecked int64
}

// EnrichStats summarizes one enrichment run.
type EnrichStats struct {
	Enriched int64
	Skipped  int64
}
