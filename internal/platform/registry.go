package platform

import "strings"

// Def describes one platform: canonical slug plus every alias and
// external id the pipeline needs to talk about it.
type Def struct {
	Slug            string
	DisplayName     string
	FolderAliases   []string
	RommAliases     []string
	DatAliases      []string
	RAConsoleID     int64
	ScreenScraperID int64
	LibretroDir     string
	LaunchBoxName   string
}

// Registry is a read-only platform lookup built once and passed by
// reference into the components that need it.
type Registry struct {
	defs      []Def
	byFolder  map[string]string
	byRomm    map[string]string
	byDatName map[string]string
	bySlug    map[string]*Def
}

// NewRegistry builds the default registry from the built-in platform table.
func NewRegistry() *Registry {
	r := &Registry{
		defs:      defaultPlatforms,
		byFolder:  make(map[string]string),
		byRomm:    make(map[string]string),
		byDatName: make(map[string]string),
		bySlug:    make(map[string]*Def),
	}
	for i := range r.defs {
		def := &r.defs[i]
		r.bySlug[def.Slug] = def
		// the slug itself is always a valid folder name
		r.byFolder[def.Slug] = def.Slug
		for _, alias := range def.FolderAliases {
			r.byFolder[alias] = def.Slug
		}
		for _, alias := range def.RommAliases {
			r.byRomm[alias] = def.Slug
		}
		for _, alias := range def.DatAliases {
			r.byDatName[alias] = def.Slug
		}
	}
	return r
}

// Lookup returns the definition for a canonical slug.
func (r *Registry) Lookup(slug string) (*Def, bool) {
	def, ok := r.bySlug[slug]
	return def, ok
}

// DisplayName returns the display name for a slug, or the slug itself
// when unknown.
func (r *Registry) DisplayName(slug string) string {
	if def, ok := r.bySlug[slug]; ok {
		return def.DisplayName
	}
	return slug
}

// ResolveFolder maps a lowercase folder name to a canonical slug.
func (r *Registry) ResolveFolder(name string) (string, bool) {
	slug, ok := r.byFolder[name]
	return slug, ok
}

// IsKnownFolder reports whether a folder name maps to a platform.
func (r *Registry) IsKnownFolder(name string) bool {
	_, ok := r.byFolder[name]
	return ok
}

// ResolveRommSlug maps a RomM platform slug to our canonical slug,
// falling back to the lowercased input when unmapped.
func (r *Registry) ResolveRommSlug(rommSlug string) string {
	lower := strings.ToLower(rommSlug)
	if slug, ok := r.byRomm[lower]; ok {
		return slug
	}
	return lower
}

// ResolveDatName maps a No-Intro/Redump DAT header name to a slug.
func (r *Registry) ResolveDatName(datName string) (string, bool) {
	slug, ok := r.byDatName[datName]
	return slug, ok
}

// ScreenScraperID returns the ScreenScraper system id for a slug, 0 when
// the platform has none.
func (r *Registry) ScreenScraperID(slug string) int64 {
	if def, ok := r.bySlug[slug]; ok {
		return def.ScreenScraperID
	}
	return 0
}

// RAConsoleID returns the RetroAchievements console id for a slug, 0
// when the platform has none.
func (r *Registry) RAConsoleID(slug string) int64 {
	if def, ok := r.bySlug[slug]; ok {
		return def.RAConsoleID
	}
	return 0
}

// LibretroDir returns the libretro thumbnail directory for a slug.
func (r *Registry) LibretroDir(slug string) (string, bool) {
	def, ok := r.bySlug[slug]
	if !ok || def.LibretroDir == "" {
		return "", false
	}
	return def.LibretroDir, true
}

// LaunchBoxName returns the LaunchBox platform name for a slug.
func (r *Registry) LaunchBoxName(slug string) (string, bool) {
	def, ok := r.bySlug[slug]
	if !ok || def.LaunchBoxName == "" {
		return "", false
	}
	return def.LaunchBoxName, true
}
