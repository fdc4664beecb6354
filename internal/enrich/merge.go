package enrich

import (
	"encoding/json"

	"github.com/xxxsen/romkeep/internal/model"
)

// Source names in pipeline order.
const (
	SourceHasheous      = "hasheous"
	SourceIGDB          = "igdb"
	SourceLaunchBox     = "launchbox"
	SourceScreenScraper = "screenscraper"
)

// Contribution is one source's metadata offer for an entry. Ratings are
// already normalized to a 0..10 scale, 0 means not offered.
type Contribution struct {
	Source      string
	Description string
	Developer   string
	Publisher   string
	Genres      []string
	Themes      []string
	Rating      float64
	ReleaseDate string
}

// Merge folds ordered contributions into one metadata record, starting
// from the stored row so a source going quiet never erases an earlier
// value. Scalars keep the first non-empty value seen; IGDB alone may
// override an already-set description, genre list or rating. Genre and
// theme lists otherwise only land when still empty.
func Merge(romID int64, existing *model.Metadata, contribs []Contribution) model.Metadata {
	var desc, dev, pub, release string
	var genres, themes []string
	var rating float64
	if existing != nil {
		desc = existing.Description
		dev = existing.Developer
		pub = existing.Publisher
		release = existing.ReleaseDate
		genres = decodeList(existing.Genres)
		themes = decodeList(existing.Themes)
		rating = existing.Rating
	}

	for _, c := range contribs {
		authoritative := c.Source == SourceIGDB

		desc = pick(desc, c.Description, authoritative)
		dev = pick(dev, c.Developer, false)
		pub = pick(pub, c.Publisher, false)
		release = pick(release, c.ReleaseDate, false)

		if len(c.Genres) > 0 && (len(genres) == 0 || authoritative) {
			genres = c.Genres
		}
		if len(c.Themes) > 0 && len(themes) == 0 {
			themes = c.Themes
		}
		if c.Rating > 0 && (rating == 0 || authoritative) {
			rating = c.Rating
		}
	}

	return model.Metadata{
		RomID:       romID,
		Description: desc,
		Developer:   dev,
		Publisher:   pub,
		Genres:      encodeList(genres),
		Themes:      encodeList(themes),
		Rating:      rating,
		ReleaseDate: release,
	}
}

func pick(current, offered string, override bool) string {
	if offered == "" {
		return current
	}
	if current == "" || override {
		return offered
	}
	return current
}

func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
