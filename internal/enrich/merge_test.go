package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/romkeep/internal/model"
)

func TestMergeFirstNonEmptyWins(t *testing.T) {
	meta := Merge(7, nil, []Contribution{
		{Source: SourceHasheous, Description: "hasheous desc", Publisher: ""},
		{Source: SourceLaunchBox, Description: "launchbox desc", Publisher: "Acme", Developer: "Acme Dev"},
		{Source: SourceScreenScraper, Publisher: "Other Corp", Developer: "Other Dev"},
	})

	require.Equal(t, int64(7), meta.RomID)
	// a gap left by an earlier source is filled by a later one, but a
	// value already set stays
	assert.Equal(t, "hasheous desc", meta.Description)
	assert.Equal(t, "Acme", meta.Publisher)
	assert.Equal(t, "Acme Dev", meta.Developer)
}

func TestMergeIGDBOverrides(t *testing.T) {
	meta := Merge(1, nil, []Contribution{
		{
			Source:      SourceHasheous,
			Description: "short blurb",
			Publisher:   "Acme",
			Genres:      []string{"Action"},
			Rating:      6,
		},
		{
			Source:      SourceIGDB,
			Description: "full igdb summary",
			Publisher:   "IGDB Publisher",
			Genres:      []string{"Platformer", "Adventure"},
			Rating:      8.7,
		},
	})

	// IGDB replaces description, genres and rating even when already set
	assert.Equal(t, "full igdb summary", meta.Description)
	assert.Equal(t, `["Platformer","Adventure"]`, meta.Genres)
	assert.InDelta(t, 8.7, meta.Rating, 0.001)
	// but plain scalars still keep the first value
	assert.Equal(t, "Acme", meta.Publisher)
}

func TestMergeIGDBEmptyFieldsDoNotErase(t *testing.T) {
	meta := Merge(1, nil, []Contribution{
		{Source: SourceHasheous, Description: "kept", Genres: []string{"Puzzle"}, Rating: 7},
		{Source: SourceIGDB},
	})

	assert.Equal(t, "kept", meta.Description)
	assert.Equal(t, `["Puzzle"]`, meta.Genres)
	assert.InDelta(t, 7, meta.Rating, 0.001)
}

func TestMergeListsReplaceOnlyWhenEmpty(t *testing.T) {
	meta := Merge(1, nil, []Contribution{
		{Source: SourceLaunchBox, Genres: []string{"Racing"}, Themes: []string{"Sci-Fi"}},
		{Source: SourceScreenScraper, Genres: []string{"Sports"}, Themes: []string{"Fantasy"}},
	})

	assert.Equal(t, `["Racing"]`, meta.Genres)
	assert.Equal(t, `["Sci-Fi"]`, meta.Themes)
}

func TestMergeSeedsFromStoredRow(t *testing.T) {
	stored := model.Metadata{
		RomID:       5,
		Description: "synced earlier",
		Developer:   "Old Dev",
		Genres:      `["Puzzle"]`,
		Themes:      "[]",
		Rating:      7,
		ReleaseDate: "1989-06-02",
	}

	// sources offering nothing leave every stored value in place
	meta := Merge(5, &stored, []Contribution{{Source: SourceHasheous}})
	assert.Equal(t, "synced earlier", meta.Description)
	assert.Equal(t, "Old Dev", meta.Developer)
	assert.Equal(t, `["Puzzle"]`, meta.Genres)
	assert.InDelta(t, 7, meta.Rating, 0.001)
	assert.Equal(t, "1989-06-02", meta.ReleaseDate)

	// non-authoritative sources fill gaps only, IGDB still overrides
	meta = Merge(5, &stored, []Contribution{
		{Source: SourceScreenScraper, Description: "other desc", Publisher: "Filled Corp"},
		{Source: SourceIGDB, Description: "igdb desc", Rating: 9},
	})
	assert.Equal(t, "igdb desc", meta.Description)
	assert.Equal(t, "Filled Corp", meta.Publisher)
	assert.Equal(t, "Old Dev", meta.Developer)
	assert.InDelta(t, 9, meta.Rating, 0.001)
}

func TestMergeEmptyContributions(t *testing.T) {
	meta := Merge(3, nil, nil)
	assert.Equal(t, "[]", meta.Genres)
	assert.Equal(t, "[]", meta.Themes)
	assert.Zero(t, meta.Rating)
}
