package hasheous

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLookup = `{
	"id": 12345,
	"name": "Tetris",
	"publisher": {"name": "Nintendo"},
	"signature": {"game": {"year": "1989"}},
	"metadata": [
		{"source": "IGDB", "objectType": "Game", "id": "1133"},
		{"source": "TheGamesDb", "objectType": "Game", "id": 778},
		{"source": "RetroAchievements", "objectType": "Game", "id": "504"},
		{"source": "Wikipedia", "objectType": "Game", "id": "https://en.wikipedia.org/wiki/Tetris"}
	],
	"platform": {
		"metadata": [
			{"source": "IGDB", "id": "33"},
			{"source": "RetroAchievements", "id": "4"}
		]
	},
	"attributes": [
		{"attributeName": "AIDescription", "value": "Stack falling blocks."},
		{"attributeName": "Tags", "value": {"GameGenre": {"Tags": [{"Text": "Puzzle"}, {"Text": "Arcade"}]}}}
	]
}`

func TestParseLookup(t *testing.T) {
	result, err := parseLookup([]byte(sampleLookup))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, int64(12345), result.HasheousID)
	assert.Equal(t, "Tetris", result.Name)
	assert.Equal(t, "Nintendo", result.Publisher)
	assert.Equal(t, "1989", result.Year)
	assert.Equal(t, "Stack falling blocks.", result.Description)
	assert.Equal(t, []string{"Puzzle", "Arcade"}, result.Genres)
	// ids survive both string and numeric encodings
	assert.Equal(t, "1133", result.IGDBGameID)
	assert.Equal(t, "778", result.TGDBGameID)
	assert.Equal(t, "504", result.RAGameID)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Tetris", result.WikipediaURL)
	assert.Equal(t, "33", result.IGDBPlatformID)
	assert.Equal(t, "4", result.RAPlatformID)
}

func TestParseLookupWithoutName(t *testing.T) {
	result, err := parseLookup([]byte(`{"id": 1}`))
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestLookupMD5MissReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := New(srv.URL)
	result, err := client.LookupMD5(context.Background(), "00000000000000000000000000000000")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestLookupMD5Hit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/Lookup/ByHash/md5/900150983cd24fb0d6963f7d28e17f72", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleLookup))
	}))
	defer srv.Close()

	client := New(srv.URL)
	result, err := client.LookupMD5(context.Background(), "900150983cd24fb0d6963f7d28e17f72")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Tetris", result.Name)
}
