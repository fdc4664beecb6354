package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFolder(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	tests := []struct {
		folder string
		slug   string
		ok     bool
	}{
		{"gba", "gba", true},
		{"sfc", "snes", true},
		{"famicom", "nes", true},
		{"megadrive", "genesis", true},
		{"mame", "arcade", true},
		{"gamecube", "gamecube", true},
		{"nosuchfolder", "", false},
	}
	for _, tc := range tests {
		slug, ok := r.ResolveFolder(tc.folder)
		assert.Equal(t, tc.ok, ok, tc.folder)
		assert.Equal(t, tc.slug, slug, tc.folder)
	}
}

func TestResolveDatName(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	slug, ok := r.ResolveDatName("Nintendo - Game Boy Advance")
	require.True(t, ok)
	assert.Equal(t, "gba", slug)

	slug, ok = r.ResolveDatName("Sony - PlayStation")
	require.True(t, ok)
	assert.Equal(t, "psx", slug)

	_, ok = r.ResolveDatName("Totally Unknown System")
	assert.False(t, ok)
}

func TestResolveRommSlug(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	assert.Equal(t, "snes", r.ResolveRommSlug("super-famicom"))
	assert.Equal(t, "genesis", r.ResolveRommSlug("mega-drive-slash-genesis"))
	// unmapped slugs pass through lowercased
	assert.Equal(t, "some-new-platform", r.ResolveRommSlug("Some-New-Platform"))
}

func TestExternalIDs(t *testing.T) {
	t.Parallel()
	r := NewRegistry()

	assert.EqualValues(t, 12, r.ScreenScraperID("gba"))
	assert.EqualValues(t, 0, r.ScreenScraperID("megaduck"))

	dir, ok := r.LibretroDir("snes")
	require.True(t, ok)
	assert.Equal(t, "Nintendo - Super Nintendo Entertainment System", dir)
	_, ok = r.LibretroDir("pico8")
	assert.False(t, ok)

	name, ok := r.LaunchBoxName("psx")
	require.True(t, ok)
	assert.Equal(t, "Sony Playstation", name)
}
