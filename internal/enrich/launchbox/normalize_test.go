package launchbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Tetris (World) (Rev 1).gb", "tetris"},
		{"Legend of Zelda, The (USA)", "the legend of zelda"},
		{"Pokemon - Red Version (USA, Europe)", "pokemon red version"},
		{"Castlevania [b1].nes", "castlevania"},
		{"Dr. Mario (JU)", "dr mario"},
		{"Mega Man X", "mega man x"},
		{"R-Type", "r type"},
		{"Adventures of Lolo, An", "an adventures of lolo"},
		{"Final Fantasy VII (Disc 1)", "final fantasy vii"},
		{"  Spaced   Out  ", "spaced out"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeName(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeNameKeepsLongDotSegments(t *testing.T) {
	// ".hack" style names are not extensions
	assert.Equal(t, "before crisis final", NormalizeName("Before Crisis.Final"))
}
