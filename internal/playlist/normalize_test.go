package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantBase    string
		wantQuality string
	}{
		{"plain name", "Sky Sports", "Sky Sports", "SD"},
		{"trailing fhd", "Sky Sports FHD", "Sky Sports", "FHD"},
		{"trailing hd", "Sky Sports HD", "Sky Sports", "HD"},
		{"4k marker", "BT Sport 4K", "BT Sport", "4K"},
		{"marketing suffix", "Sky Sports Xtra", "Sky Sports", "XTRA"},
		{"multiple tokens last wins", "UK Sky Sports FHD", "Sky Sports", "FHD"},
		{"codec token", "ESPN HEVC", "ESPN", "HEVC"},
		{"bracketed quality", "ESPN [HD]", "ESPN", "HD"},
		{"piped region", "TNT Sports | UK", "TNT Sports", "UK"},
		{"leading separator residue", "UK: BBC One", "BBC One", "UK"},
		{"whitespace collapsed", "Sky   Sports   HD", "Sky Sports", "HD"},
		{"case insensitive token", "Sky Sports fhd", "Sky Sports", "FHD"},
		{"token inside word untouched", "HDTV Channel", "HDTV Channel", "SD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, quality := Normalize(tt.input)
			assert.Equal(t, tt.wantBase, base)
			assert.Equal(t, tt.wantQuality, quality)
		})
	}
}

func TestNormalize_StylizedUnicodeMarker(t *testing.T) {
	// U+1D34/U+1D30 are modifier capital H and D; NFKC folds them to
	// plain letters before token matching.
	base, quality := Normalize("Sky Sports ᴴᴰ")
	assert.Equal(t, "Sky Sports", base)
	assert.Equal(t, "HD", quality)
}

func TestNormalize_EmptyResultFallsBackToRaw(t *testing.T) {
	base, quality := Normalize("  HD  ")
	assert.Equal(t, "HD", base)
	assert.Equal(t, "HD", quality)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Sky Sports FHD",
		"UK: BBC One HD",
		"ESPN [4K] | USA",
		"Canal+ Sport FR",
		"Plain Channel",
	}

	for _, input := range inputs {
		base, _ := Normalize(input)
		again, _ := Normalize(base)
		assert.Equal(t, base, again, "second pass over %q changed the base name", input)
	}
}
