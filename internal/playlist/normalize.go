// Package playlist builds deduplicated channel lineups from M3U playlist
// documents: it normalizes raw channel names, groups quality variants of the
// same logical channel, and buckets channels by group title.
package playlist

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// qualityTokenPattern matches quality, codec, frame-rate, region and
// marketing tokens that providers append to channel names. The token list is
// deliberately flat; the *last* match in a name is reported as its quality
// label, which favors the trailing qualifiers most providers use.
var qualityTokenPattern = regexp.MustCompile(`(?i)\b(` +
	`8k|4k|uhd|fhd|full\s?hd|hd|sd|` +
	`hevc|h\.?265|h\.?264|x265|x264|av1|` +
	`50\s?fps|60\s?fps|` +
	`uk|usa|ca|au|de|fr|es|nl|pt|pl|` +
	`xtra|extra|premium|backup|vip|raw|hq` +
	`)\b`)

var (
	bracketPipePattern  = regexp.MustCompile(`[\[\]()|]+`)
	leadingSepPattern   = regexp.MustCompile(`^[\s\-_:.,/+]+`)
	whitespaceRunRegexp = regexp.MustCompile(`\s+`)
)

// defaultQualityLabel is reported when a name carries no quality token.
const defaultQualityLabel = "SD"

// Normalize strips quality/region/technical tokens from a raw channel name
// and returns the canonical base name plus the extracted quality label.
//
// The input is Unicode-normalized to compatibility composed form first so
// stylized glyphs (superscript "ᴴᴰ" markers and the like) collapse to plain
// ASCII letters before token matching. If stripping leaves nothing, the
// trimmed original name is returned so the base name is never empty.
func Normalize(raw string) (base, quality string) {
	name := norm.NFKC.String(raw)

	matches := qualityTokenPattern.FindAllString(name, -1)
	quality = defaultQualityLabel
	if len(matches) > 0 {
		quality = strings.ToUpper(strings.TrimSpace(matches[len(matches)-1]))
	}

	base = qualityTokenPattern.ReplaceAllString(name, " ")
	base = bracketPipePattern.ReplaceAllString(base, " ")
	base = leadingSepPattern.ReplaceAllString(base, "")
	base = whitespaceRunRegexp.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if base == "" {
		base = strings.TrimSpace(raw)
	}
	return base, quality
}
