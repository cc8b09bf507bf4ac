package playlist

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchline-tv/touchline/internal/models"
)

func extinf(group, name, url string) string {
	return fmt.Sprintf("#EXTINF:-1 group-title=%q,%s\n%s\n", group, name, url)
}

func TestBuilder_QualityVariantsMerge(t *testing.T) {
	content := "#EXTM3U\n" +
		extinf("Sports", "Sky Sports FHD", "http://example.com/fhd") +
		extinf("Sports Extra", "Sky Sports HD", "http://example.com/hd")

	lineup := NewBuilder().Build(content, models.CategorySports)

	require.Len(t, lineup.Groups, 1, "merged entry must not create a second group")
	group := lineup.Groups[0]
	assert.Equal(t, "Sports", group.Title)
	require.Len(t, group.Channels, 1)

	ch := group.Channels[0]
	assert.Equal(t, "Sky Sports", ch.Name)
	assert.Equal(t, "http://example.com/fhd", ch.URL)
	require.Len(t, ch.Streams, 2)
	assert.Equal(t, "FHD", ch.Streams[0].Quality)
	assert.Equal(t, "http://example.com/fhd", ch.Streams[0].URL)
	assert.Equal(t, "HD", ch.Streams[1].Quality)
	assert.Equal(t, "http://example.com/hd", ch.Streams[1].URL)
}

func TestBuilder_NoCategoryNeverMerges(t *testing.T) {
	content := "#EXTM3U\n" +
		extinf("A", "Sky Sports FHD", "http://example.com/fhd") +
		extinf("B", "Sky Sports HD", "http://example.com/hd")

	lineup := NewBuilder().Build(content, models.CategoryNone)

	require.Len(t, lineup.Groups, 2)
	assert.Len(t, lineup.Channels(), 2)
	// Without dedup the raw names are kept untouched.
	assert.Equal(t, "Sky Sports FHD", lineup.Groups[0].Channels[0].Name)
	assert.Equal(t, "Default", lineup.Groups[0].Channels[0].Streams[0].Quality)
}

// buildPositional produces a playlist with filler entries and duplicates of
// the given name at the requested 1-based running positions.
func buildPositional(name string, positions ...int) string {
	max := 0
	for _, p := range positions {
		if p > max {
			max = p
		}
	}
	want := make(map[int]bool, len(positions))
	for _, p := range positions {
		want[p] = true
	}

	var sb strings.Builder
	sb.WriteString("#EXTM3U\n")
	for i := 1; i <= max; i++ {
		if want[i] {
			sb.WriteString(extinf("Dup", name, fmt.Sprintf("http://example.com/dup/%d", i)))
		} else {
			sb.WriteString(extinf("Filler", fmt.Sprintf("Filler %d", i), fmt.Sprintf("http://example.com/filler/%d", i)))
		}
	}
	return sb.String()
}

func TestBuilder_PositionalWindow(t *testing.T) {
	t.Run("outside window not merged", func(t *testing.T) {
		lineup := NewBuilder().Build(buildPositional("Sky Sports HD", 50, 200), models.CategoryGeneral)

		var dupes int
		for _, ch := range lineup.Channels() {
			if strings.HasPrefix(ch.Name, "Sky Sports") {
				dupes++
			}
		}
		assert.Equal(t, 2, dupes, "a duplicate at position 50 is outside the window and must stay separate")
	})

	t.Run("inside window merged", func(t *testing.T) {
		lineup := NewBuilder().Build(buildPositional("Sky Sports HD", 120, 200), models.CategoryGeneral)

		var merged *models.Channel
		var dupes int
		for _, ch := range lineup.Channels() {
			if strings.HasPrefix(ch.Name, "Sky Sports") {
				merged = ch
				dupes++
			}
		}
		require.Equal(t, 1, dupes, "both duplicates fall inside the window and must merge")
		assert.Len(t, merged.Streams, 2)
	})
}

func TestBuilder_GroupsSortedAlphabetically(t *testing.T) {
	content := "#EXTM3U\n" +
		extinf("B", "Channel One", "http://example.com/1") +
		extinf("A", "Channel Two", "http://example.com/2") +
		extinf("C", "Channel Three", "http://example.com/3")

	lineup := NewBuilder().Build(content, models.CategoryNone)

	require.Len(t, lineup.Groups, 3)
	assert.Equal(t, "A", lineup.Groups[0].Title)
	assert.Equal(t, "B", lineup.Groups[1].Title)
	assert.Equal(t, "C", lineup.Groups[2].Title)
}

func TestBuilder_ChannelOrderWithinGroup(t *testing.T) {
	content := "#EXTM3U\n" +
		extinf("News", "Zeta News", "http://example.com/z") +
		extinf("News", "Alpha News", "http://example.com/a")

	lineup := NewBuilder().Build(content, models.CategoryNone)

	require.Len(t, lineup.Groups, 1)
	channels := lineup.Groups[0].Channels
	require.Len(t, channels, 2)
	assert.Equal(t, "Zeta News", channels[0].Name, "channels keep playlist-encounter order")
	assert.Equal(t, "Alpha News", channels[1].Name)
}

func TestBuilder_Defaults(t *testing.T) {
	content := "#EXTM3U\n#EXTINF:-1,Bare Channel\nhttp://example.com/bare\n"

	lineup := NewBuilder().Build(content, models.CategoryNone)

	require.Len(t, lineup.Groups, 1)
	assert.Equal(t, models.DefaultGroupTitle, lineup.Groups[0].Title)

	ch := lineup.Groups[0].Channels[0]
	assert.NotEmpty(t, ch.ID)
	assert.Contains(t, ch.Logo, "ui-avatars.com", "missing logo falls back to a generated placeholder")
}

func TestBuilder_EPGURLHint(t *testing.T) {
	content := "#EXTM3U url-tvg=\"http://example.com/guide.xml\"\n" +
		extinf("News", "BBC One", "http://example.com/bbc1")

	lineup := NewBuilder().Build(content, models.CategoryNone)
	assert.Equal(t, "http://example.com/guide.xml", lineup.EPGURL)
}

func TestBuilder_EmptyAndGarbageInput(t *testing.T) {
	for _, content := range []string{"", "not an m3u file"} {
		lineup := NewBuilder().Build(content, models.CategorySports)
		assert.Empty(t, lineup.Groups)
		assert.Empty(t, lineup.EPGURL)
	}
}

func TestBuilder_DedupStateDoesNotLeakBetweenBuilds(t *testing.T) {
	b := NewBuilder()
	content := "#EXTM3U\n" + extinf("Sports", "Sky Sports HD", "http://example.com/hd")

	first := b.Build(content, models.CategorySports)
	second := b.Build(content, models.CategorySports)

	require.Len(t, first.Channels(), 1)
	require.Len(t, second.Channels(), 1)
	assert.Len(t, second.Channels()[0].Streams, 1, "a fresh build must not merge against a previous pass")
}

func TestDefaultGroupingPolicy(t *testing.T) {
	assert.True(t, DefaultGroupingPolicy(models.CategorySports, 1))
	assert.True(t, DefaultGroupingPolicy(models.CategorySports, 9999))

	assert.False(t, DefaultGroupingPolicy(models.CategoryGeneral, 114))
	assert.True(t, DefaultGroupingPolicy(models.CategoryGeneral, 115))
	assert.True(t, DefaultGroupingPolicy(models.CategoryGeneral, 248))
	assert.False(t, DefaultGroupingPolicy(models.CategoryGeneral, 249))

	assert.False(t, DefaultGroupingPolicy(models.CategoryNone, 150))
}
