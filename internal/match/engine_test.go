package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchline-tv/touchline/internal/models"
)

func TestSplitFixtureTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{"vs separator", "Arsenal vs Chelsea", []string{"Arsenal", "Chelsea"}},
		{"v separator", "Arsenal v Chelsea", []string{"Arsenal", "Chelsea"}},
		{"vs with dot", "Arsenal vs. Chelsea", []string{"Arsenal", "Chelsea"}},
		{"uppercase VS", "Arsenal VS Chelsea", []string{"Arsenal", "Chelsea"}},
		{"extra whitespace", "  Real Madrid   vs   Barcelona  ", []string{"Real Madrid", "Barcelona"}},
		{"no separator", "Match of the Day", nil},
		{"vs inside a word", "Devs Documentary", nil},
		{"empty away side", "Arsenal vs ", nil},
		{"empty title", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFixtureTitle(tt.title))
		})
	}
}

func TestSameFixture(t *testing.T) {
	fragments := []string{"Arsenal", "Chelsea"}

	assert.True(t, sameFixture("Premier League: Arsenal v Chelsea", fragments))
	assert.True(t, sameFixture("ARSENAL VS CHELSEA LIVE", fragments))
	// One team alone must not correlate.
	assert.False(t, sameFixture("Arsenal Post-Match Show", fragments))
	assert.False(t, sameFixture("Chelsea Classics", fragments))
	assert.False(t, sameFixture("Match of the Day", fragments))
}

func testChannel(id, tvgID string) *models.Channel {
	return &models.Channel{ID: id, Name: id, TvgID: tvgID}
}

func TestFindLocalMatches(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

	channels := []*models.Channel{
		testChannel("sky-main", "sky.main.uk"),
		testChannel("sky-plus", "sky.plus.uk"),
		testChannel("movies", "movies.uk"),
		testChannel("no-epg", ""),
	}

	guide := models.Guide{
		// Airing the fixture right now.
		"sky.main.uk": {
			{ChannelID: "sky.main.uk", Title: "Premier League: Arsenal v Chelsea", Start: now.Add(-30 * time.Minute), Stop: now.Add(90 * time.Minute)},
		},
		// Airing something else now, fixture up next.
		"sky.plus.uk": {
			{ChannelID: "sky.plus.uk", Title: "Premier League Preview", Start: now.Add(-time.Hour), Stop: now.Add(30 * time.Minute)},
			{ChannelID: "sky.plus.uk", Title: "Arsenal vs Chelsea", Start: now.Add(30 * time.Minute), Stop: now.Add(3 * time.Hour)},
		},
		"movies.uk": {
			{ChannelID: "movies.uk", Title: "Some Film", Start: now.Add(-time.Hour), Stop: now.Add(time.Hour)},
		},
	}

	results := FindLocalMatches("Arsenal vs Chelsea", channels, guide, now)
	require.Len(t, results, 2)

	// Live broadcast sorts first.
	assert.Equal(t, "sky-main", results[0].Channel.ID)
	assert.True(t, results[0].IsLive)
	assert.Equal(t, "Premier League: Arsenal v Chelsea", results[0].ProgramTitle)

	assert.Equal(t, "sky-plus", results[1].Channel.ID)
	assert.False(t, results[1].IsLive)
	assert.Equal(t, now.Add(30*time.Minute), results[1].ProgramStart)
}

func TestFindLocalMatchesSingleTeamDoesNotMatch(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	channels := []*models.Channel{testChannel("sports", "sports.uk")}
	guide := models.Guide{
		"sports.uk": {
			{ChannelID: "sports.uk", Title: "Arsenal Post-Match Show", Start: now.Add(-time.Hour), Stop: now.Add(time.Hour)},
		},
	}

	assert.Empty(t, FindLocalMatches("Arsenal vs Chelsea", channels, guide, now))
}

func TestFindLocalMatchesUnsplittableTitle(t *testing.T) {
	now := time.Now()
	channels := []*models.Channel{testChannel("sports", "sports.uk")}
	guide := models.Guide{
		"sports.uk": {
			{ChannelID: "sports.uk", Title: "Super Cup Final", Start: now.Add(-time.Hour), Stop: now.Add(time.Hour)},
		},
	}

	assert.Empty(t, FindLocalMatches("Super Cup Final", channels, guide, now))
}

func TestFindLocalMatchesPrefersCurrentOverNext(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)
	channels := []*models.Channel{testChannel("sports", "sports.uk")}
	// Fixture airs now and repeats later; the channel must appear once, live.
	guide := models.Guide{
		"sports.uk": {
			{ChannelID: "sports.uk", Title: "Arsenal v Chelsea", Start: now.Add(-time.Hour), Stop: now.Add(time.Hour)},
			{ChannelID: "sports.uk", Title: "Arsenal v Chelsea (Replay)", Start: now.Add(2 * time.Hour), Stop: now.Add(4 * time.Hour)},
		},
	}

	results := FindLocalMatches("Arsenal vs Chelsea", channels, guide, now)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsLive)
}
