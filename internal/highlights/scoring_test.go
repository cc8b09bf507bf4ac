package highlights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchline-tv/touchline/internal/models"
)

func intPtr(n int) *int { return &n }

func TestParsePriorityTable(t *testing.T) {
	yaml := `
leagues:
  - name: Premier League
    aliases: [English Premier League, EPL]
    weight: 90
  - name: Eredivisie
    weight: 40
teams:
  - Celtic
team_bonus: 75
`
	table, err := ParsePriorityTable([]byte(yaml))
	require.NoError(t, err)

	require.Len(t, table.Leagues, 2)
	assert.Equal(t, 90, table.Leagues[0].Weight)
	assert.Equal(t, []string{"Celtic"}, table.Teams)
	assert.Equal(t, 75, table.TeamBonus)
}

func TestParsePriorityTableDefaultsTeamBonus(t *testing.T) {
	table, err := ParsePriorityTable([]byte("leagues: []"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTeamBonus, table.TeamBonus)
}

func TestParsePriorityTableInvalidYAML(t *testing.T) {
	_, err := ParsePriorityTable([]byte("leagues: [unclosed"))
	assert.Error(t, err)
}

func TestPriorityTableAllowed(t *testing.T) {
	table := &PriorityTable{
		Leagues: []LeagueWeight{
			{Name: "Premier League", Aliases: []string{"EPL"}, Weight: 90},
		},
		Teams:     []string{"Celtic"},
		TeamBonus: DefaultTeamBonus,
	}

	assert.True(t, table.Allowed(models.Highlight{League: "Premier League"}))
	// Provider spelling variants resolve by containment.
	assert.True(t, table.Allowed(models.Highlight{League: "English Premier League"}))
	// Unlisted league, but an allow-listed team rescues the fixture.
	assert.True(t, table.Allowed(models.Highlight{League: "Scottish Premiership", HomeTeam: "Celtic"}))
	assert.False(t, table.Allowed(models.Highlight{League: "Scottish Premiership", HomeTeam: "Rangers"}))
}

func TestPriorityTableScoreTiers(t *testing.T) {
	table := DefaultPriorityTable()

	live := models.Highlight{League: "Ligue 1", Status: models.StatusInPlay}
	upcomingMarquee := models.Highlight{League: "UEFA Champions League", Status: models.StatusScheduled}
	finished := models.Highlight{League: "Premier League", Status: models.StatusFinished}

	// A live minor-league fixture outranks a scheduled marquee one.
	assert.Greater(t, table.Score(live), table.Score(upcomingMarquee))
	assert.Greater(t, table.Score(upcomingMarquee), table.Score(finished))

	// Half time still counts as live.
	paused := live
	paused.Status = models.StatusPaused
	assert.Equal(t, table.Score(live), table.Score(paused))
}

func TestPriorityTableRank(t *testing.T) {
	table := DefaultPriorityTable()

	fixtures := []models.Highlight{
		{ID: "a", League: "Premier League", Status: models.StatusScheduled},
		{ID: "b", League: "Obscure Regional Cup", Status: models.StatusInPlay},
		{ID: "c", League: "Serie A", Status: models.StatusInPlay},
		{ID: "d", League: "Premier League", Status: models.StatusInPlay},
	}

	ranked := table.Rank(fixtures)
	require.Len(t, ranked, 3)

	// Disallowed league filtered out; live before scheduled; league
	// weight breaks the tie within the live tier.
	assert.Equal(t, "d", ranked[0].ID)
	assert.Equal(t, "c", ranked[1].ID)
	assert.Equal(t, "a", ranked[2].ID)
}

func TestPriorityTableRankStableOnEqualScore(t *testing.T) {
	table := DefaultPriorityTable()

	fixtures := []models.Highlight{
		{ID: "first", League: "Premier League", Status: models.StatusScheduled},
		{ID: "second", League: "Premier League", Status: models.StatusScheduled},
	}

	ranked := table.Rank(fixtures)
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].ID)
	assert.Equal(t, "second", ranked[1].ID)
}
