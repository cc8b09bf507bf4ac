package highlights

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/touchline-tv/touchline/internal/models"
)

// PriorityTable is the operator-tunable ranking configuration: which
// competitions and teams are worth surfacing and how strongly.
type PriorityTable struct {
	// Leagues carry a base weight; fixtures in unlisted leagues are
	// dropped unless a listed team is playing.
	Leagues []LeagueWeight `yaml:"leagues"`

	// Teams is a flat allow-list. A listed team rescues a fixture from an
	// unlisted league and adds TeamBonus per listed side.
	Teams []string `yaml:"teams"`

	// TeamBonus added once per allow-listed side. Zero means the
	// DefaultTeamBonus.
	TeamBonus int `yaml:"team_bonus"`
}

// LeagueWeight maps a competition (with the spelling variants different
// providers use) to a base score.
type LeagueWeight struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	Weight  int      `yaml:"weight"`
}

// Status tiers dominate league weight so a live minor fixture outranks a
// scheduled marquee one.
const (
	liveTierBonus     = 10000
	upcomingTierBonus = 5000
	finishedTierBonus = 1000

	DefaultTeamBonus = 50
)

// LoadPriorityTable reads the table from a YAML file.
func LoadPriorityTable(path string) (*PriorityTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading priority table: %w", err)
	}
	return ParsePriorityTable(data)
}

// ParsePriorityTable parses YAML table content.
func ParsePriorityTable(data []byte) (*PriorityTable, error) {
	var table PriorityTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing priority table: %w", err)
	}
	if table.TeamBonus == 0 {
		table.TeamBonus = DefaultTeamBonus
	}
	return &table, nil
}

// DefaultPriorityTable is used when no table file is configured: the major
// European competitions, no team allow-list.
func DefaultPriorityTable() *PriorityTable {
	return &PriorityTable{
		Leagues: []LeagueWeight{
			{Name: "UEFA Champions League", Aliases: []string{"Champions League"}, Weight: 100},
			{Name: "Premier League", Aliases: []string{"English Premier League", "EPL"}, Weight: 90},
			{Name: "Primera Division", Aliases: []string{"La Liga", "Spanish La Liga"}, Weight: 80},
			{Name: "Serie A", Aliases: []string{"Italian Serie A"}, Weight: 70},
			{Name: "Bundesliga", Aliases: []string{"German Bundesliga"}, Weight: 70},
			{Name: "Ligue 1", Aliases: []string{"French Ligue 1"}, Weight: 60},
			{Name: "UEFA Europa League", Aliases: []string{"Europa League"}, Weight: 50},
		},
		TeamBonus: DefaultTeamBonus,
	}
}

// leagueWeight resolves a provider's league spelling against the table.
// Containment either way absorbs prefixes like country names.
func (t *PriorityTable) leagueWeight(league string) (int, bool) {
	needle := strings.ToLower(strings.TrimSpace(league))
	if needle == "" {
		return 0, false
	}
	for _, lw := range t.Leagues {
		for _, name := range append([]string{lw.Name}, lw.Aliases...) {
			candidate := strings.ToLower(name)
			if strings.Contains(needle, candidate) || strings.Contains(candidate, needle) {
				return lw.Weight, true
			}
		}
	}
	return 0, false
}

func (t *PriorityTable) teamListed(team string) bool {
	needle := strings.ToLower(strings.TrimSpace(team))
	for _, allowed := range t.Teams {
		if strings.ToLower(allowed) == needle {
			return true
		}
	}
	return false
}

// Allowed reports whether the fixture passes the allow-list: a listed
// league, or a listed team on either side.
func (t *PriorityTable) Allowed(h models.Highlight) bool {
	if _, ok := t.leagueWeight(h.League); ok {
		return true
	}
	return t.teamListed(h.HomeTeam) || t.teamListed(h.AwayTeam)
}

// Score computes the fixture's tiered priority: live > upcoming >
// finished, league weight and team bonuses breaking ties within a tier.
func (t *PriorityTable) Score(h models.Highlight) int {
	score := 0

	switch {
	case h.Status.IsLive():
		score += liveTierBonus
	case h.Status == models.StatusScheduled || h.Status == models.StatusTimed:
		score += upcomingTierBonus
	case h.Status == models.StatusFinished || h.Status == models.StatusAwarded:
		score += finishedTierBonus
	}

	if weight, ok := t.leagueWeight(h.League); ok {
		score += weight
	}
	if t.teamListed(h.HomeTeam) {
		score += t.TeamBonus
	}
	if t.teamListed(h.AwayTeam) {
		score += t.TeamBonus
	}
	return score
}

// Rank filters out disallowed fixtures and sorts the rest by descending
// score. The sort is stable so equal-score fixtures keep provider order.
func (t *PriorityTable) Rank(fixtures []models.Highlight) []models.Highlight {
	ranked := make([]models.Highlight, 0, len(fixtures))
	for _, h := range fixtures {
		if t.Allowed(h) {
			ranked = append(ranked, h)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return t.Score(ranked[i]) > t.Score(ranked[j])
	})
	return ranked
}
