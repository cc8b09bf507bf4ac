// Package highlights fetches football fixtures from third-party APIs,
// ranks them by a configurable league priority table, and watches live
// fixtures for score changes.
package highlights

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/touchline-tv/touchline/internal/httpclient"
	"github.com/touchline-tv/touchline/internal/models"
)

// Provider fetches the fixtures of a single calendar day from one
// upstream API, normalized into Highlight records.
type Provider interface {
	Name() string
	FetchDay(ctx context.Context, day time.Time) ([]models.Highlight, error)
}

// displayTime renders the kickoff for on-screen lists.
func displayTime(kickoff time.Time) string {
	return kickoff.Format("15:04")
}

// fixtureTitle builds the canonical "Home vs Away" label shared by both
// providers, which is also the text the channel matcher searches for.
func fixtureTitle(home, away string) string {
	return home + " vs " + away
}

// FootballDataClient talks to a football-data.org v4 compatible API.
type FootballDataClient struct {
	baseURL string
	token   string
	http    *httpclient.Client
	logger  *slog.Logger
}

// NewFootballDataClient creates a client for the given API root, for
// example "https://api.football-data.org/v4".
func NewFootballDataClient(baseURL, token string, client *httpclient.Client, logger *slog.Logger) *FootballDataClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &FootballDataClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    client,
		logger:  logger,
	}
}

func (c *FootballDataClient) Name() string { return "football-data" }

// Response shapes for the /matches endpoint. Only the fields the lineup
// cross-reference needs are decoded.
type footballDataMatches struct {
	Matches []footballDataMatch `json:"matches"`
}

type footballDataMatch struct {
	ID          int64  `json:"id"`
	UTCDate     string `json:"utcDate"`
	Status      string `json:"status"`
	Competition struct {
		Name   string `json:"name"`
		Emblem string `json:"emblem"`
	} `json:"competition"`
	HomeTeam footballDataTeam `json:"homeTeam"`
	AwayTeam footballDataTeam `json:"awayTeam"`
	Score    struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

type footballDataTeam struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Crest     string `json:"crest"`
}

func (t footballDataTeam) displayName() string {
	if t.ShortName != "" {
		return t.ShortName
	}
	return t.Name
}

// FetchDay fetches every fixture of the given day. The account token is
// sent in the X-Auth-Token header.
func (c *FootballDataClient) FetchDay(ctx context.Context, day time.Time) ([]models.Highlight, error) {
	date := day.UTC().Format("2006-01-02")
	endpoint := fmt.Sprintf("%s/matches?dateFrom=%s&dateTo=%s", c.baseURL, date, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching fixtures: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fixtures endpoint returned status %d", resp.StatusCode)
	}

	var payload footballDataMatches
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding fixtures: %w", err)
	}

	highlights := make([]models.Highlight, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		kickoff, err := time.Parse(time.RFC3339, m.UTCDate)
		if err != nil {
			c.logger.Warn("skipping fixture with bad kickoff time",
				slog.Int64("fixture_id", m.ID),
				slog.String("utc_date", m.UTCDate),
			)
			continue
		}

		home := m.HomeTeam.displayName()
		away := m.AwayTeam.displayName()

		highlights = append(highlights, models.Highlight{
			ID:          fmt.Sprintf("fd-%d", m.ID),
			League:      m.Competition.Name,
			Title:       fixtureTitle(home, away),
			DisplayTime: displayTime(kickoff),
			HomeTeam:    home,
			AwayTeam:    away,
			HomeLogo:    m.HomeTeam.Crest,
			AwayLogo:    m.AwayTeam.Crest,
			UTCDate:     kickoff,
			Status:      models.MatchStatus(m.Status),
			HomeScore:   m.Score.FullTime.Home,
			AwayScore:   m.Score.FullTime.Away,
		})
	}
	return highlights, nil
}

// SportsDBClient talks to a TheSportsDB compatible API. It is the
// secondary source; fixtures it shares with football-data are dropped
// during the merge.
type SportsDBClient struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
	logger  *slog.Logger
}

// NewSportsDBClient creates a client for the given API root, for example
// "https://www.thesportsdb.com/api/v1/json".
func NewSportsDBClient(baseURL, apiKey string, client *httpclient.Client, logger *slog.Logger) *SportsDBClient {
	if logger == nil {
		logger = slog.Default()
	}
	if apiKey == "" {
		apiKey = "3" // shared free-tier key
	}
	return &SportsDBClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    client,
		logger:  logger,
	}
}

func (c *SportsDBClient) Name() string { return "thesportsdb" }

type sportsDBEvents struct {
	Events []sportsDBEvent `json:"events"`
}

type sportsDBEvent struct {
	IDEvent          string  `json:"idEvent"`
	StrLeague        string  `json:"strLeague"`
	StrHomeTeam      string  `json:"strHomeTeam"`
	StrAwayTeam      string  `json:"strAwayTeam"`
	IntHomeScore     *string `json:"intHomeScore"`
	IntAwayScore     *string `json:"intAwayScore"`
	StrStatus        string  `json:"strStatus"`
	StrTimestamp     string  `json:"strTimestamp"`
	DateEvent        string  `json:"dateEvent"`
	StrTime          string  `json:"strTime"`
	StrHomeTeamBadge string  `json:"strHomeTeamBadge"`
	StrAwayTeamBadge string  `json:"strAwayTeamBadge"`
	StrProgress      string  `json:"strProgress"`
}

// FetchDay fetches the day's soccer events.
func (c *SportsDBClient) FetchDay(ctx context.Context, day time.Time) ([]models.Highlight, error) {
	date := day.UTC().Format("2006-01-02")
	endpoint := fmt.Sprintf("%s/%s/eventsday.php?d=%s&s=%s",
		c.baseURL, url.PathEscape(c.apiKey), date, url.QueryEscape("Soccer"))

	body, err := c.http.FetchBody(ctx, endpoint, "")
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	var payload sportsDBEvents
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}

	highlights := make([]models.Highlight, 0, len(payload.Events))
	for _, e := range payload.Events {
		if e.StrHomeTeam == "" || e.StrAwayTeam == "" {
			continue
		}

		kickoff := parseEventTime(e)
		highlights = append(highlights, models.Highlight{
			ID:          "tsdb-" + e.IDEvent,
			League:      e.StrLeague,
			Title:       fixtureTitle(e.StrHomeTeam, e.StrAwayTeam),
			DisplayTime: displayTime(kickoff),
			HomeTeam:    e.StrHomeTeam,
			AwayTeam:    e.StrAwayTeam,
			HomeLogo:    e.StrHomeTeamBadge,
			AwayLogo:    e.StrAwayTeamBadge,
			UTCDate:     kickoff,
			Status:      mapEventStatus(e.StrStatus, e.StrProgress),
			HomeScore:   parseScore(e.IntHomeScore),
			AwayScore:   parseScore(e.IntAwayScore),
		})
	}
	return highlights, nil
}

// parseEventTime prefers the full timestamp, falling back to the date and
// time fields the free tier sometimes returns instead.
func parseEventTime(e sportsDBEvent) time.Time {
	if e.StrTimestamp != "" {
		if t, err := time.Parse(time.RFC3339, e.StrTimestamp); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02 15:04:05", e.StrTimestamp); err == nil {
			return t.UTC()
		}
	}
	if e.DateEvent != "" && e.StrTime != "" {
		if t, err := time.Parse("2006-01-02 15:04:05", e.DateEvent+" "+e.StrTime); err == nil {
			return t.UTC()
		}
	}
	if e.DateEvent != "" {
		if t, err := time.Parse("2006-01-02", e.DateEvent); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// mapEventStatus folds TheSportsDB's loose status strings into the
// football-data status enumeration the rest of the system speaks.
func mapEventStatus(status, progress string) models.MatchStatus {
	s := strings.ToLower(strings.TrimSpace(status))
	p := strings.ToLower(strings.TrimSpace(progress))

	switch {
	case s == "ht" || p == "ht" || strings.Contains(s, "half"):
		return models.StatusPaused
	case s == "ft" || s == "aet" || strings.Contains(s, "finished") || strings.Contains(s, "final"):
		return models.StatusFinished
	case strings.Contains(s, "postponed"):
		return models.StatusPostponed
	case strings.Contains(s, "cancel"):
		return models.StatusCancelled
	case strings.Contains(s, "suspend"):
		return models.StatusSuspended
	case strings.Contains(s, "live") || strings.Contains(s, "in progress") || strings.HasSuffix(p, "'"):
		return models.StatusInPlay
	case s == "" || s == "ns" || strings.Contains(s, "not started"):
		return models.StatusScheduled
	default:
		// Minute markers like "72" mean the match is underway.
		if _, err := strconv.Atoi(s); err == nil {
			return models.StatusInPlay
		}
		return models.StatusScheduled
	}
}

func parseScore(raw *string) *int {
	if raw == nil || *raw == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return nil
	}
	return &n
}
