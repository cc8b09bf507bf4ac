package highlights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchline-tv/touchline/internal/models"
)

type stubProvider struct {
	name     string
	fixtures []models.Highlight
	err      error
	calls    int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) FetchDay(ctx context.Context, day time.Time) ([]models.Highlight, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.fixtures, nil
}

func TestServiceMergeFirstProviderWins(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	primary := &stubProvider{name: "primary", fixtures: []models.Highlight{
		{ID: "fd-1", League: "Premier League", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Status: models.StatusInPlay},
	}}
	secondary := &stubProvider{name: "secondary", fixtures: []models.Highlight{
		// Same fixture by team pairing; must be dropped.
		{ID: "tsdb-9", League: "English Premier League", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Status: models.StatusInPlay},
		{ID: "tsdb-10", League: "Premier League", HomeTeam: "Everton", AwayTeam: "Fulham", Status: models.StatusScheduled},
	}}

	svc := NewService([]Provider{primary, secondary}, DefaultPriorityTable(), NewCache(time.Minute), nil)
	ranked, err := svc.GetHighlights(context.Background(), day)
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, "fd-1", ranked[0].ID)
	assert.Equal(t, "tsdb-10", ranked[1].ID)
}

func TestServiceCachesResult(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	provider := &stubProvider{name: "only", fixtures: []models.Highlight{
		{ID: "fd-1", League: "Premier League", HomeTeam: "Arsenal", AwayTeam: "Chelsea"},
	}}

	svc := NewService([]Provider{provider}, DefaultPriorityTable(), NewCache(time.Minute), nil)

	_, err := svc.GetHighlights(context.Background(), day)
	require.NoError(t, err)
	_, err = svc.GetHighlights(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)

	svc.Invalidate(day)
	_, err = svc.GetHighlights(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestServiceDegradesOnPartialFailure(t *testing.T) {
	day := time.Now()
	broken := &stubProvider{name: "broken", err: errors.New("upstream down")}
	working := &stubProvider{name: "working", fixtures: []models.Highlight{
		{ID: "tsdb-1", League: "Serie A", HomeTeam: "Juventus", AwayTeam: "Inter"},
	}}

	svc := NewService([]Provider{broken, working}, DefaultPriorityTable(), NewCache(time.Minute), nil)
	ranked, err := svc.GetHighlights(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "tsdb-1", ranked[0].ID)
}

func TestServiceErrorsWhenAllProvidersFail(t *testing.T) {
	svc := NewService([]Provider{
		&stubProvider{name: "a", err: errors.New("down")},
		&stubProvider{name: "b", err: errors.New("also down")},
	}, DefaultPriorityTable(), NewCache(time.Minute), nil)

	_, err := svc.GetHighlights(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestServiceGetHighlight(t *testing.T) {
	day := time.Now()
	svc := NewService([]Provider{
		&stubProvider{name: "only", fixtures: []models.Highlight{
			{ID: "fd-1", League: "Premier League", HomeTeam: "Arsenal", AwayTeam: "Chelsea"},
		}},
	}, DefaultPriorityTable(), NewCache(time.Minute), nil)

	h, err := svc.GetHighlight(context.Background(), day, "fd-1")
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "Arsenal vs Chelsea", h.Title)

	missing, err := svc.GetHighlight(context.Background(), day, "fd-404")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestServiceLiveHighlightsBypassesCache(t *testing.T) {
	provider := &stubProvider{name: "only", fixtures: []models.Highlight{
		{ID: "fd-1", League: "Premier League", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Status: models.StatusInPlay},
		{ID: "fd-2", League: "Premier League", HomeTeam: "Everton", AwayTeam: "Fulham", Status: models.StatusFinished},
	}}
	svc := NewService([]Provider{provider}, DefaultPriorityTable(), NewCache(time.Minute), nil)

	live, err := svc.LiveHighlights(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "fd-1", live[0].ID)

	_, err = svc.LiveHighlights(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(20 * time.Millisecond)
	day := time.Now()

	cache.Set(day, []models.Highlight{{ID: "fd-1"}})
	got, ok := cache.Get(day)
	require.True(t, ok)
	require.Len(t, got, 1)

	time.Sleep(30 * time.Millisecond)
	_, ok = cache.Get(day)
	assert.False(t, ok)
}
