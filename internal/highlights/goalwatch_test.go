package highlights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/touchline-tv/touchline/internal/models"
)

type stubLiveSource struct {
	fixtures []models.Highlight
}

func (s *stubLiveSource) LiveHighlights(ctx context.Context, now time.Time) ([]models.Highlight, error) {
	return s.fixtures, nil
}

func liveFixture(id string, home, away int) models.Highlight {
	return models.Highlight{
		ID:        id,
		Title:     "Arsenal vs Chelsea",
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		Status:    models.StatusInPlay,
		HomeScore: intPtr(home),
		AwayScore: intPtr(away),
	}
}

func TestWatcherEmitsGoalOnScoreIncrease(t *testing.T) {
	source := &stubLiveSource{fixtures: []models.Highlight{liveFixture("fd-1", 0, 0)}}
	finder := func(title string) []models.LocalMatchChannel {
		return []models.LocalMatchChannel{{ProgramTitle: title, IsLive: true}}
	}
	watcher := NewWatcher(source, finder, time.Minute, nil)

	events, cancel := watcher.Subscribe()
	defer cancel()

	ctx := context.Background()

	// First poll only seeds the baseline.
	watcher.Poll(ctx)
	select {
	case <-events:
		t.Fatal("baseline poll must not emit an event")
	default:
	}

	source.fixtures = []models.Highlight{liveFixture("fd-1", 1, 0)}
	watcher.Poll(ctx)

	select {
	case event := <-events:
		assert.Equal(t, "Arsenal", event.ScoringTeam)
		assert.Equal(t, "fd-1", event.Fixture.ID)
		require.Len(t, event.Channels, 1)
		assert.Equal(t, "Arsenal vs Chelsea", event.Channels[0].ProgramTitle)
	default:
		t.Fatal("expected a goal event")
	}
}

func TestWatcherEmitsBothSidesWhenBothScored(t *testing.T) {
	source := &stubLiveSource{fixtures: []models.Highlight{liveFixture("fd-1", 0, 0)}}
	watcher := NewWatcher(source, nil, time.Minute, nil)

	events, cancel := watcher.Subscribe()
	defer cancel()

	watcher.Poll(context.Background())
	source.fixtures = []models.Highlight{liveFixture("fd-1", 1, 1)}
	watcher.Poll(context.Background())

	teams := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case event := <-events:
			teams[event.ScoringTeam] = true
		default:
			t.Fatal("expected two goal events")
		}
	}
	assert.True(t, teams["Arsenal"])
	assert.True(t, teams["Chelsea"])
}

func TestWatcherNoEventWhenScoreUnchanged(t *testing.T) {
	source := &stubLiveSource{fixtures: []models.Highlight{liveFixture("fd-1", 2, 1)}}
	watcher := NewWatcher(source, nil, time.Minute, nil)

	events, cancel := watcher.Subscribe()
	defer cancel()

	watcher.Poll(context.Background())
	watcher.Poll(context.Background())

	select {
	case <-events:
		t.Fatal("unchanged score must not emit an event")
	default:
	}
}

func TestWatcherDropsBaselineWhenFixtureEnds(t *testing.T) {
	source := &stubLiveSource{fixtures: []models.Highlight{liveFixture("fd-1", 1, 0)}}
	watcher := NewWatcher(source, nil, time.Minute, nil)

	events, cancel := watcher.Subscribe()
	defer cancel()

	watcher.Poll(context.Background())

	// Fixture leaves the live set, then reappears with a lower score (a
	// replay). Its first sighting only reseeds the baseline.
	source.fixtures = nil
	watcher.Poll(context.Background())
	source.fixtures = []models.Highlight{liveFixture("fd-1", 0, 0)}
	watcher.Poll(context.Background())

	select {
	case <-events:
		t.Fatal("reseeded baseline must not emit an event")
	default:
	}
}

func TestWatcherSubscribeCancelClosesChannel(t *testing.T) {
	watcher := NewWatcher(&stubLiveSource{}, nil, time.Minute, nil)

	events, cancel := watcher.Subscribe()
	cancel()

	_, open := <-events
	assert.False(t, open)

	// Cancelling twice is safe.
	cancel()
}

func TestWatcherRunStopsOnContextCancel(t *testing.T) {
	watcher := NewWatcher(&stubLiveSource{}, nil, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
