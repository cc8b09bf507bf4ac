package highlights

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/touchline-tv/touchline/internal/models"
)

// LiveSource yields the currently in-play fixtures with fresh scores.
// *Service satisfies it.
type LiveSource interface {
	LiveHighlights(ctx context.Context, now time.Time) ([]models.Highlight, error)
}

// ChannelFinder resolves a fixture title to the lineup channels showing
// it, so a goal event can carry a direct "watch now" target.
type ChannelFinder func(matchTitle string) []models.LocalMatchChannel

// GoalEvent is published when a live fixture's score changes.
type GoalEvent struct {
	Fixture models.Highlight `json:"fixture"`

	// ScoringTeam is the side whose tally increased. Both names are sent
	// when both changed between polls.
	ScoringTeam string `json:"scoring_team"`

	// Channels carrying the fixture right now, live broadcasts first.
	Channels []models.LocalMatchChannel `json:"channels,omitempty"`
}

type scorePair struct {
	home, away int
}

// Watcher polls live fixtures on an interval and publishes a GoalEvent to
// every subscriber whenever a score increases. The first sighting of a
// fixture only seeds its baseline; joining mid-match must not replay
// earlier goals.
type Watcher struct {
	source   LiveSource
	finder   ChannelFinder
	interval time.Duration
	logger   *slog.Logger

	mu          sync.Mutex
	subscribers map[int]chan GoalEvent
	nextSubID   int
	lastScores  map[string]scorePair
}

// NewWatcher creates a watcher. finder may be nil, in which case events
// carry no channel suggestions.
func NewWatcher(source LiveSource, finder ChannelFinder, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		source:      source,
		finder:      finder,
		interval:    interval,
		logger:      logger,
		subscribers: make(map[int]chan GoalEvent),
		lastScores:  make(map[string]scorePair),
	}
}

// Subscribe registers a goal event channel. The returned function cancels
// the subscription and closes the channel.
func (w *Watcher) Subscribe() (<-chan GoalEvent, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextSubID
	w.nextSubID++
	ch := make(chan GoalEvent, 8)
	w.subscribers[id] = ch

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if sub, ok := w.subscribers[id]; ok {
			delete(w.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Run polls until the context is cancelled. It blocks; run it in its own
// goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll fetches live fixtures once and publishes score changes.
func (w *Watcher) Poll(ctx context.Context) {
	now := time.Now()
	live, err := w.source.LiveHighlights(ctx, now)
	if err != nil {
		w.logger.Warn("goal watch poll failed", slog.String("error", err.Error()))
		return
	}

	current := make(map[string]struct{}, len(live))
	for _, fixture := range live {
		if fixture.HomeScore == nil || fixture.AwayScore == nil {
			continue
		}
		current[fixture.ID] = struct{}{}

		score := scorePair{home: *fixture.HomeScore, away: *fixture.AwayScore}
		prev, known := w.previousScore(fixture.ID)
		w.recordScore(fixture.ID, score)

		if !known {
			continue
		}
		if score.home > prev.home {
			w.publish(fixture, fixture.HomeTeam)
		}
		if score.away > prev.away {
			w.publish(fixture, fixture.AwayTeam)
		}
	}

	// Fixtures no longer live drop their baseline so a replay the next
	// day starts clean.
	w.mu.Lock()
	for id := range w.lastScores {
		if _, stillLive := current[id]; !stillLive {
			delete(w.lastScores, id)
		}
	}
	w.mu.Unlock()
}

func (w *Watcher) previousScore(id string) (scorePair, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev, ok := w.lastScores[id]
	return prev, ok
}

func (w *Watcher) recordScore(id string, score scorePair) {
	w.mu.Lock()
	w.lastScores[id] = score
	w.mu.Unlock()
}

func (w *Watcher) publish(fixture models.Highlight, scoringTeam string) {
	event := GoalEvent{
		Fixture:     fixture,
		ScoringTeam: scoringTeam,
	}
	if w.finder != nil {
		event.Channels = w.finder(fixture.Title)
	}

	w.logger.Info("goal detected",
		slog.String("fixture", fixture.Title),
		slog.String("scoring_team", scoringTeam),
		slog.Int("watchable_channels", len(event.Channels)),
	)

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sub := range w.subscribers {
		select {
		case sub <- event:
		default:
			// A stalled subscriber drops the event rather than the poll.
		}
	}
}
