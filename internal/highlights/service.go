package highlights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/touchline-tv/touchline/internal/models"
)

// Service produces the ranked fixture list: fetch from every provider,
// merge, apply the allow-list, score, cache.
type Service struct {
	providers []Provider
	table     *PriorityTable
	cache     *Cache
	logger    *slog.Logger
}

// NewService creates a highlight service. Provider order matters: on a
// fixture both providers report, the earlier provider's record wins.
func NewService(providers []Provider, table *PriorityTable, cache *Cache, logger *slog.Logger) *Service {
	if table == nil {
		table = DefaultPriorityTable()
	}
	if cache == nil {
		cache = NewCache(5 * time.Minute)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		providers: providers,
		table:     table,
		cache:     cache,
		logger:    logger,
	}
}

// GetHighlights returns the ranked fixtures for the given day, served from
// cache when fresh. A provider failure degrades to the remaining
// providers; only when every provider fails is an error returned.
func (s *Service) GetHighlights(ctx context.Context, day time.Time) ([]models.Highlight, error) {
	if cached, ok := s.cache.Get(day); ok {
		return cached, nil
	}

	fixtures, err := s.fetchAll(ctx, day)
	if err != nil {
		return nil, err
	}

	ranked := s.table.Rank(fixtures)
	s.cache.Set(day, ranked)

	s.logger.Info("highlights refreshed",
		slog.String("day", day.UTC().Format("2006-01-02")),
		slog.Int("fetched", len(fixtures)),
		slog.Int("ranked", len(ranked)),
	)
	return ranked, nil
}

// GetHighlight returns a single ranked fixture by ID, nil when the day's
// list does not contain it.
func (s *Service) GetHighlight(ctx context.Context, day time.Time, id string) (*models.Highlight, error) {
	ranked, err := s.GetHighlights(ctx, day)
	if err != nil {
		return nil, err
	}
	for i := range ranked {
		if ranked[i].ID == id {
			return &ranked[i], nil
		}
	}
	return nil, nil
}

// LiveHighlights returns today's in-play fixtures, bypassing the cache so
// the goal watcher always sees current scores.
func (s *Service) LiveHighlights(ctx context.Context, now time.Time) ([]models.Highlight, error) {
	fixtures, err := s.fetchAll(ctx, now)
	if err != nil {
		return nil, err
	}

	var live []models.Highlight
	for _, h := range s.table.Rank(fixtures) {
		if h.Status.IsLive() {
			live = append(live, h)
		}
	}
	return live, nil
}

// Invalidate drops the day's cache entry.
func (s *Service) Invalidate(day time.Time) {
	s.cache.Invalidate(day)
}

func (s *Service) fetchAll(ctx context.Context, day time.Time) ([]models.Highlight, error) {
	var (
		merged   []models.Highlight
		seen     = make(map[string]struct{})
		failures int
	)

	for _, provider := range s.providers {
		fixtures, err := provider.FetchDay(ctx, day)
		if err != nil {
			failures++
			s.logger.Warn("highlight provider failed",
				slog.String("provider", provider.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}

		for _, h := range fixtures {
			key := mergeKey(h)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, h)
		}
	}

	if len(s.providers) > 0 && failures == len(s.providers) {
		return nil, fmt.Errorf("all %d highlight providers failed", failures)
	}
	return merged, nil
}

// mergeKey identifies a fixture across providers. The sources share no
// fixture ID, so the team pairing is the only usable join key.
func mergeKey(h models.Highlight) string {
	return strings.ToLower(strings.TrimSpace(h.HomeTeam)) + "|" + strings.ToLower(strings.TrimSpace(h.AwayTeam))
}
