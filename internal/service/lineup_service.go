// Package service wires the parsers, the guide store, and the source
// repositories into the refresh flows the API and scheduler call.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/touchline-tv/touchline/internal/httpclient"
	"github.com/touchline-tv/touchline/internal/models"
	"github.com/touchline-tv/touchline/internal/observability"
	"github.com/touchline-tv/touchline/internal/playlist"
	"github.com/touchline-tv/touchline/internal/repository"
)

// LineupService rebuilds the channel lineup from the registered playlist
// sources and serves the current lineup to the API and the match engine.
// The lineup is replaced wholesale on each refresh.
type LineupService struct {
	sources repository.PlaylistSourceRepository
	fetcher *httpclient.Client
	builder *playlist.Builder
	logger  *slog.Logger

	mu      sync.RWMutex
	lineup  *models.Lineup
	epgURLs []string
}

// NewLineupService creates a lineup service.
func NewLineupService(sources repository.PlaylistSourceRepository, fetcher *httpclient.Client, builder *playlist.Builder, logger *slog.Logger) *LineupService {
	if builder == nil {
		builder = playlist.NewBuilder()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LineupService{
		sources: sources,
		fetcher: fetcher,
		builder: builder,
		logger:  observability.WithComponent(logger, "lineup"),
		lineup:  &models.Lineup{},
	}
}

// Refresh fetches every enabled playlist source, rebuilds the lineup, and
// swaps it in. A failing source is recorded against its registration and
// skipped; the lineup is built from whatever succeeded.
func (s *LineupService) Refresh(ctx context.Context) error {
	done := observability.TimedOperation(ctx, s.logger, "refresh_lineup")
	defer done()

	registered, err := s.sources.GetEnabled(ctx)
	if err != nil {
		return fmt.Errorf("loading playlist sources: %w", err)
	}

	var (
		lineups []*models.Lineup
		fetched int
	)
	for _, source := range registered {
		lineup, err := s.refreshSource(ctx, source)
		if err != nil {
			s.logger.Warn("playlist source refresh failed",
				slog.String("source", source.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		lineups = append(lineups, lineup)
		fetched++
	}

	merged, epgURLs := mergeLineups(lineups)

	s.mu.Lock()
	s.lineup = merged
	s.epgURLs = epgURLs
	s.mu.Unlock()

	s.logger.Info("lineup rebuilt",
		slog.Int("sources", fetched),
		slog.Int("groups", len(merged.Groups)),
		slog.Int("channels", len(merged.Channels())),
	)

	if fetched == 0 && len(registered) > 0 {
		return fmt.Errorf("all %d playlist sources failed", len(registered))
	}
	return nil
}

func (s *LineupService) refreshSource(ctx context.Context, source *models.PlaylistSource) (*models.Lineup, error) {
	body, err := s.fetcher.FetchBody(ctx, source.URL, source.UserAgent)
	if err != nil {
		if markErr := s.sources.MarkRefreshResult(ctx, source.ID, models.SourceStatusFailed, 0, err); markErr != nil {
			s.logger.Warn("recording refresh failure failed", slog.String("error", markErr.Error()))
		}
		return nil, err
	}

	lineup := s.builder.Build(string(body), source.Category)
	count := len(lineup.Channels())

	if err := s.sources.MarkRefreshResult(ctx, source.ID, models.SourceStatusSuccess, count, nil); err != nil {
		s.logger.Warn("recording refresh success failed", slog.String("error", err.Error()))
	}
	return lineup, nil
}

// mergeLineups combines per-source lineups: groups with the same title are
// concatenated in source order, group titles re-sorted, and every
// playlist-level EPG URL hint collected.
func mergeLineups(lineups []*models.Lineup) (*models.Lineup, []string) {
	groups := make(map[string]*models.ChannelGroup)
	var titles []string
	var epgURLs []string

	for _, lineup := range lineups {
		if lineup.EPGURL != "" {
			epgURLs = append(epgURLs, lineup.EPGURL)
		}
		for _, group := range lineup.Groups {
			existing, ok := groups[group.Title]
			if !ok {
				existing = &models.ChannelGroup{Title: group.Title}
				groups[group.Title] = existing
				titles = append(titles, group.Title)
			}
			existing.Channels = append(existing.Channels, group.Channels...)
		}
	}

	sort.Strings(titles)
	merged := &models.Lineup{}
	for _, title := range titles {
		merged.Groups = append(merged.Groups, groups[title])
	}
	return merged, epgURLs
}

// Lineup returns the current lineup. The returned value is shared and must
// be treated as read-only.
func (s *LineupService) Lineup() *models.Lineup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lineup
}

// Channels returns every channel of the current lineup.
func (s *LineupService) Channels() []*models.Channel {
	return s.Lineup().Channels()
}

// ChannelByID returns the channel with the given ID, or nil.
func (s *LineupService) ChannelByID(id string) *models.Channel {
	return s.Lineup().ChannelByID(id)
}

// EPGURLHints returns the guide URL hints collected from the playlists in
// the last refresh. The guide service offers these when no EPG source is
// registered explicitly.
func (s *LineupService) EPGURLHints() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epgURLs
}
