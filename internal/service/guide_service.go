package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/touchline-tv/touchline/internal/epg"
	"github.com/touchline-tv/touchline/internal/httpclient"
	"github.com/touchline-tv/touchline/internal/models"
	"github.com/touchline-tv/touchline/internal/observability"
	"github.com/touchline-tv/touchline/internal/repository"
	"github.com/touchline-tv/touchline/pkg/xmltv"
)

// GuideService rebuilds the merged program guide from the registered EPG
// sources. Sources are fetched in merge order (provider guides first,
// custom override guides last) so a custom source's entries replace a
// provider's for any colliding channel key.
type GuideService struct {
	sources repository.EpgSourceRepository
	fetcher *httpclient.Client
	store   *epg.Store
	logger  *slog.Logger
}

// NewGuideService creates a guide service around the given store.
func NewGuideService(sources repository.EpgSourceRepository, fetcher *httpclient.Client, store *epg.Store, logger *slog.Logger) *GuideService {
	if store == nil {
		store = epg.NewStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GuideService{
		sources: sources,
		fetcher: fetcher,
		store:   store,
		logger:  observability.WithComponent(logger, "guide"),
	}
}

// Store exposes the guide store for the resolver and match engine.
func (s *GuideService) Store() *epg.Store {
	return s.store
}

// Refresh fetches every enabled EPG source, merges the parsed guides, and
// replaces the store contents. A failing source is recorded and skipped.
func (s *GuideService) Refresh(ctx context.Context) error {
	done := observability.TimedOperation(ctx, s.logger, "refresh_guide")
	defer done()

	registered, err := s.sources.GetEnabled(ctx)
	if err != nil {
		return fmt.Errorf("loading EPG sources: %w", err)
	}

	var (
		guides  []models.Guide
		fetched int
	)
	for _, source := range registered {
		guide, programCount, err := s.refreshSource(ctx, source)
		if err != nil {
			s.logger.Warn("EPG source refresh failed",
				slog.String("source", source.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.logger.Debug("EPG source parsed",
			slog.String("source", source.Name),
			slog.String("role", string(source.Role)),
			slog.Int("programs", programCount),
		)
		guides = append(guides, guide)
		fetched++
	}

	s.store.Replace(epg.Merge(guides...))

	s.logger.Info("guide rebuilt",
		slog.Int("sources", fetched),
		slog.Int("channels", len(s.store.Snapshot())),
	)

	if fetched == 0 && len(registered) > 0 {
		return fmt.Errorf("all %d EPG sources failed", len(registered))
	}
	return nil
}

func (s *GuideService) refreshSource(ctx context.Context, source *models.EpgSource) (models.Guide, int, error) {
	body, err := s.fetcher.FetchBody(ctx, source.URL, source.UserAgent)
	if err != nil {
		if markErr := s.sources.MarkRefreshResult(ctx, source.ID, models.SourceStatusFailed, 0, err); markErr != nil {
			s.logger.Warn("recording refresh failure failed", slog.String("error", markErr.Error()))
		}
		return nil, 0, err
	}

	guide, programCount, err := parseGuide(body)
	if err != nil {
		if markErr := s.sources.MarkRefreshResult(ctx, source.ID, models.SourceStatusFailed, 0, err); markErr != nil {
			s.logger.Warn("recording refresh failure failed", slog.String("error", markErr.Error()))
		}
		return nil, 0, err
	}

	if err := s.sources.MarkRefreshResult(ctx, source.ID, models.SourceStatusSuccess, programCount, nil); err != nil {
		s.logger.Warn("recording refresh success failed", slog.String("error", err.Error()))
	}
	return guide, programCount, nil
}

// parseGuide converts an XMLTV document (possibly compressed) into a
// per-channel program map, preserving document order per channel.
func parseGuide(body []byte) (models.Guide, int, error) {
	guide := make(models.Guide)
	count := 0

	parser := &xmltv.Parser{
		OnProgramme: func(p *xmltv.Programme) error {
			guide[p.Channel] = append(guide[p.Channel], models.Program{
				ChannelID:   p.Channel,
				Title:       p.Title,
				Description: p.Description,
				Start:       p.Start,
				Stop:        p.Stop,
			})
			count++
			return nil
		},
	}

	if err := parser.ParseCompressed(bytes.NewReader(body)); err != nil {
		return nil, 0, fmt.Errorf("parsing guide: %w", err)
	}
	return guide, count, nil
}

// NowNext resolves the current and upcoming program for a channel key.
func (s *GuideService) NowNext(key string, now time.Time) (current, next *models.Program) {
	return s.store.NowNext(key, now)
}
