package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/touchline-tv/touchline/internal/epg"
	"github.com/touchline-tv/touchline/internal/highlights"
	"github.com/touchline-tv/touchline/internal/match"
	"github.com/touchline-tv/touchline/internal/models"
)

// ChannelLister exposes the flat channel list the match engine scans.
type ChannelLister interface {
	Channels() []*models.Channel
}

// HighlightsHandler serves the ranked fixture list and the fixture-to-
// channel correlation.
type HighlightsHandler struct {
	service *highlights.Service
	lineup  ChannelLister
	store   *epg.Store
}

// NewHighlightsHandler creates a highlights handler.
func NewHighlightsHandler(service *highlights.Service, lineup ChannelLister, store *epg.Store) *HighlightsHandler {
	return &HighlightsHandler{service: service, lineup: lineup, store: store}
}

// Register registers the highlight routes with the API.
func (h *HighlightsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listHighlights",
		Method:      "GET",
		Path:        "/api/v1/highlights",
		Summary:     "List ranked fixtures",
		Description: "Returns the day's fixtures ranked by competition priority, live matches first.",
		Tags:        []string{"Highlights"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "listLiveHighlights",
		Method:      "GET",
		Path:        "/api/v1/highlights/live",
		Summary:     "List live fixtures",
		Tags:        []string{"Highlights"},
	}, h.Live)

	huma.Register(api, huma.Operation{
		OperationID: "getHighlightChannels",
		Method:      "GET",
		Path:        "/api/v1/highlights/{id}/channels",
		Summary:     "Find channels showing a fixture",
		Description: "Correlates the fixture against the lineup's guide data. Channels airing the fixture now are listed before channels airing it next.",
		Tags:        []string{"Highlights"},
	}, h.Channels)

	huma.Register(api, huma.Operation{
		OperationID:   "invalidateHighlights",
		Method:        "POST",
		Path:          "/api/v1/highlights/refresh",
		Summary:       "Drop the cached fixture list",
		Description:   "Invalidates the day's cache so the next read refetches from the upstream providers.",
		DefaultStatus: 202,
		Tags:          []string{"Highlights"},
	}, h.Invalidate)
}

// ListHighlightsInput is the input for listing fixtures.
type ListHighlightsInput struct {
	Date string `query:"date" doc:"Day to list, YYYY-MM-DD. Defaults to today (UTC)." example:"2026-08-29"`
}

// ListHighlightsOutput is the output for listing fixtures.
type ListHighlightsOutput struct {
	Body struct {
		Highlights []models.Highlight `json:"highlights"`
	}
}

// List returns the ranked fixtures for a day.
func (h *HighlightsHandler) List(ctx context.Context, input *ListHighlightsInput) (*ListHighlightsOutput, error) {
	day := time.Now().UTC()
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid date, expected YYYY-MM-DD", err)
		}
		day = parsed
	}

	ranked, err := h.service.GetHighlights(ctx, day)
	if err != nil {
		return nil, huma.Error502BadGateway("fetching fixtures failed", err)
	}

	resp := &ListHighlightsOutput{}
	resp.Body.Highlights = ranked
	if resp.Body.Highlights == nil {
		resp.Body.Highlights = []models.Highlight{}
	}
	return resp, nil
}

// ListLiveHighlightsInput is the input for listing live fixtures.
type ListLiveHighlightsInput struct{}

// ListLiveHighlightsOutput is the output for listing live fixtures.
type ListLiveHighlightsOutput struct {
	Body struct {
		Highlights []models.Highlight `json:"highlights"`
	}
}

// Live returns the fixtures in play right now.
func (h *HighlightsHandler) Live(ctx context.Context, input *ListLiveHighlightsInput) (*ListLiveHighlightsOutput, error) {
	live, err := h.service.LiveHighlights(ctx, time.Now())
	if err != nil {
		return nil, huma.Error502BadGateway("fetching fixtures failed", err)
	}

	resp := &ListLiveHighlightsOutput{}
	resp.Body.Highlights = live
	if resp.Body.Highlights == nil {
		resp.Body.Highlights = []models.Highlight{}
	}
	return resp, nil
}

// GetHighlightChannelsInput is the input for the channel correlation.
type GetHighlightChannelsInput struct {
	ID   string `path:"id" doc:"Fixture ID"`
	Date string `query:"date" doc:"Day the fixture belongs to, YYYY-MM-DD. Defaults to today (UTC)."`
}

// GetHighlightChannelsOutput is the output for the channel correlation.
type GetHighlightChannelsOutput struct {
	Body struct {
		Fixture  models.Highlight           `json:"fixture"`
		Channels []models.LocalMatchChannel `json:"channels"`
	}
}

// Channels finds lineup channels showing a fixture.
func (h *HighlightsHandler) Channels(ctx context.Context, input *GetHighlightChannelsInput) (*GetHighlightChannelsOutput, error) {
	day := time.Now().UTC()
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid date, expected YYYY-MM-DD", err)
		}
		day = parsed
	}

	fixture, err := h.service.GetHighlight(ctx, day, input.ID)
	if err != nil {
		return nil, huma.Error502BadGateway("fetching fixtures failed", err)
	}
	if fixture == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("fixture %s not found", input.ID))
	}

	found := match.FindLocalMatches(fixture.Title, h.lineup.Channels(), h.store.Snapshot(), time.Now())

	resp := &GetHighlightChannelsOutput{}
	resp.Body.Fixture = *fixture
	resp.Body.Channels = found
	if resp.Body.Channels == nil {
		resp.Body.Channels = []models.LocalMatchChannel{}
	}
	return resp, nil
}

// InvalidateHighlightsInput is the input for dropping the fixture cache.
type InvalidateHighlightsInput struct {
	Date string `query:"date" doc:"Day to invalidate, YYYY-MM-DD. Defaults to today (UTC)."`
}

// InvalidateHighlightsOutput is the output for dropping the fixture cache.
type InvalidateHighlightsOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// Invalidate drops the cached fixture list for a day.
func (h *HighlightsHandler) Invalidate(ctx context.Context, input *InvalidateHighlightsInput) (*InvalidateHighlightsOutput, error) {
	day := time.Now().UTC()
	if input.Date != "" {
		parsed, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid date, expected YYYY-MM-DD", err)
		}
		day = parsed
	}

	h.service.Invalidate(day)

	resp := &InvalidateHighlightsOutput{}
	resp.Body.Status = "invalidated"
	return resp, nil
}
