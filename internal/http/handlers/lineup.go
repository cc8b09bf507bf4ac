package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/touchline-tv/touchline/internal/epg"
	"github.com/touchline-tv/touchline/internal/models"
)

// LineupProvider serves the current channel lineup.
type LineupProvider interface {
	Lineup() *models.Lineup
	ChannelByID(id string) *models.Channel
}

// GuideResolver resolves the current and upcoming program for a guide key.
type GuideResolver interface {
	NowNext(key string, now time.Time) (current, next *models.Program)
}

// LineupHandler serves the channel lineup and per-channel guide lookups.
type LineupHandler struct {
	lineup LineupProvider
	guide  GuideResolver
}

// NewLineupHandler creates a lineup handler.
func NewLineupHandler(lineup LineupProvider, guide GuideResolver) *LineupHandler {
	return &LineupHandler{lineup: lineup, guide: guide}
}

// Register registers the lineup routes with the API.
func (h *LineupHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getLineup",
		Method:      "GET",
		Path:        "/api/v1/lineup",
		Summary:     "Get the channel lineup",
		Description: "Returns the channel groups built from the registered playlists.",
		Tags:        []string{"Lineup"},
	}, h.GetLineup)

	huma.Register(api, huma.Operation{
		OperationID: "getChannel",
		Method:      "GET",
		Path:        "/api/v1/lineup/channels/{id}",
		Summary:     "Get a channel",
		Tags:        []string{"Lineup"},
	}, h.GetChannel)

	huma.Register(api, huma.Operation{
		OperationID: "getChannelNowNext",
		Method:      "GET",
		Path:        "/api/v1/lineup/channels/{id}/now",
		Summary:     "Get a channel's current and upcoming program",
		Description: "Resolves the guide for the channel at request time. The current program carries an elapsed-fraction progress value.",
		Tags:        []string{"Lineup"},
	}, h.GetChannelNowNext)
}

// GetLineupInput is the input for fetching the lineup.
type GetLineupInput struct{}

// GetLineupOutput is the output for fetching the lineup.
type GetLineupOutput struct {
	Body struct {
		Groups []*models.ChannelGroup `json:"groups"`
	}
}

// GetLineup returns the current lineup.
func (h *LineupHandler) GetLineup(ctx context.Context, input *GetLineupInput) (*GetLineupOutput, error) {
	resp := &GetLineupOutput{}
	resp.Body.Groups = h.lineup.Lineup().Groups
	if resp.Body.Groups == nil {
		resp.Body.Groups = []*models.ChannelGroup{}
	}
	return resp, nil
}

// GetChannelInput is the input for fetching one channel.
type GetChannelInput struct {
	ID string `path:"id" doc:"Channel ID"`
}

// GetChannelOutput is the output for fetching one channel.
type GetChannelOutput struct {
	Body *models.Channel
}

// GetChannel returns a channel by ID.
func (h *LineupHandler) GetChannel(ctx context.Context, input *GetChannelInput) (*GetChannelOutput, error) {
	channel := h.lineup.ChannelByID(input.ID)
	if channel == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("channel %s not found", input.ID))
	}
	return &GetChannelOutput{Body: channel}, nil
}

// NowNextResponse is a channel's resolved guide state.
type NowNextResponse struct {
	ChannelID string           `json:"channel_id"`
	Current   *ProgramResponse `json:"current,omitempty"`
	Next      *ProgramResponse `json:"next,omitempty"`
}

// GetChannelNowNextInput is the input for the now/next lookup.
type GetChannelNowNextInput struct {
	ID string `path:"id" doc:"Channel ID"`
}

// GetChannelNowNextOutput is the output for the now/next lookup.
type GetChannelNowNextOutput struct {
	Body NowNextResponse
}

// GetChannelNowNext resolves the current and upcoming program for a
// channel. Channels without guide linkage return an empty result rather
// than an error.
func (h *LineupHandler) GetChannelNowNext(ctx context.Context, input *GetChannelNowNextInput) (*GetChannelNowNextOutput, error) {
	channel := h.lineup.ChannelByID(input.ID)
	if channel == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("channel %s not found", input.ID))
	}

	resp := &GetChannelNowNextOutput{}
	resp.Body.ChannelID = channel.ID

	if !channel.HasEPG() {
		return resp, nil
	}

	now := time.Now()
	current, next := h.guide.NowNext(channel.TvgID, now)

	resp.Body.Current = ProgramFromModel(current)
	if current != nil {
		progress := epg.Progress(current, now)
		resp.Body.Current.Progress = &progress
	}
	resp.Body.Next = ProgramFromModel(next)
	return resp, nil
}
