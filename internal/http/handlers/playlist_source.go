package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/touchline-tv/touchline/internal/models"
	"github.com/touchline-tv/touchline/internal/repository"
)

// Refresher triggers a full rebuild from the registered sources. Both the
// lineup and guide services satisfy it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// PlaylistSourceHandler handles playlist source registration endpoints.
type PlaylistSourceHandler struct {
	repo    repository.PlaylistSourceRepository
	refresh Refresher
}

// NewPlaylistSourceHandler creates a playlist source handler. The
// refresher is invoked after mutations so the lineup tracks the registry.
func NewPlaylistSourceHandler(repo repository.PlaylistSourceRepository, refresh Refresher) *PlaylistSourceHandler {
	return &PlaylistSourceHandler{repo: repo, refresh: refresh}
}

// Register registers the playlist source routes with the API.
func (h *PlaylistSourceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listPlaylistSources",
		Method:      "GET",
		Path:        "/api/v1/sources/playlists",
		Summary:     "List playlist sources",
		Tags:        []string{"Playlist Sources"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "getPlaylistSource",
		Method:      "GET",
		Path:        "/api/v1/sources/playlists/{id}",
		Summary:     "Get playlist source",
		Tags:        []string{"Playlist Sources"},
	}, h.GetByID)

	huma.Register(api, huma.Operation{
		OperationID:   "createPlaylistSource",
		Method:        "POST",
		Path:          "/api/v1/sources/playlists",
		Summary:       "Create playlist source",
		DefaultStatus: 201,
		Tags:          []string{"Playlist Sources"},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "updatePlaylistSource",
		Method:      "PUT",
		Path:        "/api/v1/sources/playlists/{id}",
		Summary:     "Update playlist source",
		Tags:        []string{"Playlist Sources"},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID:   "deletePlaylistSource",
		Method:        "DELETE",
		Path:          "/api/v1/sources/playlists/{id}",
		Summary:       "Delete playlist source",
		DefaultStatus: 204,
		Tags:          []string{"Playlist Sources"},
	}, h.Delete)

	huma.Register(api, huma.Operation{
		OperationID:   "refreshPlaylists",
		Method:        "POST",
		Path:          "/api/v1/sources/playlists/refresh",
		Summary:       "Rebuild the lineup",
		Description:   "Fetches every enabled playlist source and rebuilds the channel lineup.",
		DefaultStatus: 202,
		Tags:          []string{"Playlist Sources"},
	}, h.Refresh)
}

// ListPlaylistSourcesInput is the input for listing playlist sources.
type ListPlaylistSourcesInput struct{}

// ListPlaylistSourcesOutput is the output for listing playlist sources.
type ListPlaylistSourcesOutput struct {
	Body struct {
		Sources []PlaylistSourceResponse `json:"sources"`
	}
}

// List returns all playlist sources.
func (h *PlaylistSourceHandler) List(ctx context.Context, input *ListPlaylistSourcesInput) (*ListPlaylistSourcesOutput, error) {
	sources, err := h.repo.GetAll(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list playlist sources", err)
	}

	resp := &ListPlaylistSourcesOutput{}
	resp.Body.Sources = make([]PlaylistSourceResponse, 0, len(sources))
	for _, s := range sources {
		resp.Body.Sources = append(resp.Body.Sources, PlaylistSourceFromModel(s))
	}
	return resp, nil
}

// GetPlaylistSourceInput is the input for getting a playlist source.
type GetPlaylistSourceInput struct {
	ID string `path:"id" doc:"Playlist source ID (ULID)"`
}

// GetPlaylistSourceOutput is the output for getting a playlist source.
type GetPlaylistSourceOutput struct {
	Body PlaylistSourceResponse
}

// GetByID returns a playlist source by ID.
func (h *PlaylistSourceHandler) GetByID(ctx context.Context, input *GetPlaylistSourceInput) (*GetPlaylistSourceOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	source, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get playlist source", err)
	}
	if source == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("playlist source %s not found", input.ID))
	}

	return &GetPlaylistSourceOutput{Body: PlaylistSourceFromModel(source)}, nil
}

// CreatePlaylistSourceInput is the input for creating a playlist source.
type CreatePlaylistSourceInput struct {
	Body CreatePlaylistSourceRequest
}

// CreatePlaylistSourceOutput is the output for creating a playlist source.
type CreatePlaylistSourceOutput struct {
	Body PlaylistSourceResponse
}

// Create registers a new playlist source.
func (h *PlaylistSourceHandler) Create(ctx context.Context, input *CreatePlaylistSourceInput) (*CreatePlaylistSourceOutput, error) {
	source := input.Body.ToModel()

	if err := h.repo.Create(ctx, source); err != nil {
		if isValidationError(err) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		if isDuplicateError(err) {
			return nil, huma.Error409Conflict("a playlist source with this name already exists")
		}
		return nil, huma.Error500InternalServerError("failed to create playlist source", err)
	}

	return &CreatePlaylistSourceOutput{Body: PlaylistSourceFromModel(source)}, nil
}

// UpdatePlaylistSourceInput is the input for updating a playlist source.
type UpdatePlaylistSourceInput struct {
	ID   string `path:"id" doc:"Playlist source ID (ULID)"`
	Body UpdatePlaylistSourceRequest
}

// UpdatePlaylistSourceOutput is the output for updating a playlist source.
type UpdatePlaylistSourceOutput struct {
	Body PlaylistSourceResponse
}

// Update modifies an existing playlist source.
func (h *PlaylistSourceHandler) Update(ctx context.Context, input *UpdatePlaylistSourceInput) (*UpdatePlaylistSourceOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	source, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get playlist source", err)
	}
	if source == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("playlist source %s not found", input.ID))
	}

	input.Body.ApplyToModel(source)

	if err := h.repo.Update(ctx, source); err != nil {
		if isValidationError(err) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error500InternalServerError("failed to update playlist source", err)
	}

	return &UpdatePlaylistSourceOutput{Body: PlaylistSourceFromModel(source)}, nil
}

// DeletePlaylistSourceInput is the input for deleting a playlist source.
type DeletePlaylistSourceInput struct {
	ID string `path:"id" doc:"Playlist source ID (ULID)"`
}

// DeletePlaylistSourceOutput is the output for deleting a playlist source.
type DeletePlaylistSourceOutput struct{}

// Delete removes a playlist source.
func (h *PlaylistSourceHandler) Delete(ctx context.Context, input *DeletePlaylistSourceInput) (*DeletePlaylistSourceOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		return nil, huma.Error500InternalServerError("failed to delete playlist source", err)
	}
	return &DeletePlaylistSourceOutput{}, nil
}

// RefreshPlaylistsInput is the input for triggering a lineup rebuild.
type RefreshPlaylistsInput struct{}

// RefreshPlaylistsOutput is the output for triggering a lineup rebuild.
type RefreshPlaylistsOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// Refresh rebuilds the lineup from every enabled source.
func (h *PlaylistSourceHandler) Refresh(ctx context.Context, input *RefreshPlaylistsInput) (*RefreshPlaylistsOutput, error) {
	if h.refresh == nil {
		return nil, huma.Error503ServiceUnavailable("lineup refresh is not available")
	}
	if err := h.refresh.Refresh(ctx); err != nil {
		return nil, huma.Error502BadGateway("lineup rebuild failed", err)
	}

	resp := &RefreshPlaylistsOutput{}
	resp.Body.Status = "refreshed"
	return resp, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, models.ErrNameRequired) ||
		errors.Is(err, models.ErrURLRequired) ||
		errors.Is(err, models.ErrInvalidURL) ||
		errors.Is(err, models.ErrInvalidCategory) ||
		errors.Is(err, models.ErrInvalidEpgRole)
}

func isDuplicateError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}
