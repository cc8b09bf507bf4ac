package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"

	"github.com/touchline-tv/touchline/internal/models"
	"github.com/touchline-tv/touchline/internal/repository"
)

// EpgSourceHandler handles EPG source registration endpoints.
type EpgSourceHandler struct {
	repo    repository.EpgSourceRepository
	refresh Refresher
}

// NewEpgSourceHandler creates an EPG source handler.
func NewEpgSourceHandler(repo repository.EpgSourceRepository, refresh Refresher) *EpgSourceHandler {
	return &EpgSourceHandler{repo: repo, refresh: refresh}
}

// Register registers the EPG source routes with the API.
func (h *EpgSourceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listEpgSources",
		Method:      "GET",
		Path:        "/api/v1/sources/epg",
		Summary:     "List EPG sources",
		Tags:        []string{"EPG Sources"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "getEpgSource",
		Method:      "GET",
		Path:        "/api/v1/sources/epg/{id}",
		Summary:     "Get EPG source",
		Tags:        []string{"EPG Sources"},
	}, h.GetByID)

	huma.Register(api, huma.Operation{
		OperationID:   "createEpgSource",
		Method:        "POST",
		Path:          "/api/v1/sources/epg",
		Summary:       "Create EPG source",
		DefaultStatus: 201,
		Tags:          []string{"EPG Sources"},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "updateEpgSource",
		Method:      "PUT",
		Path:        "/api/v1/sources/epg/{id}",
		Summary:     "Update EPG source",
		Tags:        []string{"EPG Sources"},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteEpgSource",
		Method:        "DELETE",
		Path:          "/api/v1/sources/epg/{id}",
		Summary:       "Delete EPG source",
		DefaultStatus: 204,
		Tags:          []string{"EPG Sources"},
	}, h.Delete)

	huma.Register(api, huma.Operation{
		OperationID:   "refreshGuide",
		Method:        "POST",
		Path:          "/api/v1/sources/epg/refresh",
		Summary:       "Reload the program guide",
		Description:   "Fetches every enabled EPG source and rebuilds the merged guide.",
		DefaultStatus: 202,
		Tags:          []string{"EPG Sources"},
	}, h.Refresh)
}

// ListEpgSourcesInput is the input for listing EPG sources.
type ListEpgSourcesInput struct{}

// ListEpgSourcesOutput is the output for listing EPG sources.
type ListEpgSourcesOutput struct {
	Body struct {
		Sources []EpgSourceResponse `json:"sources"`
	}
}

// List returns all EPG sources in merge order.
func (h *EpgSourceHandler) List(ctx context.Context, input *ListEpgSourcesInput) (*ListEpgSourcesOutput, error) {
	sources, err := h.repo.GetAll(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list EPG sources", err)
	}

	resp := &ListEpgSourcesOutput{}
	resp.Body.Sources = make([]EpgSourceResponse, 0, len(sources))
	for _, s := range sources {
		resp.Body.Sources = append(resp.Body.Sources, EpgSourceFromModel(s))
	}
	return resp, nil
}

// GetEpgSourceInput is the input for getting an EPG source.
type GetEpgSourceInput struct {
	ID string `path:"id" doc:"EPG source ID (ULID)"`
}

// GetEpgSourceOutput is the output for getting an EPG source.
type GetEpgSourceOutput struct {
	Body EpgSourceResponse
}

// GetByID returns an EPG source by ID.
func (h *EpgSourceHandler) GetByID(ctx context.Context, input *GetEpgSourceInput) (*GetEpgSourceOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	source, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get EPG source", err)
	}
	if source == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("EPG source %s not found", input.ID))
	}

	return &GetEpgSourceOutput{Body: EpgSourceFromModel(source)}, nil
}

// CreateEpgSourceInput is the input for creating an EPG source.
type CreateEpgSourceInput struct {
	Body CreateEpgSourceRequest
}

// CreateEpgSourceOutput is the output for creating an EPG source.
type CreateEpgSourceOutput struct {
	Body EpgSourceResponse
}

// Create registers a new EPG source.
func (h *EpgSourceHandler) Create(ctx context.Context, input *CreateEpgSourceInput) (*CreateEpgSourceOutput, error) {
	source := input.Body.ToModel()

	if err := h.repo.Create(ctx, source); err != nil {
		if isValidationError(err) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		if isDuplicateError(err) {
			return nil, huma.Error409Conflict("an EPG source with this name already exists")
		}
		return nil, huma.Error500InternalServerError("failed to create EPG source", err)
	}

	return &CreateEpgSourceOutput{Body: EpgSourceFromModel(source)}, nil
}

// UpdateEpgSourceInput is the input for updating an EPG source.
type UpdateEpgSourceInput struct {
	ID   string `path:"id" doc:"EPG source ID (ULID)"`
	Body UpdateEpgSourceRequest
}

// UpdateEpgSourceOutput is the output for updating an EPG source.
type UpdateEpgSourceOutput struct {
	Body EpgSourceResponse
}

// Update modifies an existing EPG source.
func (h *EpgSourceHandler) Update(ctx context.Context, input *UpdateEpgSourceInput) (*UpdateEpgSourceOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	source, err := h.repo.GetByID(ctx, id)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to get EPG source", err)
	}
	if source == nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("EPG source %s not found", input.ID))
	}

	input.Body.ApplyToModel(source)

	if err := h.repo.Update(ctx, source); err != nil {
		if isValidationError(err) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error500InternalServerError("failed to update EPG source", err)
	}

	return &UpdateEpgSourceOutput{Body: EpgSourceFromModel(source)}, nil
}

// DeleteEpgSourceInput is the input for deleting an EPG source.
type DeleteEpgSourceInput struct {
	ID string `path:"id" doc:"EPG source ID (ULID)"`
}

// DeleteEpgSourceOutput is the output for deleting an EPG source.
type DeleteEpgSourceOutput struct{}

// Delete removes an EPG source.
func (h *EpgSourceHandler) Delete(ctx context.Context, input *DeleteEpgSourceInput) (*DeleteEpgSourceOutput, error) {
	id, err := models.ParseULID(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid ID format", err)
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		return nil, huma.Error500InternalServerError("failed to delete EPG source", err)
	}
	return &DeleteEpgSourceOutput{}, nil
}

// RefreshGuideInput is the input for triggering a guide reload.
type RefreshGuideInput struct{}

// RefreshGuideOutput is the output for triggering a guide reload.
type RefreshGuideOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// Refresh rebuilds the merged guide from every enabled source.
func (h *EpgSourceHandler) Refresh(ctx context.Context, input *RefreshGuideInput) (*RefreshGuideOutput, error) {
	if h.refresh == nil {
		return nil, huma.Error503ServiceUnavailable("guide refresh is not available")
	}
	if err := h.refresh.Refresh(ctx); err != nil {
		return nil, huma.Error502BadGateway("guide reload failed", err)
	}

	resp := &RefreshGuideOutput{}
	resp.Body.Status = "refreshed"
	return resp, nil
}
