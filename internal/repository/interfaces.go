// Package repository provides data access for persisted source
// registrations.
package repository

import (
	"context"

	"github.com/touchline-tv/touchline/internal/models"
)

// PlaylistSourceRepository manages playlist source registrations.
type PlaylistSourceRepository interface {
	Create(ctx context.Context, source *models.PlaylistSource) error
	GetByID(ctx context.Context, id models.ULID) (*models.PlaylistSource, error)
	GetByName(ctx context.Context, name string) (*models.PlaylistSource, error)
	GetAll(ctx context.Context) ([]*models.PlaylistSource, error)
	GetEnabled(ctx context.Context) ([]*models.PlaylistSource, error)
	Update(ctx context.Context, source *models.PlaylistSource) error
	Delete(ctx context.Context, id models.ULID) error

	// MarkRefreshResult records the outcome of a refresh attempt.
	MarkRefreshResult(ctx context.Context, id models.ULID, status models.SourceStatus, channelCount int, refreshErr error) error
}

// EpgSourceRepository manages EPG source registrations.
type EpgSourceRepository interface {
	Create(ctx context.Context, source *models.EpgSource) error
	GetByID(ctx context.Context, id models.ULID) (*models.EpgSource, error)
	GetByName(ctx context.Context, name string) (*models.EpgSource, error)
	GetAll(ctx context.Context) ([]*models.EpgSource, error)
	GetEnabled(ctx context.Context) ([]*models.EpgSource, error)
	Update(ctx context.Context, source *models.EpgSource) error
	Delete(ctx context.Context, id models.ULID) error

	// MarkRefreshResult records the outcome of a refresh attempt.
	MarkRefreshResult(ctx context.Context, id models.ULID, status models.SourceStatus, programCount int, refreshErr error) error
}
