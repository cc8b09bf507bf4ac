package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/touchline-tv/touchline/internal/models"
)

// epgSourceRepo implements EpgSourceRepository using GORM.
type epgSourceRepo struct {
	db *gorm.DB
}

// NewEpgSourceRepository creates a new EpgSourceRepository.
func NewEpgSourceRepository(db *gorm.DB) *epgSourceRepo {
	return &epgSourceRepo{db: db}
}

// Create creates a new EPG source.
func (r *epgSourceRepo) Create(ctx context.Context, source *models.EpgSource) error {
	if err := r.db.WithContext(ctx).Create(source).Error; err != nil {
		return fmt.Errorf("creating EPG source: %w", err)
	}
	return nil
}

// GetByID retrieves an EPG source by ID, nil when not found.
func (r *epgSourceRepo) GetByID(ctx context.Context, id models.ULID) (*models.EpgSource, error) {
	var source models.EpgSource
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&source).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("getting EPG source by ID: %w", err)
	}
	return &source, nil
}

// GetByName retrieves an EPG source by name, nil when not found.
func (r *epgSourceRepo) GetByName(ctx context.Context, name string) (*models.EpgSource, error) {
	var source models.EpgSource
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&source).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("getting EPG source by name: %w", err)
	}
	return &source, nil
}

// GetAll retrieves all EPG sources, provider role before custom so merge
// order follows precedence.
func (r *epgSourceRepo) GetAll(ctx context.Context) ([]*models.EpgSource, error) {
	var sources []*models.EpgSource
	if err := r.db.WithContext(ctx).Order("role DESC, priority ASC, name ASC").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("getting all EPG sources: %w", err)
	}
	return sources, nil
}

// GetEnabled retrieves all enabled EPG sources in merge order.
func (r *epgSourceRepo) GetEnabled(ctx context.Context) ([]*models.EpgSource, error) {
	var sources []*models.EpgSource
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).Order("role DESC, priority ASC, name ASC").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("getting enabled EPG sources: %w", err)
	}
	return sources, nil
}

// Update updates an existing EPG source.
func (r *epgSourceRepo) Update(ctx context.Context, source *models.EpgSource) error {
	if err := r.db.WithContext(ctx).Save(source).Error; err != nil {
		return fmt.Errorf("updating EPG source: %w", err)
	}
	return nil
}

// Delete deletes an EPG source by ID.
func (r *epgSourceRepo) Delete(ctx context.Context, id models.ULID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.EpgSource{}).Error; err != nil {
		return fmt.Errorf("deleting EPG source: %w", err)
	}
	return nil
}

// MarkRefreshResult records the outcome of a refresh attempt.
func (r *epgSourceRepo) MarkRefreshResult(ctx context.Context, id models.ULID, status models.SourceStatus, programCount int, refreshErr error) error {
	updates := map[string]interface{}{
		"status":        status,
		"program_count": programCount,
		"last_error":    "",
	}
	if refreshErr != nil {
		updates["last_error"] = refreshErr.Error()
	} else {
		updates["last_refresh_at"] = models.Now()
	}

	// Hooks are skipped: the validation hook would run against the empty
	// model, not the column map.
	if err := r.db.WithContext(ctx).Session(&gorm.Session{SkipHooks: true}).
		Model(&models.EpgSource{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("marking refresh result: %w", err)
	}
	return nil
}

var _ EpgSourceRepository = (*epgSourceRepo)(nil)
