package models

import (
	"net/url"
	"time"

	"gorm.io/gorm"
)

// SourceStatus is the refresh state of a registered source.
type SourceStatus string

const (
	// SourceStatusPending indicates the source has not been fetched yet.
	SourceStatusPending SourceStatus = "pending"
	// SourceStatusRefreshing indicates a fetch is in progress.
	SourceStatusRefreshing SourceStatus = "refreshing"
	// SourceStatusSuccess indicates the last fetch succeeded.
	SourceStatusSuccess SourceStatus = "success"
	// SourceStatusFailed indicates the last fetch failed.
	SourceStatusFailed SourceStatus = "failed"
)

// PlaylistSource is a registered upstream M3U playlist.
type PlaylistSource struct {
	BaseModel

	// Name is a user-friendly name, unique across playlist sources.
	Name string `gorm:"uniqueIndex;not null;size:255" json:"name"`

	// URL is the playlist document URL.
	URL string `gorm:"not null;size:2048" json:"url"`

	// Category is the deduplication hint applied when building the lineup
	// from this source.
	Category Category `gorm:"size:20" json:"category,omitempty"`

	// UserAgent to use when fetching the playlist (optional).
	UserAgent string `gorm:"size:512" json:"user_agent,omitempty"`

	// Enabled indicates whether this source is included in refreshes.
	Enabled bool `gorm:"default:true" json:"enabled"`

	// Status is the last refresh outcome.
	Status SourceStatus `gorm:"not null;default:'pending';size:20" json:"status"`

	// ChannelCount is the number of channels produced by the last build.
	ChannelCount int `gorm:"default:0" json:"channel_count"`

	// LastRefreshAt is when the playlist was last fetched successfully.
	LastRefreshAt *time.Time `json:"last_refresh_at,omitempty"`

	// LastError holds the failure message of the last refresh, if any.
	LastError string `gorm:"type:text" json:"last_error,omitempty"`
}

// TableName returns the table name for PlaylistSource.
func (PlaylistSource) TableName() string {
	return "playlist_sources"
}

// Validate performs basic validation on the playlist source.
func (s *PlaylistSource) Validate() error {
	if s.Name == "" {
		return ErrNameRequired
	}
	if s.URL == "" {
		return ErrURLRequired
	}
	if _, err := url.ParseRequestURI(s.URL); err != nil {
		return ErrInvalidURL
	}
	if !s.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// BeforeCreate validates the source and generates its ULID.
func (s *PlaylistSource) BeforeCreate(tx *gorm.DB) error {
	if err := s.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if s.Status == "" {
		s.Status = SourceStatusPending
	}
	return s.Validate()
}

// BeforeUpdate validates the source before update.
func (s *PlaylistSource) BeforeUpdate(tx *gorm.DB) error {
	return s.Validate()
}
