package models

import (
	"net/url"
	"time"

	"gorm.io/gorm"
)

// EpgRole determines merge precedence between guide sources. Custom sources
// override provider sources per channel key when guides are merged.
type EpgRole string

const (
	// EpgRoleProvider marks the bulk guide shipped by the playlist provider.
	EpgRoleProvider EpgRole = "provider"
	// EpgRoleCustom marks a user-supplied override guide.
	EpgRoleCustom EpgRole = "custom"
)

// EpgSource is a registered upstream XMLTV guide document.
type EpgSource struct {
	BaseModel

	// Name is a user-friendly name, unique across EPG sources.
	Name string `gorm:"uniqueIndex;not null;size:255" json:"name"`

	// URL is the XMLTV document URL.
	URL string `gorm:"not null;size:2048" json:"url"`

	// Role controls merge precedence; custom entries replace provider
	// entries for any colliding channel key.
	Role EpgRole `gorm:"not null;default:'provider';size:20" json:"role"`

	// Priority orders sources within the same role; higher wins.
	Priority int `gorm:"default:0" json:"priority"`

	// UserAgent to use when fetching the guide (optional).
	UserAgent string `gorm:"size:512" json:"user_agent,omitempty"`

	// Enabled indicates whether this source is included in refreshes.
	Enabled bool `gorm:"default:true" json:"enabled"`

	// Status is the last refresh outcome.
	Status SourceStatus `gorm:"not null;default:'pending';size:20" json:"status"`

	// ProgramCount is the number of programs parsed by the last refresh.
	ProgramCount int `gorm:"default:0" json:"program_count"`

	// LastRefreshAt is when the guide was last fetched successfully.
	LastRefreshAt *time.Time `json:"last_refresh_at,omitempty"`

	// LastError holds the failure message of the last refresh, if any.
	LastError string `gorm:"type:text" json:"last_error,omitempty"`
}

// TableName returns the table name for EpgSource.
func (EpgSource) TableName() string {
	return "epg_sources"
}

// Validate performs basic validation on the EPG source.
func (s *EpgSource) Validate() error {
	if s.Name == "" {
		return ErrNameRequired
	}
	if s.URL == "" {
		return ErrURLRequired
	}
	if _, err := url.ParseRequestURI(s.URL); err != nil {
		return ErrInvalidURL
	}
	if s.Role != EpgRoleProvider && s.Role != EpgRoleCustom {
		return ErrInvalidEpgRole
	}
	return nil
}

// BeforeCreate validates the source and generates its ULID.
func (s *EpgSource) BeforeCreate(tx *gorm.DB) error {
	if err := s.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if s.Status == "" {
		s.Status = SourceStatusPending
	}
	if s.Role == "" {
		s.Role = EpgRoleProvider
	}
	return s.Validate()
}

// BeforeUpdate validates the source before update.
func (s *EpgSource) BeforeUpdate(tx *gorm.DB) error {
	return s.Validate()
}
