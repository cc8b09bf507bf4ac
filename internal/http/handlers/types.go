// Package handlers provides the HTTP API handlers for touchline.
package handlers

import (
	"time"

	"github.com/touchline-tv/touchline/internal/models"
)

// PlaylistSourceResponse is the API representation of a playlist source.
type PlaylistSourceResponse struct {
	ID            string     `json:"id" doc:"Source ID (ULID)"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	Category      string     `json:"category,omitempty" enum:",sports,general" doc:"Deduplication hint applied during lineup builds"`
	UserAgent     string     `json:"user_agent,omitempty"`
	Enabled       bool       `json:"enabled"`
	Status        string     `json:"status" doc:"Last refresh outcome"`
	ChannelCount  int        `json:"channel_count"`
	LastRefreshAt *time.Time `json:"last_refresh_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PlaylistSourceFromModel converts a model to its API representation.
func PlaylistSourceFromModel(s *models.PlaylistSource) PlaylistSourceResponse {
	return PlaylistSourceResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		URL:           s.URL,
		Category:      string(s.Category),
		UserAgent:     s.UserAgent,
		Enabled:       s.Enabled,
		Status:        string(s.Status),
		ChannelCount:  s.ChannelCount,
		LastRefreshAt: s.LastRefreshAt,
		LastError:     s.LastError,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// CreatePlaylistSourceRequest is the request body for creating a playlist source.
type CreatePlaylistSourceRequest struct {
	Name      string `json:"name" minLength:"1" maxLength:"255"`
	URL       string `json:"url" minLength:"1" maxLength:"2048"`
	Category  string `json:"category,omitempty" enum:",sports,general"`
	UserAgent string `json:"user_agent,omitempty" maxLength:"512"`
	Enabled   *bool  `json:"enabled,omitempty" doc:"Defaults to true"`
}

// ToModel converts the request to a model.
func (r *CreatePlaylistSourceRequest) ToModel() *models.PlaylistSource {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return &models.PlaylistSource{
		Name:      r.Name,
		URL:       r.URL,
		Category:  models.Category(r.Category),
		UserAgent: r.UserAgent,
		Enabled:   enabled,
	}
}

// UpdatePlaylistSourceRequest is the request body for updating a playlist
// source. Absent fields keep their current value.
type UpdatePlaylistSourceRequest struct {
	Name      *string `json:"name,omitempty" maxLength:"255"`
	URL       *string `json:"url,omitempty" maxLength:"2048"`
	Category  *string `json:"category,omitempty" enum:",sports,general"`
	UserAgent *string `json:"user_agent,omitempty" maxLength:"512"`
	Enabled   *bool   `json:"enabled,omitempty"`
}

// ApplyToModel applies the present fields to the model.
func (r *UpdatePlaylistSourceRequest) ApplyToModel(s *models.PlaylistSource) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.URL != nil {
		s.URL = *r.URL
	}
	if r.Category != nil {
		s.Category = models.Category(*r.Category)
	}
	if r.UserAgent != nil {
		s.UserAgent = *r.UserAgent
	}
	if r.Enabled != nil {
		s.Enabled = *r.Enabled
	}
}

// EpgSourceResponse is the API representation of an EPG source.
type EpgSourceResponse struct {
	ID            string     `json:"id" doc:"Source ID (ULID)"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	Role          string     `json:"role" enum:"provider,custom" doc:"Merge precedence; custom entries replace provider entries"`
	Priority      int        `json:"priority"`
	UserAgent     string     `json:"user_agent,omitempty"`
	Enabled       bool       `json:"enabled"`
	Status        string     `json:"status"`
	ProgramCount  int        `json:"program_count"`
	LastRefreshAt *time.Time `json:"last_refresh_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// EpgSourceFromModel converts a model to its API representation.
func EpgSourceFromModel(s *models.EpgSource) EpgSourceResponse {
	return EpgSourceResponse{
		ID:            s.ID.String(),
		Name:          s.Name,
		URL:           s.URL,
		Role:          string(s.Role),
		Priority:      s.Priority,
		UserAgent:     s.UserAgent,
		Enabled:       s.Enabled,
		Status:        string(s.Status),
		ProgramCount:  s.ProgramCount,
		LastRefreshAt: s.LastRefreshAt,
		LastError:     s.LastError,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// CreateEpgSourceRequest is the request body for creating an EPG source.
type CreateEpgSourceRequest struct {
	Name      string `json:"name" minLength:"1" maxLength:"255"`
	URL       string `json:"url" minLength:"1" maxLength:"2048"`
	Role      string `json:"role,omitempty" enum:",provider,custom" doc:"Defaults to provider"`
	Priority  int    `json:"priority,omitempty"`
	UserAgent string `json:"user_agent,omitempty" maxLength:"512"`
	Enabled   *bool  `json:"enabled,omitempty" doc:"Defaults to true"`
}

// ToModel converts the request to a model.
func (r *CreateEpgSourceRequest) ToModel() *models.EpgSource {
	enabled := true
	if r.Enabled != nil {
		enabled = *r.Enabled
	}
	return &models.EpgSource{
		Name:      r.Name,
		URL:       r.URL,
		Role:      models.EpgRole(r.Role),
		Priority:  r.Priority,
		UserAgent: r.UserAgent,
		Enabled:   enabled,
	}
}

// UpdateEpgSourceRequest is the request body for updating an EPG source.
// Absent fields keep their current value.
type UpdateEpgSourceRequest struct {
	Name      *string `json:"name,omitempty" maxLength:"255"`
	URL       *string `json:"url,omitempty" maxLength:"2048"`
	Role      *string `json:"role,omitempty" enum:",provider,custom"`
	Priority  *int    `json:"priority,omitempty"`
	UserAgent *string `json:"user_agent,omitempty" maxLength:"512"`
	Enabled   *bool   `json:"enabled,omitempty"`
}

// ApplyToModel applies the present fields to the model.
func (r *UpdateEpgSourceRequest) ApplyToModel(s *models.EpgSource) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.URL != nil {
		s.URL = *r.URL
	}
	if r.Role != nil {
		s.Role = models.EpgRole(*r.Role)
	}
	if r.Priority != nil {
		s.Priority = *r.Priority
	}
	if r.UserAgent != nil {
		s.UserAgent = *r.UserAgent
	}
	if r.Enabled != nil {
		s.Enabled = *r.Enabled
	}
}

// ProgramResponse is a guide entry with its playback window.
type ProgramResponse struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	Stop        time.Time `json:"stop"`
	// Progress is the elapsed fraction of the program at request time,
	// clamped to [0, 1]. Only set on the current program.
	Progress *float64 `json:"progress,omitempty"`
}

// ProgramFromModel converts a guide program to its API representation.
func ProgramFromModel(p *models.Program) *ProgramResponse {
	if p == nil {
		return nil
	}
	return &ProgramResponse{
		Title:       p.Title,
		Description: p.Description,
		Start:       p.Start,
		Stop:        p.Stop,
	}
}
