package models

import "time"

// MatchStatus is the lifecycle state of a fixture as reported upstream.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "SCHEDULED"
	StatusTimed     MatchStatus = "TIMED"
	StatusInPlay    MatchStatus = "IN_PLAY"
	StatusPaused    MatchStatus = "PAUSED"
	StatusFinished  MatchStatus = "FINISHED"
	StatusSuspended MatchStatus = "SUSPENDED"
	StatusPostponed MatchStatus = "POSTPONED"
	StatusCancelled MatchStatus = "CANCELLED"
	StatusAwarded   MatchStatus = "AWARDED"
)

// IsLive reports whether the fixture is currently being played.
// A paused fixture (half time) still counts as live.
func (s MatchStatus) IsLive() bool {
	return s == StatusInPlay || s == StatusPaused
}

// Highlight is one externally-sourced football fixture.
type Highlight struct {
	// ID is the upstream fixture identifier, prefixed per source so two
	// providers never collide.
	ID string `json:"id"`

	// League is the competition name.
	League string `json:"league"`

	// Title is the combined "Home vs Away" label. This is the only field
	// the fuzzy match engine reads.
	Title string `json:"title"`

	// DisplayTime is a human-readable kickoff time for lists.
	DisplayTime string `json:"display_time,omitempty"`

	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	HomeLogo string `json:"home_logo,omitempty"`
	AwayLogo string `json:"away_logo,omitempty"`

	// UTCDate is the kickoff instant.
	UTCDate time.Time `json:"utc_date"`

	Status MatchStatus `json:"status"`

	// Scores are nil until the fixture has started.
	HomeScore *int `json:"home_score,omitempty"`
	AwayScore *int `json:"away_score,omitempty"`
}

// LocalMatchChannel pairs a fixture with a lineup channel whose current or
// upcoming program refers to it. Recomputed on every query, never stored.
type LocalMatchChannel struct {
	Channel      *Channel  `json:"channel"`
	ProgramTitle string    `json:"program_title"`
	IsLive       bool      `json:"is_live"`
	ProgramStart time.Time `json:"program_start"`
}
