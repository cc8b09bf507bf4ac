package models

import "time"

// Program is one broadcast segment for a channel. Start < Stop is assumed
// from well-formed guides and not enforced here.
type Program struct {
	// ChannelID is the EPG linkage key (matches Channel.TvgID).
	ChannelID string `json:"channel_id"`

	// Title is the program title.
	Title string `json:"title"`

	// Description is the program description, if any.
	Description string `json:"description,omitempty"`

	// Start is the program start instant.
	Start time.Time `json:"start"`

	// Stop is the program end instant.
	Stop time.Time `json:"stop"`
}

// Duration returns the program length.
func (p *Program) Duration() time.Duration {
	return p.Stop.Sub(p.Start)
}

// Airing reports whether now falls within the half-open [Start, Stop)
// interval.
func (p *Program) Airing(now time.Time) bool {
	return !p.Start.After(now) && now.Before(p.Stop)
}

// Guide maps an EPG linkage key to that channel's time-ordered program
// sequence. The whole mapping is replaced on each guide reload.
type Guide map[string][]Program
