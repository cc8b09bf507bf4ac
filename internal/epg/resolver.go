// Package epg resolves program guide data: which program a channel is
// airing at a given instant, what comes next, and how multiple guide
// sources merge into one.
package epg

import (
	"time"

	"github.com/touchline-tv/touchline/internal/models"
)

// CurrentProgram returns the program whose half-open [start, stop) interval
// contains now. When a guide carries overlapping entries the one with the
// latest start wins. Returns nil when nothing is airing.
func CurrentProgram(programs []models.Program, now time.Time) *models.Program {
	var current *models.Program
	for i := range programs {
		p := &programs[i]
		if !p.Airing(now) {
			continue
		}
		if current == nil || p.Start.After(current.Start) {
			current = p
		}
	}
	return current
}

// NextProgram returns the program with the smallest start instant strictly
// after now. A program starting exactly at now is current, not next.
// Returns nil when the guide has nothing upcoming.
func NextProgram(programs []models.Program, now time.Time) *models.Program {
	var next *models.Program
	for i := range programs {
		p := &programs[i]
		if !p.Start.After(now) {
			continue
		}
		if next == nil || p.Start.Before(next.Start) {
			next = p
		}
	}
	return next
}

// PreviousProgram returns the most recently ended program: the entry with
// the largest stop instant that is at or before now. Returns nil when
// nothing has ended yet.
func PreviousProgram(programs []models.Program, now time.Time) *models.Program {
	var prev *models.Program
	for i := range programs {
		p := &programs[i]
		if p.Stop.After(now) {
			continue
		}
		if prev == nil || p.Stop.After(prev.Stop) {
			prev = p
		}
	}
	return prev
}

// Progress returns how far through the program now is, clamped to [0, 1].
// A zero-length program reports 1: once its start has passed it is over.
func Progress(p *models.Program, now time.Time) float64 {
	total := p.Stop.Sub(p.Start)
	if total <= 0 {
		return 1
	}
	f := float64(now.Sub(p.Start)) / float64(total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
