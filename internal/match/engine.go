// Package match correlates free-text fixture titles ("Arsenal vs Chelsea")
// with the channels currently or soon broadcasting them. The playlist/EPG
// universe and the highlight feeds share no identifier, so correlation is
// substring-based by necessity.
package match

import (
	"regexp"
	"strings"
	"time"

	"github.com/touchline-tv/touchline/internal/epg"
	"github.com/touchline-tv/touchline/internal/models"
)

// separatorPattern splits a fixture title on the "vs"/"v" separator, either
// spelling, case-insensitive.
var separatorPattern = regexp.MustCompile(`(?i)\s+vs?\.?\s+`)

// SplitFixtureTitle splits a "<Home> vs <Away>" label into its two trimmed
// team fragments. Returns nil when the title does not split into exactly
// two non-empty fragments.
func SplitFixtureTitle(title string) []string {
	parts := separatorPattern.Split(title, 2)
	if len(parts) != 2 {
		return nil
	}
	home := strings.TrimSpace(parts[0])
	away := strings.TrimSpace(parts[1])
	if home == "" || away == "" {
		return nil
	}
	return []string{home, away}
}

// sameFixture reports whether a program title refers to the fixture with
// the given team fragments. Every fragment must appear as a
// case-insensitive substring; a single-team hit is not enough.
func sameFixture(programTitle string, fragments []string) bool {
	title := strings.ToLower(programTitle)
	for _, fragment := range fragments {
		if !strings.Contains(title, strings.ToLower(fragment)) {
			return false
		}
	}
	return true
}

// FindLocalMatches returns every channel whose current or upcoming program
// refers to the fixture named by matchTitle, live broadcasts first. An
// uncorrelatable title yields an empty result, not an error. This is a full
// scan over channels and their program sequences; the universe is hundreds
// of channels and calls are user-triggered, so no index is kept.
func FindLocalMatches(matchTitle string, channels []*models.Channel, guide models.Guide, now time.Time) []models.LocalMatchChannel {
	fragments := SplitFixtureTitle(matchTitle)
	if fragments == nil {
		return nil
	}

	var live, upcoming []models.LocalMatchChannel

	for _, channel := range channels {
		if !channel.HasEPG() {
			continue
		}
		programs := guide[channel.TvgID]
		if len(programs) == 0 {
			continue
		}

		if current := epg.CurrentProgram(programs, now); current != nil && sameFixture(current.Title, fragments) {
			live = append(live, models.LocalMatchChannel{
				Channel:      channel,
				ProgramTitle: current.Title,
				IsLive:       true,
				ProgramStart: current.Start,
			})
			continue
		}

		if next := epg.NextProgram(programs, now); next != nil && sameFixture(next.Title, fragments) {
			upcoming = append(upcoming, models.LocalMatchChannel{
				Channel:      channel,
				ProgramTitle: next.Title,
				IsLive:       false,
				ProgramStart: next.Start,
			})
		}
	}

	return append(live, upcoming...)
}
