package playlist

import "github.com/touchline-tv/touchline/internal/models"

// GroupingPolicy decides whether the playlist entry at the given 1-based
// running position is eligible for cross-group deduplication. The position
// counts every completed entry in the document, independent of grouping.
type GroupingPolicy func(category models.Category, position int) bool

// The positional window for general lineups is a provider-specific
// heuristic: outside this band of the provider's fixed channel ordering,
// near-identical names belong to genuinely different channels.
const (
	dedupWindowStart = 115
	dedupWindowEnd   = 248
)

// DefaultGroupingPolicy merges everything in sports lineups, merges only the
// fixed positional window in general lineups, and never merges otherwise.
func DefaultGroupingPolicy(category models.Category, position int) bool {
	switch category {
	case models.CategorySports:
		return true
	case models.CategoryGeneral:
		return position >= dedupWindowStart && position <= dedupWindowEnd
	default:
		return false
	}
}
