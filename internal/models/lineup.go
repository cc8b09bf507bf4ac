package models

// StreamVariant is one physical encode of a logical channel. Quality labels
// are free-text tokens ("FHD", "XTRA", "SD"); duplicate labels are kept.
type StreamVariant struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// Channel is one playable lineup entry. When Streams is non-empty its first
// entry corresponds to the URL the channel was discovered with; URL itself
// always stays populated as a fallback.
type Channel struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Logo    string          `json:"logo,omitempty"`
	Group   string          `json:"group"`
	URL     string          `json:"url"`
	TvgID   string          `json:"tvg_id,omitempty"`
	Streams []StreamVariant `json:"streams,omitempty"`
}

// HasEPG reports whether the channel can be correlated with guide data.
func (c *Channel) HasEPG() bool {
	return c.TvgID != ""
}

// ChannelGroup is a named bucket of channels in playlist-encounter order.
type ChannelGroup struct {
	Title    string     `json:"title"`
	Channels []*Channel `json:"channels"`
}

// Lineup is the result of one playlist build pass. Groups are sorted
// alphabetically by title; the whole value is replaced on reload, never
// updated in place.
type Lineup struct {
	Groups []*ChannelGroup `json:"groups"`
	// EPGURL is the playlist-level guide URL hint (url-tvg / x-tvg-url),
	// empty when the playlist carries none.
	EPGURL string `json:"epg_url,omitempty"`
}

// Channels returns every channel across all groups in group order.
func (l *Lineup) Channels() []*Channel {
	var out []*Channel
	for _, g := range l.Groups {
		out = append(out, g.Channels...)
	}
	return out
}

// ChannelByID returns the channel with the given ID, or nil.
func (l *Lineup) ChannelByID(id string) *Channel {
	for _, g := range l.Groups {
		for _, c := range g.Channels {
			if c.ID == id {
				return c
			}
		}
	}
	return nil
}

// DefaultGroupTitle is the group assigned to entries without a group-title.
const DefaultGroupTitle = "Uncategorized"

// DefaultQuality is the variant label for streams whose quality is unknown.
const DefaultQuality = "Default"

// Category is the playlist-level hint that controls cross-group
// deduplication eligibility during a build pass.
type Category string

const (
	// CategoryNone disables deduplication entirely.
	CategoryNone Category = ""
	// CategorySports marks a lineup where every entry may be merged.
	CategorySports Category = "sports"
	// CategoryGeneral marks a lineup where only a fixed positional window
	// of entries may be merged.
	CategoryGeneral Category = "general"
)

// Valid reports whether the category is a known hint.
func (c Category) Valid() bool {
	switch c {
	case CategoryNone, CategorySports, CategoryGeneral:
		return true
	}
	return false
}
