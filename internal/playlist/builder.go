package playlist

import (
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/touchline-tv/touchline/internal/models"
	"github.com/touchline-tv/touchline/pkg/m3u"
)

// placeholderName is used when an entry carries neither a title nor a
// tvg-name attribute.
const placeholderName = "Unknown Channel"

// Builder turns M3U playlist text into a channel lineup, merging quality
// variants of the same logical channel according to its grouping policy.
type Builder struct {
	policy GroupingPolicy
	logger *slog.Logger
}

// NewBuilder creates a Builder with the default grouping policy.
func NewBuilder() *Builder {
	return &Builder{
		policy: DefaultGroupingPolicy,
		logger: slog.Default(),
	}
}

// WithPolicy replaces the grouping policy.
func (b *Builder) WithPolicy(p GroupingPolicy) *Builder {
	b.policy = p
	return b
}

// WithLogger sets the logger for the builder.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build parses the playlist content and returns the resulting lineup.
// Malformed content degrades to an empty lineup; Build never fails on
// document contents alone. The deduplication state is scoped to this one
// call and discarded when it returns.
func (b *Builder) Build(content string, category models.Category) *models.Lineup {
	lineup := &models.Lineup{}

	groups := make(map[string]*models.ChannelGroup)
	// Dedup map from lower-cased base name to the channel that first
	// claimed it. Global across groups, local to this parse pass.
	claimed := make(map[string]*models.Channel)
	position := 0

	parser := &m3u.Parser{
		OnEPGURL: func(u string) {
			lineup.EPGURL = u
		},
		OnError: func(lineNum int, err error) {
			b.logger.Debug("skipping malformed playlist line",
				slog.Int("line", lineNum),
				slog.String("error", err.Error()),
			)
		},
		OnEntry: func(entry *m3u.Entry) error {
			position++

			rawName := entry.Title
			if rawName == "" {
				rawName = entry.TvgName
			}
			if rawName == "" {
				rawName = placeholderName
			}

			base, quality := Normalize(rawName)
			eligible := b.policy(category, position)
			key := strings.ToLower(base)

			if eligible {
				if existing, ok := claimed[key]; ok {
					// The original stream must survive the merge: give it
					// an explicit variant before appending the new one.
					if len(existing.Streams) == 0 {
						existing.Streams = append(existing.Streams, models.StreamVariant{
							Quality: models.DefaultQuality,
							URL:     existing.URL,
						})
					}
					existing.Streams = append(existing.Streams, models.StreamVariant{
						Quality: quality,
						URL:     entry.URL,
					})
					return nil
				}
			}

			name := rawName
			variantQuality := models.DefaultQuality
			if eligible {
				name = base
				variantQuality = quality
			}

			logo := entry.TvgLogo
			if logo == "" {
				logo = placeholderLogoURL(base)
			}

			groupTitle := entry.GroupTitle
			if groupTitle == "" {
				groupTitle = models.DefaultGroupTitle
			}

			channel := &models.Channel{
				ID:    models.NewULID().String(),
				Name:  name,
				Logo:  logo,
				Group: groupTitle,
				URL:   entry.URL,
				TvgID: entry.TvgID,
				Streams: []models.StreamVariant{
					{Quality: variantQuality, URL: entry.URL},
				},
			}

			group, ok := groups[groupTitle]
			if !ok {
				group = &models.ChannelGroup{Title: groupTitle}
				groups[groupTitle] = group
			}
			group.Channels = append(group.Channels, channel)

			if eligible {
				claimed[key] = channel
			}
			return nil
		},
	}

	if err := parser.Parse(strings.NewReader(content)); err != nil {
		// Callback errors cannot happen here; a scanner failure on an
		// in-memory string means a pathological line, log and keep what
		// was parsed so far.
		b.logger.Warn("playlist parse stopped early", slog.String("error", err.Error()))
	}

	titles := make([]string, 0, len(groups))
	for title := range groups {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	lineup.Groups = make([]*models.ChannelGroup, 0, len(titles))
	for _, title := range titles {
		lineup.Groups = append(lineup.Groups, groups[title])
	}

	return lineup
}

// placeholderLogoURL generates a deterministic placeholder logo for
// channels without one, keyed by the cleaned channel name.
func placeholderLogoURL(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random&size=128", url.QueryEscape(name))
}
