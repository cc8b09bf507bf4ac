package epg

import (
	"sync"
	"time"

	"github.com/touchline-tv/touchline/internal/models"
)

// Merge combines guides in argument order with last-wins precedence: a later
// guide's entries replace an earlier guide's entries wholesale for any
// colliding channel key. Callers pass provider guides first and custom
// override guides last. Nil guides are skipped.
func Merge(guides ...models.Guide) models.Guide {
	merged := make(models.Guide)
	for _, g := range guides {
		for key, programs := range g {
			merged[key] = programs
		}
	}
	return merged
}

// Store holds the current merged guide behind a read-write lock. The guide
// is replaced wholesale on each reload, never updated in place.
type Store struct {
	mu    sync.RWMutex
	guide models.Guide
}

// NewStore creates an empty guide store.
func NewStore() *Store {
	return &Store{guide: make(models.Guide)}
}

// Replace swaps in a freshly merged guide.
func (s *Store) Replace(guide models.Guide) {
	if guide == nil {
		guide = make(models.Guide)
	}
	s.mu.Lock()
	s.guide = guide
	s.mu.Unlock()
}

// Snapshot returns the current guide. The returned map must be treated as
// read-only; it is shared with concurrent readers.
func (s *Store) Snapshot() models.Guide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guide
}

// Programs returns the program sequence for a channel key, or nil.
func (s *Store) Programs(key string) []models.Program {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guide[key]
}

// NowNext resolves the currently airing and upcoming program for a channel
// key at the given instant. Either result may be nil.
func (s *Store) NowNext(key string, now time.Time) (current, next *models.Program) {
	programs := s.Programs(key)
	return CurrentProgram(programs, now), NextProgram(programs, now)
}
