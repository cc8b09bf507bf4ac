package service

import (
	"context"
	"sync"

	"github.com/touchline-tv/touchline/internal/models"
)

// mockPlaylistSourceRepo is an in-memory PlaylistSourceRepository.
type mockPlaylistSourceRepo struct {
	mu      sync.Mutex
	sources []*models.PlaylistSource
	marks   map[string]models.SourceStatus
	err     error
}

func newMockPlaylistSourceRepo(sources ...*models.PlaylistSource) *mockPlaylistSourceRepo {
	return &mockPlaylistSourceRepo{sources: sources, marks: make(map[string]models.SourceStatus)}
}

func (m *mockPlaylistSourceRepo) Create(ctx context.Context, source *models.PlaylistSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = append(m.sources, source)
	return nil
}

func (m *mockPlaylistSourceRepo) GetByID(ctx context.Context, id models.ULID) (*models.PlaylistSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sources {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockPlaylistSourceRepo) GetByName(ctx context.Context, name string) (*models.PlaylistSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sources {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockPlaylistSourceRepo) GetAll(ctx context.Context) ([]*models.PlaylistSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sources, m.err
}

func (m *mockPlaylistSourceRepo) GetEnabled(ctx context.Context) ([]*models.PlaylistSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var enabled []*models.PlaylistSource
	for _, s := range m.sources {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	return enabled, nil
}

func (m *mockPlaylistSourceRepo) Update(ctx context.Context, source *models.PlaylistSource) error {
	return nil
}

func (m *mockPlaylistSourceRepo) Delete(ctx context.Context, id models.ULID) error {
	return nil
}

func (m *mockPlaylistSourceRepo) MarkRefreshResult(ctx context.Context, id models.ULID, status models.SourceStatus, channelCount int, refreshErr error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks[id.String()] = status
	return nil
}

func (m *mockPlaylistSourceRepo) statusOf(id models.ULID) models.SourceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.marks[id.String()]
}

// mockEpgSourceRepo is an in-memory EpgSourceRepository. GetEnabled
// returns sources in insertion order; tests insert in merge order.
type mockEpgSourceRepo struct {
	mu      sync.Mutex
	sources []*models.EpgSource
	marks   map[string]models.SourceStatus
}

func newMockEpgSourceRepo(sources ...*models.EpgSource) *mockEpgSourceRepo {
	return &mockEpgSourceRepo{sources: sources, marks: make(map[string]models.SourceStatus)}
}

func (m *mockEpgSourceRepo) Create(ctx context.Context, source *models.EpgSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources = append(m.sources, source)
	return nil
}

func (m *mockEpgSourceRepo) GetByID(ctx context.Context, id models.ULID) (*models.EpgSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sources {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockEpgSourceRepo) GetByName(ctx context.Context, name string) (*models.EpgSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sources {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockEpgSourceRepo) GetAll(ctx context.Context) ([]*models.EpgSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sources, nil
}

func (m *mockEpgSourceRepo) GetEnabled(ctx context.Context) ([]*models.EpgSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var enabled []*models.EpgSource
	for _, s := range m.sources {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	return enabled, nil
}

func (m *mockEpgSourceRepo) Update(ctx context.Context, source *models.EpgSource) error {
	return nil
}

func (m *mockEpgSourceRepo) Delete(ctx context.Context, id models.ULID) error {
	return nil
}

func (m *mockEpgSourceRepo) MarkRefreshResult(ctx context.Context, id models.ULID, status models.SourceStatus, programCount int, refreshErr error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marks[id.String()] = status
	return nil
}

func (m *mockEpgSourceRepo) statusOf(id models.ULID) models.SourceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.marks[id.String()]
}
