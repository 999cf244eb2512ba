package store

import (
	"context"
	"slices"
	"sync"

	"github.com/spigell/cupid-matcher/internal/profile"
)

// Memory is a process-local store. Profiles are listed in insertion order.
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]*profile.Profile
	order    []string
	current  string
}

func NewMemory() *Memory {
	return &Memory{profiles: make(map[string]*profile.Profile)}
}

func (m *Memory) GetProfile(_ context.Context, id string) (*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p)
}

func (m *Memory) ListProfiles(_ context.Context) ([]*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*profile.Profile, 0, len(m.order))
	for _, id := range m.order {
		p, err := clone(m.profiles[id])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *Memory) PutProfile(_ context.Context, p *profile.Profile) error {
	_, err := m.put(p)
	return err
}

// put stores p and returns a func that restores the previous entry.
func (m *Memory) put(p *profile.Profile) (undo func(), err error) {
	if err := validateForPut(p); err != nil {
		return nil, err
	}
	stored, err := clone(p)
	if err != nil {
		return nil, err
	}
	id := p.ID

	m.mu.Lock()
	defer m.mu.Unlock()

	prev, existed := m.profiles[id]
	if !existed {
		m.order = append(m.order, id)
	}
	m.profiles[id] = stored

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if existed {
			m.profiles[id] = prev
			return
		}
		delete(m.profiles, id)
		m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	}, nil
}

func (m *Memory) GetCurrentProfile(ctx context.Context) (*profile.Profile, error) {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()

	if current == "" {
		return nil, ErrNotFound
	}
	return m.GetProfile(ctx, current)
}

func (m *Memory) SetCurrentProfile(_ context.Context, id string) error {
	_, err := m.setCurrent(id)
	return err
}

func (m *Memory) setCurrent(id string) (undo func(), err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[id]; !ok {
		return nil, ErrNotFound
	}
	prev := m.current
	m.current = id

	return func() {
		m.mu.Lock()
		m.current = prev
		m.mu.Unlock()
	}, nil
}

func (m *Memory) Close() error { return nil }

// snapshot returns the stored profiles in order and the current id.
func (m *Memory) snapshot() ([]*profile.Profile, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*profile.Profile, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.profiles[id])
	}
	return out, m.current
}
