package content

import (
	"sync"
	"sync/atomic"
)

// Store serves the current snapshot and swaps in a new one on reload
type Store struct {
	dir         string
	defaultCity string

	mu      sync.Mutex // serializes reloads
	current atomic.Pointer[Snapshot]
}

// NewStore loads the initial snapshot from dir
func NewStore(dir, defaultCity string) (*Store, error) {
	s := &Store{dir: dir, defaultCity: defaultCity}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore wraps a prebuilt snapshot. Reload is a no-op that returns it.
func NewStaticStore(snap *Snapshot) *Store {
	s := &Store{}
	s.current.Store(snap)
	return s
}

// Current returns the snapshot to use for one request
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload rebuilds the snapshot from disk. On failure the previous snapshot stays current.
func (s *Store) Reload() (*Snapshot, error) {
	if s.dir == "" {
		return s.Current(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := Load(s.dir, s.defaultCity)
	if err != nil {
		return nil, err
	}
	s.current.Store(snap)
	return snap, nil
}
