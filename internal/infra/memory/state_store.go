package memory

import (
	"context"
	"sync"
)

// StateStore is an in-memory implementation of app.StateRepository, used when
// no Redis is configured and throughout the tests.
type StateStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

func NewStateStore() *StateStore {
	return &StateStore{
		data: make(map[string][]byte),
		subs: make(map[chan struct{}]struct{}),
	}
}

func (s *StateStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

func (s *StateStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	copied := make([]byte, len(value))
	copy(copied, value)
	s.data[key] = copied
	s.mu.Unlock()

	s.notify()
	return nil
}

// Update applies the mutator under the store lock, so read-modify-write
// cycles cannot interleave.
func (s *StateStore) Update(_ context.Context, key string, mutate func([]byte) ([]byte, error)) error {
	s.mu.Lock()
	next, err := mutate(s.data[key])
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.data[key] = next
	s.mu.Unlock()

	s.notify()
	return nil
}

// Subscribe registers a change observer. The channel carries no payload;
// observers re-read the keys they care about.
func (s *StateStore) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// notify raises a notification on every subscriber. A subscriber with one
// already pending is left alone; it will re-read anyway.
func (s *StateStore) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
