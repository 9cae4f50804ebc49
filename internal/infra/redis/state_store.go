package redis

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// updateAttempts bounds the optimistic-lock retry loop.
const updateAttempts = 5

// StateStore is a Redis-backed implementation of app.StateRepository.
// Notes:
//   - Values are plain strings under the shared key space (JSON arrays plus
//     the "true"/"false" lock flags), so any other client of the same Redis
//     sees the same shape.
//   - Update uses WATCH for optimistic concurrency; a torn read-modify-write
//     is retried rather than silently overwritten.
//   - Change notifications fan out to in-process subscribers after every
//     successful write; cross-instance delivery would pair this with Redis
//     pub/sub.
type StateStore struct {
	client *redis.Client

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{
		client: client,
		subs:   make(map[chan struct{}]struct{}),
	}
}

func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *StateStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *StateStore) Update(ctx context.Context, key string, mutate func([]byte) ([]byte, error)) error {
	txn := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return err
		}
		next, err := mutate(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < updateAttempts; i++ {
		err = s.client.Watch(ctx, txn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

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
