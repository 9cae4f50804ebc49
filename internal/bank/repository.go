package bank

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quizmaster/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Loader fetches question banks from a backing store (e.g., Postgres).
type Loader interface {
	LoadBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// Repository caches banks with TTL to avoid repeated backing-store hits.
type Repository struct {
	loader Loader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.QuestionBank
	expiresAt time.Time
}

func NewRepository(loader Loader, ttl time.Duration) *Repository {
	return &Repository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

// NewRepositoryWithClock is test-only for deterministic expiry.
func NewRepositoryWithClock(loader Loader, ttl time.Duration, now func() time.Time) *Repository {
	r := NewRepository(loader, ttl)
	r.clock = now
	return r
}

// Bank returns the track's question bank, loading through on cache miss.
func (r *Repository) Bank(ctx context.Context, track Track) (domain.QuestionBank, error) {
	bankID := track.BankID()
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[bankID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.bank, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[bankID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.bank, nil
		}
		r.mu.RUnlock()

		loaded, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.QuestionBank{}, err
		}

		r.mu.Lock()
		r.cache[bankID] = cachedBank{
			bank:      loaded,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return domain.QuestionBank{}, err
	}
	return result.(domain.QuestionBank), nil
}

func (r *Repository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticLoader serves the built-in banks; the Postgres loader can replace it
// when a database is configured.
type StaticLoader struct {
	banks map[string]domain.QuestionBank
}

// NewStaticLoader returns a loader over the compiled-in track banks.
func NewStaticLoader() *StaticLoader {
	return &StaticLoader{banks: map[string]domain.QuestionBank{
		businessBank.ID: businessBank,
		readingBank.ID:  readingBank,
	}}
}

// NewStaticLoaderWith is useful for tests that need a small custom bank.
func NewStaticLoaderWith(banks map[string]domain.QuestionBank) *StaticLoader {
	return &StaticLoader{banks: banks}
}

func (l *StaticLoader) LoadBank(_ context.Context, bankID string) (domain.QuestionBank, error) {
	if b, ok := l.banks[bankID]; ok {
		return b, nil
	}
	return domain.QuestionBank{}, domain.ErrBankNotFound
}
