package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"quizmaster/internal/app"
	"quizmaster/internal/bank"
	"quizmaster/internal/domain"
	"quizmaster/internal/infra/memory"
	"quizmaster/internal/registry"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// testEnv wires the full application over the in-memory store with the real
// provisioned registries and built-in banks.
type testEnv struct {
	clock    *fakeClock
	store    *memory.StateStore
	attempts *app.AttemptService
	banks    *bank.Repository
	business *registry.Registry
	reading  *registry.Registry
	engine   *app.Engine
	gate     *app.AccessGate
	admin    *app.AdminService
}

func newTestEnv() *testEnv {
	clock := newFakeClock()
	store := memory.NewStateStore()
	attempts := app.NewAttemptServiceWithClock(store, clock.Now)
	banks := bank.NewRepository(bank.NewStaticLoader(), time.Minute)
	business := registry.NewBusiness(store)
	reading := registry.NewReading(store)
	engine := app.NewEngineWithClock(attempts, banks, store, clock.Now)
	gate := app.NewAccessGate(business, reading, attempts, engine, store)
	admin := app.NewAdminService(app.Credentials{Email: "admin@quiz.com", Password: "admin123"}, attempts, business, reading, store)
	return &testEnv{
		clock:    clock,
		store:    store,
		attempts: attempts,
		banks:    banks,
		business: business,
		reading:  reading,
		engine:   engine,
		gate:     gate,
		admin:    admin,
	}
}

// bankFor loads a track's built-in bank.
func (e *testEnv) bankFor(t *testing.T, track bank.Track) domain.QuestionBank {
	t.Helper()
	loaded, err := e.banks.Bank(context.Background(), track)
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	return loaded
}

// correctAnswers builds a full-credit answer map for the bank.
func correctAnswers(questions domain.QuestionBank) map[int]string {
	answers := make(map[int]string, len(questions.Questions))
	for _, q := range questions.Questions {
		answers[q.ID] = q.CorrectAnswer
	}
	return answers
}

// completeTrack creates and finalizes an attempt in one step. The clock is
// advanced a millisecond first so every attempt gets a distinct id.
func (e *testEnv) completeTrack(t *testing.T, track bank.Track, participantID string, profile domain.Profile, answers map[int]string, timeSpent int) domain.QuizAttempt {
	t.Helper()
	ctx := context.Background()
	questions := e.bankFor(t, track)

	e.clock.Advance(time.Millisecond)
	attempt, err := e.attempts.Create(ctx, track, participantID, profile, len(questions.Questions))
	if err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	if _, err := e.attempts.Finalize(ctx, track, attempt.ID, answers, timeSpent, questions); err != nil {
		t.Fatalf("finalize attempt: %v", err)
	}
	return attempt
}
