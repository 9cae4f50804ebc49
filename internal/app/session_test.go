package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"quizmaster/internal/bank"
	"quizmaster/internal/domain"
	"quizmaster/internal/infra/memory"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testQuestions() domain.QuestionBank {
	return domain.QuestionBank{
		ID: "quiz1",
		Questions: []domain.Question{
			{ID: 1, Prompt: "first", Options: []string{"a", "b", "c"}, CorrectAnswer: "a"},
			{ID: 2, Prompt: "second", Options: []string{"d", "e", "f"}, CorrectAnswer: "e"},
			{ID: 3, Prompt: "third", Options: []string{"g", "h", "i"}, CorrectAnswer: "i"},
		},
	}
}

// newQuizSession builds a session over a three-question bank without starting
// the countdown goroutine, so tests can drive tick and checkExternal directly.
func newQuizSession(t *testing.T) (*Session, *Engine, *memory.StateStore, domain.QuizAttempt) {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStateStore()
	clock := &stepClock{now: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
	attempts := NewAttemptServiceWithClock(store, clock.Now)
	banks := bank.NewRepository(bank.NewStaticLoaderWith(map[string]domain.QuestionBank{
		"quiz1": testQuestions(),
	}), time.Minute)
	engine := NewEngineWithClock(attempts, banks, store, clock.Now)

	attempt, err := attempts.Create(ctx, bank.TrackBusiness, "user-01", domain.Profile{FullName: "RISHNI X"}, 3)
	if err != nil {
		t.Fatalf("create attempt: %v", err)
	}
	session, err := engine.newSession(ctx, bank.TrackBusiness, attempt)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session, engine, store, attempt
}

func drainEvents(s *Session) []Event {
	var events []Event
	for {
		select {
		case event := <-s.events:
			events = append(events, event)
		default:
			return events
		}
	}
}

func storedAttempt(t *testing.T, engine *Engine, id string) domain.QuizAttempt {
	t.Helper()
	attempt, found, err := engine.attempts.ByID(context.Background(), bank.TrackBusiness, id)
	if err != nil {
		t.Fatalf("load attempt: %v", err)
	}
	if !found {
		t.Fatalf("attempt %s not found", id)
	}
	return attempt
}

func TestStagedSelectionCommitsOnNavigation(t *testing.T) {
	ctx := context.Background()
	session, engine, _, attempt := newQuizSession(t)

	session.Select("a")
	snap := session.Snapshot()
	if snap.StagedOption != "a" {
		t.Fatalf("expected staged option a, got %q", snap.StagedOption)
	}
	if len(snap.Answers) != 0 {
		t.Fatalf("staging must not commit, got answers %v", snap.Answers)
	}

	session.Next(ctx)
	snap = session.Snapshot()
	if snap.QuestionIndex != 1 {
		t.Fatalf("expected index 1, got %d", snap.QuestionIndex)
	}
	if snap.Answers[1] != "a" {
		t.Fatalf("expected committed answer a for question 1, got %v", snap.Answers)
	}

	stored := storedAttempt(t, engine, attempt.ID)
	if stored.Answers[1] != "a" || stored.CurrentQuestion != 1 {
		t.Fatalf("expected persisted answer and position, got %+v", stored)
	}
}

func TestNavigationRestoresCommittedAnswer(t *testing.T) {
	ctx := context.Background()
	session, _, _, _ := newQuizSession(t)

	session.Select("a")
	session.Next(ctx)
	session.Previous(ctx)

	snap := session.Snapshot()
	if snap.QuestionIndex != 0 {
		t.Fatalf("expected index 0, got %d", snap.QuestionIndex)
	}
	if snap.StagedOption != "a" {
		t.Fatalf("expected staged option restored to a, got %q", snap.StagedOption)
	}
}

func TestGotoIgnoresOutOfRangeIndex(t *testing.T) {
	ctx := context.Background()
	session, _, _, _ := newQuizSession(t)

	session.Goto(ctx, 2)
	if snap := session.Snapshot(); snap.QuestionIndex != 2 {
		t.Fatalf("expected index 2, got %d", snap.QuestionIndex)
	}
	session.Goto(ctx, 5)
	if snap := session.Snapshot(); snap.QuestionIndex != 2 {
		t.Fatalf("out-of-range goto must not move, got %d", snap.QuestionIndex)
	}
	session.Goto(ctx, -1)
	if snap := session.Snapshot(); snap.QuestionIndex != 2 {
		t.Fatalf("negative goto must not move, got %d", snap.QuestionIndex)
	}
}

func TestTickCountsDownAndPersists(t *testing.T) {
	ctx := context.Background()
	session, engine, _, attempt := newQuizSession(t)

	limit := int(bank.TrackBusiness.TimeLimit().Seconds())
	if session.tick(ctx) {
		t.Fatalf("tick must not end a fresh session")
	}
	snap := session.Snapshot()
	if snap.Remaining != limit-1 {
		t.Fatalf("expected remaining %d, got %d", limit-1, snap.Remaining)
	}

	stored := storedAttempt(t, engine, attempt.ID)
	if stored.TimeSpentSeconds != 1 {
		t.Fatalf("expected 1 second persisted, got %d", stored.TimeSpentSeconds)
	}

	events := drainEvents(session)
	if len(events) == 0 || events[len(events)-1].Kind != EventTick {
		t.Fatalf("expected a tick event, got %+v", events)
	}
}

func TestTimeoutAutoSubmitsStagedAnswer(t *testing.T) {
	ctx := context.Background()
	session, engine, _, attempt := newQuizSession(t)

	session.mu.Lock()
	session.remaining = 1
	session.mu.Unlock()

	// Staged but never navigated away from. The auto-submit must still
	// capture it.
	session.Select("a")

	if !session.tick(ctx) {
		t.Fatalf("expected tick at zero to end the session")
	}

	stored := storedAttempt(t, engine, attempt.ID)
	if stored.Status != domain.StatusCompleted {
		t.Fatalf("expected completed attempt, got %s", stored.Status)
	}
	if stored.Answers[1] != "a" || stored.Score != 1 {
		t.Fatalf("expected staged answer scored, got answers=%v score=%d", stored.Answers, stored.Score)
	}

	events := drainEvents(session)
	completed := false
	for _, event := range events {
		if event.Kind == EventCompleted && event.Result != nil && event.Result.Score == 1 {
			completed = true
		}
	}
	if !completed {
		t.Fatalf("expected completed event with score 1, got %+v", events)
	}
}

func TestSubmitIsSingleShot(t *testing.T) {
	ctx := context.Background()
	session, engine, _, attempt := newQuizSession(t)

	session.Select("a")
	session.Next(ctx)
	session.Select("e")

	result, err := session.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 2 || result.TotalQuestions != 3 {
		t.Fatalf("expected 2/3, got %+v", result)
	}

	if _, err := session.Submit(ctx); err != domain.ErrAlreadySubmitted {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}

	stored := storedAttempt(t, engine, attempt.ID)
	if stored.Status != domain.StatusCompleted || stored.Score != 2 {
		t.Fatalf("expected completed attempt with score 2, got %+v", stored)
	}
}

func TestLockTerminatesSession(t *testing.T) {
	ctx := context.Background()
	session, _, store, _ := newQuizSession(t)

	if err := store.Set(ctx, bank.TrackBusiness.LockKey(), []byte("true")); err != nil {
		t.Fatalf("set lock: %v", err)
	}
	if !session.checkExternal(ctx) {
		t.Fatalf("expected lock to end the session")
	}

	events := drainEvents(session)
	if len(events) != 1 || events[0].Kind != EventTerminated || events[0].Reason != TerminatedLocked {
		t.Fatalf("expected locked termination, got %+v", events)
	}
}

func TestDeletionTerminatesSession(t *testing.T) {
	ctx := context.Background()
	session, _, store, _ := newQuizSession(t)

	if err := store.Set(ctx, bank.TrackBusiness.AttemptsKey(), []byte("[]")); err != nil {
		t.Fatalf("clear attempts: %v", err)
	}
	if !session.checkExternal(ctx) {
		t.Fatalf("expected deletion to end the session")
	}

	events := drainEvents(session)
	if len(events) != 1 || events[0].Kind != EventTerminated || events[0].Reason != TerminatedRemoved {
		t.Fatalf("expected removed termination, got %+v", events)
	}
}

func TestFocusIncidentsAccumulate(t *testing.T) {
	ctx := context.Background()
	session, engine, _, attempt := newQuizSession(t)

	session.ReportIncident(ctx, IncidentTabHidden)
	session.ReportIncident(ctx, IncidentTabHidden)
	session.ReportIncident(ctx, IncidentWindowBlur)

	stored := storedAttempt(t, engine, attempt.ID)
	if stored.TabSwitchCount != 3 || !stored.IsFlagged {
		t.Fatalf("expected 3 flagged switches, got count=%d flagged=%v", stored.TabSwitchCount, stored.IsFlagged)
	}
	want := []string{
		"Tab switched (count: 1)",
		"Tab switched (count: 2)",
		"Window lost focus (count: 3)",
	}
	if len(stored.FlagReasons) != len(want) {
		t.Fatalf("expected %d reasons, got %v", len(want), stored.FlagReasons)
	}
	for i, reason := range want {
		if stored.FlagReasons[i] != reason {
			t.Fatalf("expected reason %q at %d, got %q", reason, i, stored.FlagReasons[i])
		}
	}

	events := drainEvents(session)
	var warnings []string
	for _, event := range events {
		if event.Kind == EventWarning {
			warnings = append(warnings, event.Warning.Message)
		}
	}
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", warnings)
	}
	if warnings[0] != "⚠️ Tab switch detected! (1 time). This has been flagged." {
		t.Fatalf("unexpected first warning: %q", warnings[0])
	}
	if warnings[2] != "⚠️ You left the quiz window! (3 times). This has been flagged." {
		t.Fatalf("unexpected blur warning: %q", warnings[2])
	}
}

func TestDevToolsIncidentFlagsWithoutCounting(t *testing.T) {
	ctx := context.Background()
	session, engine, _, attempt := newQuizSession(t)

	session.ReportIncident(ctx, IncidentDevTools)
	session.ReportIncident(ctx, IncidentDevTools)

	stored := storedAttempt(t, engine, attempt.ID)
	if stored.TabSwitchCount != 0 {
		t.Fatalf("devtools must not count as a tab switch, got %d", stored.TabSwitchCount)
	}
	if !stored.IsFlagged {
		t.Fatalf("expected flagged attempt")
	}
	if len(stored.FlagReasons) != 1 || stored.FlagReasons[0] != "Attempted to open DevTools" {
		t.Fatalf("expected single deduplicated devtools reason, got %v", stored.FlagReasons)
	}
}

func TestBlockedInputOnlyWarns(t *testing.T) {
	ctx := context.Background()
	session, engine, _, attempt := newQuizSession(t)

	session.ReportIncident(ctx, IncidentClipboard)
	session.ReportIncident(ctx, IncidentContextMenu)
	session.ReportIncident(ctx, IncidentShortcut)

	stored := storedAttempt(t, engine, attempt.ID)
	if stored.IsFlagged || len(stored.FlagReasons) != 0 {
		t.Fatalf("blocked input must not flag, got %+v", stored)
	}

	events := drainEvents(session)
	if len(events) != 3 {
		t.Fatalf("expected 3 warnings, got %+v", events)
	}
	want := []string{
		"Copy/Paste/Cut is disabled during the quiz!",
		"Right-click is disabled during the quiz!",
		"Keyboard shortcuts are disabled during the quiz!",
	}
	for i, message := range want {
		if events[i].Kind != EventWarning || events[i].Warning.Message != message {
			t.Fatalf("expected warning %q, got %+v", message, events[i])
		}
	}
}

func TestResumeRestoresRemainingAndPosition(t *testing.T) {
	ctx := context.Background()
	_, engine, _, attempt := newQuizSession(t)

	attempt.TimeSpentSeconds = 100
	attempt.CurrentQuestion = 2
	attempt.TabSwitchCount = 2
	attempt.Answers = map[int]string{1: "a"}

	session, err := engine.newSession(ctx, bank.TrackBusiness, attempt)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	snap := session.Snapshot()
	limit := int(bank.TrackBusiness.TimeLimit().Seconds())
	if snap.Remaining != limit-100 {
		t.Fatalf("expected remaining %d, got %d", limit-100, snap.Remaining)
	}
	if snap.QuestionIndex != 2 || snap.TabSwitchCount != 2 || snap.Answers[1] != "a" {
		t.Fatalf("expected restored position and answers, got %+v", snap)
	}

	attempt.CurrentQuestion = 99
	session, err = engine.newSession(ctx, bank.TrackBusiness, attempt)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if snap := session.Snapshot(); snap.QuestionIndex != 0 {
		t.Fatalf("out-of-range position must reset to 0, got %d", snap.QuestionIndex)
	}
}
