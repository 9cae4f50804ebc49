package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quizmaster/internal/bank"
	"quizmaster/internal/domain"
)

// warningVisible is how long an anti-cheat warning stays on screen.
const warningVisible = 3 * time.Second

// Engine creates and resumes play sessions: one participant moving through a
// track's ordered question sequence under a countdown.
type Engine struct {
	attempts *AttemptService
	banks    *bank.Repository
	state    StateRepository
	clock    func() time.Time
}

func NewEngine(attempts *AttemptService, banks *bank.Repository, state StateRepository) *Engine {
	return &Engine{attempts: attempts, banks: banks, state: state, clock: time.Now}
}

// NewEngineWithClock is test-only for deterministic timestamps.
func NewEngineWithClock(attempts *AttemptService, banks *bank.Repository, state StateRepository, now func() time.Time) *Engine {
	return &Engine{attempts: attempts, banks: banks, state: state, clock: now}
}

// Start resumes the attempt's session and begins the countdown and the
// forced-termination watch. The caller must Close the session when the
// participant's view unmounts.
func (e *Engine) Start(ctx context.Context, track bank.Track, attempt domain.QuizAttempt) (*Session, error) {
	session, err := e.newSession(ctx, track, attempt)
	if err != nil {
		return nil, err
	}
	runCtx, cancel := context.WithCancel(context.Background())
	session.cancel = cancel
	go session.run(runCtx)
	return session, nil
}

func (e *Engine) newSession(ctx context.Context, track bank.Track, attempt domain.QuizAttempt) (*Session, error) {
	questions, err := e.banks.Bank(ctx, track)
	if err != nil {
		return nil, err
	}

	answers := make(map[int]string, len(attempt.Answers))
	for id, answer := range attempt.Answers {
		answers[id] = answer
	}
	limit := int(track.TimeLimit().Seconds())
	remaining := limit - attempt.TimeSpentSeconds
	if remaining < 0 {
		remaining = 0
	}
	index := attempt.CurrentQuestion
	if index < 0 || index >= len(questions.Questions) {
		index = 0
	}

	return &Session{
		engine:      e,
		track:       track,
		questions:   questions,
		attemptID:   attempt.ID,
		profile:     attempt.Profile,
		answers:     answers,
		index:       index,
		remaining:   remaining,
		timeLimit:   limit,
		tabSwitches: attempt.TabSwitchCount,
		events:      make(chan Event, 16),
		cancel:      func() {},
	}, nil
}

// IncidentKind classifies the adverse events the monitoring layer reports.
type IncidentKind string

const (
	// IncidentTabHidden fires on a visibility change to hidden.
	IncidentTabHidden IncidentKind = "tab-hidden"
	// IncidentWindowBlur fires on window blur while the page is visible.
	IncidentWindowBlur IncidentKind = "window-blur"
	// IncidentDevTools fires on a dev-tools-opening key combination.
	IncidentDevTools IncidentKind = "devtools"
	// IncidentClipboard fires on a suppressed copy, cut, or paste.
	IncidentClipboard IncidentKind = "clipboard"
	// IncidentContextMenu fires on a suppressed right-click.
	IncidentContextMenu IncidentKind = "context-menu"
	// IncidentShortcut fires on any other suppressed keyboard shortcut.
	IncidentShortcut IncidentKind = "shortcut"
)

// TerminationReason says why a session was forced to end.
type TerminationReason string

const (
	TerminatedLocked  TerminationReason = "locked"
	TerminatedRemoved TerminationReason = "removed"
)

// EventKind tags session events.
type EventKind string

const (
	EventTick       EventKind = "tick"
	EventWarning    EventKind = "warning"
	EventFlagged    EventKind = "flagged"
	EventTerminated EventKind = "terminated"
	EventCompleted  EventKind = "completed"
)

// Warning is a transient on-screen notice.
type Warning struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Result is the outcome of a finalized attempt.
type Result struct {
	Score            int `json:"score"`
	TotalQuestions   int `json:"totalQuestions"`
	TimeSpentSeconds int `json:"timeSpentSeconds"`
}

// Event is pushed to the session's observer.
type Event struct {
	Kind      EventKind         `json:"kind"`
	Remaining int               `json:"remaining,omitempty"`
	Warning   Warning           `json:"warning,omitempty"`
	FlagCount int               `json:"flagCount,omitempty"`
	Reason    TerminationReason `json:"reason,omitempty"`
	Result    *Result           `json:"result,omitempty"`
}

// QuestionView is a question with the correct answer stripped.
type QuestionView struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// Snapshot is the session state the participant's view renders.
type Snapshot struct {
	AttemptID      string         `json:"attemptId"`
	Track          string         `json:"track"`
	Passage        string         `json:"passage,omitempty"`
	Question       QuestionView   `json:"currentQuestion"`
	QuestionIndex  int            `json:"questionIndex"`
	TotalQuestions int            `json:"totalQuestions"`
	Answers        map[int]string `json:"answers"`
	StagedOption   string         `json:"stagedOption,omitempty"`
	Remaining      int            `json:"remaining"`
	TabSwitchCount int            `json:"tabSwitchCount"`
}

// Session drives one participant through a track. All methods are safe for
// concurrent use with the internal countdown goroutine.
type Session struct {
	engine    *Engine
	track     bank.Track
	questions domain.QuestionBank
	attemptID string
	profile   domain.Profile
	timeLimit int

	mu          sync.Mutex
	answers     map[int]string
	staged      string
	index       int
	remaining   int
	tabSwitches int
	submitting  bool
	ended       bool

	events chan Event
	cancel context.CancelFunc
}

// Events is the session's observer channel. Stale events are dropped rather
// than blocking the countdown.
func (s *Session) Events() <-chan Event {
	return s.events
}

// AttemptID identifies the underlying attempt record.
func (s *Session) AttemptID() string {
	return s.attemptID
}

// Profile returns the participant profile resolved at login.
func (s *Session) Profile() domain.Profile {
	return s.profile
}

// Close tears down the countdown and watch goroutine.
func (s *Session) Close() {
	s.cancel()
}

// run drives the countdown and the forced-termination watch. Lock and
// deletion are observed event-driven via the store's change notifications;
// the one-second tick doubles as a bounded polling fallback.
func (s *Session) run(ctx context.Context) {
	notify, cancelSub := s.engine.state.Subscribe()
	defer cancelSub()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.tick(ctx) {
				return
			}
		case <-notify:
			if s.checkExternal(ctx) {
				return
			}
		}
	}
}

// tick advances the countdown by one second and persists progress. It returns
// true when the session has ended.
func (s *Session) tick(ctx context.Context) bool {
	if s.checkExternal(ctx) {
		return true
	}

	s.mu.Lock()
	if s.ended || s.submitting {
		s.mu.Unlock()
		return true
	}
	s.remaining--
	if s.remaining < 0 {
		s.remaining = 0
	}
	expired := s.remaining == 0
	remaining := s.remaining
	s.mu.Unlock()

	s.persistProgress(ctx)
	s.emit(Event{Kind: EventTick, Remaining: remaining})

	if expired {
		// Auto-submit captures the staged selection too; losing an
		// uncommitted final answer on timeout would be a data-loss bug.
		_ = s.finalize(ctx)
		return true
	}
	return false
}

// checkExternal polls the two forced-termination signals: the track lock and
// the continued existence of this attempt in the store.
func (s *Session) checkExternal(ctx context.Context) bool {
	s.mu.Lock()
	if s.ended || s.submitting {
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()

	locked, err := trackLocked(ctx, s.engine.state, s.track)
	if err == nil && locked {
		s.terminate(TerminatedLocked)
		return true
	}
	_, found, err := s.engine.attempts.ByID(ctx, s.track, s.attemptID)
	if err == nil && !found {
		s.terminate(TerminatedRemoved)
		return true
	}
	return false
}

func (s *Session) terminate(reason TerminationReason) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.mu.Unlock()

	s.emit(Event{Kind: EventTerminated, Reason: reason})
	s.cancel()
}

// Select stages an option for the current question. Staging is local; the
// choice is committed to answers only on navigation or submit.
func (s *Session) Select(option string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || s.submitting {
		return
	}
	s.staged = option
}

// Next commits the staged selection and moves forward.
func (s *Session) Next(ctx context.Context) {
	s.navigate(ctx, func(index int) int {
		if index < len(s.questions.Questions)-1 {
			return index + 1
		}
		return index
	})
}

// Previous commits the staged selection and moves back.
func (s *Session) Previous(ctx context.Context) {
	s.navigate(ctx, func(index int) int {
		if index > 0 {
			return index - 1
		}
		return index
	})
}

// Goto commits the staged selection and jumps to a question.
func (s *Session) Goto(ctx context.Context, index int) {
	s.navigate(ctx, func(int) int {
		if index >= 0 && index < len(s.questions.Questions) {
			return index
		}
		return s.index
	})
}

func (s *Session) navigate(ctx context.Context, move func(int) int) {
	s.mu.Lock()
	if s.ended || s.submitting {
		s.mu.Unlock()
		return
	}
	s.commitStagedLocked()
	s.index = move(s.index)
	// Restore the committed answer for the question now shown.
	s.staged = s.answers[s.questions.Questions[s.index].ID]
	s.mu.Unlock()

	s.persistProgress(ctx)
}

// commitStagedLocked writes the staged choice into answers for the current
// question. Caller holds s.mu.
func (s *Session) commitStagedLocked() {
	if s.staged == "" {
		return
	}
	s.answers[s.questions.Questions[s.index].ID] = s.staged
}

// Submit commits the staged selection and finalizes the attempt.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	if err := s.finalize(ctx); err != nil {
		return Result{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Result{
		Score:            s.questions.Score(s.answers),
		TotalQuestions:   len(s.questions.Questions),
		TimeSpentSeconds: s.timeLimit - s.remaining,
	}, nil
}

// finalize runs exactly once; the latch covers the race between the timer
// path and a concurrent manual submit.
func (s *Session) finalize(ctx context.Context) error {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return domain.ErrAlreadySubmitted
	}
	if s.submitting {
		s.mu.Unlock()
		return domain.ErrAlreadySubmitted
	}
	s.submitting = true
	s.commitStagedLocked()
	answers := make(map[int]string, len(s.answers))
	for id, answer := range s.answers {
		answers[id] = answer
	}
	timeSpent := s.timeLimit - s.remaining
	s.mu.Unlock()

	score, err := s.engine.attempts.Finalize(ctx, s.track, s.attemptID, answers, timeSpent, s.questions)
	if err != nil {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
		if err == domain.ErrAttemptNotFound {
			s.terminate(TerminatedRemoved)
		}
		return err
	}

	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()

	s.emit(Event{Kind: EventCompleted, Result: &Result{
		Score:            score,
		TotalQuestions:   len(s.questions.Questions),
		TimeSpentSeconds: timeSpent,
	}})
	s.cancel()
	return nil
}

// ReportIncident records an adverse event from the monitoring layer. Focus
// loss increments the monotonic switch counter and flags the attempt;
// dev-tools attempts flag without incrementing; blocked input only warns.
func (s *Session) ReportIncident(ctx context.Context, kind IncidentKind) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}

	now := s.engine.clock()
	switch kind {
	case IncidentTabHidden, IncidentWindowBlur:
		s.tabSwitches++
		count := s.tabSwitches
		s.mu.Unlock()

		reason := fmt.Sprintf("Tab switched (count: %d)", count)
		message := fmt.Sprintf("⚠️ Tab switch detected! (%d %s). This has been flagged.", count, plural(count, "time"))
		if kind == IncidentWindowBlur {
			reason = fmt.Sprintf("Window lost focus (count: %d)", count)
			message = fmt.Sprintf("⚠️ You left the quiz window! (%d %s). This has been flagged.", count, plural(count, "time"))
		}
		_ = s.engine.attempts.Flag(ctx, s.track, s.attemptID, count, reason)
		s.emit(Event{Kind: EventFlagged, FlagCount: count})
		s.emit(Event{Kind: EventWarning, Warning: Warning{Message: message, ExpiresAt: now.Add(warningVisible)}})

	case IncidentDevTools:
		count := s.tabSwitches
		s.mu.Unlock()
		_ = s.engine.attempts.Flag(ctx, s.track, s.attemptID, count, "Attempted to open DevTools")
		s.emit(Event{Kind: EventFlagged, FlagCount: count})
		s.emit(Event{Kind: EventWarning, Warning: Warning{Message: "Keyboard shortcuts are disabled during the quiz!", ExpiresAt: now.Add(warningVisible)}})

	case IncidentClipboard:
		s.mu.Unlock()
		s.emit(Event{Kind: EventWarning, Warning: Warning{Message: "Copy/Paste/Cut is disabled during the quiz!", ExpiresAt: now.Add(warningVisible)}})

	case IncidentContextMenu:
		s.mu.Unlock()
		s.emit(Event{Kind: EventWarning, Warning: Warning{Message: "Right-click is disabled during the quiz!", ExpiresAt: now.Add(warningVisible)}})

	default:
		s.mu.Unlock()
		s.emit(Event{Kind: EventWarning, Warning: Warning{Message: "Keyboard shortcuts are disabled during the quiz!", ExpiresAt: now.Add(warningVisible)}})
	}
}

// Snapshot renders the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	question := s.questions.Questions[s.index]
	answers := make(map[int]string, len(s.answers))
	for id, answer := range s.answers {
		answers[id] = answer
	}
	return Snapshot{
		AttemptID: s.attemptID,
		Track:     s.track.String(),
		Passage:   s.questions.Passage,
		Question: QuestionView{
			ID:      question.ID,
			Prompt:  question.Prompt,
			Options: question.Options,
		},
		QuestionIndex:  s.index,
		TotalQuestions: len(s.questions.Questions),
		Answers:        answers,
		StagedOption:   s.staged,
		Remaining:      s.remaining,
		TabSwitchCount: s.tabSwitches,
	}
}

// persistProgress writes answers, position, and elapsed time through to the
// store. This is the durability mechanism: a reconnect resumes from here.
func (s *Session) persistProgress(ctx context.Context) {
	s.mu.Lock()
	answers := make(map[int]string, len(s.answers))
	for id, answer := range s.answers {
		answers[id] = answer
	}
	index := s.index
	timeSpent := s.timeLimit - s.remaining
	s.mu.Unlock()

	_ = s.engine.attempts.UpdateProgress(ctx, s.track, s.attemptID, Progress{
		Answers:          answers,
		CurrentQuestion:  &index,
		TimeSpentSeconds: &timeSpent,
	})
}

// emit never blocks the countdown; when the observer lags, the oldest event
// is dropped to make room.
func (s *Session) emit(event Event) {
	select {
	case s.events <- event:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- event:
		default:
		}
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
