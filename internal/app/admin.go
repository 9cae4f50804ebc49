package app

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"quizmaster/internal/bank"
	"quizmaster/internal/domain"
	"quizmaster/internal/registry"
)

// confirmWindow is how long an armed destructive action stays confirmable.
const confirmWindow = 3 * time.Second

// Credentials is the fixed admin login pair.
type Credentials struct {
	Email    string
	Password string
}

// PendingConfirmation is an armed destructive action awaiting a second press.
type PendingConfirmation struct {
	Action    string
	ExpiresAt time.Time
}

// Confirms reports whether a press on action within the window completes the
// two-step confirmation.
func (p PendingConfirmation) Confirms(action string, now time.Time) bool {
	return p.Action != "" && p.Action == action && now.Before(p.ExpiresAt)
}

// ConfirmGate implements the dashboard's two-press confirmation: the first
// press arms the action for confirmWindow, a second press on the same action
// within the window executes it. Pressing a different action re-arms.
type ConfirmGate struct {
	mu      sync.Mutex
	window  time.Duration
	clock   func() time.Time
	pending PendingConfirmation
}

func NewConfirmGate() *ConfirmGate {
	return &ConfirmGate{window: confirmWindow, clock: time.Now}
}

// NewConfirmGateWithClock is test-only for deterministic expiry.
func NewConfirmGateWithClock(window time.Duration, now func() time.Time) *ConfirmGate {
	return &ConfirmGate{window: window, clock: now}
}

// Press returns true when the press confirms the armed action; otherwise it
// arms (or re-arms) and returns false.
func (g *ConfirmGate) Press(action string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	if g.pending.Confirms(action, now) {
		g.pending = PendingConfirmation{}
		return true
	}
	g.pending = PendingConfirmation{Action: action, ExpiresAt: now.Add(g.window)}
	return false
}

// Pending exposes the armed action so views can render the countdown.
func (g *ConfirmGate) Pending() PendingConfirmation {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// SortOrder selects the dashboard's attempt ordering.
type SortOrder string

const (
	// SortByDate orders by submission date, newest first.
	SortByDate SortOrder = "date"
	// SortByScore orders by score, highest first.
	SortByScore SortOrder = "score"
	// SortByTime orders by time spent, fastest first.
	SortByTime SortOrder = "time"
)

// Query filters and orders the dashboard's attempt list.
type Query struct {
	Search string
	SortBy SortOrder
}

// Stats are the dashboard's aggregate cards.
type Stats struct {
	Total              int     `json:"total"`
	AverageScore       float64 `json:"avgScore"`
	AverageTimeSeconds int     `json:"avgTime"`
	HighScore          int     `json:"highScore"`
}

// Dashboard is one track's admin view.
type Dashboard struct {
	Track       string                       `json:"track"`
	Stats       Stats                        `json:"stats"`
	Attempts    []domain.QuizAttempt         `json:"attempts"`
	Banned      []domain.ParticipantIdentity `json:"banned"`
	ApprovedIDs []string                     `json:"approvedIds,omitempty"`
	Locked      bool                         `json:"locked"`
}

// AdminService serves the admin console: aggregate statistics over both
// tracks' attempts plus the mutating commands (delete-and-ban, restore, lock
// toggle, approval toggle), each destructive one behind the confirm gate.
type AdminService struct {
	creds      Credentials
	attempts   *AttemptService
	registries map[bank.Track]*registry.Registry
	state      StateRepository
	confirm    *ConfirmGate
}

func NewAdminService(creds Credentials, attempts *AttemptService, business, reading *registry.Registry, state StateRepository) *AdminService {
	return &AdminService{
		creds:    creds,
		attempts: attempts,
		registries: map[bank.Track]*registry.Registry{
			bank.TrackBusiness: business,
			bank.TrackReading:  reading,
		},
		state:   state,
		confirm: NewConfirmGate(),
	}
}

// Login checks the configured credential pair.
func (s *AdminService) Login(email, password string) error {
	if email != s.creds.Email || password != s.creds.Password {
		return domain.ErrBadCredentials
	}
	return nil
}

// Dashboard reads one track's attempts, ban list, approval list, and lock
// state, filtered and sorted per the query.
func (s *AdminService) Dashboard(ctx context.Context, track bank.Track, query Query) (Dashboard, error) {
	attempts, err := s.attempts.Attempts(ctx, track)
	if err != nil {
		return Dashboard{}, err
	}

	stats := computeStats(attempts)
	filtered := filterAttempts(attempts, query.Search)
	sortAttempts(filtered, query.SortBy)

	reg := s.registries[track]
	banned, err := reg.BannedIdentities(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	approved, err := reg.ApprovedIDs(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	locked, err := trackLocked(ctx, s.state, track)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Track:       track.String(),
		Stats:       stats,
		Attempts:    filtered,
		Banned:      banned,
		ApprovedIDs: approved,
		Locked:      locked,
	}, nil
}

// DeleteAttempt removes the attempt and bans its owner. The first call arms
// the confirmation and returns pending=true; a second call within the window
// executes. Deletion always bans; there is no delete without ban.
func (s *AdminService) DeleteAttempt(ctx context.Context, track bank.Track, attemptID string) (pending bool, err error) {
	if !s.confirm.Press("delete:" + track.String() + ":" + attemptID) {
		return true, nil
	}
	return false, s.attempts.DeleteAndBan(ctx, track, attemptID, s.registries[track])
}

// RestoreParticipant lifts a ban, again behind the two-press confirmation.
func (s *AdminService) RestoreParticipant(ctx context.Context, track bank.Track, participantID string) (pending bool, err error) {
	if !s.confirm.Press("restore:" + track.String() + ":" + participantID) {
		return true, nil
	}
	return false, s.registries[track].Unban(ctx, participantID)
}

// ToggleApproval flips a participant's track-2 approval behind the two-press
// confirmation. approved reports the new state once executed.
func (s *AdminService) ToggleApproval(ctx context.Context, participantID string) (approved, pending bool, err error) {
	if !s.confirm.Press("approval:" + participantID) {
		return false, true, nil
	}
	approved, err = s.registries[bank.TrackReading].ToggleApproval(ctx, participantID)
	return approved, false, err
}

// ToggleLock flips the track's lock flag and reports the new state. Sessions
// in flight observe the change and terminate.
func (s *AdminService) ToggleLock(ctx context.Context, track bank.Track) (bool, error) {
	locked, err := trackLocked(ctx, s.state, track)
	if err != nil {
		return false, err
	}
	if err := setTrackLocked(ctx, s.state, track, !locked); err != nil {
		return false, err
	}
	return !locked, nil
}

func computeStats(attempts []domain.QuizAttempt) Stats {
	stats := Stats{Total: len(attempts)}
	if len(attempts) == 0 {
		return stats
	}
	scoreSum, timeSum := 0, 0
	for _, attempt := range attempts {
		scoreSum += attempt.Score
		timeSum += attempt.TimeSpentSeconds
		if attempt.Score > stats.HighScore {
			stats.HighScore = attempt.Score
		}
	}
	stats.AverageScore = float64(scoreSum) / float64(len(attempts))
	stats.AverageTimeSeconds = timeSum / len(attempts)
	return stats
}

func filterAttempts(attempts []domain.QuizAttempt, search string) []domain.QuizAttempt {
	term := strings.ToLower(strings.TrimSpace(search))
	filtered := make([]domain.QuizAttempt, 0, len(attempts))
	for _, attempt := range attempts {
		if term == "" ||
			strings.Contains(strings.ToLower(attempt.Profile.FullName), term) ||
			strings.Contains(strings.ToLower(attempt.Profile.Email), term) ||
			strings.Contains(strings.ToLower(attempt.Profile.CollegeName), term) {
			filtered = append(filtered, attempt)
		}
	}
	return filtered
}

func sortAttempts(attempts []domain.QuizAttempt, order SortOrder) {
	sort.SliceStable(attempts, func(i, j int) bool {
		switch order {
		case SortByScore:
			return attempts[i].Score > attempts[j].Score
		case SortByTime:
			return attempts[i].TimeSpentSeconds < attempts[j].TimeSpentSeconds
		default:
			return attempts[i].SubmittedAt.After(attempts[j].SubmittedAt)
		}
	})
}
