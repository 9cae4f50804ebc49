package app

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"quizmaster/internal/bank"
	"quizmaster/internal/domain"
)

// Banner bans the owning participant when an attempt is deleted.
type Banner interface {
	Ban(ctx context.Context, id string) error
}

// AttemptService is the persisted attempt collection for both tracks. Every
// mutation goes through StateRepository.Update, so concurrent writers cannot
// lose each other's records, and every write raises a change notification.
type AttemptService struct {
	state StateRepository
	clock func() time.Time
}

func NewAttemptService(state StateRepository) *AttemptService {
	return &AttemptService{state: state, clock: time.Now}
}

// NewAttemptServiceWithClock is test-only for deterministic ids and timestamps.
func NewAttemptServiceWithClock(state StateRepository, now func() time.Time) *AttemptService {
	return &AttemptService{state: state, clock: now}
}

// Attempts returns the full collection for a track.
func (s *AttemptService) Attempts(ctx context.Context, track bank.Track) ([]domain.QuizAttempt, error) {
	raw, err := s.state.Get(ctx, track.AttemptsKey())
	if err != nil {
		return nil, err
	}
	return decodeAttempts(raw), nil
}

// ByID finds one attempt. The second return is false when the record is gone,
// which in-flight sessions treat as the forced-termination signal.
func (s *AttemptService) ByID(ctx context.Context, track bank.Track, attemptID string) (domain.QuizAttempt, bool, error) {
	attempts, err := s.Attempts(ctx, track)
	if err != nil {
		return domain.QuizAttempt{}, false, err
	}
	for _, attempt := range attempts {
		if attempt.ID == attemptID {
			return attempt, true, nil
		}
	}
	return domain.QuizAttempt{}, false, nil
}

// FindInProgress returns the participant's open attempt, if any. At most one
// exists per participant per track; Create enforces that by lookup.
func (s *AttemptService) FindInProgress(ctx context.Context, track bank.Track, participantID string) (domain.QuizAttempt, bool, error) {
	attempts, err := s.Attempts(ctx, track)
	if err != nil {
		return domain.QuizAttempt{}, false, err
	}
	for _, attempt := range attempts {
		if attempt.ParticipantID == participantID && attempt.Status == domain.StatusInProgress {
			return attempt, true, nil
		}
	}
	return domain.QuizAttempt{}, false, nil
}

// HasCompleted reports whether the participant has a completed attempt.
func (s *AttemptService) HasCompleted(ctx context.Context, track bank.Track, participantID string) (bool, error) {
	attempts, err := s.Attempts(ctx, track)
	if err != nil {
		return false, err
	}
	for _, attempt := range attempts {
		if attempt.ParticipantID == participantID && attempt.Status == domain.StatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

// Create appends a fresh in-progress attempt. It fails with
// ErrAttemptInProgress when the participant already has one open.
func (s *AttemptService) Create(ctx context.Context, track bank.Track, participantID string, profile domain.Profile, totalQuestions int) (domain.QuizAttempt, error) {
	now := s.clock()
	attempt := domain.QuizAttempt{
		ID:             strconv.FormatInt(now.UnixMilli(), 10),
		ParticipantID:  participantID,
		Profile:        profile,
		Answers:        map[int]string{},
		TotalQuestions: totalQuestions,
		StartedAt:      now,
		Status:         domain.StatusInProgress,
		FlagReasons:    []string{},
	}
	err := s.state.Update(ctx, track.AttemptsKey(), func(raw []byte) ([]byte, error) {
		attempts := decodeAttempts(raw)
		for _, existing := range attempts {
			if existing.ParticipantID == participantID && existing.Status == domain.StatusInProgress {
				return nil, domain.ErrAttemptInProgress
			}
		}
		return json.Marshal(append(attempts, attempt))
	})
	if err != nil {
		return domain.QuizAttempt{}, err
	}
	return attempt, nil
}

// Progress is a partial update; nil fields are left untouched.
type Progress struct {
	Answers          map[int]string
	CurrentQuestion  *int
	TimeSpentSeconds *int
}

// UpdateProgress merges progress into the attempt. A missing id is a silent
// no-op: the attempt was deleted and the session's watch will notice.
func (s *AttemptService) UpdateProgress(ctx context.Context, track bank.Track, attemptID string, progress Progress) error {
	return s.state.Update(ctx, track.AttemptsKey(), func(raw []byte) ([]byte, error) {
		attempts := decodeAttempts(raw)
		for i := range attempts {
			if attempts[i].ID != attemptID {
				continue
			}
			if progress.Answers != nil {
				attempts[i].Answers = progress.Answers
			}
			if progress.CurrentQuestion != nil {
				attempts[i].CurrentQuestion = *progress.CurrentQuestion
			}
			if progress.TimeSpentSeconds != nil {
				attempts[i].TimeSpentSeconds = *progress.TimeSpentSeconds
			}
			break
		}
		return json.Marshal(attempts)
	})
}

// Finalize scores the answers against the bank and completes the attempt.
// Scoring is pure and repeatable; the status transition and submission stamp
// are applied only on the first call, never reversed.
func (s *AttemptService) Finalize(ctx context.Context, track bank.Track, attemptID string, answers map[int]string, timeSpent int, questions domain.QuestionBank) (int, error) {
	score := questions.Score(answers)
	found := false
	err := s.state.Update(ctx, track.AttemptsKey(), func(raw []byte) ([]byte, error) {
		attempts := decodeAttempts(raw)
		for i := range attempts {
			if attempts[i].ID != attemptID {
				continue
			}
			found = true
			if attempts[i].Status == domain.StatusCompleted {
				break
			}
			attempts[i].Answers = answers
			attempts[i].Score = score
			attempts[i].TimeSpentSeconds = timeSpent
			attempts[i].SubmittedAt = s.clock()
			attempts[i].Status = domain.StatusCompleted
			break
		}
		return json.Marshal(attempts)
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domain.ErrAttemptNotFound
	}
	return score, nil
}

// Flag marks the attempt suspicious. isFlagged is monotonic and reasons are
// deduplicated by exact message; a missing id is a silent no-op.
func (s *AttemptService) Flag(ctx context.Context, track bank.Track, attemptID string, switchCount int, reason string) error {
	return s.state.Update(ctx, track.AttemptsKey(), func(raw []byte) ([]byte, error) {
		attempts := decodeAttempts(raw)
		for i := range attempts {
			if attempts[i].ID != attemptID {
				continue
			}
			attempts[i].TabSwitchCount = switchCount
			attempts[i].IsFlagged = true
			duplicate := false
			for _, existing := range attempts[i].FlagReasons {
				if existing == reason {
					duplicate = true
					break
				}
			}
			if !duplicate {
				attempts[i].FlagReasons = append(attempts[i].FlagReasons, reason)
			}
			break
		}
		return json.Marshal(attempts)
	})
}

// DeleteAndBan removes the attempt and bans its owner in one application-level
// action. There is no delete without ban.
func (s *AttemptService) DeleteAndBan(ctx context.Context, track bank.Track, attemptID string, banner Banner) error {
	owner := ""
	err := s.state.Update(ctx, track.AttemptsKey(), func(raw []byte) ([]byte, error) {
		attempts := decodeAttempts(raw)
		kept := attempts[:0]
		for _, attempt := range attempts {
			if attempt.ID == attemptID {
				owner = attempt.ParticipantID
				continue
			}
			kept = append(kept, attempt)
		}
		return json.Marshal(kept)
	})
	if err != nil {
		return err
	}
	if owner == "" {
		return nil
	}
	return banner.Ban(ctx, owner)
}
