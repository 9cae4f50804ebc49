package app

import (
	"context"
	"errors"
	"strings"

	"quizmaster/internal/bank"
	"quizmaster/internal/domain"
	"quizmaster/internal/registry"
)

// accessCodeLength is validated locally before any registry lookup.
const accessCodeLength = 8

// AccessGate composes the registries and the attempt store into the login
// flows for both tracks.
type AccessGate struct {
	business *registry.Registry
	reading  *registry.Registry
	attempts *AttemptService
	engine   *Engine
	state    StateRepository
}

func NewAccessGate(business, reading *registry.Registry, attempts *AttemptService, engine *Engine, state StateRepository) *AccessGate {
	return &AccessGate{
		business: business,
		reading:  reading,
		attempts: attempts,
		engine:   engine,
		state:    state,
	}
}

// LoginBusiness authenticates a track-1 access code and starts (or resumes)
// the participant's session. The profile carries the registration details for
// a fresh attempt; a resumed attempt keeps the profile it was created with.
func (g *AccessGate) LoginBusiness(ctx context.Context, code string, profile domain.Profile) (*Session, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != accessCodeLength {
		return nil, domain.ErrInvalidCode
	}

	identity, err := g.business.Authenticate(ctx, normalized)
	if err != nil {
		return nil, err
	}

	locked, err := trackLocked(ctx, g.state, bank.TrackBusiness)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, domain.ErrQuizLocked
	}

	completed, err := g.attempts.HasCompleted(ctx, bank.TrackBusiness, identity.ID)
	if err != nil {
		return nil, err
	}
	if completed {
		return nil, domain.ErrAlreadyCompleted
	}

	if profile.FullName == "" {
		profile.FullName = identity.DisplayName
	}
	return g.startOrResume(ctx, bank.TrackBusiness, identity.ID, profile)
}

// LoginReading authenticates track 2. Access uses track-1 credentials with
// the track-2 gate chain: banned, quiz 1 completed, quiz 2 not yet completed,
// administrator approval, lock.
func (g *AccessGate) LoginReading(ctx context.Context, code string) (*Session, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != accessCodeLength {
		return nil, domain.ErrInvalidCode
	}

	identity, ok := g.business.Lookup(normalized)
	if !ok {
		return nil, domain.ErrInvalidCode
	}
	if banned, err := g.business.IsBanned(ctx, identity.ID); err != nil {
		return nil, err
	} else if banned {
		return nil, domain.ErrAccessRevoked
	}
	// A participant banned on this track can never authenticate either.
	if banned, err := g.reading.IsBanned(ctx, identity.ID); err != nil {
		return nil, err
	} else if banned {
		return nil, domain.ErrAccessRevoked
	}

	if completed, err := g.attempts.HasCompleted(ctx, bank.TrackBusiness, identity.ID); err != nil {
		return nil, err
	} else if !completed {
		return nil, domain.ErrPrerequisiteIncomplete
	}

	if completed, err := g.attempts.HasCompleted(ctx, bank.TrackReading, identity.ID); err != nil {
		return nil, err
	} else if completed {
		return nil, domain.ErrAlreadyCompleted
	}

	if approved, err := g.reading.IsApproved(ctx, identity.ID); err != nil {
		return nil, err
	} else if !approved {
		return nil, domain.ErrNotApproved
	}

	locked, err := trackLocked(ctx, g.state, bank.TrackReading)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, domain.ErrQuizLocked
	}

	return g.startOrResume(ctx, bank.TrackReading, identity.ID, domain.Profile{FullName: identity.DisplayName})
}

// startOrResume restores an in-progress attempt when one exists; otherwise a
// fresh attempt is created.
func (g *AccessGate) startOrResume(ctx context.Context, track bank.Track, participantID string, profile domain.Profile) (*Session, error) {
	attempt, found, err := g.attempts.FindInProgress(ctx, track, participantID)
	if err != nil {
		return nil, err
	}
	if !found {
		questions, err := g.engine.banks.Bank(ctx, track)
		if err != nil {
			return nil, err
		}
		attempt, err = g.attempts.Create(ctx, track, participantID, profile, len(questions.Questions))
		if err != nil {
			return nil, err
		}
	}
	return g.engine.Start(ctx, track, attempt)
}

// UserMessage renders an access error the way the login form shows it.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCode):
		return "Invalid access code. Please check and try again."
	case errors.Is(err, domain.ErrAccessRevoked):
		return "Your access has been permanently revoked by the administrator."
	case errors.Is(err, domain.ErrPrerequisiteIncomplete):
		return "You must complete Quiz 1 first before you can access Quiz 2."
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return "You have already completed this quiz. Each participant can only take the quiz once."
	case errors.Is(err, domain.ErrNotApproved):
		return "Your access has not been approved yet. Please wait for the administrator to approve your participation."
	case errors.Is(err, domain.ErrQuizLocked):
		return "The quiz is currently locked. Please wait for the administrator to unlock it."
	default:
		return err.Error()
	}
}
