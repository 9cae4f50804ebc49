package domain

import "errors"

var (
	// ErrInvalidCode is returned when an access code matches no identity.
	ErrInvalidCode = errors.New("invalid access code")
	// ErrAccessRevoked is returned when the code matches a banned identity.
	ErrAccessRevoked = errors.New("access permanently revoked")
	// ErrQuizLocked is returned when the track's lock flag is set.
	ErrQuizLocked = errors.New("quiz is locked")
	// ErrNotApproved is returned when a track-2 participant lacks approval.
	ErrNotApproved = errors.New("participation not yet approved")
	// ErrPrerequisiteIncomplete is returned when track 2 is attempted before track 1 is completed.
	ErrPrerequisiteIncomplete = errors.New("first quiz not completed")
	// ErrAlreadyCompleted is returned when a participant has already completed the track.
	ErrAlreadyCompleted = errors.New("quiz already completed")
	// ErrAttemptNotFound indicates the attempt id is no longer in the store.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAttemptInProgress indicates a create with an in-progress attempt still open.
	ErrAttemptInProgress = errors.New("attempt already in progress")
	// ErrAlreadySubmitted indicates a submit after the attempt was finalized.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrBadCredentials indicates a failed admin login.
	ErrBadCredentials = errors.New("invalid admin credentials")
)
