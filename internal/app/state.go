package app

import (
	"context"
	"encoding/json"

	"quizmaster/internal/bank"
	"quizmaster/internal/domain"
)

// StateRepository abstracts the shared key-value state every view reads and
// writes (in-memory, Redis, etc). Update applies the mutator atomically so
// concurrent writers cannot tear a read-modify-write cycle. A nil value from
// Get means the key is absent.
//
// Subscribe returns a change notification channel with no payload; observers
// react by re-reading the relevant keys. Implementations raise a notification
// after every local write so other views refresh in near real time.
type StateRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Update(ctx context.Context, key string, mutate func([]byte) ([]byte, error)) error
	Subscribe() (<-chan struct{}, func())
}

// decodeAttempts treats missing or malformed data as an empty collection.
func decodeAttempts(raw []byte) []domain.QuizAttempt {
	if len(raw) == 0 {
		return []domain.QuizAttempt{}
	}
	var attempts []domain.QuizAttempt
	if err := json.Unmarshal(raw, &attempts); err != nil {
		return []domain.QuizAttempt{}
	}
	return attempts
}

// trackLocked reads the track's lock flag. The flag is persisted as the
// literal string "true"/"false".
func trackLocked(ctx context.Context, state StateRepository, track bank.Track) (bool, error) {
	raw, err := state.Get(ctx, track.LockKey())
	if err != nil {
		return false, err
	}
	return string(raw) == "true", nil
}

func setTrackLocked(ctx context.Context, state StateRepository, track bank.Track, locked bool) error {
	value := "false"
	if locked {
		value = "true"
	}
	return state.Set(ctx, track.LockKey(), []byte(value))
}
