package bank

import "time"

// Track identifies one of the two independent quizzes. Each track carries its
// own question bank, registry, and storage namespace; everything else (the
// session engine, the attempt store contract) is shared.
type Track int

const (
	// TrackBusiness is the business analytics quiz.
	TrackBusiness Track = 1
	// TrackReading is the passage-based reading comprehension quiz.
	TrackReading Track = 2
)

func (t Track) String() string {
	if t == TrackReading {
		return "quiz2"
	}
	return "quiz1"
}

// BankID is the identifier the bank loader resolves for this track.
func (t Track) BankID() string {
	if t == TrackReading {
		return "quiz2"
	}
	return "quiz1"
}

// TimeLimit is the track's countdown budget.
func (t Track) TimeLimit() time.Duration {
	if t == TrackReading {
		return 10 * time.Minute
	}
	return 20 * time.Minute
}

// Storage namespace. The key names are shared with every other view of the
// state store and must not change.

func (t Track) AttemptsKey() string {
	if t == TrackReading {
		return "quiz2Attempts"
	}
	return "quizAttempts"
}

func (t Track) LockKey() string {
	if t == TrackReading {
		return "quiz2Locked"
	}
	return "quizLocked"
}

func (t Track) BannedKey() string {
	if t == TrackReading {
		return "quiz2BannedUsers"
	}
	return "bannedUsers"
}

// ApprovedKey is the track-2 approval set; track 1 has no approval gate.
func (t Track) ApprovedKey() string {
	if t == TrackReading {
		return "quiz2ApprovedUsers"
	}
	return ""
}
