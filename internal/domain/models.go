package domain

import "time"

// ParticipantIdentity is a pre-provisioned participant. Identities are defined at
// build time and never created or destroyed at runtime.
type ParticipantIdentity struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	AccessCode  string `json:"accessCode"`
}

// Profile carries the registration details shown on the admin dashboard.
type Profile struct {
	FullName    string `json:"fullName"`
	CollegeName string `json:"collegeName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// AttemptStatus is the lifecycle state of an attempt. The only legal transition
// is StatusInProgress -> StatusCompleted.
type AttemptStatus string

const (
	StatusInProgress AttemptStatus = "in-progress"
	StatusCompleted  AttemptStatus = "completed"
)

// QuizAttempt is one participant's play-through record for a track.
// JSON tags match the persisted shape shared with every other view.
type QuizAttempt struct {
	ID               string         `json:"id"`
	ParticipantID    string         `json:"registeredUserId,omitempty"`
	Profile          Profile        `json:"userDetails"`
	Answers          map[int]string `json:"answers"`
	Score            int            `json:"score"`
	TotalQuestions   int            `json:"totalQuestions"`
	TimeSpentSeconds int            `json:"timeSpentSeconds"`
	StartedAt        time.Time      `json:"startedAt"`
	SubmittedAt      time.Time      `json:"submittedAt,omitempty"`
	Status           AttemptStatus  `json:"status"`
	CurrentQuestion  int            `json:"currentQuestion"`
	TabSwitchCount   int            `json:"tabSwitchCount"`
	IsFlagged        bool           `json:"isFlagged"`
	FlagReasons      []string       `json:"flagReasons"`
}

// Question is immutable reference data: a prompt with four or five options, of
// which exactly one matches CorrectAnswer by string equality.
type Question struct {
	ID            int      `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// QuestionBank is the full ordered question set for one track. Track 2 binds
// its questions to a fixed reading passage.
type QuestionBank struct {
	ID        string     `json:"id"`
	Passage   string     `json:"passage,omitempty"`
	Questions []Question `json:"questions"`
}

// Score tallies exact-match answers against the bank. Unanswered questions
// count as wrong; there is no partial credit. Re-running over the same answers
// yields the same score.
func (b QuestionBank) Score(answers map[int]string) int {
	score := 0
	for _, q := range b.Questions {
		if answer, ok := answers[q.ID]; ok && answer == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// QuestionByID looks a question up in the bank.
func (b QuestionBank) QuestionByID(id int) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
