package app

// View is one screen of the participant flow.
type View string

const (
	ViewHome         View = "home"
	ViewRegistration View = "registration"
	ViewQuiz         View = "quiz"
	ViewResults      View = "results"
	ViewKickedOut    View = "kicked-out"
	ViewLocked       View = "locked"
)

// ViewEvent drives the participant view machine.
type ViewEvent string

const (
	// ViewEventStart is the participant asking to begin (home -> registration).
	ViewEventStart ViewEvent = "start"
	// ViewEventAuthenticated fires when login resolves a profile and session.
	ViewEventAuthenticated ViewEvent = "authenticated"
	// ViewEventCompleted fires when the attempt is finalized.
	ViewEventCompleted ViewEvent = "completed"
	// ViewEventKicked fires on forced termination (lock or deletion).
	ViewEventKicked ViewEvent = "kicked"
	// ViewEventReturnHome resets to the home screen.
	ViewEventReturnHome ViewEvent = "return-home"
)

// ViewState is the router's full state: the active screen plus the guards the
// transitions consult. The admin overlay is an independent layer, not part of
// the main view stack.
type ViewState struct {
	View        View
	HasProfile  bool
	Locked      bool
	AdminOpen   bool
	AdminAuthed bool
}

// NewViewState starts at home.
func NewViewState(locked bool) ViewState {
	return ViewState{View: ViewHome, Locked: locked}
}

// Next is the deterministic transition function. Guards: entering
// registration while the track is locked lands on the locked screen instead,
// and entering the quiz without a resolved profile is a no-op.
func (s ViewState) Next(event ViewEvent) ViewState {
	switch event {
	case ViewEventStart:
		if s.View != ViewHome {
			return s
		}
		if s.Locked {
			s.View = ViewLocked
			return s
		}
		s.View = ViewRegistration
		return s

	case ViewEventAuthenticated:
		if s.View != ViewRegistration {
			return s
		}
		if s.Locked {
			s.View = ViewLocked
			return s
		}
		if !s.HasProfile {
			return s
		}
		s.View = ViewQuiz
		return s

	case ViewEventCompleted:
		if s.View != ViewQuiz {
			return s
		}
		s.View = ViewResults
		return s

	case ViewEventKicked:
		if s.View != ViewQuiz {
			return s
		}
		s.View = ViewKickedOut
		return s

	case ViewEventReturnHome:
		s.View = ViewHome
		s.HasProfile = false
		return s

	default:
		return s
	}
}

// OpenAdmin raises the admin overlay.
func (s ViewState) OpenAdmin() ViewState {
	s.AdminOpen = true
	return s
}

// CloseAdmin drops the overlay and resets the authenticated flag.
func (s ViewState) CloseAdmin() ViewState {
	s.AdminOpen = false
	s.AdminAuthed = false
	return s
}

// AdminLoggedIn marks the overlay authenticated.
func (s ViewState) AdminLoggedIn() ViewState {
	s.AdminAuthed = true
	return s
}
