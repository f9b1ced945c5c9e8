package domain

import "time"

// User represents a bot user
type User struct {
	UserID     int64
	Authorized bool
	Level      int
	CreatedAt  time.Time
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle              UserState = "idle"
	StateWaitingAnswer     UserState = "waiting_answer"
	StateWaitingAssessment UserState = "waiting_assessment"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State     UserState
	Session   []Item
	Position  int
	Correct   int
	IsCorrect bool // result of the last answer
	MessageID int  // For editing messages
}

// CurrentItem returns the item being practiced, or nil when the session is over
func (s *StateData) CurrentItem() *Item {
	if s == nil || s.Position < 0 || s.Position >= len(s.Session) {
		return nil
	}
	return &s.Session[s.Position]
}
