package model

import "time"

// State is a step of the intake conversation.
type State int

const (
	StateNone State = iota
	StateHelpNeeded
	StateLocation
	StateContacts
	StateContactsVerification
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateHelpNeeded:
		return "help_needed"
	case StateLocation:
		return "location"
	case StateContacts:
		return "contacts"
	case StateContactsVerification:
		return "contacts_verification"
	case StateTerminated:
		return "terminated"
	default:
		return "invalid"
	}
}

// Session is one user's in-progress record plus the step it is waiting on.
type Session struct {
	State     State        `json:"state"`
	Record    IntakeRecord `json:"record"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Expired reports whether the session was last touched more than ttl ago.
// A zero ttl never expires.
func (s *Session) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(s.UpdatedAt) > ttl
}
