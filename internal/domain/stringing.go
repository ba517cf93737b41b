package domain

import "time"

// StringingState enumerates lifecycle states for stringing jobs.
//
// The graph is singly directed; once a job reaches COMPLETED,
// FAILED_COMPLETED, DECLINED, or CANCELED, no further transitions apply.
// DECLINED means the stringer turned the request down, CANCELED means the
// owner withdrew it.
type StringingState string

const (
	StateRequestedButNotDelivered StringingState = "REQUESTED_BUT_NOT_DELIVERED"
	StateCanceled                 StringingState = "CANCELED"
	StateDeclined                 StringingState = "DECLINED"
	StateReceivedButNotStarted    StringingState = "RECEIVED_BUT_NOT_STARTED"
	StateInProgress               StringingState = "IN_PROGRESS"
	StateFinishedButNotPickedUp   StringingState = "FINISHED_BUT_NOT_PICKED_UP"
	StateFailedButNotPickedUp     StringingState = "FAILED_BUT_NOT_PICKED_UP"
	StateCompleted                StringingState = "COMPLETED"
	StateFailedCompleted          StringingState = "FAILED_COMPLETED"
)

// AllStringingStates lists every state; useful for validation and tests.
var AllStringingStates = []StringingState{
	StateRequestedButNotDelivered,
	StateCanceled,
	StateDeclined,
	StateReceivedButNotStarted,
	StateInProgress,
	StateFinishedButNotPickedUp,
	StateFailedButNotPickedUp,
	StateCompleted,
	StateFailedCompleted,
}

var validTransitions = map[StringingState][]StringingState{
	StateRequestedButNotDelivered: {StateReceivedButNotStarted, StateDeclined, StateCanceled},
	StateCanceled:                 {},
	StateDeclined:                 {},
	StateReceivedButNotStarted:    {StateInProgress},
	StateInProgress:               {StateFinishedButNotPickedUp, StateFailedButNotPickedUp},
	StateFinishedButNotPickedUp:   {StateCompleted},
	StateFailedButNotPickedUp:     {StateFailedCompleted},
	StateCompleted:                {},
	StateFailedCompleted:          {},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s StringingState) CanTransitionTo(next StringingState) bool {
	for _, candidate := range validTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsFinal reports whether s has no outgoing transitions.
func (s StringingState) IsFinal() bool {
	switch s {
	case StateCanceled, StateDeclined, StateCompleted, StateFailedCompleted:
		return true
	}
	return false
}

// IsValid reports whether s is one of the nine known states.
func (s StringingState) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// Stringing is the aggregate for a racket stringing job.
//
// Each non-initial state has a companion timestamp that is stamped the first
// time the state is entered and never cleared, so the non-null timestamps
// record exactly the path the job traversed. Version is the optimistic
// concurrency counter bumped on every persisted update.
type Stringing struct {
	ID                string
	StringerUserID    string
	OwnerUserID       string
	RacketMake        string
	RacketModel       string
	StringType        string
	StringColor       *string
	MainsTensionLbs   float64
	CrossesTensionLbs float64
	State             StringingState
	Version           int64
	CreatedAt         time.Time
	RequestedAt       time.Time
	CanceledAt        *time.Time
	DeclinedAt        *time.Time
	ReceivedAt        *time.Time
	InProgressAt      *time.Time
	FinishedAt        *time.Time
	CompletedAt       *time.Time
	FailedAt          *time.Time
	FailedCompletedAt *time.Time
}

// StampStateTimestamp records when newState was entered. Timestamps are
// write-once: if the field is already set it is left untouched.
func (s *Stringing) StampStateTimestamp(newState StringingState, at time.Time) {
	set := func(field **time.Time) {
		if *field == nil {
			ts := at
			*field = &ts
		}
	}
	switch newState {
	case StateCanceled:
		set(&s.CanceledAt)
	case StateDeclined:
		set(&s.DeclinedAt)
	case StateReceivedButNotStarted:
		set(&s.ReceivedAt)
	case StateInProgress:
		set(&s.InProgressAt)
	case StateFinishedButNotPickedUp:
		set(&s.FinishedAt)
	case StateFailedButNotPickedUp:
		set(&s.FailedAt)
	case StateCompleted:
		set(&s.CompletedAt)
	case StateFailedCompleted:
		set(&s.FailedCompletedAt)
	}
}
