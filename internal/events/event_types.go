package events

import (
	"time"

	"github.com/spec-kit/stringing-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStringingCreated      EventType = "stringing_created"
	EventStringingStateChanged EventType = "stringing_state_changed"
	EventStringingReassigned   EventType = "stringing_reassigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	StringingID string      `json:"stringing_id"`
	ActorUserID string      `json:"actor_user_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// StringingCreatedPayload payload.
type StringingCreatedPayload struct {
	OwnerUserID    string  `json:"owner_user_id"`
	StringerUserID string  `json:"stringer_user_id"`
	RacketMake     string  `json:"racket_make"`
	RacketModel    string  `json:"racket_model"`
	StringType     string  `json:"string_type"`
	MainsTension   float64 `json:"mains_tension_lbs"`
	CrossesTension float64 `json:"crosses_tension_lbs"`
}

// StringingStateChangedPayload payload.
type StringingStateChangedPayload struct {
	OldState domain.StringingState `json:"old_state"`
	NewState domain.StringingState `json:"new_state"`
}

// StringingReassignedPayload payload.
type StringingReassignedPayload struct {
	OldStringerUserID string `json:"old_stringer_user_id"`
	NewStringerUserID string `json:"new_stringer_user_id"`
}
