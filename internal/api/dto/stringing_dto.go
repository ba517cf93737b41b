package dto

import (
	"time"

	"github.com/spec-kit/stringing-service/internal/domain"
)

// CreateStringingRequest payload.
type CreateStringingRequest struct {
	OwnerUserID       string   `json:"owner_user_id"`
	StringerUserID    string   `json:"stringer_user_id"`
	RacketMake        string   `json:"racket_make"`
	RacketModel       string   `json:"racket_model"`
	StringType        string   `json:"string_type"`
	StringColor       *string  `json:"string_color,omitempty"`
	MainsTensionLbs   *float64 `json:"mains_tension_lbs"`
	CrossesTensionLbs *float64 `json:"crosses_tension_lbs"`
}

// UpdateStringingRequest is a partial update; a state value requests a
// transition, the other fields request edits.
type UpdateStringingRequest struct {
	State             *domain.StringingState `json:"state,omitempty"`
	StringerUserID    *string                `json:"stringer_user_id,omitempty"`
	RacketMake        *string                `json:"racket_make,omitempty"`
	RacketModel       *string                `json:"racket_model,omitempty"`
	StringType        *string                `json:"string_type,omitempty"`
	StringColor       *string                `json:"string_color,omitempty"`
	MainsTensionLbs   *float64               `json:"mains_tension_lbs,omitempty"`
	CrossesTensionLbs *float64               `json:"crosses_tension_lbs,omitempty"`
}

// StringingResponse is the full job representation.
type StringingResponse struct {
	ID                string                `json:"id"`
	StringerUserID    string                `json:"stringer_user_id"`
	OwnerUserID       string                `json:"owner_user_id"`
	RacketMake        string                `json:"racket_make"`
	RacketModel       string                `json:"racket_model"`
	StringType        string                `json:"string_type"`
	StringColor       *string               `json:"string_color"`
	MainsTensionLbs   float64               `json:"mains_tension_lbs"`
	CrossesTensionLbs float64               `json:"crosses_tension_lbs"`
	State             domain.StringingState `json:"state"`
	CreatedAt         time.Time             `json:"created_at"`
	RequestedAt       time.Time             `json:"requested_at"`
	CanceledAt        *time.Time            `json:"canceled_at"`
	DeclinedAt        *time.Time            `json:"declined_at"`
	ReceivedAt        *time.Time            `json:"received_at"`
	InProgressAt      *time.Time            `json:"in_progress_at"`
	FinishedAt        *time.Time            `json:"finished_at"`
	CompletedAt       *time.Time            `json:"completed_at"`
	FailedAt          *time.Time            `json:"failed_at"`
	FailedCompletedAt *time.Time            `json:"failed_completed_at"`
}
