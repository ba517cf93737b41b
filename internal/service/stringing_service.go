package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/stringing-service/internal/domain"
	"github.com/spec-kit/stringing-service/internal/events"
	"github.com/spec-kit/stringing-service/internal/policy"
	"github.com/spec-kit/stringing-service/internal/repository"
	apperrors "github.com/spec-kit/stringing-service/pkg/util"
)

// StringingService coordinates the stringing job lifecycle: creation,
// role-gated state transitions, and the REQUESTED-only edit window.
type StringingService struct {
	stringings repository.StringingRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// StringingDependencies bundles repositories for the stringing service.
type StringingDependencies struct {
	StringingRepo repository.StringingRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
}

// StringingCreateInput describes job creation payload.
type StringingCreateInput struct {
	OwnerUserID       string
	StringerUserID    string
	RacketMake        string
	RacketModel       string
	StringType        string
	StringColor       *string
	MainsTensionLbs   float64
	CrossesTensionLbs float64
}

// StringingUpdateInput is a partial update. A non-nil State requests a
// transition; the remaining fields request edits. Both may appear in one
// call and are validated independently.
type StringingUpdateInput struct {
	State             *domain.StringingState
	StringerUserID    *string
	RacketMake        *string
	RacketModel       *string
	StringType        *string
	StringColor       *string
	MainsTensionLbs   *float64
	CrossesTensionLbs *float64
}

// ListRole selects which side of a user's jobs to list.
type ListRole string

const (
	ListRoleOwner    ListRole = "owner"
	ListRoleStringer ListRole = "stringer"
)

// NewStringingService constructs the service.
func NewStringingService(deps StringingDependencies) *StringingService {
	return &StringingService{
		stringings: deps.StringingRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateStringing creates a job in REQUESTED_BUT_NOT_DELIVERED.
//
// The acting user must be the new job's owner, or its designated stringer
// entering the request on the owner's behalf. The target stringer must have
// the stringer capability.
func (s *StringingService) CreateStringing(ctx context.Context, actingUserID string, input StringingCreateInput) (*domain.Stringing, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	if actingUserID != input.OwnerUserID && actingUserID != input.StringerUserID {
		return nil, apperrors.NewForbidden("a stringing may only be created by its owner or its stringer")
	}

	stringer, err := s.users.GetByID(ctx, input.StringerUserID)
	if err != nil {
		return nil, err
	}
	if !stringer.IsStringer {
		return nil, apperrors.NewValidationError("target user does not offer stringing services",
			map[string]any{"stringer_user_id": input.StringerUserID})
	}
	if _, err := s.users.GetByID(ctx, input.OwnerUserID); err != nil {
		return nil, err
	}

	stringing := &domain.Stringing{
		StringerUserID:    input.StringerUserID,
		OwnerUserID:       input.OwnerUserID,
		RacketMake:        strings.TrimSpace(input.RacketMake),
		RacketModel:       strings.TrimSpace(input.RacketModel),
		StringType:        strings.TrimSpace(input.StringType),
		StringColor:       input.StringColor,
		MainsTensionLbs:   input.MainsTensionLbs,
		CrossesTensionLbs: input.CrossesTensionLbs,
		State:             domain.StateRequestedButNotDelivered,
	}
	if err := s.stringings.Create(ctx, stringing); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventStringingCreated,
		StringingID: stringing.ID,
		ActorUserID: actingUserID,
		Payload: events.StringingCreatedPayload{
			OwnerUserID:    stringing.OwnerUserID,
			StringerUserID: stringing.StringerUserID,
			RacketMake:     stringing.RacketMake,
			RacketModel:    stringing.RacketModel,
			StringType:     stringing.StringType,
			MainsTension:   stringing.MainsTensionLbs,
			CrossesTension: stringing.CrossesTensionLbs,
		},
	})
	return stringing, nil
}

// GetStringing fetches a job, enforcing owner-or-stringer read access.
func (s *StringingService) GetStringing(ctx context.Context, actingUserID, stringingID string) (*domain.Stringing, error) {
	stringing, err := s.stringings.GetByID(ctx, stringingID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(stringing, actingUserID, policy.ActionRead); err != nil {
		return nil, err
	}
	return stringing, nil
}

// ListStringingsForUser returns the acting user's own jobs on the requested side.
func (s *StringingService) ListStringingsForUser(ctx context.Context, userID string, role ListRole) ([]domain.Stringing, error) {
	switch role {
	case ListRoleOwner:
		return s.stringings.ListByOwner(ctx, userID)
	case ListRoleStringer:
		return s.stringings.ListByStringer(ctx, userID)
	}
	return nil, apperrors.NewValidationError("role must be owner or stringer", map[string]any{"role": string(role)})
}

// UpdateStringing applies a transition and/or field edits.
//
// The caller must hold a role on the job before anything else is
// considered; an empty patch returns the record and is therefore gated
// like a read. Transitions run through the fixed state graph after the policy check, so a
// role mismatch surfaces as FORBIDDEN and a missing edge as
// INVALID_TRANSITION. Field edits are owner-only and permitted exclusively
// while the job is still REQUESTED_BUT_NOT_DELIVERED. The persist is a
// compare-and-swap: a concurrent writer that got there first turns this call
// into CONCURRENT_MODIFICATION with no partial application.
func (s *StringingService) UpdateStringing(ctx context.Context, actingUserID, stringingID string, input StringingUpdateInput) (*domain.Stringing, error) {
	stringing, err := s.stringings.GetByID(ctx, stringingID)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(stringing, actingUserID, policy.ActionRead); err != nil {
		return nil, err
	}

	oldState := stringing.State
	oldStringer := stringing.StringerUserID

	if input.State != nil {
		if err := s.applyTransition(stringing, actingUserID, *input.State); err != nil {
			return nil, err
		}
	}
	edited, err := s.applyEdits(ctx, stringing, actingUserID, oldState, input)
	if err != nil {
		return nil, err
	}
	if input.State == nil && !edited {
		return stringing, nil
	}

	if err := s.stringings.Update(ctx, stringing); err != nil {
		return nil, err
	}

	if input.State != nil && *input.State != oldState {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventStringingStateChanged,
			StringingID: stringing.ID,
			ActorUserID: actingUserID,
			Payload: events.StringingStateChangedPayload{
				OldState: oldState,
				NewState: stringing.State,
			},
		})
	}
	if stringing.StringerUserID != oldStringer {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventStringingReassigned,
			StringingID: stringing.ID,
			ActorUserID: actingUserID,
			Payload: events.StringingReassignedPayload{
				OldStringerUserID: oldStringer,
				NewStringerUserID: stringing.StringerUserID,
			},
		})
	}
	return stringing, nil
}

func (s *StringingService) applyTransition(stringing *domain.Stringing, actingUserID string, requested domain.StringingState) error {
	if !requested.IsValid() {
		return apperrors.NewValidationError("unknown stringing state",
			map[string]any{"state": string(requested)})
	}
	action, ok := policy.ActionForState(requested)
	if !ok {
		return apperrors.NewInvalidTransition(string(stringing.State), string(requested))
	}
	if err := policy.Authorize(stringing, actingUserID, action); err != nil {
		return err
	}
	if !stringing.State.CanTransitionTo(requested) {
		return apperrors.NewInvalidTransition(string(stringing.State), string(requested))
	}

	stringing.State = requested
	stringing.StampStateTimestamp(requested, time.Now().UTC())
	return nil
}

// applyEdits mutates editable fields in place and reports whether anything
// changed. oldState is the state before any transition in the same request:
// the edit window is judged on the state the job was actually in.
func (s *StringingService) applyEdits(ctx context.Context, stringing *domain.Stringing, actingUserID string, oldState domain.StringingState, input StringingUpdateInput) (bool, error) {
	requested := input.StringerUserID != nil || input.RacketMake != nil || input.RacketModel != nil ||
		input.StringType != nil || input.StringColor != nil ||
		input.MainsTensionLbs != nil || input.CrossesTensionLbs != nil
	if !requested {
		return false, nil
	}

	if err := policy.Authorize(stringing, actingUserID, policy.ActionEdit); err != nil {
		return false, err
	}
	if oldState != domain.StateRequestedButNotDelivered {
		return false, apperrors.NewImmutableState(string(oldState))
	}

	if input.MainsTensionLbs != nil && *input.MainsTensionLbs <= 0 {
		return false, apperrors.NewValidationError("mains tension must be positive", nil)
	}
	if input.CrossesTensionLbs != nil && *input.CrossesTensionLbs <= 0 {
		return false, apperrors.NewValidationError("crosses tension must be positive", nil)
	}
	if input.StringerUserID != nil && *input.StringerUserID != stringing.StringerUserID {
		stringer, err := s.users.GetByID(ctx, *input.StringerUserID)
		if err != nil {
			return false, err
		}
		if !stringer.IsStringer {
			return false, apperrors.NewValidationError("target user does not offer stringing services",
				map[string]any{"stringer_user_id": *input.StringerUserID})
		}
		stringing.StringerUserID = *input.StringerUserID
	}

	if input.RacketMake != nil {
		stringing.RacketMake = strings.TrimSpace(*input.RacketMake)
	}
	if input.RacketModel != nil {
		stringing.RacketModel = strings.TrimSpace(*input.RacketModel)
	}
	if input.StringType != nil {
		stringing.StringType = strings.TrimSpace(*input.StringType)
	}
	if input.StringColor != nil {
		stringing.StringColor = input.StringColor
	}
	if input.MainsTensionLbs != nil {
		stringing.MainsTensionLbs = *input.MainsTensionLbs
	}
	if input.CrossesTensionLbs != nil {
		stringing.CrossesTensionLbs = *input.CrossesTensionLbs
	}
	return true, nil
}

func validateCreateInput(input StringingCreateInput) error {
	details := map[string]any{}
	if input.OwnerUserID == "" {
		details["owner_user_id"] = "required"
	}
	if input.StringerUserID == "" {
		details["stringer_user_id"] = "required"
	}
	if strings.TrimSpace(input.RacketMake) == "" {
		details["racket_make"] = "required"
	}
	if strings.TrimSpace(input.RacketModel) == "" {
		details["racket_model"] = "required"
	}
	if strings.TrimSpace(input.StringType) == "" {
		details["string_type"] = "required"
	}
	if input.MainsTensionLbs <= 0 {
		details["mains_tension_lbs"] = "must be positive"
	}
	if input.CrossesTensionLbs <= 0 {
		details["crosses_tension_lbs"] = "must be positive"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid stringing request", details)
	}
	return nil
}

func (s *StringingService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
