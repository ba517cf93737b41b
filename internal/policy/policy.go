package policy

import (
	"github.com/spec-kit/stringing-service/internal/domain"
	apperrors "github.com/spec-kit/stringing-service/pkg/util"
)

// Action enumerates the operations a caller can request on a stringing job.
type Action string

const (
	ActionRead         Action = "READ"
	ActionEdit         Action = "EDIT"
	ActionCancel       Action = "CANCEL"
	ActionAccept       Action = "ACCEPT"
	ActionDecline      Action = "DECLINE"
	ActionStart        Action = "START"
	ActionFinish       Action = "FINISH"
	ActionFail         Action = "FAIL"
	ActionComplete     Action = "COMPLETE"
	ActionFailComplete Action = "FAIL_COMPLETE"
)

// ActionForState maps a requested target state to the action a caller must
// be authorized for. The bool is false for states that are never a valid
// transition target (the initial state).
func ActionForState(target domain.StringingState) (Action, bool) {
	switch target {
	case domain.StateCanceled:
		return ActionCancel, true
	case domain.StateDeclined:
		return ActionDecline, true
	case domain.StateReceivedButNotStarted:
		return ActionAccept, true
	case domain.StateInProgress:
		return ActionStart, true
	case domain.StateFinishedButNotPickedUp:
		return ActionFinish, true
	case domain.StateFailedButNotPickedUp:
		return ActionFail, true
	case domain.StateCompleted:
		return ActionComplete, true
	case domain.StateFailedCompleted:
		return ActionFailComplete, true
	}
	return "", false
}

// IsOwner reports whether actingUserID holds the owner role on this job.
// Roles are derived per job by identifier comparison; a user may hold
// neither role, one, or both.
func IsOwner(s *domain.Stringing, actingUserID string) bool {
	return actingUserID != "" && actingUserID == s.OwnerUserID
}

// IsStringer reports whether actingUserID holds the stringer role on this job.
func IsStringer(s *domain.Stringing, actingUserID string) bool {
	return actingUserID != "" && actingUserID == s.StringerUserID
}

// Authorize checks actingUserID's per-job role against the requested action.
// It returns nil on allow and a FORBIDDEN domain error otherwise. Role
// mismatches are deliberately distinct from state-graph violations: wrong
// role fails here, wrong state fails in the transition engine.
func Authorize(s *domain.Stringing, actingUserID string, action Action) error {
	switch action {
	case ActionRead:
		// No third-party read access.
		if IsOwner(s, actingUserID) || IsStringer(s, actingUserID) {
			return nil
		}
		return apperrors.NewForbidden("only the owner or stringer of a stringing may view it")

	case ActionCancel:
		if !IsOwner(s, actingUserID) {
			return apperrors.NewForbidden("only the owner may cancel a stringing")
		}
		if s.State != domain.StateRequestedButNotDelivered {
			return apperrors.NewForbidden("a stringing can only be canceled before the stringer receives it")
		}
		return nil

	case ActionEdit:
		if !IsOwner(s, actingUserID) {
			return apperrors.NewForbidden("only the owner may edit a stringing")
		}
		return nil

	case ActionAccept, ActionDecline:
		if !IsStringer(s, actingUserID) {
			return apperrors.NewForbidden("only the assigned stringer may accept or decline a request")
		}
		return nil

	case ActionStart, ActionFinish, ActionFail, ActionComplete, ActionFailComplete:
		if !IsStringer(s, actingUserID) {
			return apperrors.NewForbidden("only the assigned stringer may advance a stringing")
		}
		return nil
	}
	return apperrors.NewForbidden("unknown action")
}
