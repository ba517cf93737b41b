package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stringing-service/internal/api/dto"
	"github.com/spec-kit/stringing-service/internal/auth"
	"github.com/spec-kit/stringing-service/internal/domain"
	"github.com/spec-kit/stringing-service/internal/service"
	apperrors "github.com/spec-kit/stringing-service/pkg/util"
)

// StringingsHandler manages stringing job endpoints.
type StringingsHandler struct {
	service *service.StringingService
}

// NewStringingsHandler constructs handler.
func NewStringingsHandler(stringingService *service.StringingService) *StringingsHandler {
	return &StringingsHandler{service: stringingService}
}

// CreateStringing POST /stringings.
func (h *StringingsHandler) CreateStringing(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateStringingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.MainsTensionLbs == nil || req.CrossesTensionLbs == nil {
		return apperrors.NewValidationError("mains_tension_lbs and crosses_tension_lbs required", nil)
	}

	ownerID := req.OwnerUserID
	if ownerID == "" {
		// Owners creating their own request may omit the field.
		ownerID = principal.User.ID
	}
	input := service.StringingCreateInput{
		OwnerUserID:       ownerID,
		StringerUserID:    req.StringerUserID,
		RacketMake:        req.RacketMake,
		RacketModel:       req.RacketModel,
		StringType:        req.StringType,
		StringColor:       req.StringColor,
		MainsTensionLbs:   *req.MainsTensionLbs,
		CrossesTensionLbs: *req.CrossesTensionLbs,
	}
	stringing, err := h.service.CreateStringing(c.UserContext(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": stringingResponse(stringing)})
}

// GetStringing GET /stringings/:id.
func (h *StringingsHandler) GetStringing(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	stringing, err := h.service.GetStringing(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stringingResponse(stringing)})
}

// ListStringings GET /stringings?role=owner|stringer.
func (h *StringingsHandler) ListStringings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	role := service.ListRole(c.Query("role", string(service.ListRoleOwner)))
	stringings, err := h.service.ListStringingsForUser(c.UserContext(), principal.User.ID, role)
	if err != nil {
		return err
	}
	items := make([]dto.StringingResponse, 0, len(stringings))
	for i := range stringings {
		items = append(items, stringingResponse(&stringings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateStringing PATCH /stringings/:id.
func (h *StringingsHandler) UpdateStringing(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateStringingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.StringingUpdateInput{
		State:             req.State,
		StringerUserID:    req.StringerUserID,
		RacketMake:        req.RacketMake,
		RacketModel:       req.RacketModel,
		StringType:        req.StringType,
		StringColor:       req.StringColor,
		MainsTensionLbs:   req.MainsTensionLbs,
		CrossesTensionLbs: req.CrossesTensionLbs,
	}
	stringing, err := h.service.UpdateStringing(c.UserContext(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stringingResponse(stringing)})
}

func stringingResponse(s *domain.Stringing) dto.StringingResponse {
	return dto.StringingResponse{
		ID:                s.ID,
		StringerUserID:    s.StringerUserID,
		OwnerUserID:       s.OwnerUserID,
		RacketMake:        s.RacketMake,
		RacketModel:       s.RacketModel,
		StringType:        s.StringType,
		StringColor:       s.StringColor,
		MainsTensionLbs:   s.MainsTensionLbs,
		CrossesTensionLbs: s.CrossesTensionLbs,
		State:             s.State,
		CreatedAt:         s.CreatedAt,
		RequestedAt:       s.RequestedAt,
		CanceledAt:        s.CanceledAt,
		DeclinedAt:        s.DeclinedAt,
		ReceivedAt:        s.ReceivedAt,
		InProgressAt:      s.InProgressAt,
		FinishedAt:        s.FinishedAt,
		CompletedAt:       s.CompletedAt,
		FailedAt:          s.FailedAt,
		FailedCompletedAt: s.FailedCompletedAt,
	}
}
