package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stringing-service/internal/api/dto"
	"github.com/spec-kit/stringing-service/internal/auth"
	"github.com/spec-kit/stringing-service/internal/service"
	apperrors "github.com/spec-kit/stringing-service/pkg/util"
)

// AnalyticsHandler serves the per-user analytics document.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService}
}

// Get handles GET /analytics/me. The refresh query flag forces a recompute
// instead of serving the cached document.
func (h *AnalyticsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	refresh := c.QueryBool("refresh", false)
	doc, err := h.analytics.GetAnalytics(c.UserContext(), principal.User.ID, refresh)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.AnalyticsResponse{
		UserID:     doc.UserID,
		ComputedAt: doc.ComputedAt,
		Owner:      doc.Owner,
		Stringer:   doc.Stringer,
	}})
}

// Refresh handles POST /analytics/me/refresh.
func (h *AnalyticsHandler) Refresh(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}

	doc, err := h.analytics.GetAnalytics(c.UserContext(), principal.User.ID, true)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.AnalyticsResponse{
		UserID:     doc.UserID,
		ComputedAt: doc.ComputedAt,
		Owner:      doc.Owner,
		Stringer:   doc.Stringer,
	}})
}
