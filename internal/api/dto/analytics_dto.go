package dto

import (
	"time"

	"github.com/spec-kit/stringing-service/internal/domain"
)

// AnalyticsResponse wraps the cached analytics document. The domain types
// already carry JSON tags; only the envelope lives here.
type AnalyticsResponse struct {
	UserID     string                `json:"user_id"`
	ComputedAt time.Time             `json:"computed_at"`
	Owner      domain.OwnerStats     `json:"owner"`
	Stringer   *domain.StringerStats `json:"stringer"`
}
