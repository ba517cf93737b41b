package worker

import (
	"github.com/spec-kit/stringing-service/internal/service"
)

// StartEventLogWorker registers the audit log handlers.
func StartEventLogWorker(eventLogService *service.EventLogService) {
	if eventLogService == nil {
		return
	}
	eventLogService.RegisterHandlers()
}
