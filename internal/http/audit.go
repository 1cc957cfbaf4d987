package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bookfolio/bookfolio/internal/entities"
)

// AuditEventReader retrieves recorded audit events.
type AuditEventReader interface {
	GetEvents(limit, offset int) ([]entities.AuditEvent, int64, error)
}

type AuditController struct {
	store AuditEventReader
}

func NewAuditController(store AuditEventReader) *AuditController {
	return &AuditController{store: store}
}

// ListEvents returns the audit trail, newest first.
// GET /api/audit?limit=&offset=
func (ac *AuditController) ListEvents(c *gin.Context) {
	limit, offset := parsePagination(c)

	events, total, err := ac.store.GetEvents(limit, offset)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	respondPaginated(c, events, total, limit, offset)
}
