package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mornivek/stafflane/internal/services"
	"github.com/mornivek/stafflane/pkg/response"
)

// AuditHandler exposes the organization's audit trail.
type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// GET /api/audit
func (h *AuditHandler) List(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "limit", 50)

	logs, total, err := h.audit.List(requestContext(c), identity.OrganizationID, services.AuditListOptions{
		Page:     page,
		PageSize: perPage,
		Filters: services.AuditFilters{
			UserID:   strings.TrimSpace(c.Query("user_id")),
			Action:   strings.TrimSpace(c.Query("action")),
			Result:   strings.TrimSpace(c.Query("result")),
			Resource: strings.TrimSpace(c.Query("resource")),
		},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, logs, &response.Meta{
		Page:    page,
		PerPage: perPage,
		Total:   int(total),
	})
}
