package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mornivek/stafflane/internal/services"
	"github.com/mornivek/stafflane/pkg/response"
)

// ProjectAccessHandler manages explicit grants on a project.
type ProjectAccessHandler struct {
	grants *services.ProjectAccessService
}

func NewProjectAccessHandler(grants *services.ProjectAccessService) *ProjectAccessHandler {
	return &ProjectAccessHandler{grants: grants}
}

// GET /api/projects/:id/access
func (h *ProjectAccessHandler) List(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	grants, err := h.grants.List(requestContext(c), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, grants)
}

// POST /api/projects/:id/access
func (h *ProjectAccessHandler) Grant(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.GrantInput
	if !bindAndValidate(c, &req) {
		return
	}

	grant, err := h.grants.Grant(requestContext(c), identity, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, grant)
}

// DELETE /api/projects/:id/access/:userId
func (h *ProjectAccessHandler) Revoke(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	if err := h.grants.Revoke(requestContext(c), identity, c.Param("id"), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"revoked": true})
}
