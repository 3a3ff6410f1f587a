package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mornivek/stafflane/internal/services"
	"github.com/mornivek/stafflane/pkg/response"
)

// EmployeeHandler manages employee profiles within the caller's organization.
type EmployeeHandler struct {
	employees *services.EmployeeService
}

func NewEmployeeHandler(employees *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// GET /api/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	profiles, err := h.employees.List(requestContext(c), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profiles)
}

// PUT /api/employees
func (h *EmployeeHandler) Upsert(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.UpsertEmployeeInput
	if !bindAndValidate(c, &req) {
		return
	}

	profile, err := h.employees.Upsert(requestContext(c), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// POST /api/employees/:id/deactivate
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	if err := h.employees.Deactivate(requestContext(c), identity, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}
