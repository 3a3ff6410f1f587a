package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mornivek/stafflane/internal/services"
	"github.com/mornivek/stafflane/pkg/response"
)

// ProjectHandler exposes project CRUD over HTTP.
type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	list, err := h.projects.List(requestContext(c), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.CreateProjectInput
	if !bindAndValidate(c, &req) {
		return
	}

	project, err := h.projects.Create(requestContext(c), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, project)
}

// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	project, err := h.projects.Get(requestContext(c), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req services.UpdateProjectInput
	if !bindAndValidate(c, &req) {
		return
	}

	project, err := h.projects.Update(requestContext(c), identity, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	if err := h.projects.Delete(requestContext(c), identity, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
