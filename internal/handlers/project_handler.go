package handlers

import (
	"net/http"

	"cvmatch_backend/internal/models"
	"cvmatch_backend/internal/services"
	"cvmatch_backend/internal/services/dto"
	"cvmatch_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	*BaseHandler
	projectService services.ProjectService
}

func NewProjectHandler(base *BaseHandler, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
	}
}

func (h *ProjectHandler) RegisterRoutes(r *gin.RouterGroup) {
	projects := r.Group("/projects")
	{
		projects.POST("", h.CreateProject)
		projects.GET("", h.ListProjects)
		projects.GET("/:projectId", h.GetProject)
		projects.PATCH("/:projectId", h.UpdateProject)
		projects.DELETE("/:projectId", h.DeleteProject)
	}
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID := c.Param("projectId")

	project, err := h.projectService.GetByID(c.Request.Context(), projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID := c.Param("projectId")

	var req dto.UpdateProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if req.Name == nil && req.Description == nil && req.Status == nil && req.Criteria == nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("No fields to update"))
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), projectID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID := c.Param("projectId")

	if err := h.projectService.Delete(c.Request.Context(), projectID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// ListProjects - список проектов владельца с пагинацией
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("owner_id is required"))
		return
	}

	page, pageSize := ParsePagination(c)

	projects, total, err := h.projectService.ListByOwner(c.Request.Context(), ownerID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, models.PaginatedResponse{
		Data:       projects,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}
