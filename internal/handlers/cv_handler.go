package handlers

import (
	"net/http"

	"cvmatch_backend/internal/services"
	"cvmatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CVHandler struct {
	*BaseHandler
	cvService services.CVService
}

func NewCVHandler(base *BaseHandler, cvService services.CVService) *CVHandler {
	return &CVHandler{
		BaseHandler: base,
		cvService:   cvService,
	}
}

func (h *CVHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/projects/:projectId/cvs", h.RegisterCV)
	r.GET("/projects/:projectId/cvs", h.ListProjectCVs)

	cvs := r.Group("/cvs")
	{
		cvs.GET("/:cvId", h.GetCV)
		cvs.POST("/:cvId/parse", h.ParseCV)
		cvs.DELETE("/:cvId", h.DeleteCV)
	}
}

func (h *CVHandler) RegisterCV(c *gin.Context) {
	projectID := c.Param("projectId")

	var req dto.RegisterCVRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	cv, err := h.cvService.Register(c.Request.Context(), projectID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cv)
}

func (h *CVHandler) ListProjectCVs(c *gin.Context) {
	projectID := c.Param("projectId")

	cvs, err := h.cvService.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cvs":   cvs,
		"total": len(cvs),
	})
}

func (h *CVHandler) GetCV(c *gin.Context) {
	cvID := c.Param("cvId")

	cv, err := h.cvService.GetByID(c.Request.Context(), cvID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cv)
}

// ParseCV - ручной запуск парсинга (в обход фонового воркера)
func (h *CVHandler) ParseCV(c *gin.Context) {
	cvID := c.Param("cvId")

	cv, err := h.cvService.Parse(c.Request.Context(), cvID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, cv)
}

func (h *CVHandler) DeleteCV(c *gin.Context) {
	cvID := c.Param("cvId")

	if err := h.cvService.Delete(c.Request.Context(), cvID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "CV deleted"})
}
