package handlers

import (
	"net/http"
	"sort"

	"cvmatch_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type MatchingHandler struct {
	*BaseHandler
	matchingService services.MatchingService
	cvService       services.CVService
}

func NewMatchingHandler(base *BaseHandler, matchingService services.MatchingService, cvService services.CVService) *MatchingHandler {
	return &MatchingHandler{
		BaseHandler:     base,
		matchingService: matchingService,
		cvService:       cvService,
	}
}

func (h *MatchingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/projects/:projectId/match", h.RunMatching)
	r.GET("/projects/:projectId/results", h.GetResults)
}

// RunMatching запускает прогон матчинга по проекту.
// Повторный прогон без изменения данных идемпотентен.
func (h *MatchingHandler) RunMatching(c *gin.Context) {
	projectID := c.Param("projectId")

	results, err := h.matchingService.RunMatching(c.Request.Context(), projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetResults возвращает сохраненные score/ranking CV проекта
// (последний прогон; CV без parsed_data идут с NULL-скорами).
func (h *MatchingHandler) GetResults(c *gin.Context) {
	projectID := c.Param("projectId")

	cvs, err := h.cvService.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// Выдача в порядке сохраненного ranking; CV без ranking - в хвосте,
	// между собой в порядке загрузки
	sort.SliceStable(cvs, func(i, j int) bool {
		ri, rj := cvs[i].Ranking, cvs[j].Ranking
		if ri == nil {
			return false
		}
		if rj == nil {
			return true
		}
		return *ri < *rj
	})

	scored := 0
	for i := range cvs {
		if cvs[i].Score != nil {
			scored++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"cvs":    cvs,
		"scored": scored,
		"total":  len(cvs),
	})
}
