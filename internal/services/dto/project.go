package dto

import (
	"cvmatch_backend/internal/models"
)

type CreateProjectRequest struct {
	OwnerID     string                 `json:"owner_id" validate:"required"`
	Name        string                 `json:"name" validate:"required,min=3,max=200"`
	Description string                 `json:"description" validate:"max=2000"`
	Criteria    models.ProjectCriteria `json:"criteria" validate:"required"`
}

// UpdateProjectRequest - частичное обновление проекта.
// Criteria - полная замена (не частичный твик весов). Если Criteria != nil,
// все score/ranking CV проекта сбрасываются в NULL (см. ProjectService.Update).
type UpdateProjectRequest struct {
	Name        *string                 `json:"name" validate:"omitempty,min=3,max=200"`
	Description *string                 `json:"description" validate:"omitempty,max=2000"`
	Status      *models.ProjectStatus   `json:"status" validate:"omitempty,oneof=active paused closed"`
	Criteria    *models.ProjectCriteria `json:"criteria"`
}

type ProjectResponse struct {
	Project *models.SearchProject `json:"project"`
	CVCount int64                 `json:"cv_count"`
}
