package models

import (
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectStatusActive ProjectStatus = "active"
	ProjectStatusPaused ProjectStatus = "paused"
	ProjectStatusClosed ProjectStatus = "closed"
)

// CriteriaWeights - веса пяти измерений скоринга. Инвариант: сумма ровно 100,
// проверяется валидатором при создании/обновлении проекта.
type CriteriaWeights struct {
	YearsExperience float64 `json:"years_experience" validate:"min=0"`
	RoleMatch       float64 `json:"role_match" validate:"min=0"`
	SkillsMatch     float64 `json:"skills_match" validate:"min=0"`
	IndustryMatch   float64 `json:"industry_match" validate:"min=0"`
	JobStability    float64 `json:"job_stability" validate:"min=0"`
}

// Sum возвращает сумму весов (для правила match_weights)
func (w CriteriaWeights) Sum() float64 {
	return w.YearsExperience + w.RoleMatch + w.SkillsMatch + w.IndustryMatch + w.JobStability
}

// ProjectCriteria - неизменяемый снапшот критериев поиска, по которому
// считается один прогон матчинга.
type ProjectCriteria struct {
	MinimumYearsExperience *float64        `json:"minimum_years_experience"`
	TargetRole             *string         `json:"target_role"`
	RequiredSkills         []string        `json:"required_skills"`
	PreferredSkills        []string        `json:"preferred_skills"`
	TargetIndustries       []string        `json:"target_industries"`
	MaxJobChangesPerYear   *float64        `json:"max_job_changes_per_year"`
	Weights                CriteriaWeights `json:"weights" validate:"match_weights"`
}

type SearchProject struct {
	BaseModel
	OwnerID     string        `gorm:"not null;index" json:"owner_id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `gorm:"not null;default:'active'" json:"status"`

	Criteria datatypes.JSONType[ProjectCriteria] `gorm:"type:jsonb" json:"criteria"`

	CVs []ProjectCV `gorm:"foreignKey:ProjectID" json:"cvs,omitempty"`
}

// GetCriteria возвращает типизированные критерии проекта
func (p *SearchProject) GetCriteria() ProjectCriteria {
	return p.Criteria.Data()
}
