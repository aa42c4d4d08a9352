package dto

import (
	"time"

	"cvmatch_backend/internal/models"
)

// MatchHighlights - поверхность объяснимости: для каждого измерения исходные
// данные, совпавшие свидетельства и округленный sub-score.
type MatchHighlights struct {
	Experience ExperienceHighlight `json:"experience"`
	Role       RoleHighlight       `json:"role"`
	Skills     SkillsHighlight     `json:"skills"`
	Industry   IndustryHighlight   `json:"industry"`
	Stability  StabilityHighlight  `json:"stability"`
}

type ExperienceHighlight struct {
	Score         float64  `json:"score"`
	ActualYears   *float64 `json:"actual_years"`
	RequiredYears *float64 `json:"required_years"`
}

type RoleHighlight struct {
	Score        float64  `json:"score"`
	TargetRole   *string  `json:"target_role"`
	MatchedRoles []string `json:"matched_roles"`
}

type SkillsHighlight struct {
	Score           float64  `json:"score"`
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
	ExactMatches    []string `json:"exact_matches"`
	SemanticMatches []string `json:"semantic_matches"`
}

type IndustryHighlight struct {
	Score             float64  `json:"score"`
	TargetIndustries  []string `json:"target_industries"`
	MatchedIndustries []string `json:"matched_industries"`
}

type StabilityHighlight struct {
	Score             float64  `json:"score"`
	JobChangesPerYear *float64 `json:"job_changes_per_year"`
	MaxChangesPerYear *float64 `json:"max_changes_per_year"`
}

// CVMatchResult - результат одного CV в прогоне матчинга (эфемерный:
// в storage персистятся только score/ranking на ProjectCV).
type CVMatchResult struct {
	CV         *models.ProjectCV `json:"cv"`
	Score      float64           `json:"score"`
	Ranking    int               `json:"ranking"`
	Highlights MatchHighlights   `json:"highlights"`
}

// ProjectMatchingResults - итог прогона матчинга по проекту.
// TotalCandidates = количество реально оцененных CV (не всех загруженных).
type ProjectMatchingResults struct {
	Project         *models.SearchProject `json:"project"`
	Results         []*CVMatchResult      `json:"results"`
	TotalCandidates int                   `json:"total_candidates"`
	ProcessedAt     time.Time             `json:"processed_at"`
}
