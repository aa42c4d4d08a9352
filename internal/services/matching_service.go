package services

import (
	"context"
	"math"
	"sort"
	"time"

	"cvmatch_backend/internal/algorithms"
	"cvmatch_backend/internal/logger"
	"cvmatch_backend/internal/models"
	"cvmatch_backend/internal/repositories"
	"cvmatch_backend/internal/services/dto"
)

type MatchingService interface {
	// RunMatching выполняет прогон матчинга по проекту: грузит проект и его CV,
	// скорит все CV с parsed_data, присваивает ranking и персистит пары
	// (score, ranking) обратно в storage.
	RunMatching(ctx context.Context, projectID string) (*dto.ProjectMatchingResults, error)

	// EvaluateCV считает итоговый score и highlights одного CV по критериям.
	// Чистая функция: не ходит в базу.
	EvaluateCV(criteria models.ProjectCriteria, parsed *models.ParsedCVData) (float64, dto.MatchHighlights)
}

type matchingService struct {
	projectRepo repositories.ProjectRepository
	cvRepo      repositories.ProjectCVRepository

	// Per-project локи, общие с инвалидацией критериев: конкурентные прогоны по
	// одному проекту и ResetScores не должны перемешивать записи score/ranking.
	// Прогоны по разным проектам независимы.
	locks *ProjectLocks
}

func NewMatchingService(
	projectRepo repositories.ProjectRepository,
	cvRepo repositories.ProjectCVRepository,
	locks *ProjectLocks,
) MatchingService {
	return &matchingService{
		projectRepo: projectRepo,
		cvRepo:      cvRepo,
		locks:       locks,
	}
}

func (s *matchingService) RunMatching(ctx context.Context, projectID string) (*dto.ProjectMatchingResults, error) {
	lock := s.locks.Get(projectID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		// NotFound фатален для вызова, ретраев нет
		logger.MatchingLog(projectID, 0, time.Since(start), err)
		return nil, err
	}

	cvs, err := s.cvRepo.FindByProject(projectID)
	if err != nil {
		logger.MatchingLog(projectID, 0, time.Since(start), err)
		return nil, err
	}

	// Один снапшот критериев на весь прогон
	criteria := project.GetCriteria()

	results := make([]*dto.CVMatchResult, 0, len(cvs))
	for i := range cvs {
		cv := &cvs[i]
		if !cv.IsParsed() {
			// Не ошибка: CV еще не готов, score/ranking остаются NULL
			continue
		}

		score, highlights := s.EvaluateCV(criteria, cv.ParsedData)
		results = append(results, &dto.CVMatchResult{
			CV:         cv,
			Score:      score,
			Highlights: highlights,
		})
	}

	// Стабильная сортировка по убыванию: при равных скорах сохраняется порядок
	// выдачи репозитория (created_at, id) - детерминированный tie-break.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	processedAt := time.Now()

	for i, res := range results {
		res.Ranking = i + 1
		res.CV.Score = &res.Score
		res.CV.Ranking = &res.Ranking

		// Независимые point-updates; score+ranking пишутся одним UPDATE-ом.
		// Сбой одной записи не прерывает прогон.
		if err := s.cvRepo.UpdateScore(res.CV.ID, res.Score, res.Ranking, processedAt); err != nil {
			logger.CtxWithError(ctx, "failed to persist cv score", err,
				"project_id", projectID, "cv_id", res.CV.ID)
		}
	}

	logger.MatchingLog(projectID, len(results), time.Since(start), nil)

	return &dto.ProjectMatchingResults{
		Project:         project,
		Results:         results,
		TotalCandidates: len(results),
		ProcessedAt:     processedAt,
	}, nil
}

// EvaluateCV считает пять измерений и сворачивает их в итоговый score по весам
// проекта. Веса НЕ перепроверяются здесь: инвариант "сумма = 100" держит
// валидатор на границе create/update; при нарушенных весах арифметика просто
// даст то, что даст, без паники.
func (s *matchingService) EvaluateCV(criteria models.ProjectCriteria, parsed *models.ParsedCVData) (float64, dto.MatchHighlights) {
	if parsed == nil {
		// nil эквивалентен пустому документу: нейтральные/нулевые измерения
		parsed = &models.ParsedCVData{}
	}

	expScore := algorithms.ScoreExperience(parsed.TotalYearsExperience, criteria.MinimumYearsExperience)
	roleScore := algorithms.ScoreRole(criteria.TargetRole, parsed.RolesPositions)
	skillsScore := algorithms.ScoreSkills(criteria.RequiredSkills, criteria.PreferredSkills, parsed.Skills)
	industryScore := algorithms.ScoreIndustry(criteria.TargetIndustries, parsed.DominantIndustries)
	stabilityScore := algorithms.ScoreStability(parsed.JobChangesFrequency, criteria.MaxJobChangesPerYear)

	w := criteria.Weights
	total := (expScore*w.YearsExperience +
		roleScore.Score*w.RoleMatch +
		skillsScore.Score*w.SkillsMatch +
		industryScore.Score*w.IndustryMatch +
		stabilityScore*w.JobStability) / 100

	highlights := dto.MatchHighlights{
		Experience: dto.ExperienceHighlight{
			Score:         round2(expScore),
			ActualYears:   parsed.TotalYearsExperience,
			RequiredYears: criteria.MinimumYearsExperience,
		},
		Role: dto.RoleHighlight{
			Score:        round2(roleScore.Score),
			TargetRole:   criteria.TargetRole,
			MatchedRoles: roleScore.Matches,
		},
		Skills: dto.SkillsHighlight{
			Score:           round2(skillsScore.Score),
			RequiredSkills:  criteria.RequiredSkills,
			PreferredSkills: criteria.PreferredSkills,
			ExactMatches:    skillsScore.ExactMatches,
			SemanticMatches: skillsScore.SemanticMatches,
		},
		Industry: dto.IndustryHighlight{
			Score:             round2(industryScore.Score),
			TargetIndustries:  criteria.TargetIndustries,
			MatchedIndustries: industryScore.Matches,
		},
		Stability: dto.StabilityHighlight{
			Score:             round2(stabilityScore),
			JobChangesPerYear: parsed.JobChangesFrequency,
			MaxChangesPerYear: criteria.MaxJobChangesPerYear,
		},
	}

	return round2(total), highlights
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
