package services

import (
	"context"

	"cvmatch_backend/internal/logger"
	"cvmatch_backend/internal/models"
	"cvmatch_backend/internal/parser"
	"cvmatch_backend/internal/repositories"
	"cvmatch_backend/internal/services/dto"
	"cvmatch_backend/pkg/apperrors"
)

type CVService interface {
	// Register регистрирует загруженный CV в проекте. Файл уже сохранен
	// вышележащим слоем - здесь фиксируется только file_path/file_name.
	// Лимит живых CV на проект возвращает ErrCVLimitExceeded.
	Register(ctx context.Context, projectID string, req *dto.RegisterCVRequest) (*models.ProjectCV, error)
	GetByID(ctx context.Context, id string) (*models.ProjectCV, error)
	ListByProject(ctx context.Context, projectID string) ([]models.ProjectCV, error)
	// Parse вызывает внешний парсер для CV и сохраняет parsed_data.
	// Повторный вызов для уже распарсенного CV - no-op.
	Parse(ctx context.Context, id string) (*models.ProjectCV, error)
	Delete(ctx context.Context, id string) error
}

type cvService struct {
	cvRepo        repositories.ProjectCVRepository
	projectRepo   repositories.ProjectRepository
	parser        parser.CVParser
	maxPerProject int
}

func NewCVService(
	cvRepo repositories.ProjectCVRepository,
	projectRepo repositories.ProjectRepository,
	cvParser parser.CVParser,
	maxPerProject int,
) CVService {
	return &cvService{
		cvRepo:        cvRepo,
		projectRepo:   projectRepo,
		parser:        cvParser,
		maxPerProject: maxPerProject,
	}
}

func (s *cvService) Register(ctx context.Context, projectID string, req *dto.RegisterCVRequest) (*models.ProjectCV, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		return nil, err
	}

	count, err := s.cvRepo.CountByProject(projectID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.maxPerProject) {
		return nil, apperrors.ErrCVLimitExceeded
	}

	cv := &models.ProjectCV{
		ProjectID: projectID,
		OwnerID:   req.OwnerID,
		FileName:  req.FileName,
		FilePath:  req.FilePath,
	}

	if err := s.cvRepo.Create(cv); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "cv registered", "cv_id", cv.ID, "project_id", projectID)
	return cv, nil
}

func (s *cvService) GetByID(ctx context.Context, id string) (*models.ProjectCV, error) {
	return s.cvRepo.FindByID(id)
}

func (s *cvService) ListByProject(ctx context.Context, projectID string) ([]models.ProjectCV, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		return nil, err
	}
	return s.cvRepo.FindByProject(projectID)
}

func (s *cvService) Parse(ctx context.Context, id string) (*models.ProjectCV, error) {
	cv, err := s.cvRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	// parsed_data заполняется парсером один раз и дальше не мутируется
	if cv.IsParsed() {
		return cv, nil
	}

	parsed, err := s.parser.ParseCV(ctx, cv.FilePath)
	if err != nil {
		logger.CtxWithError(ctx, "cv parsing failed", err, "cv_id", id, "file_path", cv.FilePath)
		return nil, err
	}

	if err := s.cvRepo.SetParsedData(id, parsed); err != nil {
		return nil, err
	}

	return s.cvRepo.FindByID(id)
}

func (s *cvService) Delete(ctx context.Context, id string) error {
	return s.cvRepo.Delete(id)
}
