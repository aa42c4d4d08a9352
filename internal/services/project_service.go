package services

import (
	"context"

	"cvmatch_backend/internal/logger"
	"cvmatch_backend/internal/models"
	"cvmatch_backend/internal/repositories"
	"cvmatch_backend/internal/services/dto"

	"gorm.io/datatypes"
)

type ProjectService interface {
	Create(ctx context.Context, req *dto.CreateProjectRequest) (*models.SearchProject, error)
	GetByID(ctx context.Context, id string) (*models.SearchProject, error)
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.SearchProject, int64, error)
	// Update применяет частичное обновление. Если req.Criteria задан, это полная
	// замена критериев: все score/ranking CV проекта сбрасываются в NULL
	// (устаревшие скоры не должны выдаваться за актуальные). Перезапуск матчинга
	// при этом НЕ происходит - это отдельное явное действие вызывающего.
	Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*models.SearchProject, error)
	Delete(ctx context.Context, id string) error
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	cvRepo      repositories.ProjectCVRepository
	userRepo    repositories.UserRepository
	locks       *ProjectLocks
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	cvRepo repositories.ProjectCVRepository,
	userRepo repositories.UserRepository,
	locks *ProjectLocks,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		cvRepo:      cvRepo,
		userRepo:    userRepo,
		locks:       locks,
	}
}

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest) (*models.SearchProject, error) {
	if _, err := s.userRepo.FindByID(req.OwnerID); err != nil {
		return nil, err
	}

	project := &models.SearchProject{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Status:      models.ProjectStatusActive,
		Criteria:    datatypes.NewJSONType(req.Criteria),
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "search project created", "project_id", project.ID, "owner_id", project.OwnerID)
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*models.SearchProject, error) {
	return s.projectRepo.FindByID(id)
}

func (s *projectService) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.SearchProject, int64, error) {
	offset := (page - 1) * pageSize
	return s.projectRepo.FindByOwner(ownerID, pageSize, offset)
}

func (s *projectService) Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*models.SearchProject, error) {
	if _, err := s.projectRepo.FindByID(id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	if len(fields) > 0 {
		if err := s.projectRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	if req.Criteria != nil {
		// Инвалидация: критерии изменились, старые скоры больше не авторитетны.
		// Замена + сброс идут под тем же per-project локом, что и матчинг-прогон:
		// ResetScores не должен перемешаться с write-back идущего прогона.
		lock := s.locks.Get(id)
		lock.Lock()
		err := s.projectRepo.UpdateCriteria(id, *req.Criteria)
		if err == nil {
			err = s.cvRepo.ResetScores(id)
		}
		lock.Unlock()
		if err != nil {
			return nil, err
		}

		logger.CtxInfo(ctx, "project criteria updated, cv scores invalidated", "project_id", id)
	}

	return s.projectRepo.FindByID(id)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projectRepo.Delete(id)
}
