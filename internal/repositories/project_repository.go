package repositories

import (
	"errors"
	"time"

	"cvmatch_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepository interface {
	Create(project *models.SearchProject) error
	FindByID(id string) (*models.SearchProject, error)
	FindByOwner(ownerID string, limit, offset int) ([]models.SearchProject, int64, error)
	UpdateFields(id string, fields map[string]interface{}) error
	UpdateCriteria(id string, criteria models.ProjectCriteria) error
	Delete(id string) error
}

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) Create(project *models.SearchProject) error {
	return r.db.Create(project).Error
}

func (r *ProjectRepositoryImpl) FindByID(id string) (*models.SearchProject, error) {
	var project models.SearchProject
	err := r.db.First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindByOwner(ownerID string, limit, offset int) ([]models.SearchProject, int64, error) {
	var projects []models.SearchProject
	var total int64

	if err := r.db.Model(&models.SearchProject{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&projects).Error

	return projects, total, err
}

func (r *ProjectRepositoryImpl) UpdateFields(id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()

	result := r.db.Model(&models.SearchProject{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) UpdateCriteria(id string, criteria models.ProjectCriteria) error {
	return r.UpdateFields(id, map[string]interface{}{
		"criteria": datatypes.NewJSONType(criteria),
	})
}

func (r *ProjectRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.SearchProject{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
