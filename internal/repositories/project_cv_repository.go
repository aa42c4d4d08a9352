package repositories

import (
	"errors"
	"time"

	"cvmatch_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProjectCVNotFound = errors.New("project cv not found")

type ProjectCVRepository interface {
	Create(cv *models.ProjectCV) error
	FindByID(id string) (*models.ProjectCV, error)
	// FindByProject возвращает CV проекта в детерминированном порядке
	// (created_at, id) - этот порядок фиксирует tie-break стабильной сортировки
	// при равных скорах.
	FindByProject(projectID string) ([]models.ProjectCV, error)
	CountByProject(projectID string) (int64, error)
	// UpdateScore записывает score и ranking ОДНИМ UPDATE-ом: пара атомарна,
	// score без ranking (и наоборот) в базе невозможен.
	UpdateScore(id string, score float64, ranking int, updatedAt time.Time) error
	// ResetScores сбрасывает score/ranking всех CV проекта в NULL.
	// parsed_data не трогается.
	ResetScores(projectID string) error
	SetParsedData(id string, data *models.ParsedCVData) error
	FindUnparsed(limit int) ([]models.ProjectCV, error)
	Delete(id string) error
}

type ProjectCVRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectCVRepository(db *gorm.DB) ProjectCVRepository {
	return &ProjectCVRepositoryImpl{db: db}
}

func (r *ProjectCVRepositoryImpl) Create(cv *models.ProjectCV) error {
	return r.db.Create(cv).Error
}

func (r *ProjectCVRepositoryImpl) FindByID(id string) (*models.ProjectCV, error) {
	var cv models.ProjectCV
	err := r.db.First(&cv, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectCVNotFound
		}
		return nil, err
	}
	return &cv, nil
}

func (r *ProjectCVRepositoryImpl) FindByProject(projectID string) ([]models.ProjectCV, error) {
	var cvs []models.ProjectCV
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&cvs).Error
	return cvs, err
}

func (r *ProjectCVRepositoryImpl) CountByProject(projectID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProjectCV{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

func (r *ProjectCVRepositoryImpl) UpdateScore(id string, score float64, ranking int, updatedAt time.Time) error {
	result := r.db.Model(&models.ProjectCV{}).Where("id = ?", id).Updates(map[string]interface{}{
		"score":      score,
		"ranking":    ranking,
		"updated_at": updatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectCVNotFound
	}
	return nil
}

func (r *ProjectCVRepositoryImpl) ResetScores(projectID string) error {
	return r.db.Model(&models.ProjectCV{}).Where("project_id = ?", projectID).Updates(map[string]interface{}{
		"score":      nil,
		"ranking":    nil,
		"updated_at": time.Now(),
	}).Error
}

func (r *ProjectCVRepositoryImpl) SetParsedData(id string, data *models.ParsedCVData) error {
	// Обновление через структуру, чтобы сработал json-сериализатор поля
	result := r.db.Model(&models.ProjectCV{}).Where("id = ?", id).
		Select("parsed_data", "updated_at").
		Updates(&models.ProjectCV{ParsedData: data})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectCVNotFound
	}
	return nil
}

func (r *ProjectCVRepositoryImpl) FindUnparsed(limit int) ([]models.ProjectCV, error) {
	var cvs []models.ProjectCV
	err := r.db.Where("parsed_data IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&cvs).Error
	return cvs, err
}

func (r *ProjectCVRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.ProjectCV{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectCVNotFound
	}
	return nil
}
