package repository

import (
	"context"
	"errors"

	"nexafolio/internal/models"

	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	List(ctx context.Context) ([]models.Project, error)
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
}

// projectRepository implements ProjectRepository
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) List(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.WithContext(ctx).
		Order("priority DESC").
		Order("id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.Tags == nil {
		project.Tags = models.Tags{}
	}
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	if project.Tags == nil {
		project.Tags = models.Tags{}
	}
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the project if present. Deleting an absent id is not an error.
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Project{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
