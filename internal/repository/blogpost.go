package repository

import (
	"context"
	"errors"

	"nexafolio/internal/models"

	"gorm.io/gorm"
)

// BlogPostRepository defines the interface for blog post data operations
type BlogPostRepository interface {
	List(ctx context.Context) ([]models.BlogPost, error)
	GetByID(ctx context.Context, id uint) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Create(ctx context.Context, post *models.BlogPost) error
	Update(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uint) error
}

// blogPostRepository implements BlogPostRepository
type blogPostRepository struct {
	db *gorm.DB
}

// NewBlogPostRepository creates a new blog post repository
func NewBlogPostRepository(db *gorm.DB) BlogPostRepository {
	return &blogPostRepository{db: db}
}

// List returns posts newest first, ids breaking ties.
func (r *blogPostRepository) List(ctx context.Context) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *blogPostRepository) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *blogPostRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *blogPostRepository) Create(ctx context.Context, post *models.BlogPost) error {
	if post.Tags == nil {
		post.Tags = models.Tags{}
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isDuplicateKey(err) {
			return models.NewConflictError("slug")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blogPostRepository) Update(ctx context.Context, post *models.BlogPost) error {
	if post.Tags == nil {
		post.Tags = models.Tags{}
	}
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		if isDuplicateKey(err) {
			return models.NewConflictError("slug")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the post if present. Deleting an absent id is not an error.
func (r *blogPostRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.BlogPost{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
