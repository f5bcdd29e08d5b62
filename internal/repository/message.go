package repository

import (
	"context"

	"nexafolio/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for contact message operations
type MessageRepository interface {
	List(ctx context.Context) ([]models.Message, error)
	Create(ctx context.Context, message *models.Message) error
	Delete(ctx context.Context, id uint) error
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// List returns messages newest first.
func (r *messageRepository) List(ctx context.Context) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the message if present. Deleting an absent id is not an error.
func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Message{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
