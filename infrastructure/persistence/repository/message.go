package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vendora/realtime/domain/model"
	"github.com/vendora/realtime/domain/repository"
	"gorm.io/gorm"
)

type messageRepository struct {
	database *gorm.DB
}

func NewMessageRepository(database *gorm.DB) repository.MessageRepository {
	return &messageRepository{database: database}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	message.CreatedAt = time.Now().UTC()

	err := r.database.WithContext(ctx).Create(message).Error
	if err == nil {
		return nil
	}

	// An insert failure in a pre-migration environment is expected; classify
	// it with an explicit existence check instead of matching driver error
	// text, which differs across driver versions.
	if !r.database.WithContext(ctx).Migrator().HasTable(&model.Message{}) {
		return repository.ErrSchemaMissing
	}
	return err
}
