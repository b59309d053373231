package repository

import (
	"context"

	"github.com/vendora/realtime/domain/model"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}
