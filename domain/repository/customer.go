package repository

import (
	"context"

	"github.com/vendora/realtime/domain/model"
)

type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*model.Customer, error)
}
