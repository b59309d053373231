package repository

import (
	"context"
	"errors"

	"github.com/vendora/realtime/domain/model"
	"github.com/vendora/realtime/domain/repository"
	"gorm.io/gorm"
)

type customerRepository struct {
	database *gorm.DB
}

func NewCustomerRepository(database *gorm.DB) repository.CustomerRepository {
	return &customerRepository{database: database}
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	var customer model.Customer
	err := r.database.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}
