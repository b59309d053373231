package repository

import (
	"context"
	"errors"

	"github.com/vendora/realtime/domain/model"
	"github.com/vendora/realtime/domain/repository"
	"gorm.io/gorm"
)

type tenantRepository struct {
	database *gorm.DB
}

func NewTenantRepository(database *gorm.DB) repository.TenantRepository {
	return &tenantRepository{database: database}
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*model.Tenant, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	return r.getOne(ctx, "slug = ?", slug)
}

func (r *tenantRepository) getOne(ctx context.Context, query string, arg string) (*model.Tenant, error) {
	var tenant model.Tenant
	err := r.database.WithContext(ctx).First(&tenant, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &tenant, nil
}
