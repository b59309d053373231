package repository

import (
	"context"

	"github.com/vendora/realtime/domain/model"
)

type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*model.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tenant, error)
}
