package ports

import (
	"context"

	"github.com/inverland/estate-crm/internal/core/domain"
)

// PropertyRepository defines persistence operations for listings.
type PropertyRepository interface {
	GetAll(ctx context.Context) ([]*domain.Property, error)
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	Add(ctx context.Context, p *domain.Property) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	Delete(ctx context.Context, id string) error
}
