package ports

import (
	"context"

	"github.com/inverland/estate-crm/internal/core/domain"
)

// ClientRepository defines persistence operations for CRM clients.
type ClientRepository interface {
	GetAll(ctx context.Context) ([]*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	Add(ctx context.Context, c *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}
