package ports

import (
	"context"

	"github.com/inverland/estate-crm/internal/core/domain"
)

// UserRepository defines persistence operations against the remote user
// collection. Every write stamps server-side created/updated timestamps.
// Failures propagate to the caller; fallback policy lives in the service.
type UserRepository interface {
	GetAll(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// FindByUsername is the existence check used by the seeding dedup guard.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Add(ctx context.Context, u *domain.User) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}
