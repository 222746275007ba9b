package ports

import (
	"context"

	"github.com/inverland/estate-crm/internal/core/domain"
)

// CampaignRepository defines persistence operations for marketing campaigns.
type CampaignRepository interface {
	GetAll(ctx context.Context) ([]*domain.Campaign, error)
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	Add(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)
	Update(ctx context.Context, c *domain.Campaign) error
	Delete(ctx context.Context, id string) error
}
