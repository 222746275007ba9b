package ports

import (
	"context"

	"github.com/inverland/estate-crm/internal/core/domain"
)

// CampaignDelivery is one outbound message produced by a campaign send.
type CampaignDelivery struct {
	CampaignID string
	ClientID   string
	Email      string
	Name       string
	Subject    string
	Body       string
}

// DeliveryDispatcher accepts deliveries for asynchronous dispatch.
// Per-client ordering is preserved by the implementation.
type DeliveryDispatcher interface {
	Enqueue(d CampaignDelivery)
	EnqueueBatch(ds []CampaignDelivery)
}

// Mailer performs the actual SMTP send of a single delivery.
type Mailer interface {
	Send(d CampaignDelivery) error
}

// ClientSource supplies the full client collection at send time.
type ClientSource interface {
	All(ctx context.Context) []*domain.Client
}

// SendResult reports the outcome of a campaign send.
type SendResult struct {
	Campaign   *domain.Campaign
	Recipients []*domain.Client
}

// CampaignService owns the campaign collection.
type CampaignService interface {
	Bootstrap(ctx context.Context) error
	Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)
	Update(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context) []*domain.Campaign
	// Send computes the audience subset, marks the campaign Sent exactly
	// once, and returns the matched clients. Sending an already-sent or
	// unknown campaign is a no-op returning no recipients.
	Send(ctx context.Context, campaignID string) (*SendResult, error)
}
