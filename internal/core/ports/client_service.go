package ports

import (
	"context"

	"github.com/inverland/estate-crm/internal/core/domain"
)

// ClientFilter carries query parameters for listing clients.
type ClientFilter struct {
	Status          string
	LeadSource      string
	AssignedAgentID string
	Search          string // partial match on name or email
	Page            int
	Limit           int
}

// ClientPage is one page of filtered clients.
type ClientPage struct {
	Items      []*domain.Client
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// ClientService owns the CRM client collection.
type ClientService interface {
	Bootstrap(ctx context.Context) error
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, f ClientFilter) (*ClientPage, error)
	// All returns the full in-memory collection in insertion order.
	All(ctx context.Context) []*domain.Client
	AddActivity(ctx context.Context, clientID string, in ActivityInput) (*domain.ActivityEntry, error)
}
