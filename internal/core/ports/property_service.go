package ports

import (
	"context"

	"github.com/inverland/estate-crm/internal/core/domain"
)

// PropertyFilter carries all query parameters for listing properties.
// Zero values mean "no filter" for that dimension.
type PropertyFilter struct {
	Type          string   // exact match, case-insensitive
	OperationType string   // exact match
	Location      string   // substring match on city/state/neighborhood
	MinPrice      float64
	MaxPrice      float64
	Bedrooms      int      // minimum
	Bathrooms     int      // minimum
	Amenities     []string // property must carry all of these
	AgentID       string
	Page          int // 1-based
	Limit         int // capped at 100 by the service
}

// PropertyPage is one page of filtered listings.
type PropertyPage struct {
	Items      []*domain.Property
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// ActivityInput is the caller-supplied part of an activity log entry;
// id and timestamp are assigned by the service.
type ActivityInput struct {
	Type        string
	Description string
	Actor       string
}

// PropertyService owns the listing collection.
type PropertyService interface {
	Bootstrap(ctx context.Context) error
	Create(ctx context.Context, p *domain.Property) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) (*domain.Property, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context, f PropertyFilter) (*PropertyPage, error)
	// AssignToAgent gives the listed properties to agentID and unassigns any
	// property the agent previously held that is absent from propertyIDs.
	AssignToAgent(ctx context.Context, agentID string, propertyIDs []string) error
	// AssignClient links a client to a property; an empty clientID unlinks.
	AssignClient(ctx context.Context, propertyID, clientID string) error
	AddActivity(ctx context.Context, propertyID string, in ActivityInput) (*domain.ActivityEntry, error)
}
