package domain

import (
	"errors"
	"time"
)

// CampaignStatus is the lifecycle state of a marketing campaign.
type CampaignStatus string

const (
	CampaignDraft CampaignStatus = "Borrador"
	CampaignSent  CampaignStatus = "Enviada"
)

var ErrCampaignNotFound = errors.New("campaign not found")
var ErrCampaignAlreadySent = errors.New("campaign already sent")

// Audience is a campaign's declarative client-selection predicate.
// An empty list means match-all for that dimension.
type Audience struct {
	Status     []ClientStatus `json:"status" bson:"status"`
	LeadSource []string       `json:"lead_source" bson:"lead_source"`
}

// Matches reports whether a client falls inside the audience.
func (a Audience) Matches(c *Client) bool {
	statusMatch := len(a.Status) == 0
	for _, s := range a.Status {
		if c.Status == s {
			statusMatch = true
			break
		}
	}
	sourceMatch := len(a.LeadSource) == 0
	if !sourceMatch && c.LeadSource != "" {
		for _, src := range a.LeadSource {
			if c.LeadSource == src {
				sourceMatch = true
				break
			}
		}
	}
	return statusMatch && sourceMatch
}

// Campaign is a marketing send targeted at a subset of clients.
// Sent is terminal: a campaign moves from Draft to Sent exactly once.
type Campaign struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	Name           string         `json:"name" bson:"name"`
	Subject        string         `json:"subject" bson:"subject"`
	Body           string         `json:"body" bson:"body"`
	TargetAudience Audience       `json:"target_audience" bson:"target_audience"`
	Status         CampaignStatus `json:"status" bson:"status"`
	SentAt         *time.Time     `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	SentToCount    int            `json:"sent_to_count" bson:"sent_to_count"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}
