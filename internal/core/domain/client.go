package domain

import (
	"errors"
	"time"
)

var ErrInvalidClientStatus = errors.New("unknown client status")

// ClientStatus is a lead's stage in the sales pipeline.
type ClientStatus string

const (
	StatusNew        ClientStatus = "Nuevo"
	StatusContacted  ClientStatus = "Contactado"
	StatusQualified  ClientStatus = "Calificado"
	StatusVisit      ClientStatus = "Visita agendada"
	StatusNegotiating ClientStatus = "En negociación"
	StatusClosed     ClientStatus = "Cerrado"
	StatusLost       ClientStatus = "Perdido"
)

// ValidClientStatus reports whether s is a known pipeline stage.
func ValidClientStatus(s ClientStatus) bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusVisit,
		StatusNegotiating, StatusClosed, StatusLost:
		return true
	}
	return false
}

// Client is a lead or customer tracked by the CRM.
type Client struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	Name            string          `json:"name" bson:"name"`
	Email           string          `json:"email,omitempty" bson:"email,omitempty"`
	Phone           string          `json:"phone,omitempty" bson:"phone,omitempty"`
	LeadSource      string          `json:"lead_source,omitempty" bson:"lead_source,omitempty"`
	Status          ClientStatus    `json:"status" bson:"status"`
	AssignedAgentID string          `json:"assigned_agent_id,omitempty" bson:"assigned_agent_id,omitempty"`
	Notes           string          `json:"notes,omitempty" bson:"notes,omitempty"`
	ActivityLog     []ActivityEntry `json:"activity_log" bson:"activity_log"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" bson:"updated_at"`
}
