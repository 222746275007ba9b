package domain

import "time"

// ActivityEntry is one record in the append-only history attached to a
// property or client. Entries are never mutated or deleted individually.
type ActivityEntry struct {
	ID          string    `json:"id" bson:"id"`
	Type        string    `json:"type" bson:"type"`
	Description string    `json:"description" bson:"description"`
	Actor       string    `json:"actor,omitempty" bson:"actor,omitempty"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}
