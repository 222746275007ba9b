// Package idgen provides the id generator injected into the entity services.
// UUIDs replace the timestamp-derived ids of earlier versions, which could
// collide under concurrent creation.
package idgen

import "github.com/google/uuid"

// UUID generates random (v4) identifiers.
type UUID struct{}

func NewUUID() UUID {
	return UUID{}
}

func (UUID) NewID() string {
	return uuid.NewString()
}
