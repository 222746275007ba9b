package ports

import (
	"context"

	"github.com/inverland/estate-crm/internal/core/domain"
)

// Snapshot cache keys, one JSON blob per entity collection.
const (
	CacheKeyUsers      = "inverland:users"
	CacheKeyProperties = "inverland:properties"
	CacheKeyClients    = "inverland:clients"
	CacheKeyCampaigns  = "inverland:campaigns"
)

// SnapshotCache is the local best-effort persistence tier. The remote store is
// authoritative when reachable; this cache is a read fallback and a mirror.
//
// Save failures are logged inside the adapter and never surface: in-memory
// state remains the source of truth for the process lifetime. Load returns
// false on a miss or on any decode failure.
type SnapshotCache interface {
	Load(ctx context.Context, key string, v any) bool
	Save(ctx context.Context, key string, v any)
}

// SessionStore holds transient session records, keyed by user id, with a
// bounded lifetime. Losing a record only forces a re-login.
type SessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, userID string) (*domain.Session, error)
	Delete(ctx context.Context, userID string) error
}

// IDGenerator assigns identifiers for locally created entities. Injected so
// tests can use a deterministic sequence.
type IDGenerator interface {
	NewID() string
}
