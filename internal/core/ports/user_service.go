package ports

import (
	"context"

	"github.com/inverland/estate-crm/internal/core/domain"
)

// RegisterUserInput carries the data needed to create an account.
type RegisterUserInput struct {
	Username       string
	Password       string
	Role           string
	Name           string
	CommissionRate float64
}

// UpdateUserInput mutates an existing account. Password is optional: empty
// means keep the current hash.
type UpdateUserInput struct {
	ID             string
	Username       string
	Password       string
	Role           string
	Name           string
	CommissionRate float64
}

// UserService owns the user collection: registration, profile edits, guarded
// deletion, the startup synchronization routine, and duplicate cleanup.
type UserService interface {
	// Bootstrap reconciles remote and cached user records on startup,
	// seeding default accounts in a development environment.
	Bootstrap(ctx context.Context) error
	Register(ctx context.Context, in RegisterUserInput) (*domain.User, error)
	Update(ctx context.Context, in UpdateUserInput) (*domain.User, error)
	// Delete removes a user unless the actor is deleting themselves, an admin
	// is deleting another admin, or the user is still referenced by a
	// property or client.
	Delete(ctx context.Context, id string, actor *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) []*domain.User
	// ForceCleanDuplicates keeps one remote record per username, deletes the
	// rest, and returns how many were removed.
	ForceCleanDuplicates(ctx context.Context) (int, error)
}

// CredentialSource resolves accounts during login.
type CredentialSource interface {
	ByUsername(ctx context.Context, username string) (*domain.User, error)
}

// PropertyReferences answers whether an agent still owns a listing.
type PropertyReferences interface {
	FirstByAgent(ctx context.Context, agentID string) (*domain.Property, bool)
}

// ClientReferences answers whether an agent still owns a client.
type ClientReferences interface {
	FirstByAgent(ctx context.Context, agentID string) (*domain.Client, bool)
}

// AuthService validates credentials and maintains the active session record.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.Session, error)
	Logout(ctx context.Context, userID string) error
}
