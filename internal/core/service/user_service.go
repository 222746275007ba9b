package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inverland/estate-crm/internal/core/domain"
	"github.com/inverland/estate-crm/internal/core/ports"
)

// EnvDevelopment enables default-account seeding in Bootstrap.
const EnvDevelopment = "development"

// UserService owns the account collection. The remote store is authoritative
// when reachable; the snapshot cache is a best-effort mirror used as a read
// fallback during Bootstrap.
type UserService struct {
	repo     ports.UserRepository
	cache    ports.SnapshotCache
	sessions ports.SessionStore
	ids      ports.IDGenerator
	props    ports.PropertyReferences
	clients  ports.ClientReferences
	env      string
	log      zerolog.Logger

	mu    sync.RWMutex
	users []*domain.User
}

func NewUserService(
	repo ports.UserRepository,
	cache ports.SnapshotCache,
	sessions ports.SessionStore,
	ids ports.IDGenerator,
	props ports.PropertyReferences,
	clients ports.ClientReferences,
	env string,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		repo:     repo,
		cache:    cache,
		sessions: sessions,
		ids:      ids,
		props:    props,
		clients:  clients,
		env:      env,
		log:      log,
	}
}

// seedAccount is one of the default accounts created in development when both
// the remote store and the cache are empty.
type seedAccount struct {
	username       string
	password       string
	role           string
	name           string
	commissionRate float64
}

var defaultAccounts = []seedAccount{
	{username: "admin", password: "admin", role: domain.RoleAdmin, name: "Administrador"},
	{username: "jhernandez", password: "password", role: domain.RoleAgent, name: "Juan Hernández", commissionRate: 0.025},
	{username: "agente", password: "agente", role: domain.RoleAgent, name: "Agente de Pruebas", commissionRate: 0.03},
	{username: "referido", password: "password", role: domain.RoleReferrer, name: "Ana de Referidos"},
}

// Bootstrap reconciles remote and cached user records on startup.
//
// Remote records win. If the remote fetch fails the cached snapshot is used.
// If both are empty and the environment is development, the default accounts
// are seeded, each created remotely only when no record with the same
// username already exists there (the dedup guard). Outside development an
// empty remote result stays empty.
func (s *UserService) Bootstrap(ctx context.Context) error {
	remote, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("remote user fetch failed, falling back to cache")
		var cached []*domain.User
		if s.cache.Load(ctx, ports.CacheKeyUsers, &cached) {
			s.setCollection(cached)
			s.log.Info().Int("count", len(cached)).Msg("users loaded from cache")
			return nil
		}
		s.setCollection(nil)
		return nil
	}

	if len(remote) == 0 && s.env == EnvDevelopment {
		seeded, seedErr := s.seedDefaults(ctx)
		if seedErr != nil {
			return seedErr
		}
		remote = seeded
	}

	s.setCollection(remote)
	s.cache.Save(ctx, ports.CacheKeyUsers, remote)
	s.log.Info().Int("count", len(remote)).Msg("users loaded")
	return nil
}

func (s *UserService) seedDefaults(ctx context.Context) ([]*domain.User, error) {
	seeded := make([]*domain.User, 0, len(defaultAccounts))
	for _, acct := range defaultAccounts {
		// Existence check by username, not id: a partially seeded remote
		// store must not receive duplicates.
		existing, err := s.repo.FindByUsername(ctx, acct.username)
		if err == nil {
			seeded = append(seeded, existing)
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acct.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		created, err := s.repo.Add(ctx, &domain.User{
			ID:             s.ids.NewID(),
			Username:       acct.username,
			PasswordHash:   string(hash),
			Role:           acct.role,
			Name:           acct.name,
			CommissionRate: acct.commissionRate,
		})
		if err != nil {
			return nil, err
		}
		seeded = append(seeded, created)
		s.log.Info().Str("username", acct.username).Str("role", acct.role).Msg("default account seeded")
	}
	return seeded, nil
}

func (s *UserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" || !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := s.ByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Add(ctx, &domain.User{
		ID:             s.ids.NewID(),
		Username:       in.Username,
		PasswordHash:   string(hash),
		Role:           in.Role,
		Name:           in.Name,
		CommissionRate: in.CommissionRate,
	})
	if err != nil {
		s.log.Error().Err(err).Str("username", in.Username).Msg("failed to register user")
		return nil, err
	}

	s.mu.Lock()
	next := append(s.copyLocked(), stored)
	s.users = next
	s.mu.Unlock()
	s.cache.Save(ctx, ports.CacheKeyUsers, next)

	s.log.Info().Str("user_id", stored.ID).Str("username", stored.Username).Msg("user registered")
	return stored, nil
}

func (s *UserService) Update(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
	if !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidCredentials
	}

	s.mu.Lock()
	idx := s.indexOfLocked(in.ID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, domain.ErrUserNotFound
	}
	current := s.users[idx]

	if in.Username != current.Username {
		for _, u := range s.users {
			if u.Username == in.Username {
				s.mu.Unlock()
				return nil, domain.ErrUserExists
			}
		}
	}

	updated := *current
	updated.Username = in.Username
	updated.Role = in.Role
	updated.Name = in.Name
	updated.CommissionRate = in.CommissionRate
	updated.UpdatedAt = time.Now().UTC()
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		updated.PasswordHash = string(hash)
	}

	next := s.copyLocked()
	next[idx] = &updated
	s.users = next
	s.mu.Unlock()

	if err := s.repo.Update(ctx, &updated); err != nil {
		s.log.Error().Err(err).Str("user_id", in.ID).Msg("remote user update failed")
		return nil, err
	}
	s.cache.Save(ctx, ports.CacheKeyUsers, next)
	s.refreshSession(ctx, &updated)

	return &updated, nil
}

// refreshSession re-derives the stripped session record after a profile edit
// so the active session never drifts from the underlying user.
func (s *UserService) refreshSession(ctx context.Context, u *domain.User) {
	existing, err := s.sessions.Get(ctx, u.ID)
	if err != nil || existing == nil {
		return
	}
	refreshed := domain.NewSession(u, existing.LoggedInAt)
	if err := s.sessions.Put(ctx, refreshed); err != nil {
		s.log.Warn().Err(err).Str("user_id", u.ID).Msg("failed to refresh session record")
	}
}

// Delete removes a user after the deletion guards pass: no self-delete, no
// admin deleting another admin, no deleting a user still referenced by a
// property's agent assignment or a client's agent assignment.
func (s *UserService) Delete(ctx context.Context, id string, actor *domain.Session) error {
	if actor != nil && actor.UserID == id {
		return domain.ErrSelfDelete
	}

	s.mu.RLock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.RUnlock()
		return domain.ErrUserNotFound
	}
	target := s.users[idx]
	s.mu.RUnlock()

	if actor != nil && actor.Role == domain.RoleAdmin && target.Role == domain.RoleAdmin {
		return domain.ErrAdminDeletesAdmin
	}
	if p, found := s.props.FirstByAgent(ctx, id); found {
		return &domain.ReferencedError{Kind: "property", Blocking: p.Title}
	}
	if c, found := s.clients.FirstByAgent(ctx, id); found {
		return &domain.ReferencedError{Kind: "client", Blocking: c.Name}
	}

	s.mu.Lock()
	idx = s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrUserNotFound
	}
	next := make([]*domain.User, 0, len(s.users)-1)
	next = append(next, s.users[:idx]...)
	next = append(next, s.users[idx+1:]...)
	s.users = next
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("user_id", id).Msg("remote user delete failed")
		return err
	}
	s.cache.Save(ctx, ports.CacheKeyUsers, next)

	if err := s.sessions.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("failed to drop session of deleted user")
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOfLocked(id); idx >= 0 {
		clone := *s.users[idx]
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

// ByUsername implements ports.CredentialSource for the auth service.
func (s *UserService) ByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *UserService) List(_ context.Context) []*domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, len(s.users))
	for i, u := range s.users {
		clone := *u
		out[i] = &clone
	}
	return out
}

// ForceCleanDuplicates fetches the full remote collection, keeps the first
// record per username, deletes the rest remotely, and replaces in-memory and
// cached state with the deduplicated set.
func (s *UserService) ForceCleanDuplicates(ctx context.Context) (int, error) {
	remote, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(remote))
	kept := make([]*domain.User, 0, len(remote))
	var removed int
	for _, u := range remote {
		if _, dup := seen[u.Username]; dup {
			if delErr := s.repo.Delete(ctx, u.ID); delErr != nil {
				s.log.Warn().Err(delErr).Str("user_id", u.ID).Str("username", u.Username).Msg("failed to delete duplicate user")
				continue
			}
			removed++
			continue
		}
		seen[u.Username] = struct{}{}
		kept = append(kept, u)
	}

	s.setCollection(kept)
	s.cache.Save(ctx, ports.CacheKeyUsers, kept)
	s.log.Info().Int("removed", removed).Int("kept", len(kept)).Msg("duplicate users cleaned")
	return removed, nil
}

func (s *UserService) setCollection(items []*domain.User) {
	s.mu.Lock()
	s.users = items
	s.mu.Unlock()
}

func (s *UserService) copyLocked() []*domain.User {
	next := make([]*domain.User, len(s.users))
	copy(next, s.users)
	return next
}

func (s *UserService) indexOfLocked(id string) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
