package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/inverland/estate-crm/internal/core/domain"
	"github.com/inverland/estate-crm/internal/core/ports"
)

// ClientService owns the in-memory client collection, mirrored to the
// snapshot cache on every mutation.
type ClientService struct {
	repo  ports.ClientRepository
	cache ports.SnapshotCache
	ids   ports.IDGenerator
	log   zerolog.Logger

	mu      sync.RWMutex
	clients []*domain.Client
}

func NewClientService(repo ports.ClientRepository, cache ports.SnapshotCache, ids ports.IDGenerator, log zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, cache: cache, ids: ids, log: log}
}

func (s *ClientService) Bootstrap(ctx context.Context) error {
	remote, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("remote client fetch failed, falling back to cache")
		var cached []*domain.Client
		if s.cache.Load(ctx, ports.CacheKeyClients, &cached) {
			s.setCollection(cached)
			return nil
		}
		s.setCollection(nil)
		return nil
	}

	s.setCollection(remote)
	s.cache.Save(ctx, ports.CacheKeyClients, remote)
	s.log.Info().Int("count", len(remote)).Msg("clients loaded")
	return nil
}

func (s *ClientService) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	created := *c
	if created.Status == "" {
		created.Status = domain.StatusNew
	}
	if !domain.ValidClientStatus(created.Status) {
		return nil, domain.ErrInvalidClientStatus
	}
	created.ID = s.ids.NewID()
	if created.ActivityLog == nil {
		created.ActivityLog = []domain.ActivityEntry{}
	}

	stored, err := s.repo.Add(ctx, &created)
	if err != nil {
		s.log.Error().Err(err).Str("name", c.Name).Msg("failed to create client")
		return nil, err
	}

	s.mu.Lock()
	next := append(s.copyLocked(), stored)
	s.clients = next
	s.mu.Unlock()
	s.cache.Save(ctx, ports.CacheKeyClients, next)

	s.log.Info().Str("client_id", stored.ID).Str("name", stored.Name).Msg("client created")
	return stored, nil
}

func (s *ClientService) Update(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	if c.Status != "" && !domain.ValidClientStatus(c.Status) {
		return nil, domain.ErrInvalidClientStatus
	}

	s.mu.Lock()
	idx := s.indexOfLocked(c.ID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, domain.ErrClientNotFound
	}

	updated := *c
	updated.CreatedAt = s.clients[idx].CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	next := s.copyLocked()
	next[idx] = &updated
	s.clients = next
	s.mu.Unlock()

	if err := s.repo.Update(ctx, &updated); err != nil {
		s.log.Error().Err(err).Str("client_id", c.ID).Msg("remote client update failed")
		return nil, err
	}
	s.cache.Save(ctx, ports.CacheKeyClients, next)
	return &updated, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrClientNotFound
	}
	next := make([]*domain.Client, 0, len(s.clients)-1)
	next = append(next, s.clients[:idx]...)
	next = append(next, s.clients[idx+1:]...)
	s.clients = next
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("client_id", id).Msg("remote client delete failed")
		return err
	}
	s.cache.Save(ctx, ports.CacheKeyClients, next)
	s.log.Info().Str("client_id", id).Msg("client deleted")
	return nil
}

func (s *ClientService) GetByID(_ context.Context, id string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOfLocked(id); idx >= 0 {
		clone := *s.clients[idx]
		return &clone, nil
	}
	return nil, domain.ErrClientNotFound
}

func (s *ClientService) List(_ context.Context, f ports.ClientFilter) (*ports.ClientPage, error) {
	s.mu.RLock()
	snapshot := s.clients
	s.mu.RUnlock()

	var matched []*domain.Client
	for _, c := range snapshot {
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		if f.LeadSource != "" && c.LeadSource != f.LeadSource {
			continue
		}
		if f.AssignedAgentID != "" && c.AssignedAgentID != f.AssignedAgentID {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.Email), q) {
				continue
			}
		}
		clone := *c
		matched = append(matched, &clone)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	total := len(matched)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &ports.ClientPage{
		Items:      matched[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// All returns a copy of the full collection in insertion order.
func (s *ClientService) All(_ context.Context) []*domain.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Client, len(s.clients))
	for i, c := range s.clients {
		clone := *c
		out[i] = &clone
	}
	return out
}

func (s *ClientService) AddActivity(ctx context.Context, clientID string, in ports.ActivityInput) (*domain.ActivityEntry, error) {
	entry := domain.ActivityEntry{
		ID:          s.ids.NewID(),
		Type:        in.Type,
		Description: in.Description,
		Actor:       in.Actor,
		Timestamp:   time.Now().UTC(),
	}

	s.mu.Lock()
	idx := s.indexOfLocked(clientID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, domain.ErrClientNotFound
	}
	clone := *s.clients[idx]
	clone.ActivityLog = append(append([]domain.ActivityEntry{}, clone.ActivityLog...), entry)
	clone.UpdatedAt = entry.Timestamp
	next := s.copyLocked()
	next[idx] = &clone
	s.clients = next
	s.mu.Unlock()

	if err := s.repo.Update(ctx, &clone); err != nil {
		s.log.Error().Err(err).Str("client_id", clientID).Msg("remote activity append failed")
		return nil, err
	}
	s.cache.Save(ctx, ports.CacheKeyClients, next)
	return &entry, nil
}

// FirstByAgent reports the first client still assigned to agentID.
func (s *ClientService) FirstByAgent(_ context.Context, agentID string) (*domain.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.AssignedAgentID == agentID {
			clone := *c
			return &clone, true
		}
	}
	return nil, false
}

func (s *ClientService) setCollection(items []*domain.Client) {
	s.mu.Lock()
	s.clients = items
	s.mu.Unlock()
}

func (s *ClientService) copyLocked() []*domain.Client {
	next := make([]*domain.Client, len(s.clients))
	copy(next, s.clients)
	return next
}

func (s *ClientService) indexOfLocked(id string) int {
	for i, c := range s.clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}
