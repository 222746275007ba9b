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

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PropertyService owns the in-memory listing collection. Every mutation
// replaces the slice wholesale under the write lock, persists to the remote
// store, and mirrors the new state to the snapshot cache, so readers never
// observe a partially applied change.
type PropertyService struct {
	repo  ports.PropertyRepository
	cache ports.SnapshotCache
	ids   ports.IDGenerator
	log   zerolog.Logger

	mu         sync.RWMutex
	properties []*domain.Property
}

func NewPropertyService(repo ports.PropertyRepository, cache ports.SnapshotCache, ids ports.IDGenerator, log zerolog.Logger) *PropertyService {
	return &PropertyService{repo: repo, cache: cache, ids: ids, log: log}
}

// Bootstrap loads the collection from the remote store, falling back to the
// snapshot cache when the remote store is unreachable.
func (s *PropertyService) Bootstrap(ctx context.Context) error {
	remote, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("remote property fetch failed, falling back to cache")
		var cached []*domain.Property
		if s.cache.Load(ctx, ports.CacheKeyProperties, &cached) {
			s.setCollection(cached)
			return nil
		}
		s.setCollection(nil)
		return nil
	}

	s.setCollection(remote)
	s.cache.Save(ctx, ports.CacheKeyProperties, remote)
	s.log.Info().Int("count", len(remote)).Msg("properties loaded")
	return nil
}

func (s *PropertyService) Create(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created := *p
	created.ID = s.ids.NewID()
	if created.ActivityLog == nil {
		created.ActivityLog = []domain.ActivityEntry{}
	}

	stored, err := s.repo.Add(ctx, &created)
	if err != nil {
		s.log.Error().Err(err).Str("title", p.Title).Msg("failed to create property")
		return nil, err
	}

	s.mu.Lock()
	next := append(s.copyLocked(), stored)
	s.properties = next
	s.mu.Unlock()
	s.cache.Save(ctx, ports.CacheKeyProperties, next)

	s.log.Info().Str("property_id", stored.ID).Str("title", stored.Title).Msg("property created")
	return stored, nil
}

func (s *PropertyService) Update(ctx context.Context, p *domain.Property) (*domain.Property, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	idx := s.indexOfLocked(p.ID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, domain.ErrPropertyNotFound
	}

	updated := *p
	updated.CreatedAt = s.properties[idx].CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	next := s.copyLocked()
	next[idx] = &updated
	s.properties = next
	s.mu.Unlock()

	if err := s.repo.Update(ctx, &updated); err != nil {
		s.log.Error().Err(err).Str("property_id", p.ID).Msg("remote property update failed")
		return nil, err
	}
	s.cache.Save(ctx, ports.CacheKeyProperties, next)
	return &updated, nil
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrPropertyNotFound
	}
	next := make([]*domain.Property, 0, len(s.properties)-1)
	next = append(next, s.properties[:idx]...)
	next = append(next, s.properties[idx+1:]...)
	s.properties = next
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("property_id", id).Msg("remote property delete failed")
		return err
	}
	s.cache.Save(ctx, ports.CacheKeyProperties, next)
	s.log.Info().Str("property_id", id).Msg("property deleted")
	return nil
}

func (s *PropertyService) GetByID(_ context.Context, id string) (*domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOfLocked(id); idx >= 0 {
		clone := *s.properties[idx]
		return &clone, nil
	}
	return nil, domain.ErrPropertyNotFound
}

// List filters the in-memory collection and returns one page.
func (s *PropertyService) List(_ context.Context, f ports.PropertyFilter) (*ports.PropertyPage, error) {
	s.mu.RLock()
	snapshot := s.properties
	s.mu.RUnlock()

	var matched []*domain.Property
	for _, p := range snapshot {
		if !matchesFilter(p, f) {
			continue
		}
		clone := *p
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

	return &ports.PropertyPage{
		Items:      matched[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func matchesFilter(p *domain.Property, f ports.PropertyFilter) bool {
	if f.Type != "" && !strings.EqualFold(p.Type, f.Type) {
		return false
	}
	if f.OperationType != "" && p.OperationType != f.OperationType {
		return false
	}
	if f.Location != "" {
		loc := strings.ToLower(f.Location)
		hay := strings.ToLower(p.Address.City + " " + p.Address.State + " " + p.Address.Neighborhood)
		if !strings.Contains(hay, loc) {
			return false
		}
	}
	if f.MinPrice > 0 && p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.Bedrooms > 0 && p.Bedrooms < f.Bedrooms {
		return false
	}
	if f.Bathrooms > 0 && p.Bathrooms < f.Bathrooms {
		return false
	}
	if len(f.Amenities) > 0 && !p.HasAmenities(f.Amenities) {
		return false
	}
	if f.AgentID != "" && p.AgentID != f.AgentID {
		return false
	}
	return true
}

// AssignToAgent assigns every property in propertyIDs to agentID and unassigns
// properties the agent previously held that are absent from the new set.
func (s *PropertyService) AssignToAgent(ctx context.Context, agentID string, propertyIDs []string) error {
	wanted := make(map[string]struct{}, len(propertyIDs))
	for _, id := range propertyIDs {
		wanted[id] = struct{}{}
	}

	s.mu.Lock()
	next := s.copyLocked()
	var changed []*domain.Property
	for i, p := range next {
		_, selected := wanted[p.ID]
		switch {
		case selected && p.AgentID != agentID:
			clone := *p
			clone.AgentID = agentID
			clone.UpdatedAt = time.Now().UTC()
			next[i] = &clone
			changed = append(changed, &clone)
		case !selected && p.AgentID == agentID:
			clone := *p
			clone.AgentID = ""
			clone.UpdatedAt = time.Now().UTC()
			next[i] = &clone
			changed = append(changed, &clone)
		}
	}
	s.properties = next
	s.mu.Unlock()

	var firstErr error
	for _, p := range changed {
		if err := s.repo.Update(ctx, p); err != nil {
			s.log.Error().Err(err).Str("property_id", p.ID).Msg("remote assignment update failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	s.cache.Save(ctx, ports.CacheKeyProperties, next)
	s.log.Info().Str("agent_id", agentID).Int("changed", len(changed)).Msg("agent assignment applied")
	return firstErr
}

// AssignClient links a client to a property; an empty clientID unlinks it.
func (s *PropertyService) AssignClient(ctx context.Context, propertyID, clientID string) error {
	s.mu.Lock()
	idx := s.indexOfLocked(propertyID)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrPropertyNotFound
	}
	clone := *s.properties[idx]
	clone.ClientID = clientID
	clone.UpdatedAt = time.Now().UTC()
	next := s.copyLocked()
	next[idx] = &clone
	s.properties = next
	s.mu.Unlock()

	if err := s.repo.Update(ctx, &clone); err != nil {
		s.log.Error().Err(err).Str("property_id", propertyID).Msg("remote client assignment failed")
		return err
	}
	s.cache.Save(ctx, ports.CacheKeyProperties, next)
	return nil
}

// AddActivity appends an entry to the property's activity log. Entries get a
// generated id and timestamp and are never mutated afterwards.
func (s *PropertyService) AddActivity(ctx context.Context, propertyID string, in ports.ActivityInput) (*domain.ActivityEntry, error) {
	entry := domain.ActivityEntry{
		ID:          s.ids.NewID(),
		Type:        in.Type,
		Description: in.Description,
		Actor:       in.Actor,
		Timestamp:   time.Now().UTC(),
	}

	s.mu.Lock()
	idx := s.indexOfLocked(propertyID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, domain.ErrPropertyNotFound
	}
	clone := *s.properties[idx]
	clone.ActivityLog = append(append([]domain.ActivityEntry{}, clone.ActivityLog...), entry)
	clone.UpdatedAt = entry.Timestamp
	next := s.copyLocked()
	next[idx] = &clone
	s.properties = next
	s.mu.Unlock()

	if err := s.repo.Update(ctx, &clone); err != nil {
		s.log.Error().Err(err).Str("property_id", propertyID).Msg("remote activity append failed")
		return nil, err
	}
	s.cache.Save(ctx, ports.CacheKeyProperties, next)
	return &entry, nil
}

// FirstByAgent reports the first property still assigned to agentID.
// Used by the user service to guard agent deletion.
func (s *PropertyService) FirstByAgent(_ context.Context, agentID string) (*domain.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.properties {
		if p.AgentID == agentID {
			clone := *p
			return &clone, true
		}
	}
	return nil, false
}

func (s *PropertyService) setCollection(items []*domain.Property) {
	s.mu.Lock()
	s.properties = items
	s.mu.Unlock()
}

func (s *PropertyService) copyLocked() []*domain.Property {
	next := make([]*domain.Property, len(s.properties))
	copy(next, s.properties)
	return next
}

func (s *PropertyService) indexOfLocked(id string) int {
	for i, p := range s.properties {
		if p.ID == id {
			return i
		}
	}
	return -1
}
