package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/inverland/estate-crm/internal/core/domain"
	"github.com/inverland/estate-crm/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Deterministic id generator
// ---------------------------------------------------------------------------

type seqIDs struct {
	prefix string
	n      int
}

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// ---------------------------------------------------------------------------
// In-memory snapshot cache
// ---------------------------------------------------------------------------

// stubCache round-trips values through JSON, like the Redis-backed store.
type stubCache struct {
	data  map[string][]byte
	saves int
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]byte)}
}

func (c *stubCache) Load(_ context.Context, key string, v any) bool {
	raw, ok := c.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (c *stubCache) Save(_ context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.saves++
	c.data[key] = raw
}

// ---------------------------------------------------------------------------
// In-memory session store
// ---------------------------------------------------------------------------

type stubSessions struct {
	mu       sync.Mutex
	byUserID map[string]*domain.Session
	putErr   error
}

func newStubSessions() *stubSessions {
	return &stubSessions{byUserID: make(map[string]*domain.Session)}
}

func (s *stubSessions) Put(_ context.Context, sess *domain.Session) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *sess
	s.byUserID[sess.UserID] = &clone
	return nil
}

func (s *stubSessions) Get(_ context.Context, userID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byUserID[userID]
	if !ok {
		return nil, nil
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessions) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUserID, userID)
	return nil
}

// ---------------------------------------------------------------------------
// Stub user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   []*domain.User
	getErr  error // if set, GetAll returns this error
	addErr  error
	deletes []string
	// emptyGetAll makes GetAll report an empty collection while records stay
	// findable by username, mimicking a partially seeded remote store.
	emptyGetAll bool
}

func (r *stubUserRepo) GetAll(_ context.Context) ([]*domain.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.emptyGetAll {
		return nil, nil
	}
	out := make([]*domain.User, len(r.users))
	for i, u := range r.users {
		clone := *u
		out[i] = &clone
	}
	return out, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Add(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.addErr != nil {
		return nil, r.addErr
	}
	clone := *u
	r.users = append(r.users, &clone)
	stored := clone
	return &stored, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	for i, existing := range r.users {
		if existing.ID == u.ID {
			clone := *u
			r.users[i] = &clone
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			r.deletes = append(r.deletes, id)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// ---------------------------------------------------------------------------
// Stub property repository
// ---------------------------------------------------------------------------

type stubPropertyRepo struct {
	properties []*domain.Property
	getErr     error
	updateErr  error
	updates    int
}

func (r *stubPropertyRepo) GetAll(_ context.Context) ([]*domain.Property, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	out := make([]*domain.Property, len(r.properties))
	for i, p := range r.properties {
		clone := *p
		out[i] = &clone
	}
	return out, nil
}

func (r *stubPropertyRepo) GetByID(_ context.Context, id string) (*domain.Property, error) {
	for _, p := range r.properties {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrPropertyNotFound
}

func (r *stubPropertyRepo) Add(_ context.Context, p *domain.Property) (*domain.Property, error) {
	clone := *p
	r.properties = append(r.properties, &clone)
	stored := clone
	return &stored, nil
}

func (r *stubPropertyRepo) Update(_ context.Context, p *domain.Property) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, existing := range r.properties {
		if existing.ID == p.ID {
			clone := *p
			r.properties[i] = &clone
			r.updates++
			return nil
		}
	}
	return domain.ErrPropertyNotFound
}

func (r *stubPropertyRepo) Delete(_ context.Context, id string) error {
	for i, p := range r.properties {
		if p.ID == id {
			r.properties = append(r.properties[:i], r.properties[i+1:]...)
			return nil
		}
	}
	return domain.ErrPropertyNotFound
}

// ---------------------------------------------------------------------------
// Stub client repository
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	clients []*domain.Client
	getErr  error
}

func (r *stubClientRepo) GetAll(_ context.Context) ([]*domain.Client, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	out := make([]*domain.Client, len(r.clients))
	for i, c := range r.clients {
		clone := *c
		out[i] = &clone
	}
	return out, nil
}

func (r *stubClientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	for _, c := range r.clients {
		if c.ID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) Add(_ context.Context, c *domain.Client) (*domain.Client, error) {
	clone := *c
	r.clients = append(r.clients, &clone)
	stored := clone
	return &stored, nil
}

func (r *stubClientRepo) Update(_ context.Context, c *domain.Client) error {
	for i, existing := range r.clients {
		if existing.ID == c.ID {
			clone := *c
			r.clients[i] = &clone
			return nil
		}
	}
	return domain.ErrClientNotFound
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	for i, c := range r.clients {
		if c.ID == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return nil
		}
	}
	return domain.ErrClientNotFound
}

// ---------------------------------------------------------------------------
// Stub campaign repository
// ---------------------------------------------------------------------------

type stubCampaignRepo struct {
	campaigns []*domain.Campaign
	getErr    error
	updateErr error
}

func (r *stubCampaignRepo) GetAll(_ context.Context) ([]*domain.Campaign, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	out := make([]*domain.Campaign, len(r.campaigns))
	for i, c := range r.campaigns {
		clone := *c
		out[i] = &clone
	}
	return out, nil
}

func (r *stubCampaignRepo) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	for _, c := range r.campaigns {
		if c.ID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCampaignNotFound
}

func (r *stubCampaignRepo) Add(_ context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	clone := *c
	r.campaigns = append(r.campaigns, &clone)
	stored := clone
	return &stored, nil
}

func (r *stubCampaignRepo) Update(_ context.Context, c *domain.Campaign) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, existing := range r.campaigns {
		if existing.ID == c.ID {
			clone := *c
			r.campaigns[i] = &clone
			return nil
		}
	}
	return domain.ErrCampaignNotFound
}

func (r *stubCampaignRepo) Delete(_ context.Context, id string) error {
	for i, c := range r.campaigns {
		if c.ID == id {
			r.campaigns = append(r.campaigns[:i], r.campaigns[i+1:]...)
			return nil
		}
	}
	return domain.ErrCampaignNotFound
}

// ---------------------------------------------------------------------------
// Stub delivery dispatcher
// ---------------------------------------------------------------------------

type stubDispatcher struct {
	mu         sync.Mutex
	deliveries []ports.CampaignDelivery
}

func (d *stubDispatcher) Enqueue(delivery ports.CampaignDelivery) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deliveries = append(d.deliveries, delivery)
}

func (d *stubDispatcher) EnqueueBatch(deliveries []ports.CampaignDelivery) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deliveries = append(d.deliveries, deliveries...)
}

// ---------------------------------------------------------------------------
// Stub agent reference sources
// ---------------------------------------------------------------------------

type stubPropertyRefs struct {
	byAgent map[string]*domain.Property
}

func (s *stubPropertyRefs) FirstByAgent(_ context.Context, agentID string) (*domain.Property, bool) {
	if s == nil || s.byAgent == nil {
		return nil, false
	}
	p, ok := s.byAgent[agentID]
	return p, ok
}

type stubClientRefs struct {
	byAgent map[string]*domain.Client
}

func (s *stubClientRefs) FirstByAgent(_ context.Context, agentID string) (*domain.Client, bool) {
	if s == nil || s.byAgent == nil {
		return nil, false
	}
	c, ok := s.byAgent[agentID]
	return c, ok
}

// ---------------------------------------------------------------------------
// Fixed client source for campaign tests
// ---------------------------------------------------------------------------

type stubClientSource struct {
	clients []*domain.Client
}

func (s *stubClientSource) All(_ context.Context) []*domain.Client {
	return s.clients
}
