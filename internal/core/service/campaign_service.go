package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/inverland/estate-crm/internal/core/domain"
	"github.com/inverland/estate-crm/internal/core/ports"
)

// CampaignService owns the campaign collection and the one-shot send.
type CampaignService struct {
	repo       ports.CampaignRepository
	cache      ports.SnapshotCache
	ids        ports.IDGenerator
	clients    ports.ClientSource
	dispatcher ports.DeliveryDispatcher // nil disables outbound delivery
	log        zerolog.Logger

	mu        sync.RWMutex
	campaigns []*domain.Campaign
}

func NewCampaignService(
	repo ports.CampaignRepository,
	cache ports.SnapshotCache,
	ids ports.IDGenerator,
	clients ports.ClientSource,
	dispatcher ports.DeliveryDispatcher,
	log zerolog.Logger,
) *CampaignService {
	return &CampaignService{
		repo:       repo,
		cache:      cache,
		ids:        ids,
		clients:    clients,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (s *CampaignService) Bootstrap(ctx context.Context) error {
	remote, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("remote campaign fetch failed, falling back to cache")
		var cached []*domain.Campaign
		if s.cache.Load(ctx, ports.CacheKeyCampaigns, &cached) {
			s.setCollection(cached)
			return nil
		}
		s.setCollection(nil)
		return nil
	}

	s.setCollection(remote)
	s.cache.Save(ctx, ports.CacheKeyCampaigns, remote)
	s.log.Info().Int("count", len(remote)).Msg("campaigns loaded")
	return nil
}

// Create stores a new campaign in Draft state.
func (s *CampaignService) Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	created := *c
	created.ID = s.ids.NewID()
	created.Status = domain.CampaignDraft
	created.SentAt = nil
	created.SentToCount = 0

	stored, err := s.repo.Add(ctx, &created)
	if err != nil {
		s.log.Error().Err(err).Str("name", c.Name).Msg("failed to create campaign")
		return nil, err
	}

	s.mu.Lock()
	next := append(s.copyLocked(), stored)
	s.campaigns = next
	s.mu.Unlock()
	s.cache.Save(ctx, ports.CacheKeyCampaigns, next)
	return stored, nil
}

func (s *CampaignService) Update(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(c.ID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, domain.ErrCampaignNotFound
	}
	current := s.campaigns[idx]
	if current.Status == domain.CampaignSent {
		s.mu.Unlock()
		return nil, domain.ErrCampaignAlreadySent
	}

	updated := *c
	updated.Status = current.Status
	updated.SentAt = current.SentAt
	updated.SentToCount = current.SentToCount
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	next := s.copyLocked()
	next[idx] = &updated
	s.campaigns = next
	s.mu.Unlock()

	if err := s.repo.Update(ctx, &updated); err != nil {
		s.log.Error().Err(err).Str("campaign_id", c.ID).Msg("remote campaign update failed")
		return nil, err
	}
	s.cache.Save(ctx, ports.CacheKeyCampaigns, next)
	return &updated, nil
}

func (s *CampaignService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrCampaignNotFound
	}
	next := make([]*domain.Campaign, 0, len(s.campaigns)-1)
	next = append(next, s.campaigns[:idx]...)
	next = append(next, s.campaigns[idx+1:]...)
	s.campaigns = next
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("campaign_id", id).Msg("remote campaign delete failed")
		return err
	}
	s.cache.Save(ctx, ports.CacheKeyCampaigns, next)
	return nil
}

func (s *CampaignService) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOfLocked(id); idx >= 0 {
		clone := *s.campaigns[idx]
		return &clone, nil
	}
	return nil, domain.ErrCampaignNotFound
}

func (s *CampaignService) List(_ context.Context) []*domain.Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Campaign, len(s.campaigns))
	for i, c := range s.campaigns {
		clone := *c
		out[i] = &clone
	}
	return out
}

// Send transitions a Draft campaign to Sent exactly once. Sending an unknown
// or already-sent campaign is a no-op returning no recipients. The matched
// clients are returned and, when a dispatcher is wired, enqueued for mail
// delivery; delivery failures never undo the send.
func (s *CampaignService) Send(ctx context.Context, campaignID string) (*ports.SendResult, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(campaignID)
	if idx < 0 || s.campaigns[idx].Status == domain.CampaignSent {
		s.mu.Unlock()
		s.log.Warn().Str("campaign_id", campaignID).Msg("campaign missing or already sent, nothing to do")
		return &ports.SendResult{Recipients: []*domain.Client{}}, nil
	}
	campaign := *s.campaigns[idx]
	s.mu.Unlock()

	all := s.clients.All(ctx)
	recipients := make([]*domain.Client, 0, len(all))
	for _, c := range all {
		if campaign.TargetAudience.Matches(c) {
			recipients = append(recipients, c)
		}
	}

	now := time.Now().UTC()
	campaign.Status = domain.CampaignSent
	campaign.SentAt = &now
	campaign.SentToCount = len(recipients)
	campaign.UpdatedAt = now

	s.mu.Lock()
	// Re-check under the lock: a concurrent send may have won the race.
	idx = s.indexOfLocked(campaignID)
	if idx < 0 || s.campaigns[idx].Status == domain.CampaignSent {
		s.mu.Unlock()
		return &ports.SendResult{Recipients: []*domain.Client{}}, nil
	}
	next := s.copyLocked()
	next[idx] = &campaign
	s.campaigns = next
	s.mu.Unlock()

	if err := s.repo.Update(ctx, &campaign); err != nil {
		s.log.Error().Err(err).Str("campaign_id", campaignID).Msg("remote campaign send persist failed")
		return nil, err
	}
	s.cache.Save(ctx, ports.CacheKeyCampaigns, next)

	if s.dispatcher != nil {
		deliveries := make([]ports.CampaignDelivery, 0, len(recipients))
		for _, c := range recipients {
			if c.Email == "" {
				continue
			}
			deliveries = append(deliveries, ports.CampaignDelivery{
				CampaignID: campaign.ID,
				ClientID:   c.ID,
				Email:      c.Email,
				Name:       c.Name,
				Subject:    campaign.Subject,
				Body:       campaign.Body,
			})
		}
		s.dispatcher.EnqueueBatch(deliveries)
	}

	s.log.Info().
		Str("campaign_id", campaign.ID).
		Int("recipients", len(recipients)).
		Msg("campaign sent")

	return &ports.SendResult{Campaign: &campaign, Recipients: recipients}, nil
}

func (s *CampaignService) setCollection(items []*domain.Campaign) {
	s.mu.Lock()
	s.campaigns = items
	s.mu.Unlock()
}

func (s *CampaignService) copyLocked() []*domain.Campaign {
	next := make([]*domain.Campaign, len(s.campaigns))
	copy(next, s.campaigns)
	return next
}

func (s *CampaignService) indexOfLocked(id string) int {
	for i, c := range s.campaigns {
		if c.ID == id {
			return i
		}
	}
	return -1
}
