package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inverland/estate-crm/internal/core/domain"
	"github.com/inverland/estate-crm/internal/core/ports"
)

func campaignFixture(clients []*domain.Client) (*CampaignService, *stubCampaignRepo, *stubDispatcher) {
	repo := &stubCampaignRepo{}
	dispatcher := &stubDispatcher{}
	svc := NewCampaignService(repo, newStubCache(), &seqIDs{prefix: "camp"}, &stubClientSource{clients: clients}, dispatcher, discardLogger)
	return svc, repo, dispatcher
}

func pipelineClients() []*domain.Client {
	return []*domain.Client{
		{ID: "c1", Name: "Pedro", Email: "pedro@example.com", Status: domain.StatusNew, LeadSource: "portal"},
		{ID: "c2", Name: "Susana", Email: "susana@example.com", Status: domain.StatusQualified, LeadSource: "referido"},
		{ID: "c3", Name: "Juan", Email: "", Status: domain.StatusNew, LeadSource: "portal"},
		{ID: "c4", Name: "Dolores", Email: "dolores@example.com", Status: domain.StatusClosed},
	}
}

func TestCampaignService_Create_ForcesDraft(t *testing.T) {
	svc, repo, _ := campaignFixture(nil)
	now := time.Now()

	created, err := svc.Create(context.Background(), &domain.Campaign{
		Name:        "Lanzamiento",
		Subject:     "Nuevos desarrollos",
		Body:        "Conoce los nuevos desarrollos.",
		Status:      domain.CampaignSent, // ignored
		SentAt:      &now,                // ignored
		SentToCount: 99,                  // ignored
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != domain.CampaignDraft {
		t.Errorf("new campaigns must start as draft, got %q", created.Status)
	}
	if created.SentAt != nil || created.SentToCount != 0 {
		t.Error("send bookkeeping must be zeroed on create")
	}
	if len(repo.campaigns) != 1 {
		t.Errorf("campaign must be persisted remotely, got %d", len(repo.campaigns))
	}
}

func TestCampaignService_Send_MatchAllAudience(t *testing.T) {
	svc, _, dispatcher := campaignFixture(pipelineClients())
	created, _ := svc.Create(context.Background(), &domain.Campaign{
		Name: "Todos", Subject: "Hola", Body: "Cuerpo",
	})

	result, err := svc.Send(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(result.Recipients) != 4 {
		t.Errorf("empty audience lists must match every client, got %d", len(result.Recipients))
	}
	if result.Campaign.Status != domain.CampaignSent {
		t.Errorf("expected status %q, got %q", domain.CampaignSent, result.Campaign.Status)
	}
	if result.Campaign.SentAt == nil || result.Campaign.SentToCount != 4 {
		t.Error("send bookkeeping must record time and recipient count")
	}
	// c3 has no email, so only three deliveries are enqueued.
	if len(dispatcher.deliveries) != 3 {
		t.Errorf("expected 3 deliveries, got %d", len(dispatcher.deliveries))
	}
}

func TestCampaignService_Send_StatusAudience(t *testing.T) {
	svc, repo, _ := campaignFixture(pipelineClients())
	created, _ := svc.Create(context.Background(), &domain.Campaign{
		Name: "Nuevos", Subject: "Bienvenida", Body: "Hola",
		TargetAudience: domain.Audience{Status: []domain.ClientStatus{domain.StatusNew}},
	})

	result, err := svc.Send(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(result.Recipients) != 2 {
		t.Fatalf("expected the 2 clients in stage Nuevo, got %d", len(result.Recipients))
	}
	for _, c := range result.Recipients {
		if c.Status != domain.StatusNew {
			t.Errorf("recipient %s has stage %q", c.ID, c.Status)
		}
	}

	stored, _ := repo.GetByID(context.Background(), created.ID)
	if stored.Status != domain.CampaignSent || stored.SentToCount != 2 {
		t.Error("send result must be persisted remotely")
	}
}

func TestCampaignService_Send_LeadSourceAudience(t *testing.T) {
	svc, _, _ := campaignFixture(pipelineClients())
	created, _ := svc.Create(context.Background(), &domain.Campaign{
		Name: "Referidos", Subject: "Gracias", Body: "Hola",
		TargetAudience: domain.Audience{LeadSource: []string{"referido"}},
	})

	result, err := svc.Send(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	// Clients without a lead source never match a lead-source filter.
	if len(result.Recipients) != 1 || result.Recipients[0].ID != "c2" {
		t.Errorf("expected only c2, got %d recipients", len(result.Recipients))
	}
}

func TestCampaignService_Send_SecondSendIsNoOp(t *testing.T) {
	svc, _, dispatcher := campaignFixture(pipelineClients())
	created, _ := svc.Create(context.Background(), &domain.Campaign{
		Name: "Una vez", Subject: "Hola", Body: "Cuerpo",
	})

	if _, err := svc.Send(context.Background(), created.ID); err != nil {
		t.Fatalf("first send failed: %v", err)
	}
	sentDeliveries := len(dispatcher.deliveries)

	result, err := svc.Send(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("second send must not error: %v", err)
	}
	if result.Campaign != nil {
		t.Error("second send must not report a campaign transition")
	}
	if len(result.Recipients) != 0 {
		t.Errorf("second send must return no recipients, got %d", len(result.Recipients))
	}
	if len(dispatcher.deliveries) != sentDeliveries {
		t.Error("second send must not enqueue more deliveries")
	}
}

func TestCampaignService_Send_UnknownCampaign(t *testing.T) {
	svc, _, dispatcher := campaignFixture(pipelineClients())

	result, err := svc.Send(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unknown campaign send must be a quiet no-op: %v", err)
	}
	if result.Campaign != nil || len(result.Recipients) != 0 {
		t.Error("unknown campaign must report nothing sent")
	}
	if len(dispatcher.deliveries) != 0 {
		t.Error("unknown campaign must not enqueue deliveries")
	}
}

func TestCampaignService_Send_PersistFailureSurfaces(t *testing.T) {
	svc, repo, _ := campaignFixture(pipelineClients())
	created, _ := svc.Create(context.Background(), &domain.Campaign{
		Name: "Falla", Subject: "Hola", Body: "Cuerpo",
	})
	repo.updateErr = errors.New("mongo unreachable")

	if _, err := svc.Send(context.Background(), created.ID); err == nil {
		t.Fatal("remote persist failure must surface from Send")
	}
}

func TestCampaignService_Update_SentIsImmutable(t *testing.T) {
	svc, _, _ := campaignFixture(pipelineClients())
	created, _ := svc.Create(context.Background(), &domain.Campaign{
		Name: "Inmutable", Subject: "Hola", Body: "Cuerpo",
	})
	if _, err := svc.Send(context.Background(), created.ID); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	edit := *created
	edit.Subject = "Cambiado"
	if _, err := svc.Update(context.Background(), &edit); !errors.Is(err, domain.ErrCampaignAlreadySent) {
		t.Errorf("expected ErrCampaignAlreadySent, got %v", err)
	}
}

func TestCampaignService_Update_DraftKeepsStatus(t *testing.T) {
	svc, _, _ := campaignFixture(nil)
	created, _ := svc.Create(context.Background(), &domain.Campaign{
		Name: "Borrador", Subject: "Hola", Body: "Cuerpo",
	})

	edit := *created
	edit.Subject = "Asunto nuevo"
	edit.Status = domain.CampaignSent // callers cannot force a transition
	updated, err := svc.Update(context.Background(), &edit)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != domain.CampaignDraft {
		t.Errorf("update must not change lifecycle state, got %q", updated.Status)
	}
	if updated.Subject != "Asunto nuevo" {
		t.Error("editable fields must be updated")
	}
}

func TestCampaignService_Bootstrap_FallsBackToCache(t *testing.T) {
	cache := newStubCache()
	cache.Save(context.Background(), ports.CacheKeyCampaigns, []*domain.Campaign{{ID: "k1", Name: "Cached"}})
	repo := &stubCampaignRepo{getErr: errors.New("mongo unreachable")}
	svc := NewCampaignService(repo, cache, &seqIDs{prefix: "camp"}, &stubClientSource{}, nil, discardLogger)

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "k1"); err != nil {
		t.Error("cached campaign must be loaded when the remote store is down")
	}
}
