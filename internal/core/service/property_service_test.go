package service

import (
	"context"
	"errors"
	"testing"

	"github.com/inverland/estate-crm/internal/core/domain"
	"github.com/inverland/estate-crm/internal/core/ports"
)

func newPropertyServiceForTest(repo *stubPropertyRepo) *PropertyService {
	return NewPropertyService(repo, newStubCache(), &seqIDs{prefix: "prop"}, discardLogger)
}

func listing(title, operation string, price float64) *domain.Property {
	return &domain.Property{
		Title:         title,
		Type:          "Casa",
		OperationType: operation,
		Price:         price,
		Address:       domain.Address{State: "CDMX", City: "Ciudad de México", Neighborhood: "Roma Norte"},
	}
}

func TestPropertyService_Create_AssignsIDAndPersists(t *testing.T) {
	repo := &stubPropertyRepo{}
	svc := newPropertyServiceForTest(repo)

	created, err := svc.Create(context.Background(), listing("Casa Roma", domain.OperationSale, 4200000))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != "prop-1" {
		t.Errorf("expected generated id prop-1, got %q", created.ID)
	}
	if created.ActivityLog == nil {
		t.Error("activity log must be initialised")
	}
	if len(repo.properties) != 1 {
		t.Errorf("listing must be persisted remotely, got %d", len(repo.properties))
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil || got.Title != "Casa Roma" {
		t.Error("created listing must be retrievable")
	}
}

func TestPropertyService_Create_InvalidMainPhotoIndex(t *testing.T) {
	svc := newPropertyServiceForTest(&stubPropertyRepo{})
	p := listing("Casa", domain.OperationSale, 100)
	p.Images = []string{"a.jpg", "b.jpg"}
	p.MainPhotoIndex = 2

	if _, err := svc.Create(context.Background(), p); !errors.Is(err, domain.ErrInvalidMainPhoto) {
		t.Errorf("expected ErrInvalidMainPhoto, got %v", err)
	}
}

func TestPropertyService_Update_PreservesCreatedAt(t *testing.T) {
	svc := newPropertyServiceForTest(&stubPropertyRepo{})
	created, _ := svc.Create(context.Background(), listing("Casa", domain.OperationSale, 100))

	edit := *created
	edit.Title = "Casa Renovada"
	edit.CreatedAt = created.CreatedAt.AddDate(-1, 0, 0)

	updated, err := svc.Update(context.Background(), &edit)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Casa Renovada" {
		t.Error("title must be updated")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("CreatedAt must survive updates unchanged")
	}
}

func TestPropertyService_Update_NotFound(t *testing.T) {
	svc := newPropertyServiceForTest(&stubPropertyRepo{})
	p := listing("Casa", domain.OperationSale, 100)
	p.ID = "missing"

	if _, err := svc.Update(context.Background(), p); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Errorf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestPropertyService_Delete(t *testing.T) {
	svc := newPropertyServiceForTest(&stubPropertyRepo{})
	created, _ := svc.Create(context.Background(), listing("Casa", domain.OperationSale, 100))

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Error("deleted listing must be gone")
	}
}

// ---------------------------------------------------------------------------
// List filter and pagination tests
// ---------------------------------------------------------------------------

func TestPropertyService_List_Filters(t *testing.T) {
	svc := newPropertyServiceForTest(&stubPropertyRepo{})

	sale := listing("Venta Roma", domain.OperationSale, 3000000)
	sale.Bedrooms = 3
	sale.Amenities = []string{"alberca", "gimnasio"}
	rent := listing("Renta Condesa", domain.OperationRent, 25000)
	rent.Address.Neighborhood = "Condesa"
	rent.Bedrooms = 1
	cheap := listing("Venta Periferia", domain.OperationSale, 900000)
	cheap.Address.City = "Ecatepec"

	for _, p := range []*domain.Property{sale, rent, cheap} {
		if _, err := svc.Create(context.Background(), p); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	cases := []struct {
		name   string
		filter ports.PropertyFilter
		want   int
	}{
		{"no filter", ports.PropertyFilter{}, 3},
		{"operation type", ports.PropertyFilter{OperationType: domain.OperationRent}, 1},
		{"min price", ports.PropertyFilter{MinPrice: 500000}, 2},
		{"price band", ports.PropertyFilter{MinPrice: 1000000, MaxPrice: 3500000}, 1},
		{"bedrooms minimum", ports.PropertyFilter{Bedrooms: 2}, 1},
		{"location substring", ports.PropertyFilter{Location: "condesa"}, 1},
		{"all amenities required", ports.PropertyFilter{Amenities: []string{"alberca", "gimnasio"}}, 1},
		{"amenity missing", ports.PropertyFilter{Amenities: []string{"alberca", "roof garden"}}, 0},
	}
	for _, tc := range cases {
		page, err := svc.List(context.Background(), tc.filter)
		if err != nil {
			t.Fatalf("%s: list failed: %v", tc.name, err)
		}
		if page.Total != tc.want {
			t.Errorf("%s: expected %d matches, got %d", tc.name, tc.want, page.Total)
		}
	}
}

func TestPropertyService_List_Pagination(t *testing.T) {
	svc := newPropertyServiceForTest(&stubPropertyRepo{})
	for i := 0; i < 5; i++ {
		if _, err := svc.Create(context.Background(), listing("Casa", domain.OperationSale, 100)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	page, err := svc.List(context.Background(), ports.PropertyFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 {
		t.Errorf("expected total 5 over 3 pages, got %d over %d", page.Total, page.TotalPages)
	}
	if len(page.Items) != 2 {
		t.Errorf("page 2 with limit 2 must hold 2 items, got %d", len(page.Items))
	}

	last, _ := svc.List(context.Background(), ports.PropertyFilter{Page: 3, Limit: 2})
	if len(last.Items) != 1 {
		t.Errorf("last page must hold the remainder, got %d", len(last.Items))
	}
	beyond, _ := svc.List(context.Background(), ports.PropertyFilter{Page: 9, Limit: 2})
	if len(beyond.Items) != 0 {
		t.Errorf("page beyond the end must be empty, got %d", len(beyond.Items))
	}
}

// ---------------------------------------------------------------------------
// Assignment tests
// ---------------------------------------------------------------------------

func TestPropertyService_AssignToAgent_ReplacesPortfolio(t *testing.T) {
	repo := &stubPropertyRepo{}
	svc := newPropertyServiceForTest(repo)

	p1, _ := svc.Create(context.Background(), listing("P1", domain.OperationSale, 100))
	p2, _ := svc.Create(context.Background(), listing("P2", domain.OperationSale, 100))
	p3, _ := svc.Create(context.Background(), listing("P3", domain.OperationSale, 100))

	// The agent starts holding P2 and P3.
	if err := svc.AssignToAgent(context.Background(), "agent-1", []string{p2.ID, p3.ID}); err != nil {
		t.Fatalf("initial assignment failed: %v", err)
	}
	// The new set is P1 and P2: P1 gains the agent, P3 loses it.
	if err := svc.AssignToAgent(context.Background(), "agent-1", []string{p1.ID, p2.ID}); err != nil {
		t.Fatalf("reassignment failed: %v", err)
	}

	for _, tc := range []struct {
		id    string
		agent string
	}{
		{p1.ID, "agent-1"},
		{p2.ID, "agent-1"},
		{p3.ID, ""},
	} {
		got, _ := svc.GetByID(context.Background(), tc.id)
		if got.AgentID != tc.agent {
			t.Errorf("property %s: expected agent %q, got %q", tc.id, tc.agent, got.AgentID)
		}
	}
}

func TestPropertyService_AssignToAgent_OnlyChangedPersisted(t *testing.T) {
	repo := &stubPropertyRepo{}
	svc := newPropertyServiceForTest(repo)

	p1, _ := svc.Create(context.Background(), listing("P1", domain.OperationSale, 100))
	p2, _ := svc.Create(context.Background(), listing("P2", domain.OperationSale, 100))
	_ = svc.AssignToAgent(context.Background(), "agent-1", []string{p1.ID, p2.ID})

	repo.updates = 0
	// P1 stays, P2 leaves: exactly one remote update.
	if err := svc.AssignToAgent(context.Background(), "agent-1", []string{p1.ID}); err != nil {
		t.Fatalf("reassignment failed: %v", err)
	}
	if repo.updates != 1 {
		t.Errorf("expected 1 remote update for the single change, got %d", repo.updates)
	}
}

func TestPropertyService_AssignClient(t *testing.T) {
	svc := newPropertyServiceForTest(&stubPropertyRepo{})
	created, _ := svc.Create(context.Background(), listing("Casa", domain.OperationSale, 100))

	if err := svc.AssignClient(context.Background(), created.ID, "client-9"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	got, _ := svc.GetByID(context.Background(), created.ID)
	if got.ClientID != "client-9" {
		t.Errorf("expected client-9, got %q", got.ClientID)
	}

	// Empty id unlinks.
	if err := svc.AssignClient(context.Background(), created.ID, ""); err != nil {
		t.Fatalf("unlink failed: %v", err)
	}
	got, _ = svc.GetByID(context.Background(), created.ID)
	if got.ClientID != "" {
		t.Errorf("expected unlinked client, got %q", got.ClientID)
	}
}

// ---------------------------------------------------------------------------
// Activity log tests
// ---------------------------------------------------------------------------

func TestPropertyService_AddActivity_Appends(t *testing.T) {
	svc := newPropertyServiceForTest(&stubPropertyRepo{})
	created, _ := svc.Create(context.Background(), listing("Casa", domain.OperationSale, 100))

	first, err := svc.AddActivity(context.Background(), created.ID, ports.ActivityInput{
		Type: "visita", Description: "Primera visita agendada", Actor: "agente",
	})
	if err != nil {
		t.Fatalf("add activity failed: %v", err)
	}
	second, err := svc.AddActivity(context.Background(), created.ID, ports.ActivityInput{
		Type: "llamada", Description: "Seguimiento telefónico", Actor: "agente",
	})
	if err != nil {
		t.Fatalf("second activity failed: %v", err)
	}
	if first.ID == second.ID {
		t.Error("entries must get distinct ids")
	}
	if first.Timestamp.IsZero() {
		t.Error("entry timestamp must be set")
	}

	got, _ := svc.GetByID(context.Background(), created.ID)
	if len(got.ActivityLog) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(got.ActivityLog))
	}
	if got.ActivityLog[0].Type != "visita" || got.ActivityLog[1].Type != "llamada" {
		t.Error("entries must keep append order")
	}
}

func TestPropertyService_AddActivity_UnknownProperty(t *testing.T) {
	svc := newPropertyServiceForTest(&stubPropertyRepo{})

	_, err := svc.AddActivity(context.Background(), "missing", ports.ActivityInput{Type: "visita"})
	if !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Errorf("expected ErrPropertyNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Bootstrap tests
// ---------------------------------------------------------------------------

func TestPropertyService_Bootstrap_FallsBackToCache(t *testing.T) {
	cache := newStubCache()
	cache.Save(context.Background(), ports.CacheKeyProperties, []*domain.Property{
		{ID: "p1", Title: "Cached"},
	})
	repo := &stubPropertyRepo{getErr: errors.New("mongo unreachable")}
	svc := NewPropertyService(repo, cache, &seqIDs{prefix: "prop"}, discardLogger)

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "p1"); err != nil {
		t.Error("cached listing must be loaded when the remote store is down")
	}
}

func TestPropertyService_FirstByAgent(t *testing.T) {
	svc := newPropertyServiceForTest(&stubPropertyRepo{})
	created, _ := svc.Create(context.Background(), listing("Casa", domain.OperationSale, 100))
	_ = svc.AssignToAgent(context.Background(), "agent-1", []string{created.ID})

	if p, found := svc.FirstByAgent(context.Background(), "agent-1"); !found || p.ID != created.ID {
		t.Error("expected the assigned listing to be reported")
	}
	if _, found := svc.FirstByAgent(context.Background(), "agent-2"); found {
		t.Error("unassigned agent must report no listing")
	}
}
