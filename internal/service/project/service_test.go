package project

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	mqcontracts "letsarc/contracts/mq"
	"letsarc/internal/model"
	"letsarc/internal/repository"

	"go.uber.org/zap"
)

// memStore is an in-memory Store with the same atomicity guarantees as the
// pgx repository: Advance is a single guarded increment under the lock.
type memStore struct {
	mu       sync.Mutex
	projects map[string]model.Project
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{projects: make(map[string]model.Project)}
}

func (m *memStore) Insert(_ context.Context, p *model.Project) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.projects {
		if existing.ProjectName == p.ProjectName {
			return nil, repository.ErrDuplicateProjectName
		}
	}

	stored := *p
	if stored.ID == "" {
		m.nextID++
		stored.ID = fmt.Sprintf("p%d", m.nextID)
	}
	m.projects[stored.ID] = stored
	return &stored, nil
}

func (m *memStore) List(_ context.Context) ([]model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	return &p, nil
}

func (m *memStore) GetByName(_ context.Context, name string) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.projects {
		if p.ProjectName == name {
			out := p
			return &out, nil
		}
	}
	return nil, repository.ErrProjectNotFound
}

func (m *memStore) UpdateByID(_ context.Context, id string, params repository.UpdateParams) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}

	if params.ProjectName != nil {
		p.ProjectName = *params.ProjectName
	}
	if params.ClientName != nil {
		p.ClientName = *params.ClientName
	}
	if params.FirstName != nil {
		p.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		p.LastName = *params.LastName
	}
	if params.ContactNumber != nil {
		p.ContactNumber = *params.ContactNumber
	}
	if params.Email != nil {
		p.Email = *params.Email
	}
	if params.Date != nil {
		p.Date = *params.Date
	}
	if params.Progress != nil {
		p.Progress.Completed = params.Progress.Completed
		if params.Progress.Total > 0 {
			p.Progress.Total = params.Progress.Total
		}
	}

	m.projects[id] = p
	return &p, nil
}

func (m *memStore) Advance(_ context.Context, id string) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	if p.Progress.Completed >= p.Progress.Total {
		return nil, repository.ErrProjectCompleted
	}

	p.Progress.Completed++
	m.projects[id] = p
	return &p, nil
}

func (m *memStore) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return repository.ErrProjectNotFound
	}
	delete(m.projects, id)
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.projects)
}

// recordingPublisher captures published routing keys.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingPublisher) Publish(routingKey string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, routingKey)
	return nil
}

func (r *recordingPublisher) published(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.keys {
		if k == key {
			n++
		}
	}
	return n
}

func validProject(name string) *model.Project {
	return &model.Project{
		ProjectName:   name,
		ClientName:    "Acme",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		ContactNumber: "555-0100",
		Email:         "ada@acme.example",
		Date:          "2024-01-15",
	}
}

func newTestService(store Store, pub Publisher) *Service {
	return NewService(store, pub, zap.NewNop())
}

func TestCreateDefaultsProgress(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	created, err := svc.Create(context.Background(), validProject("Brand Film"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if created.Progress.Completed != 0 {
		t.Errorf("expected completed 0, got %d", created.Progress.Completed)
	}
	if created.Progress.Total != model.StageCount {
		t.Errorf("expected total %d, got %d", model.StageCount, created.Progress.Total)
	}
}

func TestCreateMissingFields(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	p := validProject("Brand Film")
	p.Email = ""

	_, err := svc.Create(context.Background(), p)
	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.count() != 0 {
		t.Error("invalid project must not be stored")
	}
}

func TestCreateDuplicateName(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	if _, err := svc.Create(context.Background(), validProject("Brand Film")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(context.Background(), validProject("Brand Film"))
	if !errors.Is(err, repository.ErrDuplicateProjectName) {
		t.Fatalf("expected duplicate-name error, got %v", err)
	}
}

func TestCreatePublishesAssignedEvent(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := newTestService(store, pub)

	if _, err := svc.Create(context.Background(), validProject("Brand Film")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if pub.published(mqcontracts.RoutingKeyProjectAssigned) != 1 {
		t.Errorf("expected one %s event, got keys %v", mqcontracts.RoutingKeyProjectAssigned, pub.keys)
	}
}

func TestAdvanceIncrementsByOne(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := newTestService(store, pub)

	created, _ := svc.Create(context.Background(), validProject("Brand Film"))

	advanced, err := svc.Advance(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("advance failed: %v", err)
	}
	if advanced.Progress.Completed != 1 {
		t.Errorf("expected completed 1, got %d", advanced.Progress.Completed)
	}
	if pub.published(mqcontracts.RoutingKeyProjectAdvanced) != 1 {
		t.Errorf("expected one advanced event, got keys %v", pub.keys)
	}
	if pub.published(mqcontracts.RoutingKeyProjectCompleted) != 0 {
		t.Errorf("completed event published before final stage: %v", pub.keys)
	}
}

// Advancing a completed project is rejected and leaves completed == total.
func TestAdvanceRejectedAtCeiling(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	created, _ := svc.Create(context.Background(), validProject("Brand Film"))
	for i := 0; i < model.StageCount; i++ {
		if _, err := svc.Advance(context.Background(), created.ID); err != nil {
			t.Fatalf("advance %d failed: %v", i, err)
		}
	}

	_, err := svc.Advance(context.Background(), created.ID)
	if !errors.Is(err, repository.ErrProjectCompleted) {
		t.Fatalf("expected completed error, got %v", err)
	}

	stored, _ := store.GetByID(context.Background(), created.ID)
	if stored.Progress.Completed != model.StageCount {
		t.Errorf("rejected advance must leave completed at %d, got %d",
			model.StageCount, stored.Progress.Completed)
	}
}

func TestAdvanceFinalStagePublishesCompleted(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := newTestService(store, pub)

	created, _ := svc.Create(context.Background(), validProject("Brand Film"))
	for i := 0; i < model.StageCount; i++ {
		if _, err := svc.Advance(context.Background(), created.ID); err != nil {
			t.Fatalf("advance %d failed: %v", i, err)
		}
	}

	if pub.published(mqcontracts.RoutingKeyProjectCompleted) != 1 {
		t.Errorf("expected one completed event, got keys %v", pub.keys)
	}
	if pub.published(mqcontracts.RoutingKeyProjectAdvanced) != model.StageCount {
		t.Errorf("expected %d advanced events, got keys %v", model.StageCount, pub.keys)
	}
}

func TestAdvanceUnknownID(t *testing.T) {
	svc := newTestService(newMemStore(), nil)

	_, err := svc.Advance(context.Background(), "missing")
	if !errors.Is(err, repository.ErrProjectNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

// Two concurrent advancements from the same starting value must net +2; the
// increment happens at the store, not as a client-side read-modify-write.
func TestConcurrentAdvanceLosesNoUpdate(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	created, _ := svc.Create(context.Background(), validProject("Brand Film"))

	const workers = 2
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.Advance(context.Background(), created.ID); err != nil {
				t.Errorf("concurrent advance failed: %v", err)
			}
		}()
	}
	wg.Wait()

	stored, _ := store.GetByID(context.Background(), created.ID)
	if stored.Progress.Completed != workers {
		t.Errorf("expected completed %d after %d concurrent advances, got %d",
			workers, workers, stored.Progress.Completed)
	}
}

func TestUpdateByNameResolvesToID(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	created, _ := svc.Create(context.Background(), validProject("Brand Film"))

	client := "Globex"
	updated, err := svc.UpdateByName(context.Background(), "Brand Film", repository.UpdateParams{
		ClientName: &client,
	})
	if err != nil {
		t.Fatalf("update by name failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("expected update of %s, got %s", created.ID, updated.ID)
	}
	if updated.ClientName != "Globex" {
		t.Errorf("expected clientName Globex, got %q", updated.ClientName)
	}
	if updated.ProjectName != "Brand Film" {
		t.Errorf("partial update must keep untouched fields, got %q", updated.ProjectName)
	}
}

func TestDeleteByName(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	svc.Create(context.Background(), validProject("Brand Film"))

	if err := svc.DeleteByName(context.Background(), "Brand Film"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.count() != 0 {
		t.Errorf("expected empty store, got %d projects", store.count())
	}
}

// Deleting an unknown name is NotFound and leaves the collection unchanged.
func TestDeleteByNameUnknown(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	svc.Create(context.Background(), validProject("Brand Film"))
	before := store.count()

	err := svc.DeleteByName(context.Background(), "Nope")
	if !errors.Is(err, repository.ErrProjectNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if store.count() != before {
		t.Errorf("collection changed on failed delete: %d != %d", store.count(), before)
	}
}
