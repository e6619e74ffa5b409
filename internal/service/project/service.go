package project

import (
	"context"
	"time"

	mqcontracts "letsarc/contracts/mq"
	"letsarc/internal/model"
	"letsarc/internal/repository"
	"letsarc/pkg/metrics"

	"go.uber.org/zap"
)

// Store is the project collection contract the service drives. The pgx
// repository implements it; tests substitute an in-memory store.
type Store interface {
	Insert(ctx context.Context, p *model.Project) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	GetByID(ctx context.Context, id string) (*model.Project, error)
	GetByName(ctx context.Context, name string) (*model.Project, error)
	UpdateByID(ctx context.Context, id string, params repository.UpdateParams) (*model.Project, error)
	Advance(ctx context.Context, id string) (*model.Project, error)
	DeleteByID(ctx context.Context, id string) error
}

// Publisher publishes domain events. May be nil when MQ is disabled.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

type Service struct {
	store     Store
	publisher Publisher
	logger    *zap.Logger
}

func NewService(store Store, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Create validates and stores a newly assigned project. Progress starts at
// zero of the full stage catalog unless the caller supplied a value.
func (s *Service) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	if err := p.ValidateRequired(); err != nil {
		metrics.IncrementProjectCreated("invalid")
		return nil, err
	}

	if p.Progress.Total == 0 {
		p.Progress = model.Progress{Completed: p.Progress.Completed, Total: model.StageCount}
	}

	created, err := s.store.Insert(ctx, p)
	if err != nil {
		if err == repository.ErrDuplicateProjectName {
			metrics.IncrementProjectCreated("duplicate")
		} else {
			metrics.IncrementProjectCreated("failed")
		}
		return nil, err
	}
	metrics.IncrementProjectCreated("success")

	s.publish(mqcontracts.RoutingKeyProjectAssigned, mqcontracts.ProjectAssignedPayload{
		ProjectID:   created.ID,
		ProjectName: created.ProjectName,
		ClientName:  created.ClientName,
		AssignedAt:  time.Now(),
	})

	return created, nil
}

// List returns the whole collection, order unspecified.
func (s *Service) List(ctx context.Context) ([]model.Project, error) {
	return s.store.List(ctx)
}

// Get fetches one project by id.
func (s *Service) Get(ctx context.Context, id string) (*model.Project, error) {
	return s.store.GetByID(ctx, id)
}

// Update merges a partial edit into the stored record.
func (s *Service) Update(ctx context.Context, id string, params repository.UpdateParams) (*model.Project, error) {
	return s.store.UpdateByID(ctx, id, params)
}

// UpdateByName services the legacy name-keyed endpoint by resolving the name
// to an id first, so there is a single mutation path.
func (s *Service) UpdateByName(ctx context.Context, name string, params repository.UpdateParams) (*model.Project, error) {
	existing, err := s.store.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateByID(ctx, existing.ID, params)
}

// DeleteByName removes a project permanently, resolving the legacy name key
// to an id first.
func (s *Service) DeleteByName(ctx context.Context, name string) error {
	existing, err := s.store.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return s.store.DeleteByID(ctx, existing.ID)
}

// Advance moves a project forward by exactly one stage. The increment runs
// server-side at the store; advancing a completed project is rejected with
// repository.ErrProjectCompleted rather than clamped, so callers can tell a
// no-op from success.
func (s *Service) Advance(ctx context.Context, id string) (*model.Project, error) {
	advanced, err := s.store.Advance(ctx, id)
	if err != nil {
		switch err {
		case repository.ErrProjectNotFound:
			metrics.IncrementProjectAdvance("not_found")
		case repository.ErrProjectCompleted:
			metrics.IncrementProjectAdvance("completed")
		default:
			metrics.IncrementProjectAdvance("failed")
		}
		return nil, err
	}
	metrics.IncrementProjectAdvance("success")

	s.publish(mqcontracts.RoutingKeyProjectAdvanced, mqcontracts.ProjectAdvancedPayload{
		ProjectID:   advanced.ID,
		ProjectName: advanced.ProjectName,
		Completed:   advanced.Progress.Completed,
		Total:       advanced.Progress.Total,
		Stage:       model.StageName(advanced.Progress.Completed - 1),
		AdvancedAt:  time.Now(),
	})

	if advanced.Progress.IsCompleted() {
		s.publish(mqcontracts.RoutingKeyProjectCompleted, mqcontracts.ProjectCompletedPayload{
			ProjectID:   advanced.ID,
			ProjectName: advanced.ProjectName,
			ClientName:  advanced.ClientName,
			CompletedAt: time.Now(),
		})
	}

	return advanced, nil
}

// publish is best-effort: a broker failure never fails the originating request.
func (s *Service) publish(routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
