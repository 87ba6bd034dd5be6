package membership

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/access"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/pkg/messaging"
	"github.com/clinicore/clinic-api/pkg/validator"
)

type Servicer interface {
	ListMemberships(ctx context.Context, actor model.Actor) ([]*model.Membership, error)
	CreateMembership(ctx context.Context, actor model.Actor, req *model.CreateMembershipRequest) (*model.Membership, error)
	DeleteMembership(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

// Service manages the user↔clinic associations that feed the scope
// resolver. All operations are administrator-only; membership writes
// invalidate the affected user's cached scope.
type Service struct {
	repo     repository.MembershipRepository
	scopes   access.ScopeCache
	validate *validator.Validator
	events   messaging.Publisher
}

func NewService(repo repository.MembershipRepository, scopes access.ScopeCache, events messaging.Publisher) *Service {
	return &Service{
		repo:     repo,
		scopes:   scopes,
		validate: validator.New(),
		events:   events,
	}
}

func (s *Service) ListMemberships(ctx context.Context, actor model.Actor) ([]*model.Membership, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}

	memberships, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

func (s *Service) CreateMembership(ctx context.Context, actor model.Actor, req *model.CreateMembershipRequest) (*model.Membership, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	m := &model.Membership{
		UserID:   req.UserID,
		ClinicID: req.ClinicID,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.scopes.Invalidate(m.UserID)
	s.publish(ctx, "membership.created", m)
	return m, nil
}

func (s *Service) DeleteMembership(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if err := access.RequireAdmin(actor); err != nil {
		return err
	}

	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.scopes.Invalidate(m.UserID)
	s.publish(ctx, "membership.deleted", m)
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, payload); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
