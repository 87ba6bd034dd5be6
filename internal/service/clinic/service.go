package clinic

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
	ListClinics(ctx context.Context, actor model.Actor) ([]*model.Clinic, error)
	CreateClinic(ctx context.Context, actor model.Actor, req *model.CreateClinicRequest) (*model.Clinic, error)
	GetClinic(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Clinic, error)
	UpdateClinic(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateClinicRequest) (*model.Clinic, error)
	DeleteClinic(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

type Service struct {
	repo     repository.ClinicRepository
	scopes   access.ScopeResolver
	validate *validator.Validator
	events   messaging.Publisher
}

func NewService(repo repository.ClinicRepository, scopes access.ScopeResolver, events messaging.Publisher) *Service {
	return &Service{
		repo:     repo,
		scopes:   scopes,
		validate: validator.New(),
		events:   events,
	}
}

// ListClinics shows only the clinics the actor is a member of;
// administrators see them all.
func (s *Service) ListClinics(ctx context.Context, actor model.Actor) ([]*model.Clinic, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	clinics, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}

func (s *Service) CreateClinic(ctx context.Context, actor model.Actor, req *model.CreateClinicRequest) (*model.Clinic, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	clinic := &model.Clinic{
		Name:    req.Name,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, clinic); err != nil {
		return nil, err
	}

	s.publish(ctx, "clinic.created", clinic)
	return clinic, nil
}

// GetClinic reports an out-of-scope clinic as forbidden rather than not
// found: clinic existence is not considered sensitive, its content is.
func (s *Service) GetClinic(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Clinic, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireClinicRead(scope, clinic.ID); err != nil {
		return nil, err
	}
	return clinic, nil
}

func (s *Service) UpdateClinic(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	if err := access.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Address != nil {
		clinic.Address = req.Address
	}

	if err := s.repo.Update(ctx, clinic); err != nil {
		return nil, err
	}

	s.publish(ctx, "clinic.updated", clinic)
	return clinic, nil
}

// DeleteClinic is administrator-only regardless of scope; the delete
// cascades to the clinic's patients and appointments.
func (s *Service) DeleteClinic(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	if err := access.RequireAdmin(actor); err != nil {
		return err
	}

	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, "clinic.deleted", clinic)
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
