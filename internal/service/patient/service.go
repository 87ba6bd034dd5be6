package patient

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
	ListPatients(ctx context.Context, actor model.Actor) ([]*model.Patient, error)
	CreatePatient(ctx context.Context, actor model.Actor, req *model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Patient, error)
	UpdatePatient(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

type Service struct {
	repo     repository.PatientRepository
	scopes   access.ScopeResolver
	validate *validator.Validator
	events   messaging.Publisher
}

func NewService(repo repository.PatientRepository, scopes access.ScopeResolver, events messaging.Publisher) *Service {
	return &Service{
		repo:     repo,
		scopes:   scopes,
		validate: validator.New(),
		events:   events,
	}
}

func (s *Service) ListPatients(ctx context.Context, actor model.Actor) ([]*model.Patient, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	patients, err := s.repo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) CreatePatient(ctx context.Context, actor model.Actor, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	// The target clinic must come from the caller's own choice set; a
	// clinic outside it is indistinguishable from a missing one.
	if err := access.RequireVisible(scope, req.ClinicID, "clinic"); err != nil {
		return nil, err
	}

	patient := &model.Patient{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		ClinicID:  req.ClinicID,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	s.publish(ctx, "patient.created", patient)
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Patient, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireVisible(scope, patient.ClinicID, "patient"); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireVisible(scope, patient.ClinicID, "patient"); err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.BirthDate != nil {
		patient.BirthDate = req.BirthDate
	}
	// A patient's clinic is immutable except for administrators; the
	// caller-supplied value is ignored, not rejected.
	if req.ClinicID != nil && actor.Admin {
		patient.ClinicID = *req.ClinicID
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}

	s.publish(ctx, "patient.updated", patient)
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return err
	}

	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := access.RequireVisible(scope, patient.ClinicID, "patient"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, "patient.deleted", patient)
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
