package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/access"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/messaging"
	"github.com/clinicore/clinic-api/pkg/validator"
)

type Servicer interface {
	ListAppointments(ctx context.Context, actor model.Actor, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	CreateAppointment(ctx context.Context, actor model.Actor, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, actor model.Actor, id uuid.UUID) error
}

type Service struct {
	repo     repository.AppointmentRepository
	scopes   access.ScopeResolver
	validate *validator.Validator
	events   messaging.Publisher
}

func NewService(repo repository.AppointmentRepository, scopes access.ScopeResolver, events messaging.Publisher) *Service {
	return &Service{
		repo:     repo,
		scopes:   scopes,
		validate: validator.New(),
		events:   events,
	}
}

func (s *Service) ListAppointments(ctx context.Context, actor model.Actor, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	appointments, err := s.repo.List(ctx, scope, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) CreateAppointment(ctx context.Context, actor model.Actor, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ScheduledAt: req.ScheduledAt,
		Reason:      req.Reason,
		Status:      model.AppointmentStatusPending,
		PatientID:   req.PatientID,
		ClinicID:    req.ClinicID,
	}

	if err := s.repo.Create(ctx, apt, s.coherenceGuard(actor, scope, apt)); err != nil {
		return nil, err
	}

	s.publish(ctx, "appointment.created", apt)
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Appointment, error) {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireVisible(scope, apt.ClinicID, "appointment"); err != nil {
		return nil, err
	}
	return apt, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireVisible(scope, apt.ClinicID, "appointment"); err != nil {
		return nil, err
	}

	if req.ScheduledAt != nil {
		apt.ScheduledAt = *req.ScheduledAt
	}
	if req.Reason != nil {
		apt.Reason = req.Reason
	}
	if req.Status != nil {
		if err := validateTransition(apt.Status, *req.Status); err != nil {
			return nil, err
		}
		apt.Status = *req.Status
	}
	if req.PatientID != nil {
		apt.PatientID = *req.PatientID
	}
	// The stored clinic is kept unless an administrator moves it; the
	// guard re-derives it for everyone else.
	if req.ClinicID != nil && actor.Admin {
		apt.ClinicID = *req.ClinicID
	}

	if err := s.repo.Update(ctx, apt, s.coherenceGuard(actor, scope, apt)); err != nil {
		return nil, err
	}

	s.publish(ctx, "appointment.updated", apt)
	return apt, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, actor model.Actor, id uuid.UUID) error {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return err
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := access.RequireVisible(scope, apt.ClinicID, "appointment"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, "appointment.deleted", apt)
	return nil
}

// coherenceGuard runs inside the write transaction with the patient row
// locked. It resolves the appointment's clinic and enforces that it
// equals the patient's clinic:
//
//  1. a patient outside the actor's scope is reported as not found,
//     never as a coherence failure;
//  2. for non-administrators the clinic is forced to the patient's
//     clinic, ignoring whatever the caller supplied;
//  3. after that, any remaining mismatch is a validation error. This
//     can only fire for administrator-supplied clinics.
func (s *Service) coherenceGuard(actor model.Actor, scope access.Scope, apt *model.Appointment) repository.PatientGuard {
	return func(patient *model.Patient) error {
		if patient == nil {
			return errors.NewNotFound("patient")
		}
		if err := access.RequireVisible(scope, patient.ClinicID, "patient"); err != nil {
			return err
		}
		if !actor.Admin || apt.ClinicID == uuid.Nil {
			apt.ClinicID = patient.ClinicID
		}
		if apt.ClinicID != patient.ClinicID {
			return errors.NewValidation("appointment clinic must match the patient's clinic")
		}
		apt.Patient = model.PatientRef{
			ID:        patient.ID,
			FirstName: patient.FirstName,
			LastName:  patient.LastName,
		}
		return nil
	}
}

func validateTransition(from, to model.AppointmentStatus) error {
	if !to.Valid() {
		return errors.NewValidation(fmt.Sprintf("invalid appointment status %q", to))
	}
	if from == to {
		return nil
	}
	if from.Terminal() {
		return errors.NewValidation(fmt.Sprintf("cannot change status of a %s appointment", from))
	}
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
