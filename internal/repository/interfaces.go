package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/access"
	"github.com/clinicore/clinic-api/internal/model"
)

// Repositories translate missing rows into the not-found error kind and
// database faults into wrapped internal errors. List methods apply the
// given scope in SQL; an empty scope yields an empty result.

type ClinicRepository interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	Update(ctx context.Context, clinic *model.Clinic) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, scope access.Scope) ([]*model.Clinic, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, scope access.Scope) ([]*model.Patient, error)
}

// PatientGuard runs inside an appointment write transaction with the
// referenced patient row share-locked, so the patient's clinic cannot
// move between validation and commit. A nil patient means the row does
// not exist. Returning an error aborts the transaction.
type PatientGuard func(patient *model.Patient) error

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment, guard PatientGuard) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment, guard PatientGuard) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, scope access.Scope, filters *model.AppointmentFilters) ([]*model.Appointment, error)
}

type MembershipRepository interface {
	Create(ctx context.Context, m *model.Membership) error
	Get(ctx context.Context, id uuid.UUID) (*model.Membership, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Membership, error)
	ListClinicIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
