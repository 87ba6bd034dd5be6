package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	ClinicID  uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Clinic    ClinicRef  `db:"clinic" json:"clinic"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// PatientRef is the nested form embedded in appointments.
type PatientRef struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
}

type CreatePatientRequest struct {
	FirstName string     `json:"first_name" validate:"required,max=255"`
	LastName  string     `json:"last_name" validate:"required,max=255"`
	BirthDate *time.Time `json:"birth_date"`
	ClinicID  uuid.UUID  `json:"clinic_id" validate:"required"`
}

// UpdatePatientRequest carries partial updates. ClinicID is honored only
// for administrators; for everyone else the stored clinic is kept.
type UpdatePatientRequest struct {
	FirstName *string    `json:"first_name" validate:"omitempty,max=255"`
	LastName  *string    `json:"last_name" validate:"omitempty,max=255"`
	BirthDate *time.Time `json:"birth_date"`
	ClinicID  *uuid.UUID `json:"clinic_id"`
}
