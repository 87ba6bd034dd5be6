package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusAttended  AppointmentStatus = "attended"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusAttended, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further status transitions are allowed.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusAttended || s == AppointmentStatusCancelled
}

// Appointment always satisfies ClinicID == the owning patient's clinic;
// writes enforce this inside the store transaction.
type Appointment struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	ScheduledAt time.Time         `db:"scheduled_at" json:"scheduled_at"`
	Reason      *string           `db:"reason" json:"reason,omitempty"`
	Status      AppointmentStatus `db:"status" json:"status"`
	PatientID   uuid.UUID         `db:"patient_id" json:"patient_id"`
	ClinicID    uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	Patient     PatientRef        `db:"patient" json:"patient"`
	Clinic      ClinicRef         `db:"clinic" json:"clinic"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// CreateAppointmentRequest: ClinicID is optional and only trusted for
// administrators; for other callers it is derived from the patient.
type CreateAppointmentRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Reason      *string   `json:"reason" validate:"omitempty,max=1000"`
	PatientID   uuid.UUID `json:"patient_id" validate:"required"`
	ClinicID    uuid.UUID `json:"clinic_id"`
}

type UpdateAppointmentRequest struct {
	ScheduledAt *time.Time         `json:"scheduled_at"`
	Reason      *string            `json:"reason" validate:"omitempty,max=1000"`
	Status      *AppointmentStatus `json:"status"`
	PatientID   *uuid.UUID         `json:"patient_id"`
	ClinicID    *uuid.UUID         `json:"clinic_id"`
}

type AppointmentFilters struct {
	Status    AppointmentStatus
	PatientID uuid.UUID
}
