package model

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is the tenant boundary: every patient and appointment belongs
// to exactly one clinic.
type Clinic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClinicRef is the nested form embedded in related entities.
type ClinicRef struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

type CreateClinicRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}

type UpdateClinicRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=255"`
	Address *string `json:"address" validate:"omitempty,max=255"`
}
