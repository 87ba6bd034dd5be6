package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership grants a user access to one clinic's data. (user, clinic)
// pairs are unique; a user may hold several memberships.
type Membership struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Clinic    ClinicRef `db:"clinic" json:"clinic"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateMembershipRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	ClinicID uuid.UUID `json:"clinic_id" validate:"required"`
}
