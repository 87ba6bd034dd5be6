package access

import (
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/errors"
)

// RequireVisible gates single-entity access for patients and
// appointments. An out-of-scope entity is reported as not found so that
// its existence does not leak.
func RequireVisible(s Scope, clinicID uuid.UUID, resource string) error {
	if s.Contains(clinicID) {
		return nil
	}
	return errors.NewNotFound(resource)
}

// RequireClinicRead gates direct clinic reads. Unlike patients and
// appointments, an out-of-scope clinic is reported as forbidden: the
// clinic's existence is not sensitive, its contents are. This asymmetry
// is a fixed contract.
func RequireClinicRead(s Scope, clinicID uuid.UUID) error {
	if s.Contains(clinicID) {
		return nil
	}
	return errors.NewForbidden("no access to this clinic")
}

// RequireAdmin gates operations reserved to platform administrators,
// such as clinic and membership management.
func RequireAdmin(actor model.Actor) error {
	if actor.Admin {
		return nil
	}
	return errors.NewForbidden("administrator access required")
}
