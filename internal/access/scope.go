package access

import "github.com/google/uuid"

// Scope is the set of clinics an actor may touch. It has two variants:
// all clinics (administrators) or an explicit, possibly empty, set. A
// scope is resolved once per request and threaded through as a value;
// never re-derive it mid-request.
type Scope struct {
	all     bool
	clinics map[uuid.UUID]struct{}
}

// AllClinics returns the administrator scope, which contains every clinic.
func AllClinics() Scope {
	return Scope{all: true}
}

// ClinicSet returns a scope limited to the given clinics.
func ClinicSet(ids ...uuid.UUID) Scope {
	s := Scope{clinics: make(map[uuid.UUID]struct{}, len(ids))}
	for _, id := range ids {
		s.clinics[id] = struct{}{}
	}
	return s
}

func (s Scope) All() bool {
	return s.all
}

func (s Scope) Contains(clinicID uuid.UUID) bool {
	if s.all {
		return true
	}
	_, ok := s.clinics[clinicID]
	return ok
}

// Empty reports whether the scope grants access to nothing. An empty
// scope is valid: it yields zero visible records, not an error.
func (s Scope) Empty() bool {
	return !s.all && len(s.clinics) == 0
}

// ClinicIDs returns the explicit clinic set, nil for the all-clinics
// variant. Order is unspecified.
func (s Scope) ClinicIDs() []uuid.UUID {
	if s.all {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(s.clinics))
	for id := range s.clinics {
		ids = append(ids, id)
	}
	return ids
}
