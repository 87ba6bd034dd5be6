package model

import "github.com/google/uuid"

// Actor is the authenticated identity a request runs as. Authentication
// happens upstream; the core only consumes the resolved identity. Admin
// actors bypass all tenant scoping.
type Actor struct {
	ID    uuid.UUID
	Email string
	Admin bool
}
