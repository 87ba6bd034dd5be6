package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicore/clinic-api/internal/model"
)

const scopeCacheTTL = 30 * time.Second

// MembershipSource lists the clinics a user is a member of.
type MembershipSource interface {
	ListClinicIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ScopeResolver is the consumer-side contract for per-request scope
// resolution.
type ScopeResolver interface {
	Resolve(ctx context.Context, actor model.Actor) (Scope, error)
}

// ScopeCache invalidates cached scopes after membership writes.
type ScopeCache interface {
	Invalidate(userID uuid.UUID)
}

// Resolver turns an actor into its clinic scope. Non-admin scopes are
// cached briefly; membership writes must call Invalidate.
type Resolver struct {
	memberships MembershipSource
	cache       *gocache.Cache
}

func NewResolver(memberships MembershipSource) *Resolver {
	return &Resolver{
		memberships: memberships,
		cache:       gocache.New(scopeCacheTTL, 2*scopeCacheTTL),
	}
}

func (r *Resolver) Resolve(ctx context.Context, actor model.Actor) (Scope, error) {
	if actor.Admin {
		return AllClinics(), nil
	}

	key := actor.ID.String()
	if cached, ok := r.cache.Get(key); ok {
		return cached.(Scope), nil
	}

	ids, err := r.memberships.ListClinicIDs(ctx, actor.ID)
	if err != nil {
		return Scope{}, fmt.Errorf("failed to resolve memberships: %w", err)
	}

	scope := ClinicSet(ids...)
	r.cache.Set(key, scope, gocache.DefaultExpiration)
	return scope, nil
}

func (r *Resolver) Invalidate(userID uuid.UUID) {
	r.cache.Delete(userID.String())
}
