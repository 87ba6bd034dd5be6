package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
)

type stubMemberships struct {
	clinics map[uuid.UUID][]uuid.UUID
	calls   int
	err     error
}

func (s *stubMemberships) ListClinicIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.clinics[userID], nil
}

func TestResolveAdminGetsAllClinics(t *testing.T) {
	memberships := &stubMemberships{}
	resolver := NewResolver(memberships)

	scope, err := resolver.Resolve(context.Background(), model.Actor{ID: uuid.New(), Admin: true})
	require.NoError(t, err)

	assert.True(t, scope.All())
	assert.Zero(t, memberships.calls, "admin resolution must not hit the membership source")
}

func TestResolveMemberScope(t *testing.T) {
	userID := uuid.New()
	clinicID := uuid.New()
	memberships := &stubMemberships{clinics: map[uuid.UUID][]uuid.UUID{
		userID: {clinicID},
	}}
	resolver := NewResolver(memberships)

	scope, err := resolver.Resolve(context.Background(), model.Actor{ID: userID})
	require.NoError(t, err)

	assert.False(t, scope.All())
	assert.True(t, scope.Contains(clinicID))
	assert.False(t, scope.Contains(uuid.New()))
}

func TestResolveNoMembershipsMeansEmptyScope(t *testing.T) {
	resolver := NewResolver(&stubMemberships{})

	scope, err := resolver.Resolve(context.Background(), model.Actor{ID: uuid.New()})
	require.NoError(t, err)

	assert.True(t, scope.Empty())
}

func TestResolveCachesPerUser(t *testing.T) {
	userID := uuid.New()
	memberships := &stubMemberships{clinics: map[uuid.UUID][]uuid.UUID{
		userID: {uuid.New()},
	}}
	resolver := NewResolver(memberships)
	actor := model.Actor{ID: userID}

	_, err := resolver.Resolve(context.Background(), actor)
	require.NoError(t, err)
	_, err = resolver.Resolve(context.Background(), actor)
	require.NoError(t, err)

	assert.Equal(t, 1, memberships.calls)
}

func TestInvalidateForcesRefresh(t *testing.T) {
	userID := uuid.New()
	memberships := &stubMemberships{}
	resolver := NewResolver(memberships)
	actor := model.Actor{ID: userID}

	scope, err := resolver.Resolve(context.Background(), actor)
	require.NoError(t, err)
	assert.True(t, scope.Empty())

	newClinic := uuid.New()
	memberships.clinics = map[uuid.UUID][]uuid.UUID{userID: {newClinic}}
	resolver.Invalidate(userID)

	scope, err = resolver.Resolve(context.Background(), actor)
	require.NoError(t, err)
	assert.True(t, scope.Contains(newClinic))
	assert.Equal(t, 2, memberships.calls)
}

func TestResolvePropagatesSourceError(t *testing.T) {
	memberships := &stubMemberships{err: assert.AnError}
	resolver := NewResolver(memberships)

	_, err := resolver.Resolve(context.Background(), model.Actor{ID: uuid.New()})
	assert.ErrorIs(t, err, assert.AnError)
}
