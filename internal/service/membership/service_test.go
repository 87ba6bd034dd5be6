package membership

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/errors"
)

type spyCache struct {
	invalidated []uuid.UUID
}

func (c *spyCache) Invalidate(userID uuid.UUID) {
	c.invalidated = append(c.invalidated, userID)
}

type fakeRepo struct {
	memberships map[uuid.UUID]*model.Membership
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{memberships: make(map[uuid.UUID]*model.Membership)}
}

func (r *fakeRepo) Create(_ context.Context, m *model.Membership) error {
	for _, existing := range r.memberships {
		if existing.UserID == m.UserID && existing.ClinicID == m.ClinicID {
			return errors.NewValidation("user is already a member of this clinic")
		}
	}
	m.ID = uuid.New()
	stored := *m
	r.memberships[m.ID] = &stored
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (*model.Membership, error) {
	m, ok := r.memberships[id]
	if !ok {
		return nil, errors.NewNotFound("membership")
	}
	copied := *m
	return &copied, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.memberships[id]; !ok {
		return errors.NewNotFound("membership")
	}
	delete(r.memberships, id)
	return nil
}

func (r *fakeRepo) List(_ context.Context) ([]*model.Membership, error) {
	var out []*model.Membership
	for _, m := range r.memberships {
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeRepo) ListClinicIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, m := range r.memberships {
		if m.UserID == userID {
			out = append(out, m.ClinicID)
		}
	}
	return out, nil
}

func TestMembershipOpsRequireAdmin(t *testing.T) {
	svc := NewService(newFakeRepo(), &spyCache{}, nil)
	ctx := context.Background()
	member := model.Actor{ID: uuid.New()}

	_, err := svc.ListMemberships(ctx, member)
	assert.True(t, errors.IsForbidden(err))

	_, err = svc.CreateMembership(ctx, member, &model.CreateMembershipRequest{
		UserID:   uuid.New(),
		ClinicID: uuid.New(),
	})
	assert.True(t, errors.IsForbidden(err))

	err = svc.DeleteMembership(ctx, member, uuid.New())
	assert.True(t, errors.IsForbidden(err))
}

func TestCreateMembershipInvalidatesScope(t *testing.T) {
	cache := &spyCache{}
	svc := NewService(newFakeRepo(), cache, nil)
	admin := model.Actor{ID: uuid.New(), Admin: true}
	userID := uuid.New()

	m, err := svc.CreateMembership(context.Background(), admin, &model.CreateMembershipRequest{
		UserID:   userID,
		ClinicID: uuid.New(),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, []uuid.UUID{userID}, cache.invalidated)
}

func TestCreateMembershipRejectsDuplicates(t *testing.T) {
	svc := NewService(newFakeRepo(), &spyCache{}, nil)
	admin := model.Actor{ID: uuid.New(), Admin: true}
	req := &model.CreateMembershipRequest{UserID: uuid.New(), ClinicID: uuid.New()}

	_, err := svc.CreateMembership(context.Background(), admin, req)
	require.NoError(t, err)

	_, err = svc.CreateMembership(context.Background(), admin, req)
	assert.True(t, errors.IsValidation(err))
}

func TestCreateMembershipRejectsMissingFields(t *testing.T) {
	svc := NewService(newFakeRepo(), &spyCache{}, nil)
	admin := model.Actor{ID: uuid.New(), Admin: true}

	_, err := svc.CreateMembership(context.Background(), admin, &model.CreateMembershipRequest{})
	assert.True(t, errors.IsValidation(err))
}

func TestDeleteMembershipInvalidatesScope(t *testing.T) {
	cache := &spyCache{}
	repo := newFakeRepo()
	svc := NewService(repo, cache, nil)
	admin := model.Actor{ID: uuid.New(), Admin: true}
	userID := uuid.New()

	m, err := svc.CreateMembership(context.Background(), admin, &model.CreateMembershipRequest{
		UserID:   userID,
		ClinicID: uuid.New(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMembership(context.Background(), admin, m.ID))
	assert.Empty(t, repo.memberships)
	assert.Equal(t, []uuid.UUID{userID, userID}, cache.invalidated)

	err = svc.DeleteMembership(context.Background(), admin, m.ID)
	assert.True(t, errors.IsNotFound(err))
}
