package clinic

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/access"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/errors"
)

type stubScopes struct {
	scopes map[uuid.UUID]access.Scope
}

func (s *stubScopes) Resolve(_ context.Context, actor model.Actor) (access.Scope, error) {
	if actor.Admin {
		return access.AllClinics(), nil
	}
	return s.scopes[actor.ID], nil
}

type fakeRepo struct {
	clinics map[uuid.UUID]*model.Clinic
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{clinics: make(map[uuid.UUID]*model.Clinic)}
}

func (r *fakeRepo) Create(_ context.Context, clinic *model.Clinic) error {
	clinic.ID = uuid.New()
	stored := *clinic
	r.clinics[clinic.ID] = &stored
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, ok := r.clinics[id]
	if !ok {
		return nil, errors.NewNotFound("clinic")
	}
	copied := *clinic
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, clinic *model.Clinic) error {
	if _, ok := r.clinics[clinic.ID]; !ok {
		return errors.NewNotFound("clinic")
	}
	stored := *clinic
	r.clinics[clinic.ID] = &stored
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.clinics[id]; !ok {
		return errors.NewNotFound("clinic")
	}
	delete(r.clinics, id)
	return nil
}

func (r *fakeRepo) List(_ context.Context, scope access.Scope) ([]*model.Clinic, error) {
	var out []*model.Clinic
	for _, clinic := range r.clinics {
		if !scope.Contains(clinic.ID) {
			continue
		}
		copied := *clinic
		out = append(out, &copied)
	}
	return out, nil
}

func seed(t *testing.T) (*Service, *fakeRepo, uuid.UUID, model.Actor, model.Actor) {
	t.Helper()

	repo := newFakeRepo()
	admin := model.Actor{ID: uuid.New(), Admin: true}
	member := model.Actor{ID: uuid.New()}

	svc := NewService(repo, &stubScopes{scopes: map[uuid.UUID]access.Scope{}}, nil)
	clinic, err := svc.CreateClinic(context.Background(), admin, &model.CreateClinicRequest{Name: "North"})
	require.NoError(t, err)

	scopes := &stubScopes{scopes: map[uuid.UUID]access.Scope{
		member.ID: access.ClinicSet(clinic.ID),
	}}
	return NewService(repo, scopes, nil), repo, clinic.ID, admin, member
}

func TestCreateClinicRequiresAdmin(t *testing.T) {
	svc, _, _, _, member := seed(t)

	_, err := svc.CreateClinic(context.Background(), member, &model.CreateClinicRequest{Name: "South"})
	assert.True(t, errors.IsForbidden(err))
}

func TestCreateClinicRejectsEmptyName(t *testing.T) {
	svc, _, _, admin, _ := seed(t)

	_, err := svc.CreateClinic(context.Background(), admin, &model.CreateClinicRequest{})
	assert.True(t, errors.IsValidation(err))
}

func TestGetClinicOutOfScopeIsForbidden(t *testing.T) {
	svc, _, clinicID, admin, member := seed(t)
	ctx := context.Background()

	got, err := svc.GetClinic(ctx, member, clinicID)
	require.NoError(t, err)
	assert.Equal(t, "North", got.Name)

	other, err := svc.CreateClinic(ctx, admin, &model.CreateClinicRequest{Name: "South"})
	require.NoError(t, err)

	// Unlike patients and appointments, an existing but inaccessible
	// clinic is reported as forbidden.
	_, err = svc.GetClinic(ctx, member, other.ID)
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))

	// A clinic that does not exist at all is still not found.
	_, err = svc.GetClinic(ctx, member, uuid.New())
	assert.True(t, errors.IsNotFound(err))
}

func TestListClinicsIsScoped(t *testing.T) {
	svc, _, clinicID, admin, member := seed(t)
	ctx := context.Background()

	_, err := svc.CreateClinic(ctx, admin, &model.CreateClinicRequest{Name: "South"})
	require.NoError(t, err)

	forMember, err := svc.ListClinics(ctx, member)
	require.NoError(t, err)
	require.Len(t, forMember, 1)
	assert.Equal(t, clinicID, forMember[0].ID)

	forAdmin, err := svc.ListClinics(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, forAdmin, 2)
}

func TestUpdateClinicRequiresAdmin(t *testing.T) {
	svc, _, clinicID, admin, member := seed(t)
	ctx := context.Background()
	name := "North Renamed"

	_, err := svc.UpdateClinic(ctx, member, clinicID, &model.UpdateClinicRequest{Name: &name})
	assert.True(t, errors.IsForbidden(err))

	updated, err := svc.UpdateClinic(ctx, admin, clinicID, &model.UpdateClinicRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
}

func TestDeleteClinicRequiresAdmin(t *testing.T) {
	svc, repo, clinicID, admin, member := seed(t)
	ctx := context.Background()

	err := svc.DeleteClinic(ctx, member, clinicID)
	assert.True(t, errors.IsForbidden(err))
	assert.Len(t, repo.clinics, 1)

	require.NoError(t, svc.DeleteClinic(ctx, admin, clinicID))
	assert.Empty(t, repo.clinics)

	err = svc.DeleteClinic(ctx, admin, clinicID)
	assert.True(t, errors.IsNotFound(err))
}
