package patient

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
	patients map[uuid.UUID]*model.Patient
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *fakeRepo) Create(_ context.Context, patient *model.Patient) error {
	patient.ID = uuid.New()
	stored := *patient
	r.patients[patient.ID] = &stored
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, ok := r.patients[id]
	if !ok {
		return nil, errors.NewNotFound("patient")
	}
	copied := *patient
	return &copied, nil
}

func (r *fakeRepo) Update(_ context.Context, patient *model.Patient) error {
	if _, ok := r.patients[patient.ID]; !ok {
		return errors.NewNotFound("patient")
	}
	stored := *patient
	r.patients[patient.ID] = &stored
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.patients[id]; !ok {
		return errors.NewNotFound("patient")
	}
	delete(r.patients, id)
	return nil
}

func (r *fakeRepo) List(_ context.Context, scope access.Scope) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, patient := range r.patients {
		if !scope.Contains(patient.ClinicID) {
			continue
		}
		copied := *patient
		out = append(out, &copied)
	}
	return out, nil
}

type fixture struct {
	svc     *Service
	repo    *fakeRepo
	clinicA uuid.UUID
	clinicB uuid.UUID
	ua      model.Actor
	root    model.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:    newFakeRepo(),
		clinicA: uuid.New(),
		clinicB: uuid.New(),
		ua:      model.Actor{ID: uuid.New()},
		root:    model.Actor{ID: uuid.New(), Admin: true},
	}
	scopes := &stubScopes{scopes: map[uuid.UUID]access.Scope{
		f.ua.ID: access.ClinicSet(f.clinicA),
	}}
	f.svc = NewService(f.repo, scopes, nil)
	return f
}

func TestCreatePatientInScope(t *testing.T) {
	f := newFixture(t)

	patient, err := f.svc.CreatePatient(context.Background(), f.ua, &model.CreatePatientRequest{
		FirstName: "Ana",
		LastName:  "Alvarez",
		ClinicID:  f.clinicA,
	})
	require.NoError(t, err)
	assert.Equal(t, f.clinicA, patient.ClinicID)
}

func TestCreatePatientOutOfScopeClinicIsNotFound(t *testing.T) {
	f := newFixture(t)

	// The target clinic exists but is outside the actor's scope; the
	// error must not reveal that.
	_, err := f.svc.CreatePatient(context.Background(), f.ua, &model.CreatePatientRequest{
		FirstName: "Bruno",
		LastName:  "Barrios",
		ClinicID:  f.clinicB,
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "clinic not found", err.Error())
	assert.Empty(t, f.repo.patients)
}

func TestCreatePatientRejectsMissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreatePatient(context.Background(), f.ua, &model.CreatePatientRequest{
		FirstName: "Ana",
		ClinicID:  f.clinicA,
	})
	assert.True(t, errors.IsValidation(err))
}

func TestGetPatientOutOfScopeIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	patient, err := f.svc.CreatePatient(ctx, f.root, &model.CreatePatientRequest{
		FirstName: "Bruno",
		LastName:  "Barrios",
		ClinicID:  f.clinicB,
	})
	require.NoError(t, err)

	_, err = f.svc.GetPatient(ctx, f.ua, patient.ID)
	assert.True(t, errors.IsNotFound(err))

	got, err := f.svc.GetPatient(ctx, f.root, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, got.ID)
}

func TestListPatientsIsScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.svc.CreatePatient(ctx, f.ua, &model.CreatePatientRequest{
		FirstName: "Ana", LastName: "Alvarez", ClinicID: f.clinicA,
	})
	require.NoError(t, err)
	_, err = f.svc.CreatePatient(ctx, f.root, &model.CreatePatientRequest{
		FirstName: "Bruno", LastName: "Barrios", ClinicID: f.clinicB,
	})
	require.NoError(t, err)

	got, err := f.svc.ListPatients(ctx, f.ua)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	all, err := f.svc.ListPatients(ctx, f.root)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdatePatientClinicImmutableForMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	patient, err := f.svc.CreatePatient(ctx, f.ua, &model.CreatePatientRequest{
		FirstName: "Ana", LastName: "Alvarez", ClinicID: f.clinicA,
	})
	require.NoError(t, err)

	// The clinic in the request is ignored, not rejected; other fields
	// still apply.
	last := "Arias"
	updated, err := f.svc.UpdatePatient(ctx, f.ua, patient.ID, &model.UpdatePatientRequest{
		LastName: &last,
		ClinicID: &f.clinicB,
	})
	require.NoError(t, err)
	assert.Equal(t, f.clinicA, updated.ClinicID)
	assert.Equal(t, "Arias", updated.LastName)

	// Administrators may move the patient.
	moved, err := f.svc.UpdatePatient(ctx, f.root, patient.ID, &model.UpdatePatientRequest{
		ClinicID: &f.clinicB,
	})
	require.NoError(t, err)
	assert.Equal(t, f.clinicB, moved.ClinicID)
}

func TestDeletePatientOutOfScopeIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	patient, err := f.svc.CreatePatient(ctx, f.root, &model.CreatePatientRequest{
		FirstName: "Bruno", LastName: "Barrios", ClinicID: f.clinicB,
	})
	require.NoError(t, err)

	err = f.svc.DeletePatient(ctx, f.ua, patient.ID)
	assert.True(t, errors.IsNotFound(err))
	assert.Len(t, f.repo.patients, 1)

	require.NoError(t, f.svc.DeletePatient(ctx, f.root, patient.ID))
	assert.Empty(t, f.repo.patients)
}
