package access

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/errors"
)

func TestRequireVisibleInScope(t *testing.T) {
	clinicID := uuid.New()
	scope := ClinicSet(clinicID)

	assert.NoError(t, RequireVisible(scope, clinicID, "appointment"))
}

func TestRequireVisibleOutOfScopeIsNotFound(t *testing.T) {
	scope := ClinicSet(uuid.New())

	err := RequireVisible(scope, uuid.New(), "appointment")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "appointment not found", err.Error())
}

func TestRequireClinicReadOutOfScopeIsForbidden(t *testing.T) {
	// The asymmetry with RequireVisible is deliberate: clinic existence
	// is not sensitive, its content is.
	scope := ClinicSet(uuid.New())

	err := RequireClinicRead(scope, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.False(t, errors.IsNotFound(err))
}

func TestRequireClinicReadInScope(t *testing.T) {
	clinicID := uuid.New()

	assert.NoError(t, RequireClinicRead(ClinicSet(clinicID), clinicID))
	assert.NoError(t, RequireClinicRead(AllClinics(), uuid.New()))
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(model.Actor{ID: uuid.New(), Admin: true}))

	err := RequireAdmin(model.Actor{ID: uuid.New()})
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
}

func TestAdminScopeBypassesEverything(t *testing.T) {
	scope := AllClinics()

	assert.NoError(t, RequireVisible(scope, uuid.New(), "patient"))
	assert.NoError(t, RequireClinicRead(scope, uuid.New()))
}
