package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-api/internal/model"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", "clinic-api")
	actor := model.Actor{ID: uuid.New(), Email: "admin@example.com", Admin: true}

	token, err := svc.Generate(actor, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, claims.UserID)
	assert.Equal(t, actor.Email, claims.Email)
	assert.True(t, claims.Admin)
	assert.Equal(t, "clinic-api", claims.Issuer)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", "clinic-api")

	token, err := svc.Generate(model.Actor{ID: uuid.New()}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", "clinic-api").Generate(model.Actor{ID: uuid.New()}, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", "clinic-api").Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", "clinic-api")

	_, err := svc.Validate("not.a.token")
	assert.Error(t, err)
}

func TestValidateRejectsMissingIdentity(t *testing.T) {
	svc := NewJWTService("test-secret", "clinic-api")

	token, err := svc.Generate(model.Actor{}, time.Hour)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}
