package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	token, err := mgr.Generate("officer@portsure.io", RoleComplianceOfficer)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "officer@portsure.io", claims.Subject)
	assert.Equal(t, RoleComplianceOfficer, claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Generate("user@portsure.io", RoleInvestor)
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	mgr := NewManager("test-secret", -time.Minute)

	token, err := mgr.Generate("user@portsure.io", RoleInvestor)
	require.NoError(t, err)

	_, err = mgr.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	_, err := mgr.Validate("not-a-token")
	assert.Error(t, err)
}

func TestServiceTokenSourceMintsServiceRole(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)
	source := NewServiceTokenSource(mgr, "platform@portsure.internal")

	token, err := source.Token()
	require.NoError(t, err)

	claims, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "platform@portsure.internal", claims.Subject)
	assert.Equal(t, RoleService, claims.Role)
}

func TestServiceTokenSourceReusesCachedToken(t *testing.T) {
	source := NewServiceTokenSource(NewManager("test-secret", time.Hour), "platform@portsure.internal")

	first, err := source.Token()
	require.NoError(t, err)
	second, err := source.Token()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
