package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		Secret:   "test-secret",
		Issuer:   "HospitalManagementSystem",
		Audience: "HospitalManagementSystem",
		Expiry:   time.Hour,
	})
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestService()

	token, expiresAt, err := svc.Issue(42, "ana", "Doctor")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "Doctor", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestVerify_RejectsExpired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Issue(1, "ana", "Admin")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	token, _, err := newTestService().Issue(1, "ana", "Admin")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{Secret: "other", Issuer: "HospitalManagementSystem", Audience: "HospitalManagementSystem"})
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsWrongAudience(t *testing.T) {
	token, _, err := newTestService().Issue(1, "ana", "Admin")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "HospitalManagementSystem", Audience: "someone-else"})
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	_, err := newTestService().Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
