package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
)

const testSecret = "test-secret"

var issuedAt = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService(testSecret).WithClock(fixedClock(issuedAt))

	adminToken, err := svc.Issue(models.KindAdmin, "65f0c0ffee0000000000a001")
	require.NoError(t, err)
	userToken, err := svc.Issue(models.KindUser, "65f0c0ffee0000000000b001")
	require.NoError(t, err)

	admin, err := svc.Verify(adminToken)
	require.NoError(t, err)
	assert.Equal(t, Identity{Kind: models.KindAdmin, ID: "65f0c0ffee0000000000a001"}, admin)

	user, err := svc.Verify(userToken)
	require.NoError(t, err)
	assert.Equal(t, Identity{Kind: models.KindUser, ID: "65f0c0ffee0000000000b001"}, user)
}

func TestTokenService_CarriesExactlyOneClaim(t *testing.T) {
	svc := NewTokenService(testSecret).WithClock(fixedClock(issuedAt))
	signed, err := svc.Issue(models.KindUser, "u1")
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(signed, claims)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Empty(t, claims.AdminID)
	assert.True(t, issuedAt.Add(3*time.Hour).Equal(claims.ExpiresAt.Time))
}

func TestTokenService_ExpiresAfterThreeHours(t *testing.T) {
	issuer := NewTokenService(testSecret).WithClock(fixedClock(issuedAt))
	signed, err := issuer.Issue(models.KindAdmin, "a1")
	require.NoError(t, err)

	for _, offset := range []time.Duration{0, time.Hour, 3*time.Hour - time.Second} {
		_, err := issuer.WithClock(fixedClock(issuedAt.Add(offset))).Verify(signed)
		assert.NoError(t, err, "offset %s", offset)
	}

	for _, offset := range []time.Duration{3 * time.Hour, 3*time.Hour + time.Second, 48 * time.Hour} {
		_, err := issuer.WithClock(fixedClock(issuedAt.Add(offset))).Verify(signed)
		assert.ErrorIs(t, err, ErrExpired, "offset %s", offset)
	}
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	signed, err := NewTokenService("other-secret").WithClock(fixedClock(issuedAt)).Issue(models.KindUser, "u1")
	require.NoError(t, err)

	_, err = NewTokenService(testSecret).WithClock(fixedClock(issuedAt)).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenService(testSecret).WithClock(fixedClock(issuedAt)).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenService_RejectsAmbiguousIdentity(t *testing.T) {
	sign := func(c *Claims) string {
		c.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(time.Hour))
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return s
	}
	svc := NewTokenService(testSecret).WithClock(fixedClock(issuedAt))

	_, err := svc.Verify(sign(&Claims{AdminID: "a1", UserID: "u1"}))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = svc.Verify(sign(&Claims{}))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTokenService_RejectsMissingExpiry(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u1"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenService(testSecret).Verify(signed)
	assert.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	_, err := NewTokenService(testSecret).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTokenService_IssueRejectsUnknownKind(t *testing.T) {
	svc := NewTokenService(testSecret)

	_, err := svc.Issue("guest", "g1")
	assert.Error(t, err)
	_, err = svc.Issue(models.KindUser, "")
	assert.Error(t, err)
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("Admin123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	assert.True(t, CheckPassword(hash, "Admin123"))
	assert.False(t, CheckPassword(hash, "admin123"))
	assert.False(t, CheckPassword("", "Admin123"))

	again, err := HashPassword("Admin123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}
