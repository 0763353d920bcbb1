package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

func testJWTConfig(minutes int) config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "storefront", ExpirationMinutes: minutes}
}

func signClaims(t *testing.T, cfg config.JWTConfig, claims AccessTokenClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)
	return signed
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig(30)
	now := time.Now().UTC().Truncate(time.Second)
	userID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: userID, Role: enums.UserRoleAdmin, JTI: "fixed-jti"})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, enums.UserRoleAdmin, claims.Role)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.Equal(t, "fixed-jti", claims.ID)
	assert.WithinDuration(t, now.Add(30*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestMintGeneratesJTI(t *testing.T) {
	cfg := testJWTConfig(5)
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	require.NoError(t, err)
	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err)
}

func TestParseRejectsTamperedAndForeignTokens(t *testing.T) {
	cfg := testJWTConfig(10)
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token+"x")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other := cfg
	other.Issuer = "someone-else"
	_, err = ParseAccessToken(other, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other = cfg
	other.Secret = "rotated"
	_, err = ParseAccessToken(other, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseReportsExpiry(t *testing.T) {
	cfg := testJWTConfig(15)
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseRejectsMalformedClaims(t *testing.T) {
	cfg := testJWTConfig(5)
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))
	userID := uuid.New()

	cases := map[string]AccessTokenClaims{
		"unknown role": {UserID: userID, Role: "superuser",
			RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.Issuer, ExpiresAt: exp}},
		"missing user": {Role: enums.UserRoleCustomer,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.Issuer, ExpiresAt: exp}},
		"subject mismatch": {UserID: userID, Role: enums.UserRoleCustomer,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.Issuer, ExpiresAt: exp, Subject: uuid.NewString()}},
		"no expiry": {UserID: userID, Role: enums.UserRoleCustomer,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.Issuer}},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAccessToken(cfg, signClaims(t, cfg, claims))
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestMintValidatesInput(t *testing.T) {
	cfg := testJWTConfig(5)
	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	assert.Error(t, err, "role required")
	_, err = MintAccessToken(cfg, time.Now(), AccessTokenPayload{Role: enums.UserRoleCustomer})
	assert.Error(t, err, "user id required")
	_, err = MintAccessToken(config.JWTConfig{}, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer})
	assert.ErrorIs(t, err, errNoSecret)
}
