package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthConfig_Enabled(t *testing.T) {
	assert.False(t, AuthConfig{}.Enabled())
	assert.False(t, AuthConfig{APIKeys: []string{""}}.Enabled())
	assert.True(t, AuthConfig{APIKeys: []string{"k"}}.Enabled())
	assert.True(t, AuthConfig{JWTPublicKey: "pem"}.Enabled())
}

func TestAuthenticate(t *testing.T) {
	key, publicPEM := generateKey(t)
	otherKey, _ := generateKey(t)
	cfg := AuthConfig{JWTPublicKey: publicPEM, APIKeys: []string{"key-1", "key-2"}}

	valid := signToken(t, key, jwt.RegisteredClaims{
		Subject:   "minter-ui",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := signToken(t, key, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	forged := signToken(t, otherKey, jwt.RegisteredClaims{Subject: "minter-ui"})

	tests := []struct {
		name        string
		header      string
		cfg         AuthConfig
		wantType    string
		wantSubject string
		wantErr     string
	}{
		{name: "valid jwt", header: "Bearer " + valid, cfg: cfg, wantType: AuthTypeJWT, wantSubject: "minter-ui"},
		{name: "expired jwt", header: "Bearer " + expired, cfg: cfg, wantErr: "failed to parse token"},
		{name: "jwt signed by another key", header: "Bearer " + forged, cfg: cfg, wantErr: "failed to parse token"},
		{name: "jwt without configured key", header: "Bearer " + valid, cfg: AuthConfig{APIKeys: []string{"k"}}, wantErr: "JWT public key not configured"},
		{name: "invalid public key", header: "Bearer " + valid, cfg: AuthConfig{JWTPublicKey: "not a pem"}, wantErr: "failed to parse RSA public key"},
		{name: "valid api key", header: "ApiKey key-2", cfg: cfg, wantType: AuthTypeAPIKey},
		{name: "scheme is case insensitive", header: "apikey key-1", cfg: cfg, wantType: AuthTypeAPIKey},
		{name: "invalid api key", header: "ApiKey nope", cfg: cfg, wantErr: "invalid API key"},
		{name: "no api keys configured", header: "ApiKey key-1", cfg: AuthConfig{}, wantErr: "no API keys configured"},
		{name: "missing header", header: "", cfg: cfg, wantErr: "missing Authorization header"},
		{name: "malformed header", header: "Bearer", cfg: cfg, wantErr: "invalid Authorization header format"},
		{name: "unsupported scheme", header: "Basic dXNlcjpwYXNz", cfg: cfg, wantErr: "unsupported authorization type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Authenticate(tt.header, tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, result.AuthType)
			assert.Equal(t, tt.wantSubject, result.Subject)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Logger(), Auth(AuthConfig{APIKeys: []string{"secret"}}))
	router.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(string(AUTH_TYPE_KEY)))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "ApiKey secret")
	req.Header.Set(RequestIDHeader, "3f2b8c4e-7d1a-4e5f-9a6b-0c1d2e3f4a5b")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, AuthTypeAPIKey, w.Body.String())
	assert.Equal(t, "3f2b8c4e-7d1a-4e5f-9a6b-0c1d2e3f4a5b", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}
