package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staffToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminJWT(t *testing.T) {
	valid := jwt.RegisteredClaims{
		Subject:   "reception",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	tests := []struct {
		name       string
		secret     string
		authHeader string
		wantStatus int
	}{
		{name: "no secret configured", secret: "", authHeader: "Bearer " + staffToken(t, jwt.SigningMethodHS256, "k", valid), wantStatus: http.StatusUnauthorized},
		{name: "missing header", secret: "k", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", secret: "k", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "signed with another key", secret: "k", authHeader: "Bearer " + staffToken(t, jwt.SigningMethodHS256, "other", valid), wantStatus: http.StatusUnauthorized},
		{name: "hs256", secret: "k", authHeader: "Bearer " + staffToken(t, jwt.SigningMethodHS256, "k", valid), wantStatus: http.StatusOK},
		{name: "hs384", secret: "k", authHeader: "Bearer " + staffToken(t, jwt.SigningMethodHS384, "k", valid), wantStatus: http.StatusOK},
		{name: "no expiry", secret: "k", authHeader: "Bearer " + staffToken(t, jwt.SigningMethodHS256, "k", jwt.RegisteredClaims{Subject: "reception"}), wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var subject string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := AdminClaimsFromContext(r.Context())
				require.True(t, ok)
				subject = claims.Subject
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/api/admin/summary", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			AdminJWT(tc.secret)(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, "reception", subject)
				return
			}
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestIssueAdminToken(t *testing.T) {
	signed, err := IssueAdminToken("k", "front-desk", time.Hour)
	require.NoError(t, err)
	claims, err := ParseAdminToken("k", signed)
	require.NoError(t, err)
	assert.Equal(t, "front-desk", claims.Subject)
	assert.Equal(t, "clinicdesk", claims.Issuer)

	expired, err := IssueAdminToken("k", "front-desk", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAdminToken("k", expired)
	assert.Error(t, err)

	_, err = IssueAdminToken("", "front-desk", time.Hour)
	assert.Error(t, err)
}
