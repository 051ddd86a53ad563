package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "garmin-sync"}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)
	return signed
}

func validClaims(scopes ...string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":    "user-1",
		"iss":    testConfig.Issuer,
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": scopes,
	}
}

func TestParseValidToken(t *testing.T) {
	token := signToken(t, validClaims(ScopeRead, ScopeWrite))

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.True(t, claims.HasScope(ScopeRead))
	require.True(t, claims.HasScope(ScopeWrite))
	require.False(t, claims.HasScope("other"))
}

func TestParseRejectsBadTokens(t *testing.T) {
	_, err := Parse("", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = Parse("garbage", testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := validClaims(ScopeRead)
	wrongIssuer["iss"] = "someone-else"
	_, err = Parse(signToken(t, wrongIssuer), testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := validClaims(ScopeRead)
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	_, err = Parse(signToken(t, expired), testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	noSubject := validClaims(ScopeRead)
	delete(noSubject, "sub")
	_, err = Parse(signToken(t, noSubject), testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAcceptsSpaceSeparatedScopes(t *testing.T) {
	claims := validClaims()
	claims["scopes"] = ScopeRead + " " + ScopeWrite

	parsed, err := Parse(signToken(t, claims), testConfig)
	require.NoError(t, err)
	require.True(t, parsed.HasScope(ScopeRead))
	require.True(t, parsed.HasScope(ScopeWrite))
}

func TestMiddlewareEnforcesScopesByMethod(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := NewMiddleware(testConfig, nil).Wrap(next)

	readToken := signToken(t, validClaims(ScopeRead))

	req := httptest.NewRequest(http.MethodGet, "/sleep", nil)
	req.Header.Set("Authorization", "Bearer "+readToken)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// Read scope alone is not enough for a write-triggering request.
	req = httptest.NewRequest(http.MethodPost, "/reconnect", nil)
	req.Header.Set("Authorization", "Bearer "+readToken)
	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)

	writeToken := signToken(t, validClaims(ScopeRead, ScopeWrite))
	req = httptest.NewRequest(http.MethodPost, "/reconnect", nil)
	req.Header.Set("Authorization", "Bearer "+writeToken)
	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	wrapped := NewMiddleware(testConfig, nil).Wrap(http.NewServeMux())

	req := httptest.NewRequest(http.MethodGet, "/sleep", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddlewareSkipperBypassesAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	middleware := NewMiddleware(testConfig, func(r *http.Request) bool {
		return r.URL.Path == "/healthz"
	})
	wrapped := middleware.Wrap(next)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestClaimsContextRoundTrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := &Claims{Subject: "user-1"}

	ctx := WithClaims(req.Context(), claims)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "user-1", got.Subject)

	_, ok = FromContext(req.Context())
	require.False(t, ok)
}
