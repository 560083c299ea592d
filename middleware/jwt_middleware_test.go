package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "testsecret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func protectedEcho(t *testing.T, gotUserID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		require.True(t, ok)
		*gotUserID = userID
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddleware_ValidCookie(t *testing.T) {
	var gotUserID string
	handler := JWTMiddleware(testSecret)(protectedEcho(t, &gotUserID))

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"userId": "user-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/tweet/alltweets", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tokenString})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotUserID)
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"missing cookie", nil},
		{"empty cookie", &http.Cookie{Name: SessionCookieName, Value: ""}},
		{"garbage token", &http.Cookie{Name: SessionCookieName, Value: "not-a-token"}},
		{
			"expired token",
			&http.Cookie{Name: SessionCookieName, Value: signTokenHelper("user-1", time.Now().Add(-time.Hour))},
		},
		{
			"wrong secret",
			&http.Cookie{Name: SessionCookieName, Value: signTokenWithSecret("wrongsecret", "user-1")},
		},
		{
			"missing userId claim",
			&http.Cookie{Name: SessionCookieName, Value: signTokenWithSecret(testSecret, "")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := JWTMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/tweet/alltweets", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "handler must not run without a valid session")
		})
	}
}

func signTokenHelper(userID string, exp time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    exp.Unix(),
	})
	tokenString, _ := token.SignedString([]byte(testSecret))
	return tokenString
}

func signTokenWithSecret(secret, userID string) string {
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	if userID != "" {
		claims["userId"] = userID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(secret))
	return tokenString
}
