package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signedToken(t *testing.T, subject, email string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthClient_SignInWithPassword(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	accessToken := signedToken(t, "user-123", "ada@example.com", expires)

	var gotPath, gotQuery, gotAPIKey string
	var gotBody struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("grant_type")
		gotAPIKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"refresh_token": "refresh-1",
			"token_type":    "bearer",
			"expires_in":    3600,
		})
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL+"/", "anon-key", testJWTSecret, srv.Client())
	session, err := client.SignInWithPassword(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)

	assert.Equal(t, "/auth/v1/token", gotPath)
	assert.Equal(t, "password", gotQuery)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "ada@example.com", gotBody.Email)
	assert.Equal(t, "hunter22", gotBody.Password)

	assert.Equal(t, "user-123", session.UserID)
	assert.Equal(t, "ada@example.com", session.Email)
	assert.Equal(t, "refresh-1", session.RefreshToken)
	assert.True(t, session.ExpiresAt.Equal(expires))
}

func TestAuthClient_SignInRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL, "anon-key", "", srv.Client())
	session, err := client.SignInWithPassword(context.Background(), "ada@example.com", "wrong")

	assert.Nil(t, session)
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
	assert.Equal(t, errs.KindService, errs.KindOf(err))
}

func TestAuthClient_SignInRejectsForgedToken(t *testing.T) {
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-123"})
	raw, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": raw})
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL, "anon-key", testJWTSecret, srv.Client())
	_, err = client.SignInWithPassword(context.Background(), "ada@example.com", "hunter22")

	require.Error(t, err)
	assert.True(t, errs.IsMalformedResponse(err))
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}

func TestAuthClient_UnverifiedClaimsFallBackToUser(t *testing.T) {
	userID := uuid.New()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{}).SignedString([]byte("x"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": raw,
			"expires_at":   int64(1893456000),
			"user":         map[string]string{"id": userID.String(), "email": "grace@example.com"},
		})
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL, "anon-key", "", srv.Client())
	session, err := client.SignInWithPassword(context.Background(), "grace@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, userID.String(), session.UserID)
	assert.Equal(t, "grace@example.com", session.Email)
	assert.Equal(t, int64(1893456000), session.ExpiresAt.Unix())
}

func TestAuthClient_SignUpAndSignOut(t *testing.T) {
	var paths []string
	var apiKeys []string
	var logoutAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		apiKeys = append(apiKeys, r.Header.Get("apikey"))
		if r.URL.Path == "/auth/v1/logout" {
			logoutAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": uuid.NewString(), "email": "new@example.com"})
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL, "anon-key", "", srv.Client())
	require.NoError(t, client.SignUp(context.Background(), "new@example.com", "pw123456"))
	require.NoError(t, client.SignOut(context.Background(), "access-abc"))

	assert.Equal(t, []string{"/auth/v1/signup", "/auth/v1/logout"}, paths)
	assert.Equal(t, []string{"anon-key", "anon-key"}, apiKeys)
	assert.Equal(t, "Bearer access-abc", logoutAuth)
}

func TestAuthClient_SignUpServiceMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"msg":"User already registered"}`))
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL, "anon-key", "", srv.Client())
	err := client.SignUp(context.Background(), "dup@example.com", "pw123456")

	require.Error(t, err)
	assert.Equal(t, "User already registered", err.Error())
	assert.True(t, errs.IsService(err))
}

func TestAuthClient_TransportFailureIsUnexpected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewAuthClient(url, "anon-key", "", nil)
	_, err := client.SignInWithPassword(context.Background(), "a@example.com", "pw")

	require.Error(t, err)
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
}

func TestAuthClient_PlainTextRejectionKeptVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("Email rate limit exceeded"))
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL, "anon-key", "", srv.Client())
	err := client.SignUp(context.Background(), "new@example.com", "pw123456")

	require.Error(t, err)
	assert.Equal(t, "Email rate limit exceeded", err.Error())
	assert.True(t, errs.IsService(err))
}

func TestAuthClient_CancelledContextIsUnexpected(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewAuthClient(srv.URL, "anon-key", "", srv.Client())
	_, err := client.SignInWithPassword(ctx, "a@example.com", "pw")

	require.Error(t, err)
	assert.Equal(t, errs.KindUnexpected, errs.KindOf(err))
	assert.Zero(t, hits)
}
