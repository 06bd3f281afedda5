package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazri/wagebook/auth"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.IssueToken("c-123", secret, time.Hour)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "c-123", claims.ContractorID)
}

func TestParseToken_Rejections(t *testing.T) {
	token, err := auth.IssueToken("c-123", secret, time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken("", secret)
	assert.Error(t, err)

	_, err = auth.ParseToken("garbage", secret)
	assert.Error(t, err)

	// Wrong secret.
	_, err = auth.ParseToken(token, []byte("other-secret"))
	assert.Error(t, err)

	// Expired.
	expired, err := auth.IssueToken("c-123", secret, -time.Minute)
	require.NoError(t, err)
	_, err = auth.ParseToken(expired, secret)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", hash)
	assert.True(t, auth.CheckPassword(hash, "supersecret"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}

func TestMiddleware(t *testing.T) {
	mw := auth.NewMiddleware(secret)
	var gotID string
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.ContractorID(r.Context())
		require.True(t, ok)
		gotID = id
	}))

	// Without a token: 401, handler never runs.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, gotID)

	// With a valid bearer token: contractor id lands in the context.
	token, err := auth.IssueToken("c-123", secret, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c-123", gotID)
}
