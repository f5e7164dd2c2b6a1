package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blog/logging"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("love-love-love")

func TestGenerateAndExtract(t *testing.T) {
	token, err := GenerateJWT("stswenguser@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	email, err := ExtractEmailFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "stswenguser@example.com", email)
}

func TestExtractRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateJWT("a@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = ExtractEmailFromToken(token, []byte("other"))
	assert.True(t, errors.Is(err, ErrInvalidToken))

	expired, err := GenerateJWT("a@example.com", testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ExtractEmailFromToken(expired, testSecret)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestExtractRequiresEmailClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 1}).SignedString(testSecret)
	require.NoError(t, err)
	_, err = ExtractEmailFromToken(token, testSecret)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestGenerateRequiresSecret(t *testing.T) {
	_, err := GenerateJWT("a@example.com", nil, time.Hour)
	assert.Error(t, err)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.Header.Get(UserEmailHeader)))
}

func TestJwtMiddleware(t *testing.T) {
	logger := &logging.CapturingLogger{}
	h := JwtMiddleware(testSecret, logger, okHandler)
	token, err := GenerateJWT("a@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/posts", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authorization header is required")
	})

	t.Run("bad token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/posts", nil)
		req.Header.Set("Authorization", "Bearer nope")
		h(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid token")
	})

	t.Run("valid token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/posts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		h(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a@example.com", rec.Body.String())
	})

	assert.Len(t, logger.Output(), 1)
}

func TestJwtMiddlewareDisabledWithoutSecret(t *testing.T) {
	rec := httptest.NewRecorder()
	JwtMiddleware(nil, nil, okHandler)(rec, httptest.NewRequest(http.MethodPost, "/posts", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	h := LoginHandler(Credentials{
		Email:        "admin@example.com",
		PasswordHash: hash,
		Secret:       testSecret,
		TokenTTL:     time.Hour,
	}, nil)

	login := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
		return rec
	}

	rec := login(`{"email":"admin@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	email, err := ExtractEmailFromToken(out["token"], testSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)

	assert.Equal(t, http.StatusUnauthorized, login(`{"email":"admin@example.com","password":"wrong"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, login(`{"email":"other@example.com","password":"hunter2"}`).Code)
	assert.Equal(t, http.StatusBadRequest, login(`not json`).Code)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoginHandlerWithoutConfiguredUser(t *testing.T) {
	rec := httptest.NewRecorder()
	LoginHandler(Credentials{Secret: testSecret}, nil)(rec,
		httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"","password":""}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

var errClosed = errors.New("connection closed")

// brokenWriter fails every body write, like a client that hung up.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (w brokenWriter) Write([]byte) (int, error) { return 0, errClosed }

func TestLoginHandlerLogsFailedTokenWrite(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	logger := &logging.CapturingLogger{}
	h := LoginHandler(Credentials{
		Email:        "admin@example.com",
		PasswordHash: hash,
		Secret:       testSecret,
		TokenTTL:     time.Hour,
	}, logger)

	h(brokenWriter{httptest.NewRecorder()}, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"admin@example.com","password":"hunter2"}`)))

	assert.Contains(t, logger.Output().Messages(), "[Login] Writing token response failed: connection closed")
}
