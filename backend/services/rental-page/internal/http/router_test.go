package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"energyrental/backend/services/rental-page/internal/http/handlers"
	"energyrental/backend/services/rental-page/internal/http/middleware"
	"energyrental/backend/services/rental-page/internal/models"
	"energyrental/backend/services/rental-page/internal/store"
)

const validAddress = "TXYZopYRdj2D9XRtbG411XZZ3kM5VkAeBf"

type snapshots map[string]*models.PaymentSnapshot

func (s snapshots) GetPayment(_ context.Context, address string) (*models.PaymentSnapshot, error) {
	if address == "TBrokenBrokenBrokenBrokenBrokenBro" {
		return nil, errors.New("redis down")
	}
	snap, ok := s[address]
	if !ok {
		return nil, store.ErrNotFound
	}
	return snap, nil
}

func newRouter(secret string) http.Handler {
	var auth func(http.Handler) http.Handler
	if secret != "" {
		auth = middleware.AuthMiddleware(secret)
	}
	snaps := snapshots{validAddress: {Address: validAddress, State: "pending", CheckedAt: time.Unix(0, 0).UTC()}}
	return NewRouter(Routes{
		Health: handlers.NewHealthHandler(),
		Watch:  handlers.NewWatchHandler(snaps, zap.NewNop()),
	}, auth)
}

func signed(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "viewer-1", "exp": time.Now().Add(time.Hour).Unix()})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestWatchReturnsSnapshot(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/watch/"+validAddress, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var snap models.PaymentSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "pending", snap.State)
}

func TestWatchErrors(t *testing.T) {
	cases := map[string]int{
		"/api/watch/T111": http.StatusBadRequest,
		"/api/watch/TAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA": http.StatusNotFound,
		"/api/watch/TBrokenBrokenBrokenBrokenBrokenBro": http.StatusInternalServerError,
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		newRouter("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter("").ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestAuthGuardsWatch(t *testing.T) {
	router := newRouter("s3cret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/watch/"+validAddress, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/watch/"+validAddress, nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "other"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/watch/"+validAddress, nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "s3cret"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/watch/"+validAddress+"?access_token="+signed(t, "s3cret"), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubjectFromContext(t *testing.T) {
	var got string
	h := middleware.AuthMiddleware("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.SubjectFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, "s3cret"))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "viewer-1", got)
}
