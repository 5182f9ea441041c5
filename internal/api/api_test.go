package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/service"
	"alcyxob/session-planner/internal/storage"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubSource struct {
	rows []domain.Row
	err  error
}

func (s *stubSource) FetchRows(ctx context.Context) ([]domain.Row, error) { return s.rows, s.err }
func (s *stubSource) Name() string                                        { return "stub" }

type memoryStorage struct {
	keys     []string
	metadata map[string]string
}

func (m *memoryStorage) PutObject(ctx context.Context, key, contentType string, body []byte, metadata map[string]string) error {
	m.keys = append(m.keys, key)
	m.metadata = metadata
	return nil
}

func (m *memoryStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://plans.example.com/" + key, nil
}

func catalogRows() []domain.Row {
	return []domain.Row{
		{domain.ColumnID: 1, domain.ColumnName: "Tackle gate", domain.ColumnPhase: "Defense", domain.ColumnSubtopic: "Tackle technique", domain.ColumnIntensity: "High", domain.ColumnDuration: 15, domain.ColumnObjective: "Low body height", domain.ColumnSpace: "10x10 m"},
		{domain.ColumnID: 2, domain.ColumnName: "Support lines", domain.ColumnPhase: "Attack", domain.ColumnSubtopic: "Support", domain.ColumnIntensity: "Low", domain.ColumnDuration: 25},
		{domain.ColumnID: 3, domain.ColumnName: "Line speed", domain.ColumnPhase: "Defense", domain.ColumnSubtopic: "Line speed", domain.ColumnIntensity: "High", domain.ColumnDuration: "ten"},
	}
}

type testServer struct {
	router  *gin.Engine
	storage *memoryStorage
}

func newTestServer(t *testing.T, src *stubSource, jwtSecret string, withStorage bool) *testServer {
	t.Helper()
	log := zap.NewNop()
	catalog := service.NewCatalogService(src, log)

	ts := &testServer{router: gin.New()}
	var fileStorage storage.FileStorage
	if withStorage {
		ts.storage = &memoryStorage{}
		fileStorage = ts.storage
	}
	plans := service.NewPlanService(catalog, fileStorage, service.PlanOptions{StoragePrefix: "session-plans"}, log)
	SetupRoutes(ts.router, jwtSecret, catalog, plans, log)
	return ts
}

func (ts *testServer) do(method, target, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestPing(t *testing.T) {
	ts := newTestServer(t, &stubSource{}, testSecret, false)
	w := ts.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestListExercises(t *testing.T) {
	ts := newTestServer(t, &stubSource{rows: catalogRows()}, "", false)

	w := ts.do(http.MethodGet, "/api/v1/exercises?phase=attack", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ExerciseListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Support lines", resp.Exercises[0].Name)
	assert.Equal(t, "2", resp.Exercises[0].ID)
}

func TestListExercisesStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		src    *stubSource
		target string
		want   int
	}{
		{"negative duration", &stubSource{rows: catalogRows()}, "/api/v1/exercises?max_duration=-5", http.StatusBadRequest},
		{"duration not a number", &stubSource{rows: catalogRows()}, "/api/v1/exercises?max_duration=abc", http.StatusBadRequest},
		{"malformed record", &stubSource{rows: catalogRows()}, "/api/v1/exercises?max_duration=20", http.StatusUnprocessableEntity},
		{"zero matches", &stubSource{rows: catalogRows()}, "/api/v1/exercises?phase=kicking", http.StatusOK},
		{"source down", &stubSource{err: errors.New("boom")}, "/api/v1/exercises", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.src, "", false)
			w := ts.do(http.MethodGet, tt.target, "", nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestUnavailableMessage(t *testing.T) {
	ts := newTestServer(t, &stubSource{err: errors.New("boom")}, "", false)
	w := ts.do(http.MethodGet, "/api/v1/exercises/digest", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, noDataMessage, errorMessage(t, w))
}

func TestGetDigest(t *testing.T) {
	ts := newTestServer(t, &stubSource{rows: catalogRows()}, "", false)

	w := ts.do(http.MethodGet, "/api/v1/exercises/digest?phase=defense&intensity=HIGH&subtopic=tackle", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "Suggested exercises - Defense (high)\n\n"))
	assert.Contains(t, w.Body.String(), "*Tackle gate* (15 min)")
}

func TestRefreshCatalog(t *testing.T) {
	src := &stubSource{rows: catalogRows()}
	ts := newTestServer(t, src, "", false)

	w := ts.do(http.MethodPost, "/api/v1/catalog/refresh", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp RefreshResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.False(t, resp.FetchedAt.IsZero())

	src.err = errors.New("quota exceeded")
	w = ts.do(http.MethodPost, "/api/v1/catalog/refresh", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExportPlan(t *testing.T) {
	ts := newTestServer(t, &stubSource{rows: catalogRows()}, "", false)

	w := ts.do(http.MethodPost, "/api/v1/plans/export", `{"title":"Tuesday","exerciseIds":["2","1"]}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"session-plan-")
	assert.Equal(t, "2", w.Header().Get("X-Plan-Exercises"))
	assert.Equal(t, "40", w.Header().Get("X-Plan-Total-Minutes"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestExportPlanErrors(t *testing.T) {
	ts := newTestServer(t, &stubSource{rows: catalogRows()}, "", false)

	w := ts.do(http.MethodPost, "/api/v1/plans/export", `{"exerciseIds":["42"]}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/plans/export", `{"exerciseIds":["1"],"phase":"defense"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/plans/export", `{"maxDuration":-1}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/plans/export", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishPlanWithoutStorage(t *testing.T) {
	ts := newTestServer(t, &stubSource{rows: catalogRows()}, "", false)

	w := ts.do(http.MethodPost, "/api/v1/plans", `{"phase":"attack"}`, nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func signedToken(t *testing.T, secret, subject string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestPublishPlanRecordsRequester(t *testing.T) {
	ts := newTestServer(t, &stubSource{rows: catalogRows()}, testSecret, true)
	token := signedToken(t, testSecret, "coach-7", time.Now().Add(time.Hour))

	w := ts.do(http.MethodPost, "/api/v1/plans", `{"phase":"attack"}`, bearer(token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp PublishedPlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Exercises)
	assert.Equal(t, 25, resp.TotalMinutes)
	assert.Equal(t, "https://plans.example.com/session-plans/"+resp.ID+".pdf", resp.URL)

	require.Len(t, ts.storage.keys, 1)
	assert.Equal(t, "coach-7", ts.storage.metadata["requested-by"])
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t, &stubSource{rows: catalogRows()}, testSecret, false)

	tests := []struct {
		name   string
		header http.Header
		want   int
	}{
		{"missing header", nil, http.StatusUnauthorized},
		{"wrong scheme", http.Header{"Authorization": []string{"Basic abc"}}, http.StatusUnauthorized},
		{"wrong secret", bearer(signedToken(t, "other", "coach", time.Now().Add(time.Hour))), http.StatusUnauthorized},
		{"expired", bearer(signedToken(t, testSecret, "coach", time.Now().Add(-time.Hour))), http.StatusUnauthorized},
		{"no subject", bearer(signedToken(t, testSecret, "", time.Now().Add(time.Hour))), http.StatusUnauthorized},
		{"valid", bearer(signedToken(t, testSecret, "coach", time.Now().Add(time.Hour))), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(http.MethodGet, "/api/v1/exercises", "", tt.header)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	// Liveness stays open.
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/ping", "", nil).Code)
}

func TestStatusForError(t *testing.T) {
	code, msg := statusForError(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, msg, "disk")

	code, _ = statusForError(domain.ErrInvalidCriteria)
	assert.Equal(t, http.StatusBadRequest, code)
}
