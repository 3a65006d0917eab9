package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachan-rai/healthtrack-pro/internal/core/domain"
	apperrors "github.com/sachan-rai/healthtrack-pro/internal/core/errors"
	"github.com/sachan-rai/healthtrack-pro/internal/plan"
)

type stubPlanner struct {
	resp *plan.Response
	err  error
}

func (s *stubPlanner) Generate(_ context.Context, _ plan.Request) (*plan.Response, error) {
	return s.resp, s.err
}

type stubIndexer struct {
	called bool
	dir    string
	err    error
}

func (s *stubIndexer) BuildIndex(_ context.Context, dir string) error {
	s.called = true
	s.dir = dir

	return s.err
}

type stubPinger struct{ err error }

func (s *stubPinger) Ping(context.Context) error { return s.err }

func testServer(planner PlanGenerator, indexer Reindexer, pingErr error) *Server {
	logger := zerolog.Nop()
	return NewServer(planner, indexer, &stubPinger{err: pingErr}, "./corpus", 0, &logger)
}

func TestServer_Healthz(t *testing.T) {
	srv := testServer(&stubPlanner{}, &stubIndexer{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ReadyzReflectsDB(t *testing.T) {
	srv := testServer(&stubPlanner{}, &stubIndexer{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	srv = testServer(&stubPlanner{}, &stubIndexer{}, errors.New("down"))

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_PlanReturnsResponse(t *testing.T) {
	resp := &plan.Response{
		Plan: &domain.GeneratedPlan{
			Days: []domain.PlanDay{{
				Day:     "Day 1",
				Meals:   map[string]string{"breakfast": "Oatmeal Bowl"},
				Workout: "30 minutes brisk walk",
			}},
		},
		EvidenceSummary: "- guidance",
	}

	srv := testServer(&stubPlanner{resp: resp}, &stubIndexer{}, nil)

	body := strings.NewReader(`{"goal":"sleep better","days":1}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plan", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got plan.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Plan)
	assert.Equal(t, "Day 1", got.Plan.Days[0].Day)
}

func TestServer_PlanRejectsBadJSON(t *testing.T) {
	srv := testServer(&stubPlanner{}, &stubIndexer{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_PlanRejectsGet(t *testing.T) {
	srv := testServer(&stubPlanner{}, &stubIndexer{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plan", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_PlanMapsInvalidInput(t *testing.T) {
	planner := &stubPlanner{err: apperrors.ErrInvalidInput}
	srv := testServer(planner, &stubIndexer{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(`{"goal":""}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_PlanMapsInternalError(t *testing.T) {
	planner := &stubPlanner{err: errors.New("model timeout")}
	srv := testServer(planner, &stubIndexer{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(`{"goal":"x"}`)))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var got errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "plan generation failed", got.Error)
}

func TestServer_ReindexRunsIndexer(t *testing.T) {
	indexer := &stubIndexer{}
	srv := testServer(&stubPlanner{}, indexer, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/reindex", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, indexer.called)
	assert.Equal(t, "./corpus", indexer.dir)
}

func TestServer_ReindexDisabledWithoutIndexer(t *testing.T) {
	srv := testServer(&stubPlanner{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/reindex", nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
