package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "clipers-engine/internal/common/errors"
	"clipers-engine/internal/cliper"
	"clipers-engine/internal/jobs"
	"clipers-engine/internal/models"
)

type stubCliperService struct {
	processErr error
	retryErr   error
	lastReq    cliper.ProcessRequest
}

func (s *stubCliperService) Process(_ context.Context, req cliper.ProcessRequest) (*models.Cliper, error) {
	s.lastReq = req
	if s.processErr != nil {
		return nil, s.processErr
	}
	c := models.NewCliper(req.UserID, req.Title, req.Description, req.MediaRef, req.Duration)
	c.Transition(models.CliperProcessing)
	c.Transition(models.CliperDone)
	return c, nil
}

func (s *stubCliperService) Retry(_ context.Context, _ string) error {
	return s.retryErr
}

type stubJobService struct {
	err error
}

func (s *stubJobService) Create(_ context.Context, req jobs.CreateRequest) (*models.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	return models.NewJob(req.CompanyID, req.Title, req.Description, req.Type), nil
}

type stubSearcher struct {
	ids []string
	err error
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ int) ([]string, error) {
	return s.ids, s.err
}

func newTestServer(t *testing.T, clipers *stubCliperService, jobSvc *stubJobService, searcher *stubSearcher) *httptest.Server {
	t.Helper()
	srv := New(clipers, jobSvc, searcher, zaptest.NewLogger(t))
	mux := http.NewServeMux()
	srv.Routes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestCreateCliperEndpoint(t *testing.T) {
	svc := &stubCliperService{}
	ts := newTestServer(t, svc, &stubJobService{}, &stubSearcher{})

	body := `{"userId": "user-1", "title": "My pitch", "mediaRef": "pitch.mp4", "duration": 45}`
	resp, err := http.Post(ts.URL+"/api/v1/clipers", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "user-1", svc.lastReq.UserID)
	assert.Equal(t, 45, svc.lastReq.Duration)
}

func TestCreateCliperEndpoint_ValidationError(t *testing.T) {
	svc := &stubCliperService{processErr: apperrors.NewValidationError("title is required", "")}
	ts := newTestServer(t, svc, &stubJobService{}, &stubSearcher{})

	resp, err := http.Post(ts.URL+"/api/v1/clipers", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRetryEndpoint_StateConflict(t *testing.T) {
	svc := &stubCliperService{retryErr: apperrors.NewCliperStateError("DONE", "retried")}
	ts := newTestServer(t, svc, &stubJobService{}, &stubSearcher{})

	resp, err := http.Post(ts.URL+"/api/v1/clipers/cliper-1/retry", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateJobEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubCliperService{}, &stubJobService{}, &stubSearcher{})

	body := `{"companyId": "company-1", "title": "Backend Engineer", "type": "full_time"}`
	resp, err := http.Post(ts.URL+"/api/v1/jobs", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreateJobEndpoint_NotFound(t *testing.T) {
	ts := newTestServer(t, &stubCliperService{}, &stubJobService{err: apperrors.NewNotFoundError("user", "ghost")}, &stubSearcher{})

	resp, err := http.Post(ts.URL+"/api/v1/jobs", "application/json", strings.NewReader(`{"companyId": "ghost"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubCliperService{}, &stubJobService{}, &stubSearcher{ids: []string{"job-1"}})

	resp, err := http.Get(ts.URL + "/api/v1/jobs/search?q=golang")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	respMissing, err := http.Get(ts.URL + "/api/v1/jobs/search")
	require.NoError(t, err)
	defer respMissing.Body.Close()
	assert.Equal(t, http.StatusBadRequest, respMissing.StatusCode)
}
