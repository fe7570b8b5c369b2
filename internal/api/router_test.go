package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/bluemf/backend/internal/api/handlers"
	"github.com/wonny/bluemf/backend/internal/brain"
	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

type fakeRunner struct {
	store contracts.StageResult
}

func (f *fakeRunner) Fetch(context.Context) contracts.StageResult {
	return contracts.Failure(contracts.StageFetch, "No company IDs to process.")
}

func (f *fakeRunner) Preprocess(context.Context) contracts.StageResult {
	return contracts.Success(contracts.StagePreprocess, "Data preprocessing completed.")
}

func (f *fakeRunner) Analyze(context.Context) contracts.StageResult {
	return contracts.Success(contracts.StageAnalyze, "Data analysis completed.")
}

func (f *fakeRunner) AnalyzeAndStore(context.Context) contracts.StageResult {
	return f.store
}

type fakeCompanies struct {
	listErr error
	views   map[string]*contracts.CompanyAnalysisView
	readErr error
}

func (f *fakeCompanies) ListCompanies(context.Context) ([]contracts.CompanySummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []contracts.CompanySummary{{ID: "TCS", CompanyName: "TCS"}}, nil
}

func (f *fakeCompanies) CompanyAnalysis(_ context.Context, id string) (*contracts.CompanyAnalysisView, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	v, ok := f.views[id]
	if !ok {
		return nil, brain.ErrCompanyNotFound
	}
	return v, nil
}

func newTestRouter(runner *fakeRunner, companies *fakeCompanies) http.Handler {
	log := logger.Nop()
	return NewRouter(
		handlers.NewPipelineHandler(runner, log),
		handlers.NewCompanyHandler(companies, log),
		log,
	)
}

func serve(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var body map[string]interface{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := serve(t, newTestRouter(&fakeRunner{}, &fakeCompanies{}), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestStageEndpointsAlwaysReturn200(t *testing.T) {
	h := newTestRouter(&fakeRunner{}, &fakeCompanies{})

	tests := []struct {
		path       string
		wantStatus string
	}{
		{"/api/fetch-companies", "error"},
		{"/api/preprocess-data", "success"},
		{"/api/analyze-data", "success"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, body := serve(t, h, http.MethodPost, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantStatus, body["status"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestAnalyzeAndStore(t *testing.T) {
	ok := &fakeRunner{store: contracts.Success(contracts.StageStore, "Data analyzed and stored in database successfully")}
	rec, body := serve(t, newTestRouter(ok, &fakeCompanies{}), http.MethodPost, "/api/analyze-and-store")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])

	failing := &fakeRunner{store: contracts.Failure(contracts.StageStore, "Error storing data in database: boom")}
	rec, body = serve(t, newTestRouter(failing, &fakeCompanies{}), http.MethodPost, "/api/analyze-and-store")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestListCompanies(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeRunner{}, &fakeCompanies{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/companies", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []contracts.CompanySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, "TCS", list[0].ID)

	rec, body := serve(t, newTestRouter(&fakeRunner{}, &fakeCompanies{listErr: brain.ErrNoDatabase}), http.MethodGet, "/api/companies")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestGetCompanyAnalysis(t *testing.T) {
	companies := &fakeCompanies{views: map[string]*contracts.CompanyAnalysisView{
		"TCS": {
			Company: contracts.CompanySummary{ID: "TCS", CompanyName: "Tata Consultancy Services"},
			Pros:    []string{"Company is almost debt-free."},
			Cons:    []string{},
		},
	}}
	h := newTestRouter(&fakeRunner{}, companies)

	rec, body := serve(t, h, http.MethodGet, "/api/companies/TCS/analysis")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tata Consultancy Services", body["company"].(map[string]interface{})["company_name"])
	assert.Equal(t, []interface{}{"Company is almost debt-free."}, body["pros"])
	assert.Contains(t, body, "analysis")

	rec, body = serve(t, h, http.MethodGet, "/api/companies/NOPE/analysis")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Company NOPE not found in analysis data.", body["message"])

	missing := newTestRouter(&fakeRunner{}, &fakeCompanies{readErr: brain.ErrAnalysisNotFound})
	rec, body = serve(t, missing, http.MethodGet, "/api/companies/TCS/analysis")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Analysis data not found. Please run analysis first.", body["message"])

	broken := newTestRouter(&fakeRunner{}, &fakeCompanies{readErr: errors.New("disk on fire")})
	rec, _ = serve(t, broken, http.MethodGet, "/api/companies/TCS/analysis")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec, _ := serve(t, newTestRouter(&fakeRunner{}, &fakeCompanies{}), http.MethodOptions, "/api/analyze-data")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec, body := serve(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", body["status"])
}
