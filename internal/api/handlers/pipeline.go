package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

// PipelineRunner runs the pipeline stages
type PipelineRunner interface {
	Fetch(ctx context.Context) contracts.StageResult
	Preprocess(ctx context.Context) contracts.StageResult
	Analyze(ctx context.Context) contracts.StageResult
	AnalyzeAndStore(ctx context.Context) contracts.StageResult
}

// PipelineHandler handles the stage trigger endpoints
// ⭐ SSOT: 파이프라인 API 핸들러는 여기서만
type PipelineHandler struct {
	runner PipelineRunner
	logger *logger.Logger
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(runner PipelineRunner, log *logger.Logger) *PipelineHandler {
	return &PipelineHandler{
		runner: runner,
		logger: log,
	}
}

// FetchCompanies runs the fetch stage. The envelope is always returned with 200.
// POST /api/fetch-companies
func (h *PipelineHandler) FetchCompanies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.runner.Fetch(r.Context()))
}

// PreprocessData runs the preprocess stage
// POST /api/preprocess-data
func (h *PipelineHandler) PreprocessData(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.runner.Preprocess(r.Context()))
}

// AnalyzeData runs the analyze stage
// POST /api/analyze-data
func (h *PipelineHandler) AnalyzeData(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.runner.Analyze(r.Context()))
}

// AnalyzeAndStore runs analyze + store; failures are reported with 500
// POST /api/analyze-and-store
func (h *PipelineHandler) AnalyzeAndStore(w http.ResponseWriter, r *http.Request) {
	res := h.runner.AnalyzeAndStore(r.Context())
	if !res.OK() {
		h.logger.WithField("message", res.Message).Error("Analyze and store failed")
		respondJSON(w, http.StatusInternalServerError, res)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
