package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/bluemf/backend/internal/brain"
	"github.com/wonny/bluemf/backend/internal/contracts"
	"github.com/wonny/bluemf/backend/pkg/logger"
)

// CompanyService reads stored companies and analyses
type CompanyService interface {
	ListCompanies(ctx context.Context) ([]contracts.CompanySummary, error)
	CompanyAnalysis(ctx context.Context, companyID string) (*contracts.CompanyAnalysisView, error)
}

// CompanyHandler handles the read endpoints
type CompanyHandler struct {
	service CompanyService
	logger  *logger.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(service CompanyService, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  log,
	}
}

// ListCompanies returns every stored company
// GET /api/companies
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list companies")
		if errors.Is(err, brain.ErrNoDatabase) {
			respondError(w, http.StatusServiceUnavailable, "Database is not configured.")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to retrieve companies")
		return
	}

	respondJSON(w, http.StatusOK, companies)
}

// GetCompanyAnalysis returns one company's analysis
// GET /api/companies/{id}/analysis
func (h *CompanyHandler) GetCompanyAnalysis(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["id"]

	view, err := h.service.CompanyAnalysis(r.Context(), companyID)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, view)
	case errors.Is(err, brain.ErrAnalysisNotFound):
		respondError(w, http.StatusNotFound, "Analysis data not found. Please run analysis first.")
	case errors.Is(err, brain.ErrCompanyNotFound):
		respondError(w, http.StatusNotFound, fmt.Sprintf("Company %s not found in analysis data.", companyID))
	default:
		h.logger.WithError(err).WithField("company_id", companyID).Error("Failed to read company analysis")
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Error reading analysis data: %v", err))
	}
}
