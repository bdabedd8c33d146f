package handler

import (
	"net/http"

	"goodtime-diagnostic/internal/model"
	"goodtime-diagnostic/internal/service"
)

// AnalysisHandler serves the analysis backend under /api
type AnalysisHandler struct {
	analystSvc *service.AnalystService
	statusSvc  *service.StatusService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analystSvc *service.AnalystService, statusSvc *service.StatusService) *AnalysisHandler {
	return &AnalysisHandler{
		analystSvc: analystSvc,
		statusSvc:  statusSvc,
	}
}

// Root handles GET /api/
func (h *AnalysisHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Goodtime Diagnostic API"})
}

// Analyze handles POST /api/diagnostic/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	if !decodeBody(w, r, &req) {
		return
	}

	analysis, err := h.analystSvc.Analyze(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// CreateStatus handles POST /api/status
func (h *AnalysisHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusCheckCreate
	if !decodeBody(w, r, &req) {
		return
	}

	check, err := h.statusSvc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// ListStatus handles GET /api/status
func (h *AnalysisHandler) ListStatus(w http.ResponseWriter, r *http.Request) {
	checks, err := h.statusSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checks)
}
