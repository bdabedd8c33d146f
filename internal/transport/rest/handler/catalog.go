package handler

import (
	"net/http"

	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/model"
	"goodtime-diagnostic/internal/service"
)

// CatalogHandler serves the static diagnostic content and the stateless scorer
type CatalogHandler struct {
	bank       *diagnostic.Bank
	sessionSvc *service.SessionService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(bank *diagnostic.Bank, sessionSvc *service.SessionService) *CatalogHandler {
	return &CatalogHandler{bank: bank, sessionSvc: sessionSvc}
}

// QuestionsResponse lists the question bank
type QuestionsResponse struct {
	Blocks        []model.Block    `json:"blocks"`
	Questions     []model.Question `json:"questions"`
	MaxTotalScore int              `json:"maxTotalScore"`
}

// Questions handles GET /v1/questions
func (h *CatalogHandler) Questions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, QuestionsResponse{
		Blocks:        diagnostic.Blocks,
		Questions:     h.bank.All(),
		MaxTotalScore: diagnostic.MaxTotalScore,
	})
}

// Segments handles GET /v1/segments
func (h *CatalogHandler) Segments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, diagnostic.Segments)
}

// QualificationFields handles GET /v1/qualification-fields
func (h *CatalogHandler) QualificationFields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, diagnostic.QualificationFields)
}

// Scores handles POST /v1/scores
func (h *CatalogHandler) Scores(w http.ResponseWriter, r *http.Request) {
	var req model.ScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	answers, err := diagnostic.ParseAnswers(h.bank, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	scores := diagnostic.ComputeScores(answers)
	writeJSON(w, http.StatusOK, model.ScoreResponse{
		Scores:  scores,
		Segment: diagnostic.Classify(scores.Total),
	})
}

// Stats handles GET /v1/stats
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sessionSvc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
