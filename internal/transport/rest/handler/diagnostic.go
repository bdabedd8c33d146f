package handler

import (
	"context"
	"net/http"

	"goodtime-diagnostic/internal/model"
	"goodtime-diagnostic/internal/service"
	"goodtime-diagnostic/internal/transport/rest/middleware"
	"goodtime-diagnostic/internal/wizard"
)

// DiagnosticHandler drives diagnostic sessions
type DiagnosticHandler struct {
	sessionSvc *service.SessionService
}

// NewDiagnosticHandler creates a new diagnostic handler
func NewDiagnosticHandler(sessionSvc *service.SessionService) *DiagnosticHandler {
	return &DiagnosticHandler{sessionSvc: sessionSvc}
}

// AnswerRequest is the request body for answering the current question
type AnswerRequest struct {
	QuestionID int `json:"questionId"`
	Value      int `json:"value"`
}

// ConfirmRequest is the request body of the validation step
type ConfirmRequest struct {
	AcceptConditions bool `json:"acceptConditions"`
}

// Create handles POST /v1/diagnostics
func (h *DiagnosticHandler) Create(w http.ResponseWriter, r *http.Request) {
	created, err := h.sessionSvc.Create(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/diagnostics/{id}
func (h *DiagnosticHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *wizard.Controller) error { return nil })
}

// Start handles POST /v1/diagnostics/{id}/start
func (h *DiagnosticHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *wizard.Controller) error { return c.Start() })
}

// SubmitUserInfo handles POST /v1/diagnostics/{id}/user-info
func (h *DiagnosticHandler) SubmitUserInfo(w http.ResponseWriter, r *http.Request) {
	var req model.UserInfo
	if !decodeBody(w, r, &req) {
		return
	}
	h.act(w, r, func(c *wizard.Controller) error { return c.SubmitUserInfo(req) })
}

// SubmitQualification handles POST /v1/diagnostics/{id}/qualification
func (h *DiagnosticHandler) SubmitQualification(w http.ResponseWriter, r *http.Request) {
	var req model.Qualification
	if !decodeBody(w, r, &req) {
		return
	}
	h.act(w, r, func(c *wizard.Controller) error { return c.SubmitQualification(req) })
}

// Answer handles POST /v1/diagnostics/{id}/answers. The last answer may run
// the analysis, which keeps going when the client goes away.
func (h *DiagnosticHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.act(w, r, func(c *wizard.Controller) error {
		return c.Answer(context.WithoutCancel(r.Context()), req.QuestionID, req.Value)
	})
}

// Previous handles POST /v1/diagnostics/{id}/previous
func (h *DiagnosticHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *wizard.Controller) error { return c.Previous() })
}

// Back handles POST /v1/diagnostics/{id}/back
func (h *DiagnosticHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *wizard.Controller) error { return c.Back() })
}

// BackFromValidation handles POST /v1/diagnostics/{id}/validation/back
func (h *DiagnosticHandler) BackFromValidation(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *wizard.Controller) error { return c.BackFromValidation() })
}

// Confirm handles POST /v1/diagnostics/{id}/confirm. The analysis keeps
// running when the client goes away.
func (h *DiagnosticHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.act(w, r, func(c *wizard.Controller) error {
		return c.Confirm(context.WithoutCancel(r.Context()), req.AcceptConditions)
	})
}

// Restart handles POST /v1/diagnostics/{id}/restart
func (h *DiagnosticHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(c *wizard.Controller) error { return c.Restart() })
}

// Close handles DELETE /v1/diagnostics/{id}
func (h *DiagnosticHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())
	if err := h.sessionSvc.Close(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// act runs fn on the session controller and answers with the new state
func (h *DiagnosticHandler) act(w http.ResponseWriter, r *http.Request, fn func(c *wizard.Controller) error) {
	id := middleware.GetSessionID(r.Context())

	ctrl, err := h.sessionSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := fn(ctrl); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.View())
}
