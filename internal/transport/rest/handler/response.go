package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/service"
	"goodtime-diagnostic/internal/wizard"
)

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// validationBody is the 422 answer of a rejected step
type validationBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
	Notice string            `json:"notice"`
}

// writeServiceError maps domain errors to status codes
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *diagnostic.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{
			Error:  "validation failed",
			Fields: verr.Fields,
			Notice: verr.Notice,
		})
	case errors.Is(err, diagnostic.ErrInvalidValue),
		errors.Is(err, diagnostic.ErrUnknownQuestion),
		errors.Is(err, service.ErrInvalidAnswers),
		errors.Is(err, service.ErrClientNameMissing):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, wizard.ErrInvalidTransition),
		errors.Is(err, wizard.ErrNotCurrentQuestion),
		errors.Is(err, wizard.ErrBusy),
		errors.Is(err, wizard.ErrSuperseded),
		errors.Is(err, wizard.ErrIncomplete):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, wizard.ErrClosed):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrStatsUnavailable),
		errors.Is(err, service.ErrStatusUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
