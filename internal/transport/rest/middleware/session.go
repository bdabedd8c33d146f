package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"goodtime-diagnostic/internal/service"
)

type contextKey string

const SessionIDKey contextKey = "sessionId"

// SessionMiddleware checks that the caller holds the token of the session
// named in the route
type SessionMiddleware struct {
	sessionSvc *service.SessionService
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(sessionSvc *service.SessionService) *SessionMiddleware {
	return &SessionMiddleware{sessionSvc: sessionSvc}
}

// RequireSession validates the session JWT from the Authorization header or
// the token query param
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing authorization")
			return
		}

		id := mux.Vars(r)["id"]
		if err := m.sessionSvc.ValidateToken(token, id); err != nil {
			writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the authorised session ID from context
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(SessionIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
