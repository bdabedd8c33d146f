package rest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/service"
	"goodtime-diagnostic/internal/transport/rest/handler"
	"goodtime-diagnostic/internal/transport/rest/middleware"
	"goodtime-diagnostic/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Bank           *diagnostic.Bank
	SessionService *service.SessionService
	AnalystService *service.AnalystService
	StatusService  *service.StatusService
	WSHub          *ws.Hub
	AllowedOrigins []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	catalogHandler := handler.NewCatalogHandler(c.Bank, c.SessionService)
	diagnosticHandler := handler.NewDiagnosticHandler(c.SessionService)
	analysisHandler := handler.NewAnalysisHandler(c.AnalystService, c.StatusService)
	wsHandler := ws.NewHandler(c.WSHub, c.SessionService, c.AllowedOrigins)

	// Initialize middleware
	sessionMW := middleware.NewSessionMiddleware(c.SessionService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/questions", catalogHandler.Questions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/segments", catalogHandler.Segments).Methods("GET", "OPTIONS")
	v1.HandleFunc("/qualification-fields", catalogHandler.QualificationFields).Methods("GET", "OPTIONS")
	v1.HandleFunc("/scores", catalogHandler.Scores).Methods("POST", "OPTIONS")
	v1.HandleFunc("/stats", catalogHandler.Stats).Methods("GET", "OPTIONS")
	v1.HandleFunc("/diagnostics", diagnosticHandler.Create).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/diagnostics/{id}", wsHandler.SessionWS).Methods("GET")

	// Session routes (require the session token)
	sessionRoutes := v1.PathPrefix("/diagnostics/{id}").Subrouter()
	sessionRoutes.Use(sessionMW.RequireSession)

	sessionRoutes.HandleFunc("", diagnosticHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("", diagnosticHandler.Close).Methods("DELETE", "OPTIONS")
	sessionRoutes.HandleFunc("/start", diagnosticHandler.Start).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/user-info", diagnosticHandler.SubmitUserInfo).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/qualification", diagnosticHandler.SubmitQualification).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/answers", diagnosticHandler.Answer).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/previous", diagnosticHandler.Previous).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/back", diagnosticHandler.Back).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/validation/back", diagnosticHandler.BackFromValidation).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/confirm", diagnosticHandler.Confirm).Methods("POST", "OPTIONS")
	sessionRoutes.HandleFunc("/restart", diagnosticHandler.Restart).Methods("POST", "OPTIONS")

	// Analysis backend
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/", analysisHandler.Root).Methods("GET", "OPTIONS")
	api.HandleFunc("/diagnostic/analyze", analysisHandler.Analyze).Methods("POST", "OPTIONS")
	api.HandleFunc("/status", analysisHandler.CreateStatus).Methods("POST", "OPTIONS")
	api.HandleFunc("/status", analysisHandler.ListStatus).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(allowedOrigins []string) mux.MiddlewareFunc {
	wildcard := false
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && contains(allowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
