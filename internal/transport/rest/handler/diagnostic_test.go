package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/model"
	"goodtime-diagnostic/internal/service"
	"goodtime-diagnostic/internal/transport/rest/middleware"
	"goodtime-diagnostic/internal/wizard"
)

type contextAwareAnalysis struct{}

func (contextAwareAnalysis) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &model.Analysis{DiagSummary: "Synthèse pour " + req.UserInfo.FirstName}, nil
}

func sessionRequest(ctx context.Context, id string, body interface{}) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/v1/diagnostics/"+id+"/answers", bytes.NewReader(raw))
	return req.WithContext(context.WithValue(ctx, middleware.SessionIDKey, id))
}

func TestLastAnswerSurvivesClientDisconnect(t *testing.T) {
	cfg := wizard.Config{Variant: model.Variant{}}
	svc, err := service.NewSessionService(diagnostic.DefaultBank(), cfg, service.NewAuthService("secret", time.Hour), 4)
	require.NoError(t, err)
	svc.SetAnalysisClient(contextAwareAnalysis{})
	h := NewDiagnosticHandler(svc)

	ctx := context.Background()
	created, err := svc.Create(ctx)
	require.NoError(t, err)
	ctrl, err := svc.Get(ctx, created.SessionID)
	require.NoError(t, err)
	require.NoError(t, ctrl.Start())
	require.NoError(t, ctrl.SubmitUserInfo(model.UserInfo{
		FirstName: "Claire",
		LastName:  "Martin",
		Email:     "claire@example.fr",
		Phone:     "0612345678",
		City:      "Annecy",
	}))
	for id := 1; id < 22; id++ {
		require.NoError(t, ctrl.Answer(ctx, id, 1))
	}

	gone, cancel := context.WithCancel(ctx)
	cancel()
	rec := httptest.NewRecorder()
	h.Answer(rec, sessionRequest(gone, created.SessionID, AnswerRequest{QuestionID: 22, Value: 1}))
	require.Equal(t, http.StatusOK, rec.Code)

	view := ctrl.View()
	assert.Equal(t, model.StepResults, view.Step)
	assert.Empty(t, view.Notice)
	require.NotNil(t, view.Analysis)
	assert.Equal(t, "Synthèse pour Claire", view.Analysis.DiagSummary)
}

func TestSessionHandlersUseAuthorisedID(t *testing.T) {
	svc, err := service.NewSessionService(diagnostic.DefaultBank(), wizard.DefaultConfig(), service.NewAuthService("secret", time.Hour), 4)
	require.NoError(t, err)
	h := NewDiagnosticHandler(svc)

	created, err := svc.Create(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"authorised session", created.SessionID, http.StatusOK},
		{"no session in context", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/diagnostics/"+created.SessionID, nil)
			if tt.id != "" {
				req = req.WithContext(context.WithValue(req.Context(), middleware.SessionIDKey, tt.id))
			}
			rec := httptest.NewRecorder()
			h.Get(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
