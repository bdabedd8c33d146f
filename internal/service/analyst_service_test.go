package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodtime-diagnostic/internal/diagnostic"
	"goodtime-diagnostic/internal/llm"
	"goodtime-diagnostic/internal/model"
)

type fakeDiagnosticRepo struct {
	records []*model.DiagnosticRecord
	err     error
}

func (r *fakeDiagnosticRepo) Insert(_ context.Context, record *model.DiagnosticRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, record)
	return nil
}

const generatedReport = `{
	"diagSummary": "Claire, ta conciergerie tient mais repose sur toi.",
	"mainBlocker": "Dépendance au gérant",
	"priority": "Écrire les process critiques.",
	"goodtimeRecommendation": "Goodtime structure ton acquisition locale.",
	"structureAnalysis": "Structure correcte.",
	"acquisitionAnalysis": "Acquisition subie.",
	"valueAnalysis": "Valeur limitée.",
	"valorisation": "Peu revendable en l'état.",
	"roadmap": ["Process", "CRM", "Indicateurs"]
}`

func TestAnalystServiceWithProvider(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(generatedReport)})
	repo := &fakeDiagnosticRepo{}
	svc := NewAnalystService(provider, repo, diagnostic.DefaultBank())

	analysis, err := svc.Analyze(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "transition", analysis.Segment)
	assert.Equal(t, "Claire", analysis.FirstName)
	assert.Equal(t, "16-30", analysis.Units)
	require.NotNil(t, analysis.Score)
	assert.Equal(t, 25, *analysis.Score)
	assert.Equal(t, 4, *analysis.ValueScore)
	assert.Equal(t, "Dépendance au gérant", analysis.MainBlocker)
	assert.Equal(t, model.TextList{"Process", "CRM", "Indicateurs"}, analysis.Roadmap)

	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, analystSystemPrompt, calls[0].System)
	assert.Equal(t, 800, calls[0].MaxTokens)
	assert.Equal(t, "goodtime-analysis", calls[0].Schema.Name)

	prompt := calls[0].Prompt
	assert.Contains(t, prompt, "Analyse ce diagnostic pour Claire Martin")
	assert.Contains(t, prompt, "- Total: 25/44")
	assert.Contains(t, prompt, "- Moteur d'acquisition: 9/18")
	assert.Contains(t, prompt, "SEGMENT DÉTERMINÉ: transition")
	assert.Less(t, strings.Index(prompt, "Q2: 1/2"), strings.Index(prompt, "Q11: 0/2"), "answers sorted by id")

	require.Len(t, repo.records, 1)
	assert.Equal(t, 2, repo.records[0].Answers["1"])
	assert.Equal(t, "claire@example.fr", repo.records[0].Email)
	assert.False(t, repo.records[0].Timestamp.IsZero())
}

func TestAnalystServiceFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
	}{
		{"no provider", nil},
		{"output breaks the schema", llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"diagSummary":"x"}`)})},
		{"output is prose", llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`voici ton analyse`)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAnalystService(tt.provider, nil, diagnostic.DefaultBank())
			analysis, err := svc.Analyze(context.Background(), sampleRequest())
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(analysis.DiagSummary, "Claire, ta conciergerie"))
			assert.Equal(t, diagnostic.DefaultMainBlocker, analysis.MainBlocker)
			assert.Equal(t, "Définir et documenter les process clés de ton activité.", analysis.Priority)
			assert.Empty(t, analysis.StructureAnalysis)
			assert.Empty(t, analysis.Roadmap)
			assert.Equal(t, "transition", analysis.Segment)
		})
	}
}

func TestAnalystServiceErrors(t *testing.T) {
	t.Run("provider failure", func(t *testing.T) {
		provider := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("502")}})
		repo := &fakeDiagnosticRepo{}
		svc := NewAnalystService(provider, repo, diagnostic.DefaultBank())

		_, err := svc.Analyze(context.Background(), sampleRequest())
		var un *llm.ErrProviderUnavailable
		assert.ErrorAs(t, err, &un)
		assert.Empty(t, repo.records)
	})

	t.Run("unknown question", func(t *testing.T) {
		svc := NewAnalystService(nil, nil, diagnostic.DefaultBank())
		req := sampleRequest()
		req.Answers["23"] = 1
		_, err := svc.Analyze(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidAnswers)
	})

	t.Run("archive failure is not fatal", func(t *testing.T) {
		svc := NewAnalystService(nil, &fakeDiagnosticRepo{err: errors.New("mongo down")}, diagnostic.DefaultBank())
		_, err := svc.Analyze(context.Background(), sampleRequest())
		assert.NoError(t, err)
	})
}

func TestAnalystServiceSegmentFromTotal(t *testing.T) {
	svc := NewAnalystService(nil, nil, diagnostic.DefaultBank())
	for total, want := range map[int]string{0: "fragile", 18: "fragile", 19: "transition", 32: "transition", 33: "machine", 44: "machine"} {
		req := sampleRequest()
		req.Scores.Total = total
		analysis, err := svc.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, want, analysis.Segment, "total %d", total)
	}
}
