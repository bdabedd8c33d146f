package diagnostic

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodtime-diagnostic/internal/model"
)

func TestBuildSubmission(t *testing.T) {
	bank := DefaultBank()
	answers := fill(2)
	delete(answers, 22)
	qual := validQualification()
	display := MergeAnalysis(ComputeScores(answers), &model.Analysis{DiagSummary: "Bravo"})
	now := time.Date(2026, 3, 4, 10, 30, 0, 0, time.FixedZone("CET", 3600))

	sub := BuildSubmission(bank, validUser(), &qual, answers, display, true, now)

	assert.Equal(t, "Camille", sub.FirstName)
	assert.Equal(t, "16-30", sub.Units)
	assert.Equal(t, 42, sub.Score)
	assert.Equal(t, 20, sub.StructureScore)
	assert.Equal(t, 18, sub.AcquisitionScore)
	assert.Equal(t, 4, sub.ValueScore)
	assert.Equal(t, model.SegmentMachine, sub.Segment)
	assert.Equal(t, "Bravo", sub.DiagSummary)
	assert.Equal(t, DefaultMainBlocker, sub.MainBlocker)
	assert.True(t, sub.AnalysisAvailable)
	assert.Equal(t, "2026-03-04T09:30:00Z", sub.Timestamp)

	require.Len(t, sub.QuestionsAndAnswers, 22)

	first := sub.QuestionsAndAnswers[0]
	assert.Equal(t, 1, first.QuestionID)
	assert.Equal(t, model.BlockStructure, first.Block)
	assert.Nil(t, first.Subtitle)
	require.NotNil(t, first.SelectedValue)
	assert.Equal(t, 2, *first.SelectedValue)
	q1, _ := bank.ByID(1)
	require.NotNil(t, first.SelectedAnswer)
	assert.Equal(t, q1.Options[2].Label, *first.SelectedAnswer)

	fourth := sub.QuestionsAndAnswers[3]
	require.NotNil(t, fourth.Subtitle)

	last := sub.QuestionsAndAnswers[21]
	assert.Equal(t, 22, last.QuestionID)
	assert.Nil(t, last.SelectedValue)
	assert.Nil(t, last.SelectedAnswer)
}

func TestSubmissionWireFormat(t *testing.T) {
	qual := validQualification()
	sub := BuildSubmission(DefaultBank(), validUser(), &qual, model.AnswerMap{1: 0},
		MergeAnalysis(model.Scores{}, nil), false, time.Unix(0, 0))

	raw, err := json.Marshal(sub)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))

	for _, key := range []string{
		"firstName", "lastName", "email", "phone", "city",
		"units", "objectif12Mois", "commissionMoyenne", "delaiReponse",
		"budgetMensuel", "googleBusiness", "closing", "engagement12Mois",
		"segment", "score", "structureScore", "acquisitionScore", "valueScore",
		"diagSummary", "mainBlocker", "priority", "goodtimeRecommendation",
		"questionsAndAnswers", "timestamp", "aiAnalysis",
	} {
		assert.Contains(t, wire, key)
	}
	assert.Equal(t, "fragile", wire["segment"])

	qa := wire["questionsAndAnswers"].([]any)
	second := qa[1].(map[string]any)
	assert.Nil(t, second["selectedValue"])
	assert.Nil(t, second["subtitle"])
}

func TestAnalysisRequestFor(t *testing.T) {
	qual := validQualification()
	req := AnalysisRequestFor(validUser(), &qual, model.AnswerMap{1: 2, 11: 1})

	assert.Equal(t, "16-30", req.UserInfo.Units)
	assert.Equal(t, map[string]int{"1": 2, "11": 1}, req.Answers)
	assert.Equal(t, model.Scores{Total: 3, Structure: 2, Acquisition: 1}, req.Scores)

	req = AnalysisRequestFor(validUser(), nil, nil)
	assert.Empty(t, req.UserInfo.Units)
	assert.Empty(t, req.Answers)
}
