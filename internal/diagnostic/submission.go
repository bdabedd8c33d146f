package diagnostic

import (
	"time"

	"goodtime-diagnostic/internal/model"
)

// BuildSubmission flattens a finished diagnostic into the CRM payload.
// Every question of the bank is listed; unanswered ones carry null values.
// Scores are the locally computed ones, texts come from the merged display.
func BuildSubmission(
	bank *Bank,
	user model.UserInfo,
	qual *model.Qualification,
	answers model.AnswerMap,
	display model.DisplayModel,
	analysisAvailable bool,
	now time.Time,
) *model.Submission {
	scores := ComputeScores(answers)

	sub := &model.Submission{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		City:      user.City,

		Segment:          display.Segment,
		Score:            scores.Total,
		StructureScore:   scores.Structure,
		AcquisitionScore: scores.Acquisition,
		ValueScore:       scores.Value,

		DiagSummary:            display.Summary.Text,
		MainBlocker:            display.MainBlocker.Text,
		Priority:               display.Priority.Text,
		GoodtimeRecommendation: display.Recommendation.Text,
		StructureAnalysis:      display.StructureAnalysis.Text,
		AcquisitionAnalysis:    display.AcquisitionAnalysis.Text,
		ValueAnalysis:          display.ValueAnalysis.Text,
		Valorisation:           display.Valorisation.Text,
		Roadmap:                display.Roadmap,
		AnalysisAvailable:      analysisAvailable,

		Timestamp: now.UTC().Format(time.RFC3339Nano),
	}
	if qual != nil {
		sub.Qualification = *qual
	}

	all := bank.All()
	sub.QuestionsAndAnswers = make([]model.QuestionAnswer, 0, len(all))
	for i := range all {
		q := &all[i]
		qa := model.QuestionAnswer{
			QuestionID: q.ID,
			Block:      q.Block,
			Question:   q.Title,
		}
		if q.Subtitle != "" {
			subtitle := q.Subtitle
			qa.Subtitle = &subtitle
		}
		if v, ok := answers[q.ID]; ok {
			value := v
			qa.SelectedValue = &value
			if opt, ok := q.Option(v); ok {
				label := opt.Label
				qa.SelectedAnswer = &label
			}
		}
		sub.QuestionsAndAnswers = append(sub.QuestionsAndAnswers, qa)
	}

	return sub
}

// AnalysisRequestFor builds the body sent to the analysis service
func AnalysisRequestFor(user model.UserInfo, qual *model.Qualification, answers model.AnswerMap) model.AnalysisRequest {
	units := ""
	if qual != nil {
		units = qual.Units
	}
	return model.AnalysisRequest{
		UserInfo: model.AnalysisUser{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Phone:     user.Phone,
			City:      user.City,
			Units:     units,
		},
		Answers: WireAnswers(answers),
		Scores:  ComputeScores(answers),
	}
}
