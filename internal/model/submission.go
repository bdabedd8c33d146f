package model

// QuestionAnswer is one flattened question/answer pair of a submission
type QuestionAnswer struct {
	QuestionID     int     `json:"questionId"`
	Block          BlockID `json:"block"`
	Question       string  `json:"question"`
	Subtitle       *string `json:"subtitle"`
	SelectedValue  *int    `json:"selectedValue"`
	SelectedAnswer *string `json:"selectedAnswer"`
}

// Submission is the payload mirrored to the CRM webhook
type Submission struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`

	Qualification

	Segment          SegmentID `json:"segment"`
	Score            int       `json:"score"`
	StructureScore   int       `json:"structureScore"`
	AcquisitionScore int       `json:"acquisitionScore"`
	ValueScore       int       `json:"valueScore"`

	DiagSummary            string   `json:"diagSummary"`
	MainBlocker            string   `json:"mainBlocker"`
	Priority               string   `json:"priority"`
	GoodtimeRecommendation string   `json:"goodtimeRecommendation"`
	StructureAnalysis      string   `json:"structureAnalysis,omitempty"`
	AcquisitionAnalysis    string   `json:"acquisitionAnalysis,omitempty"`
	ValueAnalysis          string   `json:"valueAnalysis,omitempty"`
	Valorisation           string   `json:"valorisation,omitempty"`
	Roadmap                []string `json:"roadmap,omitempty"`
	AnalysisAvailable      bool     `json:"aiAnalysis"`

	QuestionsAndAnswers []QuestionAnswer `json:"questionsAndAnswers"`

	Timestamp string `json:"timestamp"`
}
