package model

import (
	"encoding/json"
	"time"
)

// AnalysisUser is the identity block sent to the analysis service
type AnalysisUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Units     string `json:"units"`
}

// AnalysisRequest is the body of POST /api/diagnostic/analyze
type AnalysisRequest struct {
	UserInfo AnalysisUser   `json:"userInfo"`
	Answers  map[string]int `json:"answers"`
	Scores   Scores         `json:"scores"`
}

// TextList decodes either a JSON array of strings or a single string
type TextList []string

func (l *TextList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = TextList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// Analysis is the enriched report returned by the analysis service.
// Every field is optional; absent fields fall back to static segment text.
type Analysis struct {
	FirstName string `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
	City      string `json:"city,omitempty" bson:"city,omitempty"`
	Units     string `json:"units,omitempty" bson:"units,omitempty"`

	Segment          string `json:"segment,omitempty" bson:"segment,omitempty"`
	Score            *int   `json:"score,omitempty" bson:"score,omitempty"`
	StructureScore   *int   `json:"structureScore,omitempty" bson:"structureScore,omitempty"`
	AcquisitionScore *int   `json:"acquisitionScore,omitempty" bson:"acquisitionScore,omitempty"`
	ValueScore       *int   `json:"valueScore,omitempty" bson:"valueScore,omitempty"`

	DiagSummary            string   `json:"diagSummary,omitempty" bson:"diagSummary,omitempty"`
	MainBlocker            string   `json:"mainBlocker,omitempty" bson:"mainBlocker,omitempty"`
	Priority               string   `json:"priority,omitempty" bson:"priority,omitempty"`
	GoodtimeRecommendation string   `json:"goodtimeRecommendation,omitempty" bson:"goodtimeRecommendation,omitempty"`
	StructureAnalysis      string   `json:"structureAnalysis,omitempty" bson:"structureAnalysis,omitempty"`
	AcquisitionAnalysis    string   `json:"acquisitionAnalysis,omitempty" bson:"acquisitionAnalysis,omitempty"`
	ValueAnalysis          string   `json:"valueAnalysis,omitempty" bson:"valueAnalysis,omitempty"`
	Valorisation           string   `json:"valorisation,omitempty" bson:"valorisation,omitempty"`
	Roadmap                TextList `json:"roadmap,omitempty" bson:"roadmap,omitempty"`
}

// DiagnosticRecord is the archived form of an analysis
type DiagnosticRecord struct {
	Analysis  `bson:",inline"`
	Answers   map[string]int `bson:"answers"`
	Timestamp time.Time      `bson:"timestamp"`
}

// Source tells where a displayed value came from
type Source string

const (
	SourceRemote Source = "remote"
	SourceStatic Source = "static"
	SourceLocal  Source = "local"
)

// DisplayText is a merged text field with its origin
type DisplayText struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// DisplayScore keeps the locally computed score next to the displayed one
type DisplayScore struct {
	Value  int    `json:"value"`
	Local  int    `json:"local"`
	Max    int    `json:"max"`
	Source Source `json:"source"`
}

// DisplayModel is what the results screen renders
type DisplayModel struct {
	Segment     SegmentID `json:"segment"`
	SegmentName string    `json:"segmentName"`
	SegmentFrom Source    `json:"segmentSource"`

	Score       DisplayScore `json:"score"`
	Structure   DisplayScore `json:"structure"`
	Acquisition DisplayScore `json:"acquisition"`
	Value       DisplayScore `json:"value"`

	Summary             DisplayText `json:"diagSummary"`
	MainBlocker         DisplayText `json:"mainBlocker"`
	Priority            DisplayText `json:"priority"`
	Recommendation      DisplayText `json:"goodtimeRecommendation"`
	StructureAnalysis   DisplayText `json:"structureAnalysis"`
	AcquisitionAnalysis DisplayText `json:"acquisitionAnalysis"`
	ValueAnalysis       DisplayText `json:"valueAnalysis"`
	Valorisation        DisplayText `json:"valorisation"`
	Roadmap             []string    `json:"roadmap,omitempty"`
	RoadmapFrom         Source      `json:"roadmapSource"`

	// Static segment text, shown when no remote analysis is available
	Risks            string `json:"risks"`
	Axis             string `json:"axis"`
	DetailedAnalysis string `json:"detailedAnalysis,omitempty"`
}
