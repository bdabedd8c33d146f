package model

import "time"

// Step is a wizard step
type Step string

const (
	StepWelcome       Step = "welcome"
	StepUserInfo      Step = "user_info"
	StepQualification Step = "qualification"
	StepQuestions     Step = "questions"
	StepValidation    Step = "validation"
	StepResults       Step = "results"
)

// Variant selects the optional steps of the flow
type Variant struct {
	Qualification bool `json:"qualification"`
	Validation    bool `json:"validation"`
}

// WizardState is the serialisable state of one diagnostic session
type WizardState struct {
	SessionID            string         `json:"sessionId"`
	Step                 Step           `json:"step"`
	Variant              Variant        `json:"variant"`
	UserInfo             UserInfo       `json:"userInfo"`
	Qualification        *Qualification `json:"qualification,omitempty"`
	Answers              AnswerMap      `json:"answers"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	Analysis             *Analysis      `json:"aiAnalysis"`
	Notice               string         `json:"notice,omitempty"`
	Generation           uint64         `json:"generation"`
	UpdatedAt            time.Time      `json:"updatedAt"`
}

// SessionView is the state snapshot returned to clients
type SessionView struct {
	WizardState
	Progress        float64       `json:"progress"`
	TotalQuestions  int           `json:"totalQuestions"`
	CurrentQuestion *Question     `json:"currentQuestion,omitempty"`
	AdvancePending  bool          `json:"advancePending"`
	Finishing       bool          `json:"finishing"`
	Scores          Scores        `json:"scores"`
	Segment         Segment       `json:"segment"`
	Display         *DisplayModel `json:"display,omitempty"`
	BookingURL      string        `json:"bookingUrl,omitempty"`
}

// SessionCreated is returned when a diagnostic session is opened
type SessionCreated struct {
	SessionID string       `json:"sessionId"`
	Token     string       `json:"token"`
	State     *SessionView `json:"state"`
}
