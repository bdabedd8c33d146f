// Package wizard sequences a diagnostic run: identity, qualification, the
// question flow, validation and the results transition.
package wizard

import "goodtime-diagnostic/internal/model"

// Action is a user event applied to a controller
type Action string

const (
	ActionStart               Action = "start"
	ActionSubmitUserInfo      Action = "submit_user_info"
	ActionSubmitQualification Action = "submit_qualification"
	ActionAnswer              Action = "answer"
	ActionPrevious            Action = "previous"
	ActionBack                Action = "back"
	ActionBackFromValidation  Action = "back_from_validation"
	ActionConfirm             Action = "confirm"
	ActionRestart             Action = "restart"
)

// transitions lists the actions accepted on each step. Restart is accepted
// everywhere and is not listed.
var transitions = map[model.Step][]Action{
	model.StepWelcome:       {ActionStart},
	model.StepUserInfo:      {ActionSubmitUserInfo, ActionBack},
	model.StepQualification: {ActionSubmitQualification, ActionBack},
	model.StepQuestions:     {ActionAnswer, ActionPrevious, ActionBack},
	model.StepValidation:    {ActionConfirm, ActionBackFromValidation, ActionBack},
	model.StepResults:       {},
}

// Allowed reports whether action may be applied on step
func Allowed(step model.Step, action Action) bool {
	if action == ActionRestart {
		return true
	}
	for _, a := range transitions[step] {
		if a == action {
			return true
		}
	}
	return false
}

// Sequence returns the ordered steps of a variant
func Sequence(v model.Variant) []model.Step {
	steps := []model.Step{model.StepWelcome, model.StepUserInfo}
	if v.Qualification {
		steps = append(steps, model.StepQualification)
	}
	steps = append(steps, model.StepQuestions)
	if v.Validation {
		steps = append(steps, model.StepValidation)
	}
	return append(steps, model.StepResults)
}

// Next returns the successor of step, or false on results
func Next(v model.Variant, step model.Step) (model.Step, bool) {
	seq := Sequence(v)
	for i, s := range seq {
		if s == step && i+1 < len(seq) {
			return seq[i+1], true
		}
	}
	return "", false
}

// Prev returns the predecessor of step, or false on welcome
func Prev(v model.Variant, step model.Step) (model.Step, bool) {
	seq := Sequence(v)
	for i, s := range seq {
		if s == step && i > 0 {
			return seq[i-1], true
		}
	}
	return "", false
}

// Progress maps a position in the flow to a percentage in [0, 100].
// It never decreases while moving forward.
func Progress(step model.Step, index, total int) float64 {
	switch step {
	case model.StepWelcome:
		return 0
	case model.StepUserInfo:
		return 3
	case model.StepQualification:
		return 8
	case model.StepQuestions:
		if total <= 0 {
			return 10
		}
		return 10 + float64(index+1)/float64(total)*80
	case model.StepValidation:
		return 95
	case model.StepResults:
		return 100
	}
	return 0
}
