package wizard

import (
	"errors"
	"fmt"

	"goodtime-diagnostic/internal/model"
)

var (
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrNotCurrentQuestion = errors.New("question is not the current one")
	ErrBusy               = errors.New("results are being computed")
	ErrSuperseded         = errors.New("session was restarted")
	ErrIncomplete         = errors.New("diagnostic is incomplete")
	ErrClosed             = errors.New("session is closed")
)

func invalidTransition(step model.Step, action Action) error {
	return fmt.Errorf("%w: %s on step %s", ErrInvalidTransition, action, step)
}
