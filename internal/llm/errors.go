package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrInvalidResponse means the output is not JSON or breaks the schema
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model output: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable is a failure worth retrying: no HTTP answer at all
// (Status 0), a 429 or a 5xx.
type ErrProviderUnavailable struct {
	Status int
	Err    error
}

func (e *ErrProviderUnavailable) Error() string {
	switch {
	case e.Err == nil:
		return "llm provider unavailable"
	case e.Status == 0:
		return fmt.Sprintf("llm provider unavailable: %v", e.Err)
	}
	return fmt.Sprintf("llm provider unavailable (%d): %v", e.Status, e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// classifyStatus maps a failed call to ErrProviderUnavailable, or to a plain
// error for answers that will not change on retry (bad key, bad request).
func classifyStatus(provider string, status int, err error) error {
	if status == 0 || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return &ErrProviderUnavailable{Status: status, Err: err}
	}
	return fmt.Errorf("%s rejected the request (%d): %w", provider, status, err)
}
