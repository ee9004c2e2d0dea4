// Package apperr holds the error kinds the harness distinguishes:
// invalid user input and failed run preconditions.
package apperr

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// SetupError marks a failed precondition that aborts the whole run
// before any benchmark executes. Stage names the precondition.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

func NewSetup(stage string, err error) *SetupError {
	return &SetupError{Stage: stage, Err: err}
}
