package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNothingToSubmit    = errors.New("nothing to submit")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrSubmissionFailed   = errors.New("submission failed")
)
