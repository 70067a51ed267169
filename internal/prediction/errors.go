package prediction

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResponse means the model call succeeded but returned no text.
	ErrNoResponse = errors.New("no response from prediction model")

	// ErrMalformedResponse matches any *MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed prediction response")

	ErrMissingAPIKey   = errors.New("api key is not configured")
	ErrUnknownProvider = errors.New("unknown prediction provider")
)

// MalformedResponseError carries the reply text that could not be turned into
// a result, and the decode or schema error that rejected it.
type MalformedResponseError struct {
	Payload string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedResponse, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
