package api

import "errors"

var (
	ErrInvalidBloodGroup = errors.New("invalid blood group")
	ErrTransportTimeout  = errors.New("request timed out")
	ErrTransportFailure  = errors.New("failed to fetch data")
	ErrMalformedResponse = errors.New("invalid response from API")
	ErrAPIReported       = errors.New("API reported an error")
)

// UnknownAPIError is the message used when the API flags a failure without explaining it.
const UnknownAPIError = "Unknown error"

// APIError is a failure reported by the API itself through its status field.
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return ErrAPIReported
}
