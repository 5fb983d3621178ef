package client

import "errors"

// ErrAPI is returned for every failed call: transport errors, non-2xx
// responses, and 2xx responses whose body is not the expected JSON.
// Callers cannot tell these apart; the detail is only logged. A request
// abandoned through its context also unwraps to the context's error.
var ErrAPI = errors.New("API error")

// canceledError reports a request abandoned through its context. It reads
// and matches as ErrAPI, and also unwraps to the context error so callers
// can tell a deliberate cancel from a failure.
type canceledError struct {
	cause error
}

func (e *canceledError) Error() string        { return ErrAPI.Error() }
func (e *canceledError) Is(target error) bool { return target == ErrAPI }
func (e *canceledError) Unwrap() error        { return e.cause }
