package services

import "errors"

// ErrUnhandledShape marks a success response without
// candidates[0].content.parts[0].text.
var ErrUnhandledShape = errors.New("response missing candidates[0].content.parts[0].text")

type ClientInputError struct{ Message string }

func (e *ClientInputError) Error() string { return e.Message }

type MethodNotAllowedError struct{ Method string }

func (e *MethodNotAllowedError) Error() string { return "Method not allowed" }

type ConfigurationError struct{ Message string }

func (e *ConfigurationError) Error() string { return e.Message }

// UpstreamError is any failure talking to the generation API: a non-2xx
// status, an unreadable body, a timeout or a reply without text.
type UpstreamError struct {
	Message    string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *UpstreamError) Error() string { return e.Message }

func (e *UpstreamError) Unwrap() error { return e.Err }
