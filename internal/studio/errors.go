package studio

import "fmt"

// ValidationError reports user input rejected before any call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// BackendError carries a failure reported by the generation service.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string { return e.Message }

// TransportError wraps a failure of the call itself.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }
