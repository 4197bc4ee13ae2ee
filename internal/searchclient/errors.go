package searchclient

import "fmt"

// ApplicationError is a failure reported by the service in the "error" field
type ApplicationError struct {
	Message    string
	StatusCode int
	RequestID  string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// TransportError covers network failures, unexpected status codes and
// bodies that do not match the contract
type TransportError struct {
	Op         string // search, suggest or document
	RequestID  string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request %s (status %d): %v", e.Op, e.RequestID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request %s: %v", e.Op, e.RequestID, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
