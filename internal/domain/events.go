package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchSubmitted   EventType = "SearchSubmitted"
	EventSearchCompleted   EventType = "SearchCompleted"
	EventSearchFailed      EventType = "SearchFailed"
	EventResponseDiscarded EventType = "ResponseDiscarded"
	EventDocumentOpened    EventType = "DocumentOpened"
	EventError             EventType = "Error"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchSubmittedEvent is emitted when a query is dispatched
type SearchSubmittedEvent struct {
	Epoch uint64
	Query string
}

func (e SearchSubmittedEvent) Type() EventType { return EventSearchSubmitted }

// SearchCompletedEvent is emitted when the current request succeeds
type SearchCompletedEvent struct {
	Epoch   uint64
	Query   string
	Count   int
	Elapsed time.Duration
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the current request ends in an error.
// Message is what the user sees, Err is the underlying cause.
type SearchFailedEvent struct {
	Epoch   uint64
	Query   string
	Message string
	Err     error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// ResponseDiscardedEvent is emitted when a response arrives for a superseded request
type ResponseDiscardedEvent struct {
	Epoch   uint64 // epoch the response belongs to
	Current uint64 // epoch that was current when it arrived
	Query   string
}

func (e ResponseDiscardedEvent) Type() EventType { return EventResponseDiscarded }

// DocumentOpenedEvent is emitted when a document is fetched for reading
type DocumentOpenedEvent struct {
	ID string
}

func (e DocumentOpenedEvent) Type() EventType { return EventDocumentOpened }

// ErrorEvent is emitted when an error occurs outside the search lifecycle
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path     string
	Endpoint string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
