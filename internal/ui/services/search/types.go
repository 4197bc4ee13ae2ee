package search

import (
	"context"
	"time"

	"docsearch/internal/domain"
	"docsearch/internal/searchclient"
)

// TransportErrorMessage is shown for every failure the service did not explain itself
const TransportErrorMessage = "Error fetching results."

// Searcher is the part of the search client the controller depends on
type Searcher interface {
	Search(ctx context.Context, query string) (*searchclient.Payload, error)
}

// Suggester is the part of the search client used for completions
type Suggester interface {
	Suggest(ctx context.Context, prefix string) ([]string, error)
}

// State is the single source of truth for the results area. It is always
// exactly one of Idle, Loading, Success or Failed.
type State interface {
	isState()
}

// Idle is the initial state, before anything was submitted
type Idle struct{}

// Loading means a request for Query is in flight
type Loading struct {
	Query string
}

// Success holds the ranked results of the last submitted query
type Success struct {
	Query   string
	Results []domain.SearchResult
	Elapsed time.Duration // dispatch to response receipt, never negative
}

// Failed holds the message shown for the last submitted query
type Failed struct {
	Query   string
	Message string
}

func (Idle) isState()    {}
func (Loading) isState() {}
func (Success) isState() {}
func (Failed) isState()  {}

// CompletedMsg carries the outcome of one search request back into the
// event loop. Epoch identifies the submission it answers.
type CompletedMsg struct {
	Epoch   uint64
	Query   string
	Payload *searchclient.Payload
	Err     error
	Elapsed time.Duration
}

// SuggestionsMsg carries completions for the draft that was current when
// they were requested
type SuggestionsMsg struct {
	Epoch       uint64
	Prefix      string
	Suggestions []string
	Err         error
}
