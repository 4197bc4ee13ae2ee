package search

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"docsearch/internal/domain"
	"docsearch/internal/eventbus"
	"docsearch/internal/searchclient"
)

// Controller owns the query lifecycle: the draft text, the visible State and
// the request epoch.
//
// It is driven from a single goroutine (the bubbletea event loop). Submit
// hands back a command that does the HTTP work elsewhere; its CompletedMsg
// must be passed to Resolve on the event loop. Only the answer to the most
// recent submission can change State.
type Controller struct {
	client  Searcher
	bus     eventbus.EventBus
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time

	draft  string
	state  State
	epoch  uint64
	cancel context.CancelFunc
}

// Option configures a Controller
type Option func(*Controller)

// WithTimeout bounds each request; zero disables the client-side bound
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithClock replaces time.Now. The function is called from command goroutines.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the controller's logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithEventBus publishes lifecycle events on bus
func WithEventBus(bus eventbus.EventBus) Option {
	return func(c *Controller) { c.bus = bus }
}

// NewController creates a controller in the Idle state
func NewController(client Searcher, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		log:    zap.NewNop(),
		now:    time.Now,
		state:  Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQuery stores the draft text. It never issues a request.
func (c *Controller) SetQuery(text string) {
	c.draft = text
}

// Query returns the draft text
func (c *Controller) Query() string {
	return c.draft
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Epoch returns the epoch of the most recent submission
func (c *Controller) Epoch() uint64 {
	return c.epoch
}

// SubmitDraft submits the current draft text
func (c *Controller) SubmitDraft() tea.Cmd {
	return c.Submit(c.draft)
}

// Submit starts a search for query and returns the command that performs it.
// A blank query is ignored: nil is returned and State is left untouched.
// Otherwise State becomes Loading immediately and any earlier request is
// superseded (its context is cancelled and its answer will be discarded).
func (c *Controller) Submit(query string) tea.Cmd {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	c.epoch++
	epoch := c.epoch
	c.state = Loading{Query: query}

	var ctx context.Context
	var cancel context.CancelFunc
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), c.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	c.cancel = cancel

	c.log.Debug("search submitted", zap.Uint64("epoch", epoch), zap.String("query", query))
	c.publish(eventbus.SearchSubmittedEvent{Epoch: epoch, Query: query})

	client, now := c.client, c.now
	start := now()
	return func() tea.Msg {
		defer cancel()
		payload, err := client.Search(ctx, query)
		return CompletedMsg{
			Epoch:   epoch,
			Query:   query,
			Payload: payload,
			Err:     err,
			Elapsed: now().Sub(start),
		}
	}
}

// Stop cancels the in-flight request, if any. State is left as it is.
func (c *Controller) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Resolve applies the outcome of a request. It reports false, and changes
// nothing, when msg belongs to a superseded submission.
func (c *Controller) Resolve(msg CompletedMsg) bool {
	if msg.Epoch != c.epoch {
		c.log.Debug("discarding stale response",
			zap.Uint64("epoch", msg.Epoch),
			zap.Uint64("current", c.epoch),
			zap.String("query", msg.Query))
		c.publish(eventbus.ResponseDiscardedEvent{Epoch: msg.Epoch, Current: c.epoch, Query: msg.Query})
		return false
	}
	if _, loading := c.state.(Loading); !loading {
		return false
	}
	c.cancel = nil

	var appErr *searchclient.ApplicationError
	switch {
	case errors.As(msg.Err, &appErr):
		c.fail(msg, appErr.Message, msg.Err)

	case msg.Err != nil:
		if errors.Is(msg.Err, context.DeadlineExceeded) {
			c.log.Warn("search timed out", zap.Uint64("epoch", msg.Epoch), zap.Duration("timeout", c.timeout))
		}
		c.fail(msg, TransportErrorMessage, msg.Err)

	case msg.Payload == nil:
		c.fail(msg, TransportErrorMessage, errors.New("empty response"))

	default:
		elapsed := msg.Elapsed
		if elapsed < 0 {
			elapsed = 0
		}
		results := Pair(msg.Payload)
		c.state = Success{Query: msg.Query, Results: results, Elapsed: elapsed}
		c.log.Info("search completed",
			zap.Uint64("epoch", msg.Epoch),
			zap.String("request_id", msg.Payload.RequestID),
			zap.Int("results", len(results)),
			zap.Duration("elapsed", elapsed))
		c.publish(eventbus.SearchCompletedEvent{Epoch: msg.Epoch, Query: msg.Query, Count: len(results), Elapsed: elapsed})
	}
	return true
}

// Pair joins identifiers with their snippets, keeping the service's order.
// Identifiers without a snippet get domain.SnippetUnavailable.
func Pair(payload *searchclient.Payload) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, len(payload.Results))
	for _, id := range payload.Results {
		snippet := payload.Snippets[id]
		if snippet == "" {
			snippet = domain.SnippetUnavailable
		}
		results = append(results, domain.SearchResult{ID: id, Snippet: snippet})
	}
	return results
}

func (c *Controller) fail(msg CompletedMsg, message string, cause error) {
	c.state = Failed{Query: msg.Query, Message: message}
	c.log.Warn("search failed",
		zap.Uint64("epoch", msg.Epoch),
		zap.String("query", msg.Query),
		zap.String("message", message),
		zap.Error(cause))
	c.publish(eventbus.SearchFailedEvent{Epoch: msg.Epoch, Query: msg.Query, Message: message, Err: cause})
}

func (c *Controller) publish(event eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}
