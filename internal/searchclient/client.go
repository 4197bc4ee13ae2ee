// Package searchclient talks to the remote document-search service.
//
// It knows the wire contract (paths, parameters, JSON shapes) and nothing
// about how results are presented. Failures come back as one of two error
// types: *ApplicationError when the service answered with an "error" field,
// *TransportError for everything else (network, status, malformed body).
package searchclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	searchPath   = "search"
	suggestPath  = "suggest"
	documentPath = "document"

	// maxBodyBytes caps how much of a response body is read
	maxBodyBytes = 8 << 20
)

// Client is an HTTP client for the search service
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *zap.Logger
	newID   func() string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the service rooted at baseURL, e.g. "http://127.0.0.1:8000"
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    newHTTPClient(),
		log:     zap.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the base address the client sends requests to
func (c *Client) Endpoint() string {
	return c.baseURL.String()
}

// Search runs a query. The text is sent as the "query" parameter unchanged.
func (c *Client) Search(ctx context.Context, query string) (*Payload, error) {
	body, requestID, err := c.get(ctx, searchPath, url.Values{"query": {query}})
	if err != nil {
		return nil, err
	}
	payload, err := decodeSearch(body)
	if err != nil {
		return nil, c.wrapDecode(searchPath, requestID, err)
	}
	payload.RequestID = requestID
	return payload, nil
}

// Suggest returns completion candidates for a partial term
func (c *Client) Suggest(ctx context.Context, prefix string) ([]string, error) {
	body, requestID, err := c.get(ctx, suggestPath, url.Values{"query": {prefix}})
	if err != nil {
		return nil, err
	}
	suggestions, err := decodeSuggestions(body)
	if err != nil {
		return nil, c.wrapDecode(suggestPath, requestID, err)
	}
	return suggestions, nil
}

// Document fetches the full text of one document
func (c *Client) Document(ctx context.Context, id string) (*Document, error) {
	body, requestID, err := c.get(ctx, documentPath, url.Values{"doc_id": {id}})
	if err != nil {
		return nil, err
	}
	doc, err := decodeDocument(body)
	if err != nil {
		return nil, c.wrapDecode(documentPath, requestID, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return doc, nil
}

// get performs one GET request and returns the body of a usable response.
// A body carrying an "error" field is turned into an *ApplicationError
// whatever the status code; other non-2xx responses are transport errors.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, string, error) {
	requestID := c.newID()
	target := c.baseURL.JoinPath(path)
	target.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, requestID, &TransportError{Op: path, RequestID: requestID, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, requestID, &TransportError{Op: path, RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, requestID, &TransportError{Op: path, RequestID: requestID, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	c.log.Debug("response received",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	if msg, ok := errorMessage(body); ok {
		return nil, requestID, &ApplicationError{Message: msg, StatusCode: resp.StatusCode, RequestID: requestID}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, requestID, &TransportError{Op: path, RequestID: requestID, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	return body, requestID, nil
}

func (c *Client) wrapDecode(path, requestID string, err error) error {
	return &TransportError{Op: path, RequestID: requestID, StatusCode: http.StatusOK, Err: err}
}

// newHTTPClient builds the transport used when no client is supplied.
// Deadlines come from the request context, not from the client.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
