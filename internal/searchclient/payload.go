package searchclient

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"docsearch/internal/domain"
)

// ErrMalformedPayload is wrapped by decode failures
var ErrMalformedPayload = errors.New("malformed payload")

// Payload is a successful /search answer
type Payload struct {
	// Results holds document identifiers in the order the service ranked them.
	// Numeric identifiers keep the textual form the service sent.
	Results []string
	// Snippets maps identifier to markup. It may not cover every result.
	Snippets map[string]string
	// RequestID is the X-Request-ID the request was sent with
	RequestID string
}

// Document is a /document answer
type Document = domain.Document

// errorMessage reports the "error" field of an object body, if non-empty
func errorMessage(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return "", false
	}
	field := root.Get("error")
	if !field.Exists() || field.Type == gjson.Null {
		return "", false
	}
	msg := field.String()
	return msg, msg != ""
}

func parseObject(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrMalformedPayload)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: expected a JSON object", ErrMalformedPayload)
	}
	return root, nil
}

func decodeSearch(body []byte) (*Payload, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}

	results := root.Get("results")
	if !results.IsArray() {
		return nil, fmt.Errorf("%w: \"results\" must be an array", ErrMalformedPayload)
	}

	payload := &Payload{
		Results:  make([]string, 0, len(results.Array())),
		Snippets: make(map[string]string),
	}

	var itemErr error
	results.ForEach(func(_, item gjson.Result) bool {
		switch item.Type {
		case gjson.String:
			payload.Results = append(payload.Results, item.Str)
		case gjson.Number:
			payload.Results = append(payload.Results, item.Raw)
		default:
			itemErr = fmt.Errorf("%w: result identifier %s is not a string or number", ErrMalformedPayload, item.Raw)
			return false
		}
		return true
	})
	if itemErr != nil {
		return nil, itemErr
	}

	snippets := root.Get("snippets")
	if snippets.Exists() && snippets.Type != gjson.Null {
		if !snippets.IsObject() {
			return nil, fmt.Errorf("%w: \"snippets\" must be an object", ErrMalformedPayload)
		}
		snippets.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.String {
				payload.Snippets[key.String()] = value.Str
			}
			return true
		})
	}

	return payload, nil
}

func decodeSuggestions(body []byte) ([]string, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	list := root.Get("suggestions")
	if !list.Exists() || list.Type == gjson.Null {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: \"suggestions\" must be an array", ErrMalformedPayload)
	}
	var out []string
	for _, item := range list.Array() {
		if item.Type == gjson.String && item.Str != "" {
			out = append(out, item.Str)
		}
	}
	return out, nil
}

func decodeDocument(body []byte) (*Document, error) {
	root, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	content := root.Get("content")
	if content.Type != gjson.String {
		return nil, fmt.Errorf("%w: \"content\" must be a string", ErrMalformedPayload)
	}
	doc := &Document{Content: content.Str}
	if id := root.Get("doc_id"); id.Exists() && id.Type != gjson.Null {
		if id.Type == gjson.Number {
			doc.ID = id.Raw
		} else {
			doc.ID = id.String()
		}
	}
	return doc, nil
}
