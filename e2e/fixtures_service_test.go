//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeService is an in-process stand-in for the search service
type fakeService struct {
	mu      sync.Mutex
	queries []string
	delay   map[string]time.Duration
	server  *httptest.Server
}

func newFakeService(t *testing.T) *fakeService {
	fs := &fakeService{delay: map[string]time.Duration{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/search", fs.search)
	mux.HandleFunc("/suggest", fs.suggest)
	mux.HandleFunc("/document", fs.document)
	fs.server = httptest.NewServer(mux)
	t.Cleanup(fs.server.Close)
	return fs
}

func (fs *fakeService) URL() string {
	return fs.server.URL
}

func (fs *fakeService) Queries() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.queries...)
}

func (fs *fakeService) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	fs.mu.Lock()
	fs.queries = append(fs.queries, query)
	delay := fs.delay[query]
	fs.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	switch {
	case strings.Contains(query, "(("):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid query: unbalanced parentheses"})
	case query == "nothing":
		writeJSON(w, http.StatusOK, map[string]any{"results": []string{}, "snippets": map[string]string{}})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"results": []any{12, "7", 3},
			"snippets": map[string]string{
				"12": "the <b>heart</b> of the matter",
				"7":  "<script>alert(1)</script>a <mark>heart</mark> attack",
			},
		})
	}
}

func (fs *fakeService) suggest(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("query")
	var out []string
	for _, word := range []string{"heart", "hearth", "health"} {
		if strings.HasPrefix(word, prefix) {
			out = append(out, word)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": out})
}

func (fs *fakeService) document(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("doc_id")
	if id != "12" {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Document not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":  id,
		"content": "Chapter one.\nThe heart of the matter is a long story.\n",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
