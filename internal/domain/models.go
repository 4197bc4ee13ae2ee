package domain

// SnippetUnavailable is shown in place of a snippet the server did not supply
const SnippetUnavailable = "Snippet not available"

// SearchResult represents a single matching document
type SearchResult struct {
	ID      string // document identifier, rendered as plain text
	Snippet string // markup fragment supplied by the search service (untrusted)
}

// Document represents the full text of a document opened for reading
type Document struct {
	ID      string
	Content string
}
