package views

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsearch/internal/domain"
	"docsearch/internal/markup"
	"docsearch/internal/ui/services/search"
)

func plainRenderer() *Renderer {
	return NewRendererWith(NewStyles(), markup.Plain{})
}

func success(n int) search.Success {
	results := make([]domain.SearchResult, n)
	for i := range results {
		results[i] = domain.SearchResult{
			ID:      fmt.Sprintf("doc-%d", i),
			Snippet: fmt.Sprintf("snippet <b>%d</b>", i),
		}
	}
	return search.Success{Query: "q", Results: results, Elapsed: 1234 * time.Millisecond}
}

func TestRenderIsIdempotent(t *testing.T) {
	r := NewRenderer(true)
	states := []ViewState{
		{Search: search.Idle{}},
		{Search: search.Loading{Query: "q"}, Spinner: "⠋"},
		{Search: search.Failed{Query: "q", Message: "bad"}},
		{Search: success(3), ShowIDLine: true, Width: 80, Height: 30},
	}
	for _, s := range states {
		assert.Equal(t, r.Render(s), r.Render(s))
	}
}

func TestIdleShowsNoResultsArea(t *testing.T) {
	out := plainRenderer().Render(ViewState{Input: "> query", Search: search.Idle{}})

	assert.Contains(t, out, "> query")
	assert.NotContains(t, out, "Searching")
	assert.NotContains(t, out, "Document ID")
	assert.NotContains(t, out, "results in")
}

func TestLoadingShowsSpinner(t *testing.T) {
	out := plainRenderer().Render(ViewState{Search: search.Loading{Query: "q"}, Spinner: "⠙"})

	assert.Contains(t, out, "⠙ Searching...")
	assert.NotContains(t, out, "Document ID")
}

func TestFailedShowsMessageAndNoList(t *testing.T) {
	out := plainRenderer().Render(ViewState{
		Search: search.Failed{Query: "q", Message: "Invalid query: unbalanced parentheses"},
	})

	assert.Contains(t, out, "Invalid query: unbalanced parentheses")
	assert.NotContains(t, out, "Document ID")
	assert.NotContains(t, out, "Matching Document IDs")
}

func TestFailedMessageIsSanitized(t *testing.T) {
	out := plainRenderer().Render(ViewState{
		Search: search.Failed{Message: "bad\x1b]0;pwned\x07 query"},
	})

	assert.NotContains(t, out, "\x1b]0;")
	assert.NotContains(t, out, "\x07")
	assert.Contains(t, out, "bad]0;pwned query")
}

func TestSuccessLayout(t *testing.T) {
	out := plainRenderer().Render(ViewState{Search: success(3), ShowIDLine: true})

	summary := strings.Index(out, "3 results in 1.234 seconds")
	ids := strings.Index(out, "Matching Document IDs: doc-0, doc-1, doc-2")
	first := strings.Index(out, "Document ID: doc-0")
	last := strings.Index(out, "Document ID: doc-2")

	require.True(t, summary >= 0, out)
	require.True(t, ids > summary, out)
	require.True(t, first > ids, out)
	require.True(t, last > first, out)
	assert.Contains(t, out, "snippet 2")
	assert.NotContains(t, out, "<b>")
}

func TestSuccessWithoutIDLine(t *testing.T) {
	out := plainRenderer().Render(ViewState{Search: success(1)})

	assert.Contains(t, out, "1 result in 1.234 seconds")
	assert.NotContains(t, out, "Matching Document IDs")
	assert.Contains(t, out, "Document ID: doc-0")
}

func TestZeroResults(t *testing.T) {
	out := plainRenderer().Render(ViewState{
		Search:     search.Success{Query: "q", Elapsed: 5 * time.Millisecond},
		ShowIDLine: true,
	})

	assert.Contains(t, out, "0 results in 0.005 seconds")
	assert.Contains(t, out, "No matching documents.")
	assert.NotContains(t, out, "Matching Document IDs")
}

func TestIdentifierIsPlainText(t *testing.T) {
	s := search.Success{Results: []domain.SearchResult{{ID: "<b>x</b>\x1b[2J", Snippet: "s"}}}
	out := plainRenderer().Render(ViewState{Search: s})

	assert.Contains(t, out, "Document ID: <b>x</b>[2J")
	assert.NotContains(t, out, "\x1b[2J")
}

func TestCursorOnlyWithResultsFocus(t *testing.T) {
	r := plainRenderer()
	state := ViewState{Search: success(3), Selected: 1}

	assert.NotContains(t, r.Render(state), "›")

	state.ResultsFocus = true
	out := r.Render(state)
	assert.Contains(t, out, "› Document ID: doc-1")
	assert.NotContains(t, out, "› Document ID: doc-0")
}

func TestLongListScrollsToSelection(t *testing.T) {
	r := plainRenderer()
	state := ViewState{Search: success(50), Height: 24, Width: 80, ResultsFocus: true, Selected: 40}

	out := r.Render(state)
	assert.Contains(t, out, "› Document ID: doc-40")
	assert.Contains(t, out, "↑")
	assert.NotContains(t, out, "Document ID: doc-0\n")
	assert.LessOrEqual(t, strings.Count(out, "\n")+1, 24+4)
}

func TestSuggestionsAndStatusLine(t *testing.T) {
	out := plainRenderer().Render(ViewState{
		Suggestions:   []string{"heart attack", "heart attention"},
		StatusMessage: "Could not open document 7",
		Help:          "enter search",
	})

	assert.Contains(t, out, "Suggestions: heart attack · heart attention")
	assert.Contains(t, out, "Could not open document 7")
	assert.Contains(t, out, "enter search")
}

func TestVisibleRange(t *testing.T) {
	blocks := []string{"a\nb", "c\nd", "e\nf", "g\nh", "i\nj"}

	start, end := visibleRange(blocks, 0, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)

	start, end = visibleRange(blocks, 0, 100)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)

	start, end = visibleRange(blocks, 4, 6)
	assert.Equal(t, 3, start)
	assert.Equal(t, 5, end)

	start, end = visibleRange(blocks, 0, 6)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)
}
