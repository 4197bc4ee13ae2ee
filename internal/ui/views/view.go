package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docsearch/internal/markup"
	"docsearch/internal/ui/services/search"
)

// ViewState contains all the state needed for rendering. Everything the
// renderer shows comes from here, so equal states render identically.
type ViewState struct {
	Width         int
	Height        int
	Endpoint      string
	Input         string // rendered text input
	Suggestions   []string
	Search        search.State
	ResultsFocus  bool // the result list has keyboard focus
	Selected      int  // index of the selected result
	Spinner       string
	StatusMessage string
	Help          string // rendered key help
	ShowIDLine    bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
	markup markup.Renderer
}

// NewRenderer creates a new renderer. With highlight off, snippet emphasis
// is dropped and only the sanitized text is shown.
func NewRenderer(highlight bool) *Renderer {
	styles := NewStyles()
	var mr markup.Renderer = markup.Plain{}
	if highlight {
		mr = markup.NewHighlighter(styles.Highlight)
	}
	return &Renderer{styles: styles, markup: mr}
}

// NewRendererWith creates a renderer with an explicit markup boundary
func NewRendererWith(styles *Styles, mr markup.Renderer) *Renderer {
	return &Renderer{styles: styles, markup: mr}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	var header strings.Builder

	header.WriteString(r.renderTitle(state))
	header.WriteString("\n\n")
	header.WriteString(state.Input)
	header.WriteString("\n")
	if len(state.Suggestions) > 0 {
		header.WriteString(r.styles.Dim.Render("Suggestions: "))
		header.WriteString(r.styles.Suggestion.Render(strings.Join(sanitizeAll(state.Suggestions), " · ")))
		header.WriteString("\n")
	}
	header.WriteString("\n")

	var footer strings.Builder
	if state.StatusMessage != "" {
		footer.WriteString("\n")
		footer.WriteString(r.styles.Status.Render(markup.StripControl(state.StatusMessage)))
	}
	if state.Help != "" {
		footer.WriteString("\n")
		footer.WriteString(state.Help)
	}

	// Main container padding takes 2 lines
	budget := 0
	if state.Height > 0 {
		budget = state.Height - 2 - lipgloss.Height(header.String()) - lipgloss.Height(footer.String())
		if budget < 1 {
			budget = 1
		}
	}

	content := header.String() + r.renderResults(state, budget) + footer.String()
	return r.styles.Main.Render(content)
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("Document Search")
	if state.Endpoint == "" {
		return logo
	}

	right := r.styles.Dim.Render(markup.StripControl(state.Endpoint))
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	availableWidth := termWidth - 4 // main container padding
	padding := availableWidth - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

// renderResults renders the results area for the current search state
func (r *Renderer) renderResults(state ViewState, budget int) string {
	switch s := state.Search.(type) {
	case search.Loading:
		return r.styles.StatusLoading.Render(strings.TrimSpace(state.Spinner + " Searching..."))

	case search.Failed:
		return r.styles.StatusError.Render(markup.StripControl(s.Message))

	case search.Success:
		return r.renderSuccess(state, s, budget)

	default:
		return ""
	}
}

func (r *Renderer) renderSuccess(state ViewState, s search.Success, budget int) string {
	var b strings.Builder

	noun := "results"
	if len(s.Results) == 1 {
		noun = "result"
	}
	b.WriteString(r.styles.Summary.Render(fmt.Sprintf("%d %s in %.3f seconds", len(s.Results), noun, s.Elapsed.Seconds())))
	b.WriteString("\n")

	if len(s.Results) == 0 {
		b.WriteString(r.styles.Dim.Render("No matching documents."))
		return b.String()
	}

	if state.ShowIDLine {
		ids := make([]string, len(s.Results))
		for i, res := range s.Results {
			ids[i] = res.ID
		}
		line := "Matching Document IDs: " + strings.Join(sanitizeAll(ids), ", ")
		if state.Width > 4 {
			line = lipgloss.NewStyle().Width(state.Width - 4).Render(line)
		}
		b.WriteString(r.styles.Dim.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	blocks := make([]string, len(s.Results))
	for i, res := range s.Results {
		blocks[i] = r.renderItem(state, i, res.ID, res.Snippet)
	}

	if budget > 0 {
		budget -= lipgloss.Height(b.String()) - 1
	}
	selected := state.Selected
	if selected < 0 {
		selected = 0
	}
	if selected >= len(blocks) {
		selected = len(blocks) - 1
	}
	start, end := visibleRange(blocks, selected, budget)

	if start > 0 {
		b.WriteString(r.styles.Scroll.Render(fmt.Sprintf("↑ %d more", start)))
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(blocks[start:end], "\n"))
	if end < len(blocks) {
		b.WriteString("\n")
		b.WriteString(r.styles.Scroll.Render(fmt.Sprintf("↓ %d more", len(blocks)-end)))
	}
	return b.String()
}

// renderItem renders one result: the identifier as plain text and the
// snippet through the markup boundary
func (r *Renderer) renderItem(state ViewState, index int, id, snippet string) string {
	cursor := "  "
	if state.ResultsFocus && index == state.Selected {
		cursor = r.styles.Cursor.Render("› ")
	}

	line := cursor + r.styles.Dim.Render("Document ID: ") + r.styles.DocumentID.Render(markup.StripControl(id))

	snippetStyle := r.styles.Snippet
	if state.Width > 10 {
		snippetStyle = snippetStyle.Width(state.Width - 4)
	}
	return line + "\n" + snippetStyle.Render(r.markup.Render(snippet))
}

// visibleRange picks the blocks that fit in budget lines, keeping selected
// visible. The two scroll markers are accounted for.
func visibleRange(blocks []string, selected, budget int) (int, int) {
	if budget <= 0 {
		return 0, len(blocks)
	}

	total := 0
	for _, b := range blocks {
		total += lipgloss.Height(b)
	}
	if total <= budget {
		return 0, len(blocks)
	}
	budget -= 2
	if budget < 1 {
		budget = 1
	}

	start, used := selected, lipgloss.Height(blocks[selected])
	for start > 0 {
		h := lipgloss.Height(blocks[start-1])
		if used+h > budget {
			break
		}
		used += h
		start--
	}
	end := selected + 1
	for end < len(blocks) {
		h := lipgloss.Height(blocks[end])
		if used+h > budget {
			break
		}
		used += h
		end++
	}
	return start, end
}

func sanitizeAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = markup.StripControl(s)
	}
	return out
}
