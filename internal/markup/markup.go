// Package markup is the boundary between server-supplied snippet markup and
// the terminal.
//
// Snippets arrive as HTML fragments such as "...the <mark>heart</mark> of...".
// They are untrusted: nothing in them is written to the terminal verbatim.
// Parse keeps text and a small set of emphasis tags, drops everything else,
// and strips control characters so a fragment cannot smuggle escape sequences
// into the user's terminal.
package markup

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Renderer turns an untrusted markup fragment into terminal-safe text
type Renderer interface {
	Render(fragment string) string
}

// Segment is a run of sanitized text
type Segment struct {
	Text        string
	Highlighted bool
}

// Parse sanitizes fragment into text segments. Text inside mark, b, strong,
// em and i is flagged as highlighted. The contents of script and style are
// discarded. Whitespace runs collapse to one space, as they would in a browser.
func Parse(fragment string) []Segment {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var segments []Segment
	highlight, skip := 0, 0

	appendText := func(text string, highlighted bool) {
		text = collapseSpace(StripControl(text))
		if n := len(segments); n > 0 && strings.HasSuffix(segments[n-1].Text, " ") {
			text = strings.TrimLeft(text, " ")
		}
		if text == "" {
			return
		}
		if n := len(segments); n > 0 && segments[n-1].Highlighted == highlighted {
			segments[n-1].Text = collapseSpace(segments[n-1].Text + text)
			return
		}
		segments = append(segments, Segment{Text: text, Highlighted: highlighted})
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF at the end of input. Any other error still leaves
			// only sanitized text in segments.
			return trimEnds(segments)

		case html.TextToken:
			if skip > 0 {
				continue
			}
			appendText(string(z.Text()), highlight > 0)

		case html.StartTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Mark, atom.B, atom.Strong, atom.Em, atom.I:
				highlight++
			case atom.Script, atom.Style:
				skip++
			case atom.Br, atom.P, atom.Div, atom.Li:
				appendText(" ", highlight > 0)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Mark, atom.B, atom.Strong, atom.Em, atom.I:
				if highlight > 0 {
					highlight--
				}
			case atom.Script, atom.Style:
				if skip > 0 {
					skip--
				}
			case atom.P, atom.Div, atom.Li:
				appendText(" ", highlight > 0)
			}

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Br {
				appendText(" ", highlight > 0)
			}
		}
	}
}

// Text returns the sanitized fragment without any highlighting
func Text(fragment string) string {
	var b strings.Builder
	for _, s := range Parse(fragment) {
		b.WriteString(s.Text)
	}
	return b.String()
}

// StripControl removes control characters except newline and tab
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Highlighter renders highlighted segments with a lipgloss style
type Highlighter struct {
	style lipgloss.Style
}

// NewHighlighter creates a Highlighter using style for emphasized text
func NewHighlighter(style lipgloss.Style) *Highlighter {
	return &Highlighter{style: style}
}

func (h *Highlighter) Render(fragment string) string {
	var b strings.Builder
	for _, s := range Parse(fragment) {
		if s.Highlighted {
			b.WriteString(h.style.Render(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// Plain renders only the sanitized text
type Plain struct{}

func (Plain) Render(fragment string) string {
	return Text(fragment)
}

func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func trimEnds(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}
	segments[0].Text = strings.TrimLeft(segments[0].Text, " ")
	last := len(segments) - 1
	segments[last].Text = strings.TrimRight(segments[last].Text, " ")

	out := segments[:0]
	for _, s := range segments {
		if s.Text != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
