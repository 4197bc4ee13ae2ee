package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"docsearch/internal/domain"
	"docsearch/internal/markup"
)

var errNoProgram = errors.New("program not set")

// Pager shows long text while the UI is suspended
type Pager interface {
	Show(title, content string) error
}

// OvPager runs the ov pager in place of the bubbletea screen
type OvPager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewOvPager creates a pager; SetProgram must be called before Show
func NewOvPager() *OvPager {
	return &OvPager{}
}

// SetProgram sets the program reference for terminal management
func (p *OvPager) SetProgram(program *tea.Program) {
	p.program = program
}

// Show releases the terminal, runs ov over content and restores the terminal
func (p *OvPager) Show(title, content string) error {
	if p.program == nil {
		return errNoProgram
	}

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("create pager: %w", err)
	}
	root.Doc.Caption = markup.StripControl(title)

	// Don't write the document back to the screen on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Give ov time to leave the alternate screen
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	return root.Run()
}

// formatDocument lays out a document for the pager. Content comes from the
// service and is stripped of control sequences, since ov interprets ANSI.
func formatDocument(doc *domain.Document) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Document " + markup.StripControl(doc.ID)))
	b.WriteString("\n")
	b.WriteString(markup.StripControl(doc.Content))
	if !strings.HasSuffix(doc.Content, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
