package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"docsearch/internal/config"
	"docsearch/internal/domain"
	"docsearch/internal/eventbus"
	"docsearch/internal/searchclient"
	"docsearch/internal/ui/services/navigation"
	"docsearch/internal/ui/services/search"
	"docsearch/internal/ui/views"
)

const queryPlaceholder = "heart and attack not failure, or: heart attack / 5"

// Client is the search service as seen by the UI
type Client interface {
	search.Searcher
	search.Suggester
	Document(ctx context.Context, id string) (*domain.Document, error)
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	log    *zap.Logger
	client Client

	search      *search.Controller
	suggestions *search.Suggestions
	nav         *navigation.Service // cursor in the result list
	renderer    *views.Renderer
	pager       Pager

	// UI-specific state
	width       int
	height      int
	input       textinput.Model
	spinner     spinner.Model
	help        help.Model
	keys        keyMap
	focus       focus
	status      string // document errors and progress
	inPagerMode bool   // tracks if the pager owns the terminal

	// Program reference for terminal management
	program *tea.Program
}

// ModelOption configures a Model
type ModelOption func(*Model)

// WithLogger sets the logger the model and its services write to
func WithLogger(l *zap.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithPager replaces the ov pager
func WithPager(p Pager) ModelOption {
	return func(m *Model) { m.pager = p }
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, client Client, opts ...ModelOption) *Model {
	m := &Model{
		bus:    bus,
		config: cfg,
		log:    zap.NewNop(),
		client: client,
		help:   help.New(),
		keys:   newKeyMap(),
		nav:    navigation.NewService(),
		pager:  NewOvPager(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.search = search.NewController(client,
		search.WithTimeout(cfg.Timeout.Duration),
		search.WithLogger(m.log.Named("search")),
		search.WithEventBus(bus),
	)
	m.suggestions = search.NewSuggestions(client, cfg.Timeout.Duration, m.log.Named("suggest"))
	m.renderer = views.NewRenderer(cfg.UISettings.Highlight)

	m.input = textinput.New()
	m.input.Prompt = "> "
	m.input.Placeholder = queryPlaceholder
	m.input.ShowSuggestions = true
	m.input.Focus()

	m.spinner = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))),
	)

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	if op, ok := m.pager.(*OvPager); ok {
		op.SetProgram(p)
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 8 // padding and prompt
		m.nav.SetViewportHeight(msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case search.CompletedMsg:
		if m.search.Resolve(msg) {
			m.nav.Reset(len(m.results()))
		}
		return m, nil

	case search.SuggestionsMsg:
		if m.suggestions.Resolve(msg) {
			m.input.SetSuggestions(m.suggestions.Items())
		}
		return m, nil

	case spinner.TickMsg:
		// Let the tick loop die once nothing is loading
		if !m.loading() || m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case documentMsg:
		return m.handleDocument(msg)

	case documentPagerMsg:
		if msg.err != nil {
			m.log.Error("pager failed", zap.String("doc_id", msg.id), zap.Error(msg.err))
			m.status = fmt.Sprintf("Could not show document %s: %v", msg.id, msg.err)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		if m.loading() {
			return m, m.spinner.Tick
		}
		return m, nil
	}

	// Cursor blink and other textinput internals
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Endpoint:      m.config.Endpoint,
		Input:         m.input.View(),
		Suggestions:   m.suggestions.Items(),
		Search:        m.search.State(),
		ResultsFocus:  m.focus == focusResults,
		Selected:      m.nav.Cursor(),
		Spinner:       m.spinner.View(),
		StatusMessage: m.status,
		Help:          m.help.View(m.keys.helpFor(m.focus)),
		ShowIDLine:    m.config.UISettings.ShowIDLine,
	}
	return m.renderer.Render(state)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.search.Stop()
		return m, tea.Quit
	}
	if m.focus == focusResults {
		return m.handleResultsKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()

	case key.Matches(msg, m.keys.Suggest):
		return m, m.suggestions.Request(m.input.Value())

	case key.Matches(msg, m.keys.Browse):
		m.focus = focusResults
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.search.SetQuery(after)
		m.clearSuggestions()
	}
	return m, cmd
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.search.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.nav.Navigate(navigation.DirectionUp)

	case key.Matches(msg, m.keys.Down):
		m.nav.Navigate(navigation.DirectionDown)

	case key.Matches(msg, m.keys.PageUp):
		m.nav.Navigate(navigation.DirectionPageUp)

	case key.Matches(msg, m.keys.PageDown):
		m.nav.Navigate(navigation.DirectionPageDown)

	case key.Matches(msg, m.keys.Top):
		m.nav.Navigate(navigation.DirectionHome)

	case key.Matches(msg, m.keys.Bottom):
		m.nav.Navigate(navigation.DirectionEnd)

	case key.Matches(msg, m.keys.Open):
		return m, m.openSelected()

	case key.Matches(msg, m.keys.Edit):
		m.focus = focusInput
		m.help.ShowAll = false
		return m, m.input.Focus()
	}
	return m, nil
}

// submit sends the draft query; a blank draft does nothing
func (m *Model) submit() tea.Cmd {
	m.search.SetQuery(m.input.Value())
	cmd := m.search.SubmitDraft()
	if cmd == nil {
		return nil
	}
	m.nav.Reset(0)
	m.status = ""
	m.clearSuggestions()
	return tea.Batch(cmd, m.spinner.Tick)
}

// clearSuggestions also invalidates a request still in flight for the old draft
func (m *Model) clearSuggestions() {
	m.suggestions.Clear()
	m.input.SetSuggestions(nil)
}

// openSelected fetches the document under the cursor
func (m *Model) openSelected() tea.Cmd {
	results := m.results()
	cursor := m.nav.Cursor()
	if cursor >= len(results) {
		return nil
	}
	id := results[cursor].ID
	m.status = fmt.Sprintf("Opening document %s...", id)
	return m.fetchDocument(id)
}

// fetchDocument returns a command that loads one document
func (m *Model) fetchDocument(id string) tea.Cmd {
	client, timeout := m.client, m.config.Timeout.Duration
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		doc, err := client.Document(ctx, id)
		return documentMsg{id: id, doc: doc, err: err}
	}
}

func (m *Model) handleDocument(msg documentMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil && msg.doc == nil {
		msg.err = errors.New("empty document")
	}
	if msg.err != nil {
		m.status = documentError(msg.id, msg.err)
		m.log.Warn("document fetch failed", zap.String("doc_id", msg.id), zap.Error(msg.err))
		m.publish(eventbus.ErrorEvent{Message: m.status, Err: msg.err})
		return m, nil
	}

	m.status = ""
	m.publish(eventbus.DocumentOpenedEvent{ID: msg.id})
	return m, m.showDocument(msg.id, formatDocument(msg.doc))
}

// showDocument returns a command that shows content in the pager
func (m *Model) showDocument(id, content string) tea.Cmd {
	pager, program := m.pager, m.program
	return func() tea.Msg {
		if program != nil {
			program.Send(pauseRenderingMsg{})
		}

		start := time.Now()
		err := pager.Show("document "+id, content)
		m.log.Debug("pager closed", zap.String("doc_id", id), zap.Duration("open_for", time.Since(start)))

		if program != nil {
			program.Send(resumeRenderingMsg{})
		}
		return documentPagerMsg{id: id, err: err}
	}
}

func (m *Model) results() []domain.SearchResult {
	if s, ok := m.search.State().(search.Success); ok {
		return s.Results
	}
	return nil
}

func (m *Model) loading() bool {
	_, ok := m.search.State().(search.Loading)
	return ok
}

func (m *Model) publish(event eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(event)
	}
}

// documentError turns a document fetch failure into a status line
func documentError(id string, err error) string {
	var appErr *searchclient.ApplicationError
	if errors.As(err, &appErr) {
		return fmt.Sprintf("Document %s: %s", id, appErr.Message)
	}
	return fmt.Sprintf("Error fetching document %s.", id)
}
