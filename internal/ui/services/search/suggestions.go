package search

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Suggestions fetches completion candidates for the last word of the draft.
// Like Controller it keeps an epoch so a late answer for an older draft is
// dropped.
type Suggestions struct {
	client  Suggester
	log     *zap.Logger
	timeout time.Duration

	epoch uint64
	items []string
}

// NewSuggestions creates a suggestion fetcher
func NewSuggestions(client Suggester, timeout time.Duration, logger *zap.Logger) *Suggestions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suggestions{client: client, timeout: timeout, log: logger}
}

// Request asks for completions of draft's last word. It returns nil when
// there is no word being typed.
func (s *Suggestions) Request(draft string) tea.Cmd {
	head, word := splitLastWord(draft)
	if word == "" {
		return nil
	}

	s.epoch++
	epoch := s.epoch
	client, timeout := s.client, s.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		words, err := client.Suggest(ctx, word)
		full := make([]string, 0, len(words))
		for _, w := range words {
			full = append(full, head+w)
		}
		return SuggestionsMsg{Epoch: epoch, Prefix: draft, Suggestions: full, Err: err}
	}
}

// Resolve stores the candidates when msg answers the latest request
func (s *Suggestions) Resolve(msg SuggestionsMsg) bool {
	if msg.Epoch != s.epoch {
		return false
	}
	if msg.Err != nil {
		s.log.Debug("suggestions failed", zap.String("prefix", msg.Prefix), zap.Error(msg.Err))
		s.items = nil
		return true
	}
	s.items = msg.Suggestions
	return true
}

// Items returns the current candidates
func (s *Suggestions) Items() []string {
	return s.items
}

// Clear drops the candidates and ignores any request still in flight
func (s *Suggestions) Clear() {
	s.epoch++
	s.items = nil
}

// splitLastWord splits "heart and att" into "heart and " and "att"
func splitLastWord(draft string) (string, string) {
	if draft == "" || strings.HasSuffix(draft, " ") {
		return draft, ""
	}
	i := strings.LastIndexAny(draft, " \t")
	return draft[:i+1], draft[i+1:]
}
