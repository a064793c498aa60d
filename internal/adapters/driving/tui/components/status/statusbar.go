// Package status provides the status bar for the console.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/keymap"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
	StateHelp     State = "help"
)

// Bar displays the open document, request state and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	document  string
	fragments int
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the bar is driven through its setters.
func (s *Bar) Update(tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var prefix string
	if s.document != "" {
		prefix = s.styles.Normal.Render(shortID(s.document)) + " "
	}

	switch s.state {
	case StateThinking:
		return prefix + s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message != "" {
			return prefix + s.styles.Error.Render("Error: "+s.message)
		}
		return prefix + s.styles.Error.Render("Error")
	case StateHelp:
		return prefix + s.styles.Normal.Render("Help")
	case StateReady:
	}
	if s.fragments > 0 {
		return prefix + s.styles.Muted.Render(fmt.Sprintf("%d fragments in context", s.fragments))
	}
	return prefix + s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// shortID abbreviates a document handle to its first eight characters.
func shortID(uri string) string {
	id, lang, found := strings.Cut(uri, "/")
	if len(id) > 8 {
		id = id[:8]
	}
	if found && lang != "" {
		return id + "/" + lang
	}
	return id
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the error or status message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetDocument sets the handle of the open document.
func (s *Bar) SetDocument(uri string) {
	s.document = uri
}

// Document returns the handle of the open document.
func (s *Bar) Document() string {
	return s.document
}

// SetFragmentCount sets the number of fragments behind the last answer.
func (s *Bar) SetFragmentCount(count int) {
	s.fragments = count
}

// FragmentCount returns the number of fragments behind the last answer.
func (s *Bar) FragmentCount() int {
	return s.fragments
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its initial state, keeping the document.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.fragments = 0
}
