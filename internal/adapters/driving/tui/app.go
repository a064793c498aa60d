package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/components/status"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/keymap"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/messages"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/styles"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/views/chat"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/views/documents"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

// App is the console application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	documentsView *documents.View
	chatView      *chat.View
	statusBar     *status.Bar

	// currentView tracks which view is active; previousView is restored
	// when the help panel closes.
	currentView  messages.ViewType
	previousView messages.ViewType

	// initial is opened on start when the console is launched with a handle.
	initial *messages.DocumentSelected

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new console application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		documentsView: documents.NewView(s, ports.Chat),
		chatView:      chat.NewView(s, km, ports.Chat),
		statusBar:     status.NewBar(s, km),
		currentView:   messages.ViewDocuments,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.documentsView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	return a
}

// WithDocument opens the conversation about a document on start.
func (a *App) WithDocument(id, lang string) *App {
	a.initial = &messages.DocumentSelected{ID: id, Language: lang}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("chatweb"),
		a.documentsView.Init(),
		a.chatView.Init(),
	}
	if a.initial != nil {
		selected := *a.initial
		cmds = append(cmds, func() tea.Msg { return selected })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewDocuments {
			a.statusBar.SetDocument("")
			a.statusBar.Clear()
			return a, a.documentsView.Reload()
		}
		return a, nil

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
		}
		return a, cmd

	case messages.DocumentSelected:
		a.currentView = messages.ViewChat
		a.statusBar.Clear()
		a.statusBar.SetDocument(domain.FormatURI(msg.ID, msg.Language))
		return a, a.chatView.SetDocument(msg.ID, msg.Language)

	case messages.AnswerReceived, messages.SummaryReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		a.syncStatus()
		return a, cmd

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Spinner ticks and cursor blinks belong to the chat view.
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keymap.Help):
		a.toggleHelp()
		return a, nil
	}

	switch a.currentView {
	case messages.ViewHelp:
		if key.Matches(msg, a.keymap.Back) {
			a.toggleHelp()
		}
		return a, nil

	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
		a.syncStatus()
		return a, cmd

	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) toggleHelp() {
	if a.currentView == messages.ViewHelp {
		a.currentView = a.previousView
		a.statusBar.SetState(status.StateReady)
		return
	}
	a.previousView = a.currentView
	a.currentView = messages.ViewHelp
	a.statusBar.SetState(status.StateHelp)
}

// syncStatus mirrors the chat view's request state into the status bar.
func (a *App) syncStatus() {
	switch {
	case a.chatView.Thinking():
		a.statusBar.SetState(status.StateThinking)
	case a.chatView.Err() != nil:
		a.setError(a.chatView.Err())
	default:
		a.err = nil
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage("")
		a.statusBar.SetFragmentCount(a.chatView.FragmentCount())
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	if err != nil {
		a.statusBar.SetMessage(err.Error())
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.documentsView.View()
	}

	return body + "\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Normal.Render("Chat commands:"))
	b.WriteString("\n")
	for _, c := range []struct{ name, desc string }{
		{chat.CommandSummary, "summarise the document"},
		{chat.CommandReset, "clear the transcript"},
		{chat.CommandHelp, "list commands"},
		{chat.CommandQuit, "exit"},
	} {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", c.name, c.desc))
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc/f1] close help"))
	return b.String()
}

// Run starts the console.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// StatusBar returns the status bar.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions; the last line is the status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.documentsView.SetDimensions(width, height-1)
	a.chatView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
