// Package chat provides the conversation view for one document.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/components/input"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/keymap"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/messages"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/styles"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
)

// Slash commands accepted in the input.
const (
	CommandSummary = "/summary"
	CommandReset   = "/reset"
	CommandHelp    = "/help"
	CommandQuit    = "/quit"
)

// reservedLines is the space taken by the header, input and status bar.
const reservedLines = 6

const helpText = `Commands:
  /summary   summarise the document
  /reset     clear the transcript
  /help      show this help
  /quit      exit

Anything else is asked as a question about the document.`

// View is the conversation view.
type View struct {
	ctx         context.Context
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	chatService driving.ChatService

	input    *input.QuestionInput
	viewport viewport.Model
	spinner  spinner.Model

	docID      string
	lang       string
	transcript []string
	thinking   bool
	lastCount  int
	err        error
	width      int
	height     int
}

// NewView creates a conversation view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = s.Muted

	return &View{
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		chatService: chatService,
		input:       input.NewQuestionInput(s),
		viewport:    viewport.New(80, 20),
		spinner:     sp,
		width:       80,
		height:      20 + reservedLines,
	}
}

// WithContext sets the context used for chat requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the input cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// SetDocument opens a conversation about a document and clears the transcript.
func (v *View) SetDocument(id, lang string) tea.Cmd {
	v.docID = id
	v.lang = lang
	v.thinking = false
	v.err = nil
	v.lastCount = 0
	v.transcript = nil
	v.input.Reset()
	v.refresh()
	return v.input.Focus()
}

// Update handles messages for the conversation view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.thinking = false
		v.err = msg.Err
		if msg.Err != nil {
			v.appendLine(v.styles.Error.Render("Error: " + msg.Err.Error()))
		} else {
			v.appendAnswer(msg.Answer)
		}
		return v, nil

	case messages.SummaryReceived:
		v.thinking = false
		v.err = msg.Err
		if msg.Err != nil {
			v.appendLine(v.styles.Error.Render("Error: " + msg.Err.Error()))
		} else {
			v.appendLine(v.styles.Answer.Render("Summary: ") + msg.Summary)
		}
		return v, nil

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocuments} }

	case key.Matches(msg, v.keymap.ScrollUp), key.Matches(msg, v.keymap.ScrollDown):
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd

	case key.Matches(msg, v.keymap.Submit):
		if v.thinking {
			return v, nil
		}
		text := v.input.Value()
		v.input.Reset()
		if text == "" {
			return v, nil
		}
		return v, v.submit(text)
	}

	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit dispatches a slash command or asks a question.
func (v *View) submit(text string) tea.Cmd {
	if strings.HasPrefix(text, "/") {
		switch strings.ToLower(strings.Fields(text)[0]) {
		case CommandQuit:
			return func() tea.Msg { return messages.Quit{} }
		case CommandReset:
			v.transcript = nil
			v.lastCount = 0
			v.err = nil
			v.refresh()
			return nil
		case CommandHelp:
			v.appendLine(v.styles.Muted.Render(helpText))
			return nil
		case CommandSummary:
			v.appendLine(v.styles.Question.Render("> ") + text)
			v.thinking = true
			return tea.Batch(v.spinner.Tick, v.summarize())
		default:
			v.appendLine(v.styles.Warning.Render(fmt.Sprintf("Unknown command %s, try /help", text)))
			return nil
		}
	}

	v.appendLine(v.styles.Question.Render("> ") + text)
	v.thinking = true
	return tea.Batch(v.spinner.Tick, v.ask(text))
}

func (v *View) ask(question string) tea.Cmd {
	ctx, svc, id := v.ctx, v.chatService, v.docID
	return func() tea.Msg {
		if svc == nil {
			return messages.AnswerReceived{Question: question, Err: fmt.Errorf("chat service not available")}
		}
		answer, err := svc.Answer(ctx, id, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) summarize() tea.Cmd {
	ctx, svc, id, lang := v.ctx, v.chatService, v.docID, v.lang
	return func() tea.Msg {
		if svc == nil {
			return messages.SummaryReceived{Err: fmt.Errorf("chat service not available")}
		}
		summary, err := svc.Summarize(ctx, id, lang)
		return messages.SummaryReceived{Summary: summary, Err: err}
	}
}

func (v *View) appendAnswer(answer *domain.Answer) {
	if answer == nil {
		return
	}
	v.lastCount = len(answer.Context)

	if answer.Text != "" {
		v.appendLine(v.styles.Answer.Render("< ") + answer.Text)
		if answer.Keywords != "" {
			v.appendLine(v.styles.Muted.Render("  keywords: " + answer.Keywords))
		}
		return
	}

	// No language model: show the retrieved fragments instead.
	var b strings.Builder
	b.WriteString(v.styles.Muted.Render("No language model configured. Most relevant fragments:"))
	for i, fragment := range answer.Context {
		b.WriteString("\n")
		b.WriteString(v.styles.Fragment.Render(fmt.Sprintf("  %d. %s", i+1, fragment)))
	}
	v.appendLine(b.String())
}

func (v *View) appendLine(line string) {
	v.transcript = append(v.transcript, line)
	v.refresh()
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (v *View) refresh() {
	wrap := lipgloss.NewStyle().Width(max(v.width-2, 10))
	rendered := make([]string, len(v.transcript))
	for i, line := range v.transcript {
		rendered[i] = wrap.Render(line)
	}
	v.viewport.SetContent(strings.Join(rendered, "\n\n"))
	v.viewport.GotoBottom()
}

// View renders the conversation view.
func (v *View) View() string {
	var b strings.Builder

	title := "Chat"
	if v.docID != "" {
		title = "Chat - " + domain.FormatURI(v.docID, v.lang)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")

	if len(v.transcript) == 0 {
		b.WriteString(v.styles.Muted.Render("Ask a question about the document, or type /help."))
	} else {
		b.WriteString(v.viewport.View())
	}
	b.WriteString("\n")

	if v.thinking {
		b.WriteString(v.spinner.View() + v.styles.Muted.Render(" thinking..."))
	} else {
		b.WriteString(v.input.View())
	}

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-reservedLines, 3)
	v.input.SetWidth(width)
	v.refresh()
}

// DocumentID returns the identifier of the open document.
func (v *View) DocumentID() string {
	return v.docID
}

// Language returns the language of the open document.
func (v *View) Language() string {
	return v.lang
}

// Transcript returns the rendered transcript entries.
func (v *View) Transcript() []string {
	return v.transcript
}

// Thinking reports whether a request is in flight.
func (v *View) Thinking() bool {
	return v.thinking
}

// FragmentCount returns the number of fragments behind the last answer.
func (v *View) FragmentCount() int {
	return v.lastCount
}

// Err returns the last request error.
func (v *View) Err() error {
	return v.err
}
