// Package documents provides the catalogue list view for the console.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/messages"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui/styles"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
)

// View is the documents list view.
type View struct {
	ctx          context.Context
	styles       *styles.Styles
	chatService  driving.ChatService
	documents    []domain.Document
	selected     int
	scrollOffset int
	width        int
	height       int
	ready        bool
	loading      bool
	err          error
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		ctx:         context.Background(),
		styles:      s,
		chatService: chatService,
		documents:   []domain.Document{},
	}
}

// WithContext sets the context used for catalogue requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the catalogue.
func (v *View) Init() tea.Cmd {
	return v.Reload()
}

// Reload returns a command that lists the catalogue.
func (v *View) Reload() tea.Cmd {
	v.loading = true
	ctx := v.ctx
	svc := v.chatService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("chat service not available")}
		}
		docs, err := svc.Documents(ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.documents = msg.Documents
			if v.selected >= len(v.documents) {
				v.selected = max(len(v.documents)-1, 0)
			}
			v.adjustScroll()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		doc := v.SelectedDocument()
		if doc == nil {
			return v, nil
		}
		selected := messages.DocumentSelected{ID: doc.ID, Language: doc.Language}
		return v, func() tea.Msg { return selected }
	case "r":
		return v, v.Reload()
	case "q":
		return v, func() tea.Msg { return messages.Quit{} }
	}

	return v, nil
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleItemCount reserves lines for title, help and the status bar.
func (v *View) visibleItemCount() int {
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents ingested. Run 'chatweb ingest <file>' first."))
	default:
		visible := v.visibleItemCount()
		end := min(v.scrollOffset+visible, len(v.documents))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderDocument(i, v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", v.scrollOffset+1, end, len(v.documents))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] chat  [r] reload  [q] quit"))
	return b.String()
}

func (v *View) renderDocument(index int, doc domain.Document) string {
	source := doc.Source
	maxSource := max(v.width/2-4, 10)
	if len(source) > maxSource {
		source = "..." + source[len(source)-maxSource+3:]
	}

	id := doc.ID
	if len(id) > 16 {
		id = id[:16]
	}
	detail := fmt.Sprintf("%d fragments, %s", doc.Fragments, doc.IndexedAt.Format("2006-01-02 15:04"))

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("> %s/%-4s %s  %s", id, doc.Language, source, detail))
	}
	return v.styles.Normal.Render(fmt.Sprintf("  %s/%-4s %s  ", id, doc.Language, source)) +
		v.styles.Muted.Render(detail)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Documents returns the current listing.
func (v *View) Documents() []domain.Document {
	return v.documents
}

// SelectedIndex returns the currently selected index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.Document {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
