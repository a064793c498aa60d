// Package messages defines Bubbletea message types for the console.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments lists catalogued documents.
	ViewDocuments ViewType = iota
	// ViewChat is the conversation about one document.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// DocumentsLoaded carries the catalogue listing.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentSelected opens a conversation about a document.
type DocumentSelected struct {
	ID       string
	Language string
}

// AnswerReceived carries the result of a question.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// SummaryReceived carries the result of a summary request.
type SummaryReceived struct {
	Summary string
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
