// Package tui provides the interactive document chat console.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the console.
type Ports struct {
	// Chat ingests, lists and answers questions about documents.
	Chat driving.ChatService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(chat driving.ChatService) *Ports {
	return &Ports{Chat: chat}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
