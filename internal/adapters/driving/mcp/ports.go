package mcp

import (
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Chat ingests, lists and answers questions about documents.
	Chat driving.ChatService

	// Language is the document language used when a tool call omits one.
	Language string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
