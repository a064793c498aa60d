// Package cli provides the chatweb command line interface.
package cli

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// ChatServiceFactory builds the chat service on first use, so commands that
// never touch an AI provider do not pay for connecting to one.
type ChatServiceFactory func() (driving.ChatService, error)

var (
	version = "dev"
	verbose bool

	settingsService driving.SettingsService

	chatMu      sync.Mutex
	chatFactory ChatServiceFactory
	chatService driving.ChatService
)

var errSettingsNotConfigured = errors.New("settings service not configured")

var rootCmd = &cobra.Command{
	Use:   "chatweb",
	Short: "Chat with your documents",
	Long: `chatweb indexes text documents as embeddings and answers questions
about them with a language model.

Ingest a file, then ask about it by the handle the ingest prints:

  chatweb ingest notes.txt
  chatweb ask 3f2a.../English "What is the main argument?"
  chatweb summary 3f2a.../English
  chatweb console`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service used by commands.
func SetSettingsService(svc driving.SettingsService) {
	settingsService = svc
}

// SetChatService sets a ready chat service, replacing any factory.
func SetChatService(svc driving.ChatService) {
	chatMu.Lock()
	defer chatMu.Unlock()
	chatService = svc
	chatFactory = nil
}

// SetChatServiceFactory sets the factory used to build the chat service lazily.
func SetChatServiceFactory(f ChatServiceFactory) {
	chatMu.Lock()
	defer chatMu.Unlock()
	chatFactory = f
	chatService = nil
}

// getChatService returns the chat service, building it on the first call.
// A failed build is not memoised.
func getChatService() (driving.ChatService, error) {
	chatMu.Lock()
	defer chatMu.Unlock()

	if chatService != nil {
		return chatService, nil
	}
	if chatFactory == nil {
		return nil, errors.New("chat service not configured")
	}

	svc, err := chatFactory()
	if err != nil {
		return nil, fmt.Errorf("starting chat service: %w", err)
	}
	chatService = svc
	return svc, nil
}
