// Command chatweb ingests text documents into an embedding index and answers
// questions about them.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/ai"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/config/file"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/storage/filepair"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/storage/memory"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/storage/postgres"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/storage/sqlite"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/tokenizer"
	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/cli"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
	"github.com/SkywalkerDarren/chatWeb/internal/core/services"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is normal; variables may come from the shell.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening config: %v\n", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Debug("close: %v", err)
			}
		}
	}()

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)
	cli.SetChatServiceFactory(func() (driving.ChatService, error) {
		svc, closer, err := buildChatService(context.Background(), settingsService)
		if err != nil {
			return nil, err
		}
		closers = append(closers, closer)
		return svc, nil
	})

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// buildChatService wires the chat service from the current settings. The
// returned closer releases the index, catalogue and AI clients.
func buildChatService(ctx context.Context, settingsService *services.SettingsService) (driving.ChatService, func() error, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, nil, err
	}

	counter := tokenizer.New(settings.LLM.Model)

	aiResult, err := ai.Init(settings, counter)
	if err != nil {
		return nil, nil, err
	}
	for _, warning := range aiResult.Warnings {
		logger.Warn("%s", warning)
	}

	index, closeIndex, err := openIndex(ctx, settings)
	if err != nil {
		aiResult.Close()
		return nil, nil, err
	}

	docs, closeDocs, err := openCatalogue(settings)
	if err != nil {
		aiResult.Close()
		_ = closeIndex()
		return nil, nil, err
	}

	prompts, err := file.NewPromptStore(filepath.Join(settings.DataDir, "prompts"))
	if err != nil {
		aiResult.Close()
		_ = closeIndex()
		_ = closeDocs()
		return nil, nil, fmt.Errorf("opening prompts: %w", err)
	}

	chat := services.NewChatService(
		index,
		aiResult.EmbeddingService,
		aiResult.LLMService,
		counter,
		services.ChatConfigFromSettings(settings),
	)
	chat.SetDocumentStore(docs)
	chat.SetPromptStore(prompts)

	closer := func() error {
		aiResult.Close()
		if err := closeDocs(); err != nil {
			_ = closeIndex()
			return err
		}
		return closeIndex()
	}
	return chat, closer, nil
}

// openIndex opens the Vector Index Store selected by storage.backend.
func openIndex(ctx context.Context, settings *domain.AppSettings) (driven.IndexStore, func() error, error) {
	switch settings.Storage.Backend {
	case domain.StorageBackendPostgres:
		db, err := postgres.Open(ctx, settings.Storage.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := postgres.NewStore(db, settings.Embedding.Catalogue().Dimensions)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Debug("index backend: postgres")
		return store, db.Close, nil

	case domain.StorageBackendMemory:
		logger.Debug("index backend: memory")
		store := memory.NewIndexStore()
		return store, store.Close, nil

	case domain.StorageBackendFile:
		store, err := filepair.NewStore(settings.Storage.IndexPath, filepair.DefaultCacheSize)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("index backend: file pairs in %s", store.Dir())
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidBackend, settings.Storage.Backend)
	}
}

// openCatalogue opens the document catalogue. The memory backend keeps its
// catalogue in memory too, so nothing outlives the process.
func openCatalogue(settings *domain.AppSettings) (driven.DocumentStore, func() error, error) {
	if settings.Storage.Backend == domain.StorageBackendMemory {
		return memory.NewDocumentStore(), func() error { return nil }, nil
	}
	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalogue: %w", err)
	}
	logger.Debug("catalogue: %s", store.Path())
	return store.DocumentStore(), store.Close, nil
}
