package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 500 * time.Millisecond

var watchLang string

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-ingest a text file whenever it changes",
	Long: `Ingest a text file, then watch it and ingest again after every save.
Each change produces a new document handle; unchanged content is not
embedded again. Press Ctrl+C to stop watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchLang, "lang", "l", "", "document language (default: configured language)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := getChatService()
	if err != nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file does not exist: %s", args[0])
	}

	// Watch the directory so editors that save by rename keep being seen.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lang := documentLanguage(watchLang)
	reingest := func() {
		if err := watchIngest(ctx, cmd, svc, path, lang); err != nil {
			logger.Warn("re-ingest %s: %v", path, err)
		}
	}

	reingest()
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", path)

	return watchLoop(ctx, watcher, path, reingest)
}

// watchLoop calls onChange once per debounced burst of events on path.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, onChange func()) error {
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Debug("watch: %s", event)
				timer.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)

		case <-timer.C:
			onChange()
		}
	}
}

func watchIngest(ctx context.Context, cmd *cobra.Command, svc driving.ChatService, path, lang string) error {
	fragments, err := readFragmentsFile(cmd, path)
	if err != nil {
		return err
	}

	result, err := svc.Ingest(ctx, domain.IngestRequest{
		Fragments: fragments,
		Source:    path,
		Language:  lang,
	})
	if err != nil {
		return err
	}

	cmd.Printf("[%s] ", time.Now().Format("15:04:05"))
	printIngestResult(cmd, result)
	return nil
}
