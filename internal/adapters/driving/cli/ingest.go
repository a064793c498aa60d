package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
)

// maxLineSize bounds a single fragment read from a text file.
const maxLineSize = 1 << 20

var (
	ingestLang   string
	ingestSource string
	ingestJSON   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Index a text file",
	Long: `Split a text file into fragments (one per non-empty line), embed them
and store the index. Use "-" to read from stdin.

Ingesting content that is already indexed costs nothing and returns the
existing handle.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd, args[0], false)
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex [file]",
	Short: "Drop and rebuild the index of a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd, args[0], true)
	},
}

func init() {
	for _, c := range []*cobra.Command{ingestCmd, reindexCmd} {
		c.Flags().StringVarP(&ingestLang, "lang", "l", "", "document language (default: configured language)")
		c.Flags().StringVar(&ingestSource, "source", "", "source label recorded in the catalogue (default: file path)")
		c.Flags().BoolVar(&ingestJSON, "json", false, "output result as JSON")
		rootCmd.AddCommand(c)
	}
}

func runIngest(cmd *cobra.Command, path string, rebuild bool) error {
	svc, err := getChatService()
	if err != nil {
		return err
	}

	fragments, err := readFragmentsFile(cmd, path)
	if err != nil {
		return err
	}

	source := ingestSource
	if source == "" {
		source = path
		if path == "-" {
			source = "stdin"
		}
	}

	req := domain.IngestRequest{
		Fragments: fragments,
		Source:    source,
		Language:  documentLanguage(ingestLang),
	}

	result, err := ingestWith(cmd, svc, req, rebuild)
	if err != nil {
		return err
	}

	if ingestJSON {
		return printJSON(cmd, result)
	}
	printIngestResult(cmd, result)
	return nil
}

func ingestWith(cmd *cobra.Command, svc driving.ChatService, req domain.IngestRequest, rebuild bool) (*domain.IngestResult, error) {
	if rebuild {
		result, err := svc.Reindex(cmd.Context(), req)
		if err != nil {
			return nil, fmt.Errorf("reindex failed: %w", err)
		}
		return result, nil
	}
	result, err := svc.Ingest(cmd.Context(), req)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	return result, nil
}

func printIngestResult(cmd *cobra.Command, result *domain.IngestResult) {
	if result.Cached {
		cmd.Printf("Already indexed: %s\n", result.URI)
		return
	}
	cmd.Printf("Indexed: %s\n", result.URI)
	cmd.Printf("  Fragments: %d\n", result.Fragments)
	cmd.Printf("  Tokens:    %d\n", result.Tokens)
	if cost, ok := embeddingCost(result.Tokens); ok {
		cmd.Printf("  Cost:      $%.6f\n", cost)
	}
}

// embeddingCost prices tokens with the configured embedding model.
func embeddingCost(tokens int) (float64, bool) {
	if settingsService == nil {
		return 0, false
	}
	settings, err := settingsService.Get()
	if err != nil {
		return 0, false
	}
	return settings.Embedding.Catalogue().Cost(tokens), true
}

// documentLanguage returns lang, or the configured language when it is empty.
func documentLanguage(lang string) string {
	if lang = strings.TrimSpace(lang); lang != "" {
		return lang
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Language != "" {
			return settings.Language
		}
	}
	return domain.DefaultAppSettings().Language
}

func readFragmentsFile(cmd *cobra.Command, path string) ([]string, error) {
	if path == "-" {
		return readFragments(cmd.InOrStdin())
	}

	// #nosec G304 - the path is the user's own argument
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fragments, err := readFragments(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return fragments, nil
}

// readFragments splits text into fragments: one per non-empty trimmed line.
func readFragments(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var fragments []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			fragments = append(fragments, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: no text to index", domain.ErrInvalidInput)
	}
	return fragments, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
