package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

var (
	askJSON       bool
	documentsJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [uri] [question...]",
	Short: "Ask a question about an indexed document",
	Long: `Answer a question from the fragments of one document. The uri is the
handle printed by ingest ("id/lang"); the id alone also works.

Without a configured language model, the most relevant fragments are
printed instead of an answer.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

var summaryCmd = &cobra.Command{
	Use:   "summary [uri]",
	Short: "Summarise an indexed document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

var clearCmd = &cobra.Command{
	Use:   "clear [uri]",
	Short: "Remove the index of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runClear,
}

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"ls"},
	Short:   "List ingested documents",
	Args:    cobra.NoArgs,
	RunE:    runDocuments,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answer as JSON")
	documentsCmd.Flags().BoolVar(&documentsJSON, "json", false, "output documents as JSON")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, err := getChatService()
	if err != nil {
		return err
	}

	id, _, err := domain.ParseURI(args[0])
	if err != nil {
		return err
	}
	question := strings.TrimSpace(strings.Join(args[1:], " "))
	if question == "" {
		return fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	answer, err := svc.Answer(cmd.Context(), id, question)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, answer)
	}
	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	if answer.Text == "" {
		cmd.Println("No language model configured. Most relevant fragments:")
		cmd.Println()
		for i, fragment := range answer.Context {
			cmd.Printf("  [%d] %s\n", i+1, fragment)
		}
		return
	}

	cmd.Println(answer.Text)
	if answer.Keywords != "" {
		cmd.Println()
		cmd.Printf("Keywords: %s\n", answer.Keywords)
	}
}

func runSummary(cmd *cobra.Command, args []string) error {
	svc, err := getChatService()
	if err != nil {
		return err
	}

	id, lang, err := domain.ParseURI(args[0])
	if err != nil {
		return err
	}

	summary, err := svc.Summarize(cmd.Context(), id, documentLanguage(lang))
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}

	cmd.Println(summary)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	svc, err := getChatService()
	if err != nil {
		return err
	}

	id, _, err := domain.ParseURI(args[0])
	if err != nil {
		return err
	}

	if err := svc.Clear(cmd.Context(), id); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	cmd.Printf("Cleared %s\n", id)
	return nil
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	svc, err := getChatService()
	if err != nil {
		return err
	}

	docs, err := svc.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentsJSON {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].URI())
		cmd.Printf("    Source:    %s\n", docs[i].Source)
		cmd.Printf("    Fragments: %d (%d tokens)\n", docs[i].Fragments, docs[i].Tokens)
		cmd.Printf("    Indexed:   %s\n", docs[i].IndexedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}
