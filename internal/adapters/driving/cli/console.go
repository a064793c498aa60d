package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driving/tui"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driving"
)

// consoleTerminal reports whether the console can run the full-screen UI.
// Replaced in tests.
var consoleTerminal = func(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var consoleCmd = &cobra.Command{
	Use:     "console [uri]",
	Aliases: []string{"tui"},
	Short:   "Chat with documents interactively",
	Long: `Open an interactive conversation about an ingested document.

In a terminal this launches the full-screen console, starting at the
document list (or at the given document). When input is not a terminal,
questions are read line by line and a document uri is required.

Commands inside the conversation:
  /summary   summarise the document
  /reset     clear the transcript
  /help      list commands
  /quit      exit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	svc, err := getChatService()
	if err != nil {
		return err
	}

	var id, lang string
	if len(args) == 1 {
		id, lang, err = domain.ParseURI(args[0])
		if err != nil {
			return err
		}
		lang = documentLanguage(lang)
	}

	if consoleTerminal(cmd) {
		return runConsoleUI(cmd, svc, id, lang)
	}
	if id == "" {
		return errors.New("console without a terminal needs a document uri")
	}
	return runConsoleLines(cmd, svc, id, lang)
}

func runConsoleUI(cmd *cobra.Command, svc driving.ChatService, id, lang string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("console panic: %v", r)
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(svc))
	if err != nil {
		return fmt.Errorf("failed to create console: %w", err)
	}
	app.WithContext(cmd.Context())
	if id != "" {
		app.WithDocument(id, lang)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}

// runConsoleLines answers one question per input line until EOF or /quit.
func runConsoleLines(cmd *cobra.Command, svc driving.ChatService, id, lang string) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	cmd.Printf("Chatting about %s. Type /help for commands.\n", domain.FormatURI(id, lang))
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/help":
			cmd.Println("Commands: /summary, /reset, /help, /quit. Anything else is a question.")
			continue
		case "/reset":
			cmd.Println("Transcript cleared.")
			continue
		case "/summary":
			summary, err := svc.Summarize(cmd.Context(), id, lang)
			if err != nil {
				cmd.Printf("Error: %v\n", err)
				continue
			}
			cmd.Println(summary)
			continue
		}

		answer, err := svc.Answer(cmd.Context(), id, line)
		if err != nil {
			if errors.Is(err, domain.ErrNotIndexed) {
				return fmt.Errorf("answer failed: %w", err)
			}
			cmd.Printf("Error: %v\n", err)
			continue
		}
		printAnswer(cmd, answer)
	}
}
