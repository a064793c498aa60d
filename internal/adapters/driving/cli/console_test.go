package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
)

func withLineConsole(t *testing.T) {
	t.Helper()
	prev := consoleTerminal
	consoleTerminal = func(*cobra.Command) bool { return false }
	t.Cleanup(func() { consoleTerminal = prev })
}

func TestConsoleCmd_Alias(t *testing.T) {
	assert.Contains(t, consoleCmd.Aliases, "tui")
}

func TestConsoleCmd_LinesRequireURI(t *testing.T) {
	withLineConsole(t)
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "console")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a document uri")
}

func TestConsoleCmd_Lines(t *testing.T) {
	withLineConsole(t)

	var questions []string
	var summaryLang string
	chat := &mockChatService{}
	chat.AnswerFunc = func(_ context.Context, _, question string) (*domain.Answer, error) {
		questions = append(questions, question)
		return &domain.Answer{Text: "answer to " + question}, nil
	}
	chat.SummarizeFunc = func(_ context.Context, _, lang string) (string, error) {
		summaryLang = lang
		return "the summary", nil
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	input := strings.NewReader("what is it?\n\n/summary\n/help\n/QUIT\nnever asked\n")
	out, err := executeCommandWithInput(t, input, "console", "doc-1/en")

	require.NoError(t, err)
	assert.Equal(t, []string{"what is it?"}, questions)
	assert.Equal(t, "en", summaryLang)
	assert.Contains(t, out, "Chatting about doc-1/en.")
	assert.Contains(t, out, "answer to what is it?")
	assert.Contains(t, out, "the summary")
	assert.Contains(t, out, "Commands: /summary")
}

func TestConsoleCmd_LinesEOF(t *testing.T) {
	withLineConsole(t)
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommandWithInput(t, strings.NewReader("/reset\n"), "console", "doc-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Chatting about doc-1/English.")
	assert.Contains(t, out, "Transcript cleared.")
}

func TestConsoleCmd_LinesContinueAfterError(t *testing.T) {
	withLineConsole(t)

	calls := 0
	chat := &mockChatService{}
	chat.AnswerFunc = func(context.Context, string, string) (*domain.Answer, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("rate limited")
		}
		return &domain.Answer{Text: "fine now"}, nil
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	out, err := executeCommandWithInput(t, strings.NewReader("one\ntwo\n"), "console", "doc-1/en")

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, out, "Error: rate limited")
	assert.Contains(t, out, "fine now")
}

func TestConsoleCmd_LinesNotIndexed(t *testing.T) {
	withLineConsole(t)

	chat := &mockChatService{}
	chat.AnswerFunc = func(context.Context, string, string) (*domain.Answer, error) {
		return nil, domain.ErrNotIndexed
	}
	cleanup := setupServices(chat, newMockSettingsService())
	defer cleanup()

	_, err := executeCommandWithInput(t, strings.NewReader("hello\n"), "console", "gone/en")

	assert.ErrorIs(t, err, domain.ErrNotIndexed)
}
