package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// fragmentsPlaceholder must appear in every prompt; it receives the numbered
// fragments (answer, summary) or the question (keywords).
const fragmentsPlaceholder = "%[1]s"

// PromptStore loads generation prompts from user-editable files on disk,
// falling back to the built-in templates.
//
// Files are only created on the first Load, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.chatweb/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".chatweb", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for name. A file that is missing or lacks
// the %[1]s placeholder yields the built-in template.
func (s *PromptStore) Load(name string) (string, error) {
	builtin, known := domain.DefaultPrompt(name)
	if !known {
		return "", fmt.Errorf("%w: prompt %q", domain.ErrNotFound, name)
	}

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return builtin, nil
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	switch {
	case err != nil:
		prompt = builtin
	case !strings.Contains(prompt, fragmentsPlaceholder):
		logger.Warn("Prompt %s.txt has no %s placeholder, using built-in prompt", name, fragmentsPlaceholder)
		prompt = builtin
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory, default files and README.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		logger.Warn("Using built-in prompts: %v", s.initErr)
		return
	}

	for _, name := range domain.PromptNames() {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}
		content, _ := domain.DefaultPrompt(name)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	content := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(content, "\r"), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# chatweb prompts

These files hold the prompts sent to the chat model.

## Files

- ` + "`answer.txt`" + ` - system prompt for answering a question from retrieved fragments
- ` + "`summary.txt`" + ` - prompt for summarising a document from its most central fragments
- ` + "`keywords.txt`" + ` - prompt for turning a question into search keywords

## Placeholders

- ` + "`%[1]s`" + ` - the numbered fragments ("0. first", "1. second", ...), or the
  question in keywords.txt. Required; a file without it is ignored.
- ` + "`%[2]s`" + ` - the answer language (answer.txt and summary.txt only)

Edits take effect on the next command, or after /reset in the console.
`
	return os.WriteFile(path, []byte(content), 0600)
}
