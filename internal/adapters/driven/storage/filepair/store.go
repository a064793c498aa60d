package filepair

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/storage/scan"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// DefaultCacheSize is the number of opened indexes kept in memory.
const DefaultCacheSize = 16

// index is one loaded file pair.
type index struct {
	dims    int
	entries []domain.Entry
}

// Store keeps each document's index as a file pair under dir.
type Store struct {
	dir   string
	mu    sync.RWMutex
	cache *lru.Cache[string, *index]
}

// NewStore creates a store rooted at dir. The directory is created on the
// first write. cacheSize <= 0 selects DefaultCacheSize.
func NewStore(dir string, cacheSize int) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty index directory", domain.ErrInvalidInput)
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *index](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create index cache: %w", err)
	}
	return &Store{dir: dir, cache: cache}, nil
}

// Dir returns the directory holding the file pairs.
func (s *Store) Dir() string {
	return s.dir
}

// BeenIndexed reports whether both files of id exist.
func (s *Store) BeenIndexed(_ context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exists(id)
}

// exists checks both files of id (caller must hold a lock).
func (s *Store) exists(id string) (bool, error) {
	bin, texts, err := s.paths(id)
	if err != nil {
		return false, err
	}
	for _, path := range []string{bin, texts} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// AddAll appends entries and rewrites both files of id.
func (s *Store) AddAll(ctx context.Context, id string, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	indexed, err := s.exists(id)
	if err != nil {
		return err
	}

	current := &index{dims: len(entries[0].Vector)}
	if indexed {
		if cached, ok := s.cache.Get(id); ok {
			current = cached
		} else if current, err = s.load(id); err != nil {
			return err
		}
	}

	next := &index{
		dims:    current.dims,
		entries: make([]domain.Entry, 0, len(current.entries)+len(entries)),
	}
	next.entries = append(next.entries, current.entries...)
	for _, e := range entries {
		next.entries = append(next.entries, domain.Entry{Text: e.Text, Vector: slices.Clone(e.Vector)})
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.write(id, next); err != nil {
		return err
	}
	s.cache.Add(id, next)
	logger.Debug("Wrote %d entries (%d new) for %s", len(next.entries), len(entries), id)
	return nil
}

// GetTexts returns up to limit texts by descending similarity to query.
func (s *Store) GetTexts(_ context.Context, id string, query []float32, limit int) ([]string, error) {
	idx, err := s.open(id)
	if err != nil {
		return nil, err
	}
	return scan.Texts(idx.entries, query, limit)
}

// GetAllEmbeddings returns every entry of id in row order.
func (s *Store) GetAllEmbeddings(_ context.Context, id string) ([]domain.Entry, error) {
	idx, err := s.open(id)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Entry, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = domain.Entry{Text: e.Text, Vector: slices.Clone(e.Vector)}
	}
	return out, nil
}

// Clear deletes both files of id. Missing files are ignored.
func (s *Store) Clear(_ context.Context, id string) error {
	bin, texts, err := s.paths(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(id)
	for _, path := range []string{bin, texts} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// Close drops every cached index.
func (s *Store) Close() error {
	s.cache.Purge()
	return nil
}

// open returns the cached index of id, loading it from disk on a miss.
func (s *Store) open(id string) (*index, error) {
	if idx, ok := s.cache.Get(id); ok {
		return idx, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, err := s.load(id)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, idx)
	return idx, nil
}

// load reads both files of id (caller must hold a lock).
func (s *Store) load(id string) (*index, error) {
	bin, texts, err := s.paths(id)
	if err != nil {
		return nil, err
	}

	if !fileExists(bin) && !fileExists(texts) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotIndexed, id)
	}

	dims, vectors, err := readFile(bin, readVectors)
	if err != nil {
		return nil, err
	}
	_, lines, err := readFile(texts, func(r io.Reader) (int, []string, error) {
		t, err := readTexts(r)
		return 0, t, err
	})
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(lines) {
		return nil, fmt.Errorf("%w: %s has %d vectors and %d texts",
			domain.ErrIndexInconsistent, id, len(vectors), len(lines))
	}

	idx := &index{dims: dims, entries: make([]domain.Entry, len(vectors))}
	for i := range vectors {
		idx.entries[i] = domain.Entry{Text: lines[i], Vector: vectors[i]}
	}
	return idx, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// readFile opens path and decodes it. Once either file of an index exists,
// a missing or undecodable one is an inconsistency.
func readFile[T any](path string, decode func(io.Reader) (int, T, error)) (int, T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, zero, fmt.Errorf("%w: %s is missing", domain.ErrIndexInconsistent, filepath.Base(path))
		}
		return 0, zero, err
	}
	defer f.Close()

	n, v, err := decode(f)
	if err != nil {
		return 0, zero, fmt.Errorf("%w: %s: %v", domain.ErrIndexInconsistent, filepath.Base(path), err)
	}
	return n, v, nil
}

// write replaces both files of id with idx (caller must hold the lock).
func (s *Store) write(id string, idx *index) error {
	bin, texts, err := s.paths(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	binTmp, err := writeTemp(s.dir, func(w io.Writer) error { return writeVectors(w, idx.dims, idx.entries) })
	if err != nil {
		return err
	}
	defer os.Remove(binTmp)
	textsTmp, err := writeTemp(s.dir, func(w io.Writer) error { return writeTexts(w, idx.entries) })
	if err != nil {
		return err
	}
	defer os.Remove(textsTmp)

	if err := os.Rename(textsTmp, texts); err != nil {
		return err
	}
	return os.Rename(binTmp, bin)
}

// writeTemp encodes into a new temp file in dir and returns its path.
func writeTemp(dir string, encode func(io.Writer) error) (string, error) {
	f, err := os.CreateTemp(dir, ".index-*")
	if err != nil {
		return "", err
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (s *Store) paths(id string) (string, string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", "", fmt.Errorf("%w: index id %q", domain.ErrInvalidInput, id)
	}
	base := filepath.Join(s.dir, id)
	return base + ".bin", base + ".csv", nil
}
