// Package postgres implements driven.IndexStore on a shared pgvector table.
//
// Every document lives in one table keyed by document_id; the serial id
// column is the row id, so insertion order is preserved per document.
// Similarity search uses pgvector's cosine distance operator.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
	"github.com/SkywalkerDarren/chatWeb/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// undefinedTable is the SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// Store is a pgvector-backed index store.
type Store struct {
	db   *sqlx.DB
	dims int
}

// Open connects to url with the lib/pq driver.
func Open(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// NewStore creates a store over a shared connection pool. dims is the
// vector width of the embedding column. The caller owns db.
func NewStore(db *sqlx.DB, dims int) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: nil database", domain.ErrInvalidInput)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("%w: vector dimensions must be positive, got %d", domain.ErrInvalidInput, dims)
	}
	return &Store{db: db, dims: dims}, nil
}

// EnsureSchema creates the vector extension, the embedding table and its
// document index if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS embedding (
			id SERIAL PRIMARY KEY,
			document_id TEXT NOT NULL,
			text TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, s.dims),
		`CREATE INDEX IF NOT EXISTS embedding_document_id_idx ON embedding (document_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// BeenIndexed reports whether any row exists for id. A missing table means
// nothing has been indexed yet.
func (s *Store) BeenIndexed(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM embedding WHERE document_id = $1)`, id)
	if err != nil {
		if isUndefinedTable(err) {
			return false, nil
		}
		return false, fmt.Errorf("check index %s: %w", id, err)
	}
	return exists, nil
}

// AddAll inserts entries in one transaction.
func (s *Store) AddAll(ctx context.Context, id string, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	for i, e := range entries {
		if len(e.Vector) != s.dims {
			return fmt.Errorf("%w: entry %d has %d dimensions, column has %d",
				domain.ErrEmbeddingMismatch, i, len(e.Vector), s.dims)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO embedding (document_id, text, embedding) VALUES ($1, $2, $3::vector)`,
			id, e.Text, formatVector(e.Vector)); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logger.Debug("Inserted %d rows for %s", len(entries), id)
	return nil
}

// GetTexts returns up to limit texts ordered by cosine distance to query.
func (s *Store) GetTexts(ctx context.Context, id string, query []float32, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	var texts []string
	err := s.db.SelectContext(ctx, &texts,
		`SELECT text FROM embedding WHERE document_id = $1 ORDER BY embedding <=> $2::vector, id LIMIT $3`,
		id, formatVector(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", id, err)
	}
	return texts, nil
}

type embeddingRow struct {
	Text      string `db:"text"`
	Embedding string `db:"embedding"`
}

// GetAllEmbeddings returns every entry of id in row id order.
func (s *Store) GetAllEmbeddings(ctx context.Context, id string) ([]domain.Entry, error) {
	var rows []embeddingRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT text, embedding::text AS embedding FROM embedding WHERE document_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}

	entries := make([]domain.Entry, len(rows))
	for i, row := range rows {
		vec, err := parseVector(row.Embedding)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", domain.ErrIndexInconsistent, id, i, err)
		}
		entries[i] = domain.Entry{Text: row.Text, Vector: vec}
	}
	return entries, nil
}

// Clear deletes every row of id.
func (s *Store) Clear(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM embedding WHERE document_id = $1`, id); err != nil {
		if isUndefinedTable(err) {
			return nil
		}
		return fmt.Errorf("clear %s: %w", id, err)
	}
	return nil
}

// Close is a no-op; the shared pool is closed by its owner.
func (s *Store) Close() error {
	return nil
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == undefinedTable
}

// formatVector renders v in pgvector's text form, e.g. "[1,0.5,-2]".
func formatVector(v []float32) string {
	var b strings.Builder
	b.Grow(len(v) * 8)
	b.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// parseVector reads pgvector's text form.
func parseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("malformed vector %q", s)
	}
	body := s[1 : len(s)-1]
	if body == "" {
		return []float32{}, nil
	}
	parts := strings.Split(body, ",")
	v := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}
