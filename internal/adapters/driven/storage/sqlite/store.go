package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/SkywalkerDarren/chatWeb/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/SkywalkerDarren/chatWeb/internal/core/domain"
	"github.com/SkywalkerDarren/chatWeb/internal/core/ports/driven"
)

// DatabaseFile is the catalogue file name inside the data directory.
const DatabaseFile = "chatweb.db"

// Store is the SQLite document catalogue.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the catalogue in dataDir and applies
// pending migrations. If dataDir is empty, defaults to ~/.chatweb.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chatweb")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// migrate runs all pending up migrations in version order, each in its own
// transaction together with its schema_migrations row.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	currentVersion, err := s.SchemaVersion(context.Background())
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_catalogue.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or replaces a document record.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	indexedAt := doc.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, source, language, fragments, tokens, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			language = excluded.language,
			fragments = excluded.fragments,
			tokens = excluded.tokens,
			indexed_at = excluded.indexed_at
	`, doc.ID, doc.Source, doc.Language, doc.Fragments, doc.Tokens, indexedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, source, language, fragments, tokens, indexed_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// DeleteDocument removes a document and its ingestion history.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM ingestions WHERE document_id = ?", id); err != nil {
		return fmt.Errorf("deleting ingestions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return tx.Commit()
}

// ListDocuments returns all documents, most recently indexed first.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, source, language, fragments, tokens, indexed_at
		FROM documents ORDER BY indexed_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// RecordIngestion appends an ingestion attempt.
func (s *documentStore) RecordIngestion(ctx context.Context, ing *domain.Ingestion) error {
	if ing == nil || ing.ID == "" || ing.DocumentID == "" {
		return domain.ErrInvalidInput
	}
	createdAt := ing.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ingestions (id, document_id, tokens, cached, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, ing.ID, ing.DocumentID, ing.Tokens, ing.Cached, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("recording ingestion: %w", err)
	}
	return nil
}

// ListIngestions returns the attempts for a document, newest first.
func (s *documentStore) ListIngestions(ctx context.Context, documentID string) ([]domain.Ingestion, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, tokens, cached, created_at
		FROM ingestions WHERE document_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying ingestions: %w", err)
	}
	defer rows.Close()

	history := []domain.Ingestion{}
	for rows.Next() {
		var ing domain.Ingestion
		if err := rows.Scan(&ing.ID, &ing.DocumentID, &ing.Tokens, &ing.Cached, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning ingestion: %w", err)
		}
		history = append(history, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingestions: %w", err)
	}
	return history, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.Source, &doc.Language, &doc.Fragments, &doc.Tokens, &doc.IndexedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}
