package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/taxa-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/taxa-cli/internal/core/domain"
	"github.com/custodia-labs/taxa-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the result store and classification cache through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified file path.
// If path is empty, defaults to ~/.taxa/data/taxa.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".taxa", "data", "taxa.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	// Run migrations
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

// ResultStore returns a ResultStore interface backed by this store.
func (s *Store) ResultStore() driven.ResultStore {
	return &resultStore{store: s}
}

// ClassificationCache returns a ClassificationCache interface backed by this store.
func (s *Store) ClassificationCache() driven.ClassificationCache {
	return &cacheStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Result Store ====================

// resultStore implements driven.ResultStore.
type resultStore struct {
	store *Store
}

var _ driven.ResultStore = (*resultStore)(nil)

// SaveDocument stores or updates a document and its sections.
func (s *resultStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	stageLogJSON, err := json.Marshal(doc.StageLog)
	if err != nil {
		return fmt.Errorf("marshalling stage log: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, uri, mime_type, raw, status, metadata, stage_log, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uri = excluded.uri,
			mime_type = excluded.mime_type,
			raw = excluded.raw,
			status = excluded.status,
			metadata = excluded.metadata,
			stage_log = excluded.stage_log,
			updated_at = excluded.updated_at
	`, doc.ID, doc.URI, doc.MIMEType, doc.Raw, doc.Status.String(),
		string(metadataJSON), string(stageLogJSON), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	// Replace the section rows wholesale; a rerun may produce fewer.
	if _, err := tx.ExecContext(ctx, "DELETE FROM sections WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing sections: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sections (document_id, position, kind, content, classification)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, section := range doc.Sections {
		var classificationJSON sql.NullString
		if section.Classification != nil {
			data, err := json.Marshal(section.Classification)
			if err != nil {
				return fmt.Errorf("marshalling classification: %w", err)
			}
			classificationJSON = sql.NullString{String: string(data), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, doc.ID, section.Position,
			section.Kind.String(), section.Text, classificationJSON); err != nil {
			return fmt.Errorf("saving section: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID, including raw content.
func (s *resultStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, uri, mime_type, raw, status, metadata, stage_log, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	sections, err := s.loadSections(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Sections = sections

	return doc, nil
}

// ListDocuments returns all stored documents, newest first.
// Raw content is not loaded.
func (s *resultStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, uri, mime_type, status, metadata, stage_log, created_at, updated_at
		FROM documents
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	for i := range docs {
		sections, err := s.loadSections(ctx, docs[i].ID)
		if err != nil {
			return nil, err
		}
		docs[i].Sections = sections
	}

	return docs, nil
}

// DeleteDocument removes a document and its sections.
func (s *resultStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// loadSections retrieves a document's sections in source order.
func (s *resultStore) loadSections(ctx context.Context, documentID string) ([]domain.Section, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT position, kind, content, classification
		FROM sections WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.Section //nolint:prealloc // size unknown from query
	for rows.Next() {
		var section domain.Section
		var kind string
		var classificationJSON sql.NullString
		if err := rows.Scan(&section.Position, &kind, &section.Text, &classificationJSON); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		section.Kind = domain.SectionKind(kind)

		if classificationJSON.Valid {
			var result domain.ClassificationResult
			if err := json.Unmarshal([]byte(classificationJSON.String), &result); err != nil {
				return nil, fmt.Errorf("unmarshalling classification: %w", err)
			}
			section.Classification = &result
		}

		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}

	return sections, nil
}

// ==================== Classification Cache ====================

// cacheStore implements driven.ClassificationCache.
type cacheStore struct {
	store *Store
}

var _ driven.ClassificationCache = (*cacheStore)(nil)

// Get returns the cached result for a key, or (nil, nil) on a miss.
func (c *cacheStore) Get(ctx context.Context, key string) (*domain.ClassificationResult, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT label, confidence, raw, source
		FROM classification_cache WHERE key = ?
	`, key)

	var result domain.ClassificationResult
	var confidence sql.NullFloat64
	var source string
	if err := row.Scan(&result.Label, &confidence, &result.Raw, &source); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning cache entry: %w", err)
	}

	if confidence.Valid {
		result.Confidence = &confidence.Float64
	}
	result.Source = domain.ResultSource(source)

	return &result, nil
}

// Set stores a result under a key, overwriting any existing entry.
func (c *cacheStore) Set(ctx context.Context, key string, result domain.ClassificationResult) error {
	var confidence sql.NullFloat64
	if result.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *result.Confidence, Valid: true}
	}

	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO classification_cache (key, label, confidence, raw, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			label = excluded.label,
			confidence = excluded.confidence,
			raw = excluded.raw,
			source = excluded.source,
			created_at = excluded.created_at
	`, key, result.Label, confidence, result.Raw, result.Source.String(), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving cache entry: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *cacheStore) Len(ctx context.Context) (int, error) {
	var count int
	err := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM classification_cache").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return count, nil
}

// Clear removes all cached entries.
func (c *cacheStore) Clear(ctx context.Context) error {
	_, err := c.store.db.ExecContext(ctx, "DELETE FROM classification_cache")
	if err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanDocument scans a single document row including raw content.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var status, metadataJSON, stageLogJSON string

	if err := row.Scan(&doc.ID, &doc.URI, &doc.MIMEType, &doc.Raw, &status,
		&metadataJSON, &stageLogJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	if err := unmarshalDocumentJSON(&doc, metadataJSON, stageLogJSON); err != nil {
		return nil, err
	}

	return &doc, nil
}

// scanDocumentRows scans a document from *sql.Rows, without raw content.
func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var status, metadataJSON, stageLogJSON string

	if err := rows.Scan(&doc.ID, &doc.URI, &doc.MIMEType, &status,
		&metadataJSON, &stageLogJSON, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	if err := unmarshalDocumentJSON(&doc, metadataJSON, stageLogJSON); err != nil {
		return nil, err
	}

	return &doc, nil
}

// unmarshalDocumentJSON decodes the JSON columns shared by both scan paths.
func unmarshalDocumentJSON(doc *domain.Document, metadataJSON, stageLogJSON string) error {
	if metadataJSON != "" && metadataJSON != "null" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return fmt.Errorf("unmarshalling metadata: %w", err)
		}
	}
	if stageLogJSON != "" && stageLogJSON != "null" {
		if err := json.Unmarshal([]byte(stageLogJSON), &doc.StageLog); err != nil {
			return fmt.Errorf("unmarshalling stage log: %w", err)
		}
	}
	return nil
}
