// Package sqlitevec implements the evidence store on SQLite with the
// sqlite-vec extension for nearest-neighbour search.
package sqlitevec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/verifact-labs/verifact-cli/internal/core/domain"
	"github.com/verifact-labs/verifact-cli/internal/core/ports/driven"
)

func init() {
	sqlite_vec.Auto()
}

// Ensure Store implements the interface.
var _ driven.EvidenceStore = (*Store)(nil)

// DefaultDimensions matches text-embedding-3-small.
const DefaultDimensions = 1536

// Store persists documents, chunks, and embeddings in a single SQLite
// database. All writes happen inside transactions so readers only ever see
// complete documents.
type Store struct {
	db *sql.DB
}

const schemaTemplate = `
PRAGMA journal_mode=WAL;
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS documents (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    name         TEXT NOT NULL UNIQUE,
    file_type    TEXT NOT NULL DEFAULT '',
    content_hash TEXT NOT NULL,
    source_url   TEXT,
    ingested_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chunks (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    document_id  INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    chunk_id     TEXT NOT NULL,
    position     INTEGER NOT NULL,
    start_offset INTEGER NOT NULL,
    end_offset   INTEGER NOT NULL,
    content      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id);

CREATE VIRTUAL TABLE IF NOT EXISTS vec_chunks USING vec0(
    chunk_id INTEGER PRIMARY KEY,
    embedding float[%d]
);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Open creates or opens the database at path and initializes the schema.
// dimensions fixes the width of the vector index; pass 0 for the default.
func Open(path string, dimensions int) (*Store, error) {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf(schemaTemplate, dimensions)); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) GetDocumentHash(ctx context.Context, name string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, "SELECT content_hash FROM documents WHERE name = ?", name).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}

// ReplaceDocument stores the document and its chunks in one transaction,
// discarding any chunks a previous ingestion left behind. Concurrent readers
// see either the old document or the new one, never a mix.
func (s *Store) ReplaceDocument(ctx context.Context, doc domain.Document, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	docID, err := upsertDocument(ctx, tx, doc)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO chunks (document_id, chunk_id, position, start_offset, end_offset, content) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	vecStmt, err := tx.PrepareContext(ctx, "INSERT INTO vec_chunks (chunk_id, embedding) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer vecStmt.Close()

	for _, c := range chunks {
		res, err := stmt.ExecContext(ctx, docID, c.ID, c.Index, c.StartOffset, c.EndOffset, c.Content)
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.Index, err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		blob, err := sqlite_vec.SerializeFloat32(c.Embedding)
		if err != nil {
			return fmt.Errorf("serialize embedding for chunk %d: %w", c.Index, err)
		}
		if _, err := vecStmt.ExecContext(ctx, rowID, blob); err != nil {
			return fmt.Errorf("insert embedding for chunk %d: %w", c.Index, err)
		}
	}

	return tx.Commit()
}

// upsertDocument updates or inserts the document record and removes any
// chunks and embeddings from a previous ingestion of the same name.
func upsertDocument(ctx context.Context, tx *sql.Tx, doc domain.Document) (int64, error) {
	ingestedAt := doc.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now().UTC()
	}

	var existingID int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM documents WHERE name = ?", doc.Name).Scan(&existingID)
	switch {
	case err == nil:
		if err := deleteChunks(ctx, tx, existingID); err != nil {
			return 0, err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE documents SET file_type = ?, content_hash = ?, source_url = ?, ingested_at = ? WHERE id = ?",
			doc.FileType, doc.ContentHash, doc.SourceURL, ingestedAt, existingID,
		)
		return existingID, err
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx,
			"INSERT INTO documents (name, file_type, content_hash, source_url, ingested_at) VALUES (?, ?, ?, ?, ?)",
			doc.Name, doc.FileType, doc.ContentHash, doc.SourceURL, ingestedAt,
		)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	default:
		return 0, err
	}
}

// deleteChunks removes a document's chunks and their vector rows. The vec0
// virtual table does not participate in foreign key cascades, so its rows
// are deleted explicitly.
func deleteChunks(ctx context.Context, tx *sql.Tx, docID int64) (err error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM chunks WHERE document_id = ?", docID)
	if err != nil {
		return err
	}
	var rowIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		rowIDs = append(rowIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range rowIDs {
		if _, err := tx.ExecContext(ctx, "DELETE FROM vec_chunks WHERE chunk_id = ?", id); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", docID)
	return err
}

func (s *Store) DeleteByDocument(ctx context.Context, name string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var docID int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM documents WHERE name = ?", name).Scan(&docID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: document %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return 0, err
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks WHERE document_id = ?", docID).Scan(&count); err != nil {
		return 0, err
	}

	if err := deleteChunks(ctx, tx, docID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", docID); err != nil {
		return 0, err
	}
	return count, tx.Commit()
}

// Query returns the k chunks nearest to the embedding, closest first, with
// insertion order breaking distance ties.
func (s *Store) Query(ctx context.Context, embedding []float32, k int) ([]driven.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	blob, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return nil, fmt.Errorf("serialize query embedding: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT v.distance, c.chunk_id, c.position, c.start_offset, c.end_offset, c.content,
		       d.name, d.file_type, d.content_hash, d.source_url, d.ingested_at
		FROM vec_chunks v
		JOIN chunks c ON c.id = v.chunk_id
		JOIN documents d ON d.id = c.document_id
		WHERE v.embedding MATCH ? AND v.k = ?
		ORDER BY v.distance, c.id
	`, blob, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []driven.ScoredChunk
	for rows.Next() {
		var (
			sc        driven.ScoredChunk
			sourceURL sql.NullString
		)
		err := rows.Scan(
			&sc.Distance,
			&sc.Chunk.ID, &sc.Chunk.Index, &sc.Chunk.StartOffset, &sc.Chunk.EndOffset, &sc.Chunk.Content,
			&sc.Document.Name, &sc.Document.FileType, &sc.Document.ContentHash, &sourceURL, &sc.Document.IngestedAt,
		)
		if err != nil {
			return nil, err
		}
		if sourceURL.Valid {
			sc.Document.SourceURL = &sourceURL.String
		}
		sc.Chunk.DocumentName = sc.Document.Name
		results = append(results, sc)
	}
	return results, rows.Err()
}

func (s *Store) Stats(ctx context.Context) (domain.StoreStats, error) {
	var stats domain.StoreStats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&stats.DocumentCount); err != nil {
		return domain.StoreStats{}, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&stats.ChunkCount); err != nil {
		return domain.StoreStats{}, err
	}
	return stats, nil
}

func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM vec_chunks"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM meta"); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
