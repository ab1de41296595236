package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"soknadpdf/internal/archive"
)

//go:embed schema.sql
var schema string

// Store implements archive.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL receipt store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the receipt table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate archive receipts: %w", err)
	}
	return nil
}

// Append upserts receipts in one statement. Receipts of one call share a
// submission and need in practice, but the statement does not depend on it.
func (s *Store) Append(ctx context.Context, receipts ...archive.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	var (
		submissionIDs = make([]string, len(receipts))
		needs         = make([]string, len(receipts))
		variants      = make([]string, len(receipts))
		filenames     = make([]string, len(receipts))
		urns          = make([]string, len(receipts))
		archivedAt    = make([]string, len(receipts))
	)
	for i, r := range receipts {
		submissionIDs[i] = r.SubmissionID.String()
		needs[i] = r.Need
		variants[i] = r.Variant
		filenames[i] = r.Filename
		urns[i] = r.URN
		archivedAt[i] = r.ArchivedAt.UTC().Format("2006-01-02T15:04:05.999999Z07:00")
	}

	query := `
		INSERT INTO archive_receipts (submission_id, need, variant, filename, urn, archived_at)
		SELECT * FROM unnest($1::uuid[], $2::text[], $3::text[], $4::text[], $5::text[], $6::timestamptz[])
		ON CONFLICT (submission_id, need, variant) DO UPDATE SET
			filename = EXCLUDED.filename,
			urn = EXCLUDED.urn,
			archived_at = EXCLUDED.archived_at
	`
	_, err := s.db.ExecContext(ctx, query,
		pq.Array(submissionIDs),
		pq.Array(needs),
		pq.Array(variants),
		pq.Array(filenames),
		pq.Array(urns),
		pq.Array(archivedAt),
	)
	if err != nil {
		return fmt.Errorf("insert archive receipts: %w", err)
	}
	return nil
}

// ListBySubmission returns receipts ordered by archive time, then variant.
func (s *Store) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]archive.Receipt, error) {
	query := `
		SELECT submission_id, need, variant, filename, urn, archived_at
		FROM archive_receipts
		WHERE submission_id = $1
		ORDER BY archived_at, variant
	`
	rows, err := s.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("query archive receipts: %w", err)
	}
	defer rows.Close()

	var receipts []archive.Receipt
	for rows.Next() {
		var r archive.Receipt
		if err := rows.Scan(&r.SubmissionID, &r.Need, &r.Variant, &r.Filename, &r.URN, &r.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scan archive receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archive receipts: %w", err)
	}
	return receipts, nil
}
