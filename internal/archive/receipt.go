// Package archive records which documents were produced and stored for each
// solved need, so redelivered needs and support requests can be traced to the
// stored URNs.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Receipt records one stored document.
type Receipt struct {
	SubmissionID uuid.UUID
	Need         string
	Variant      string
	Filename     string
	URN          string
	ArchivedAt   time.Time
}

// Store persists receipts. Appending a receipt for an existing
// (submission, need, variant) replaces it, so a redelivered need leaves one
// receipt per document.
type Store interface {
	Append(ctx context.Context, receipts ...Receipt) error
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]Receipt, error)
}
