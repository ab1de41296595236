package need

import (
	"context"

	"soknadpdf/internal/innsending/storage"
	"soknadpdf/internal/innsending/supplier"
	"soknadpdf/internal/submission/models"
	"soknadpdf/internal/submission/render"
)

// SubmissionSupplier builds the document model of a submission.
type SubmissionSupplier interface {
	Submission(ctx context.Context, req supplier.Request) (*models.Submission, error)
}

// Renderer renders a Submission in one mode.
type Renderer interface {
	Render(ctx context.Context, sub *models.Submission, mode render.Mode) (string, error)
}

// ReportRenderer renders a reporting period.
type ReportRenderer interface {
	RenderReport(ctx context.Context, periodID string, report []byte) (string, error)
}

// Converter turns rendered markup into a PDF/A file.
type Converter interface {
	Convert(ctx context.Context, document string) ([]byte, error)
}

// DocumentStore stores produced PDFs.
type DocumentStore interface {
	Save(ctx context.Context, submissionID, ident string, docs []storage.Document) ([]storage.Stored, error)
}

// Publisher publishes solved needs back to the bus.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// SkipList names submissions whose needs are logged and dropped.
type SkipList interface {
	Contains(ctx context.Context, submissionID string) (bool, error)
}
