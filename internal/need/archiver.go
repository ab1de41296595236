package need

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"soknadpdf/internal/archive"
	"soknadpdf/internal/innsending/storage"
	"soknadpdf/internal/platform/metrics"
	"soknadpdf/internal/submission/docerr"
	"soknadpdf/pkg/platform/sentinel"
)

// Archiver converts rendered documents, stores them, records receipts and
// publishes the solution. Both solvers share it.
type Archiver struct {
	converter    Converter
	documents    DocumentStore
	receipts     archive.Store
	publisher    Publisher
	skip         SkipList
	metrics      *metrics.Metrics
	logger       *slog.Logger
	secureLogger *slog.Logger
	clock        func() time.Time
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithLogger sets the application logger. It never receives personal data.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archiver) {
		a.logger = logger
	}
}

// WithSecureLogger sets the logger for idents and payloads.
func WithSecureLogger(logger *slog.Logger) Option {
	return func(a *Archiver) {
		a.secureLogger = logger
	}
}

// WithMetrics sets the metrics the solvers record to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Archiver) {
		a.metrics = m
	}
}

// WithSkipList sets the skip list consulted before solving.
func WithSkipList(skip SkipList) Option {
	return func(a *Archiver) {
		a.skip = skip
	}
}

// WithClock sets the clock used for receipt timestamps.
func WithClock(clock func() time.Time) Option {
	return func(a *Archiver) {
		a.clock = clock
	}
}

type noSkips struct{}

func (noSkips) Contains(context.Context, string) (bool, error) { return false, nil }

// NewArchiver creates an Archiver.
func NewArchiver(converter Converter, documents DocumentStore, receipts archive.Store, publisher Publisher, opts ...Option) (*Archiver, error) {
	if converter == nil {
		return nil, fmt.Errorf("converter is required")
	}
	if documents == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if receipts == nil {
		return nil, fmt.Errorf("receipt store is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	a := &Archiver{
		converter:    converter,
		documents:    documents,
		receipts:     receipts,
		publisher:    publisher,
		skip:         noSkips{},
		metrics:      metrics.New(prometheus.NewRegistry()),
		logger:       slog.New(slog.DiscardHandler),
		secureLogger: slog.New(slog.DiscardHandler),
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

type metainfo struct {
	Innhold string `json:"innhold"`
	Filtype string `json:"filtype"`
	Variant string `json:"variant"`
}

type storedDocument struct {
	Metainfo metainfo `json:"metainfo"`
	URN      string   `json:"urn"`
}

// skipped reports whether the submission is on the skip list.
func (a *Archiver) skipped(ctx context.Context, need, submissionID string) (bool, error) {
	skip, err := a.skip.Contains(ctx, submissionID)
	if err != nil {
		return false, fmt.Errorf("check skip list: %w", err)
	}
	if skip {
		a.metrics.IncrementSkipped(need)
		a.logger.InfoContext(ctx, "submission is on the skip list, need is logged and skipped",
			"need", need,
			"submission_id", submissionID,
		)
	}
	return skip, nil
}

// rendered is markup of one variant waiting for conversion.
type rendered struct {
	variant storage.Variant
	markup  string
}

// archive converts the rendered variants, stores them under key and records
// receipts under receiptID.
func (a *Archiver) archive(ctx context.Context, need, key string, receiptID uuid.UUID, ident string, variants ...rendered) ([]storage.Stored, error) {
	docs := make([]storage.Document, 0, len(variants))
	for _, d := range variants {
		start := time.Now()
		pdf, err := a.converter.Convert(ctx, d.markup)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", d.variant, err)
		}
		a.metrics.ObserveConvert(time.Since(start))
		a.metrics.ObserveDocument(string(d.variant), len(pdf))
		docs = append(docs, storage.Document{Variant: d.variant, Content: pdf})
	}

	stored, err := a.documents.Save(ctx, key, ident, docs)
	if err != nil {
		return nil, err
	}

	now := a.clock()
	receipts := make([]archive.Receipt, 0, len(stored))
	for _, s := range stored {
		receipts = append(receipts, archive.Receipt{
			SubmissionID: receiptID,
			Need:         need,
			Variant:      string(s.Variant),
			Filename:     s.Filename,
			URN:          s.URN,
			ArchivedAt:   now,
		})
	}
	if err := a.receipts.Append(ctx, receipts...); err != nil {
		return nil, err
	}
	return stored, nil
}

// publish answers the need with the stored documents.
func (a *Archiver) publish(ctx context.Context, need string, packet *Packet, ident string, stored []storage.Stored) error {
	solution := make([]storedDocument, 0, len(stored))
	for _, s := range stored {
		solution = append(solution, storedDocument{
			Metainfo: metainfo{Innhold: s.Filename, Filtype: "PDF", Variant: string(s.Variant)},
			URN:      s.URN,
		})
	}
	data, err := packet.WithSolution(need, solution)
	if err != nil {
		return err
	}
	if err := a.publisher.Publish(ctx, ident, data); err != nil {
		return err
	}
	a.metrics.IncrementSolved(need)
	a.secureLogger.InfoContext(ctx, "sent solution", "need", need, "message", string(data))
	return nil
}

// fail logs and counts a failed need. Invalid messages are dropped so they do not
// block the partition; every other failure is returned so the need is redelivered.
func (a *Archiver) fail(ctx context.Context, need, submissionID string, err error) error {
	category := failureCategory(err)
	a.metrics.IncrementFailed(need, category)
	a.logger.ErrorContext(ctx, "could not solve need",
		"need", need,
		"submission_id", submissionID,
		"category", category,
		"error", err,
	)
	if errors.Is(err, errInvalidMessage) {
		return nil
	}
	return fmt.Errorf("solve %s for %s: %w", need, submissionID, err)
}

func failureCategory(err error) string {
	if c := docerr.CategoryOf(err); c != "" {
		return string(c)
	}
	switch {
	case errors.Is(err, errInvalidMessage):
		return "invalid_message"
	case errors.Is(err, sentinel.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, sentinel.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
