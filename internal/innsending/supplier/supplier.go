// Package supplier gathers everything one submission document needs. It fetches
// the answer tree, text catalog, documentation requirements and personal data
// concurrently, builds the catalog and the Submission, and attaches the info block.
package supplier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"soknadpdf/internal/innsending/clients"
	"soknadpdf/internal/platform/metrics"
	"soknadpdf/internal/submission/builder"
	"soknadpdf/internal/submission/country"
	"soknadpdf/internal/submission/models"
	"soknadpdf/internal/submission/textcatalog"
	"soknadpdf/pkg/platform/circuit"
	"soknadpdf/pkg/platform/sentinel"
)

var tracer = otel.Tracer("soknadpdf/internal/innsending/supplier")

// SubmissionSource serves the raw trees of a finalized application.
type SubmissionSource interface {
	Answers(ctx context.Context, id uuid.UUID) ([]byte, error)
	Texts(ctx context.Context, id uuid.UUID) ([]byte, error)
	Requirements(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// PersonSource looks up the applicant's name and address.
type PersonSource interface {
	Person(ctx context.Context, ident string) (clients.Person, error)
}

// Request identifies the document to build.
type Request struct {
	SubmissionID uuid.UUID
	Ident        string
	SubmittedAt  time.Time
	Language     models.Language
	Kind         models.Kind
}

// Supplier builds Submissions from upstream data.
type Supplier struct {
	submissions  SubmissionSource
	persons      PersonSource
	personState  *circuit.Breaker
	countries    country.Namer
	maxDepth     int
	logger       *slog.Logger
	secureLogger *slog.Logger
	metrics      *metrics.Metrics
}

// Option configures a Supplier.
type Option func(*Supplier)

// WithLogger sets the application logger. It never receives personal data.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Supplier) {
		s.logger = logger
	}
}

// WithSecureLogger sets the logger that may receive personal data.
func WithSecureLogger(logger *slog.Logger) Option {
	return func(s *Supplier) {
		s.secureLogger = logger
	}
}

// WithCountryNames replaces the country name resolver handed to the builder.
func WithCountryNames(namer country.Namer) Option {
	return func(s *Supplier) {
		s.countries = namer
	}
}

// WithMaxDepth bounds nesting of repeating groups.
func WithMaxDepth(depth int) Option {
	return func(s *Supplier) {
		s.maxDepth = depth
	}
}

// WithPersonBreaker replaces the breaker that tracks person lookup health.
func WithPersonBreaker(b *circuit.Breaker) Option {
	return func(s *Supplier) {
		s.personState = b
	}
}

// WithMetrics records build durations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Supplier) {
		s.metrics = m
	}
}

// New creates a Supplier.
func New(submissions SubmissionSource, persons PersonSource, opts ...Option) (*Supplier, error) {
	if submissions == nil {
		return nil, fmt.Errorf("submission source is required")
	}
	if persons == nil {
		return nil, fmt.Errorf("person source is required")
	}
	s := &Supplier{
		submissions:  submissions,
		persons:      persons,
		personState:  circuit.New("person"),
		countries:    country.DisplayNames{},
		maxDepth:     builder.DefaultMaxDepth,
		logger:       slog.New(slog.DiscardHandler),
		secureLogger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Health reports the person register as unavailable while its breaker is open.
// Documents are still built, only without name and address.
func (s *Supplier) Health(context.Context) error {
	if s.personState.IsOpen() {
		return fmt.Errorf("%w: %s lookups keep failing", sentinel.ErrUnavailable, s.personState.Name())
	}
	return nil
}

type inputs struct {
	answers      []byte
	texts        []byte
	requirements []byte
	person       clients.Person
}

// Submission fetches the inputs for req and returns the assembled Submission with
// its info block attached. A failed fetch of any tree aborts the request; a failed
// person lookup only leaves name and address out.
func (s *Supplier) Submission(ctx context.Context, req Request) (sub *models.Submission, err error) {
	ctx, span := tracer.Start(ctx, "supplier.Submission")
	span.SetAttributes(
		attribute.String("submission.id", req.SubmissionID.String()),
		attribute.String("submission.kind", req.Kind.String()),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	in, err := s.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sub, err = s.build(ctx, req, in)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveBuild(time.Since(start))
	}

	if err := sub.AttachInfoBlock(models.InfoBlock{
		SSN:         req.Ident,
		SubmittedAt: req.SubmittedAt,
		Name:        in.person.Name,
		Address:     in.person.Address,
	}); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Supplier) fetch(ctx context.Context, req Request) (inputs, error) {
	var in inputs
	g, gctx := errgroup.WithContext(ctx)
	if req.Kind != models.Supplementary {
		g.Go(func() (err error) {
			in.answers, err = s.submissions.Answers(gctx, req.SubmissionID)
			return err
		})
	}
	g.Go(func() (err error) {
		in.texts, err = s.submissions.Texts(gctx, req.SubmissionID)
		return err
	})
	g.Go(func() (err error) {
		in.requirements, err = s.submissions.Requirements(gctx, req.SubmissionID)
		return err
	})
	g.Go(func() error {
		p, err := s.persons.Person(gctx, req.Ident)
		if err != nil {
			if _, change := s.personState.RecordFailure(); change.Opened {
				s.logger.ErrorContext(ctx, "person lookups keep failing, documents are built without name and address",
					"breaker", s.personState.Name(),
				)
			}
			s.logger.WarnContext(ctx, "person lookup failed, see secure log",
				"submission_id", req.SubmissionID.String(),
				"error", err,
			)
			s.secureLogger.WarnContext(ctx, "person lookup failed",
				"submission_id", req.SubmissionID.String(),
				"ident", req.Ident,
				"error", err,
			)
			return nil
		}
		if _, change := s.personState.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "person lookups recovered", "breaker", s.personState.Name())
		}
		in.person = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return inputs{}, fmt.Errorf("fetch submission inputs: %w", err)
	}
	return in, nil
}

func (s *Supplier) build(ctx context.Context, req Request, in inputs) (*models.Submission, error) {
	catalog, err := textcatalog.Build(in.texts, textcatalog.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "text catalog built",
		"submission_id", req.SubmissionID.String(),
		"entries", catalog.Len(),
		"collisions", catalog.Collisions(),
	)
	b, err := builder.New(catalog,
		builder.WithLogger(s.logger),
		builder.WithLanguage(req.Language),
		builder.WithCountryNames(s.countries),
		builder.WithMaxDepth(s.maxDepth),
	)
	if err != nil {
		return nil, err
	}
	if req.Kind == models.Supplementary {
		return b.AssembleSupplementary(ctx, in.requirements)
	}
	return b.Assemble(ctx, in.answers, in.requirements, req.Kind)
}
