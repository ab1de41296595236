// Package builder turns the answer tree and the documentation requirement tree into a
// models.Submission, resolving every referenced text id against a per-request catalog.
package builder

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"soknadpdf/internal/submission/country"
	"soknadpdf/internal/submission/models"
	"soknadpdf/internal/submission/textcatalog"
)

// DefaultMaxDepth bounds nesting of repeating groups.
const DefaultMaxDepth = 32

var tracer = otel.Tracer("soknadpdf/internal/submission/builder")

// Builder maps raw trees to a Submission. It holds no mutable state and is safe to
// reuse for several trees that share the same catalog.
type Builder struct {
	catalog   *textcatalog.Catalog
	logger    *slog.Logger
	language  models.Language
	maxDepth  int
	countries country.Namer
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for non-fatal findings.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithLanguage sets the document language used for country names.
func WithLanguage(lang models.Language) Option {
	return func(b *Builder) {
		b.language = lang
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Non-positive values are ignored.
func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// WithCountryNames replaces the country name resolver.
func WithCountryNames(namer country.Namer) Option {
	return func(b *Builder) {
		b.countries = namer
	}
}

// New creates a Builder over the given catalog.
func New(catalog *textcatalog.Catalog, opts ...Option) (*Builder, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	b := &Builder{
		catalog:   catalog,
		logger:    slog.New(slog.DiscardHandler),
		language:  models.Bokmal,
		maxDepth:  DefaultMaxDepth,
		countries: country.DisplayNames{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if b.countries == nil {
		return nil, fmt.Errorf("country namer is required")
	}
	return b, nil
}

// Assemble builds the complete Submission for a standard or general intake
// application. The InfoBlock is left for the caller to attach.
func (b *Builder) Assemble(ctx context.Context, answerTree, requirementTree []byte, kind models.Kind) (sub *models.Submission, err error) {
	_, span := tracer.Start(ctx, "builder.Assemble")
	span.SetAttributes(attribute.String("submission.kind", kind.String()))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if kind == models.Supplementary {
		return nil, fmt.Errorf("supplementary submissions are assembled with AssembleSupplementary")
	}

	answers, err := ParseAnswerTree(answerTree)
	if err != nil {
		return nil, err
	}
	sections, err := b.BuildSections(answers)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("submission.sections", len(sections)))

	return b.assemble(requirementTree, kind, sections)
}

// AssembleSupplementary builds the reduced Submission sent when documentation is
// delivered after the original application: no sections, only general text and
// documentation requirements.
func (b *Builder) AssembleSupplementary(ctx context.Context, requirementTree []byte) (sub *models.Submission, err error) {
	_, span := tracer.Start(ctx, "builder.AssembleSupplementary")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	return b.assemble(requirementTree, models.Supplementary, nil)
}

func (b *Builder) assemble(requirementTree []byte, kind models.Kind, sections []models.Section) (*models.Submission, error) {
	requirements, err := ParseRequirementTree(requirementTree)
	if err != nil {
		return nil, err
	}
	docs, err := b.BuildDocumentationRequirements(requirements)
	if err != nil {
		return nil, err
	}
	general, err := b.catalog.GeneralText(kind)
	if err != nil {
		return nil, err
	}
	meta, err := b.catalog.PDFMetaTags()
	if err != nil {
		return nil, err
	}
	if sections == nil {
		sections = []models.Section{}
	}
	return &models.Submission{
		Sections:                  sections,
		GeneralText:               general,
		DocumentationRequirements: docs,
		Language:                  b.language,
		PDFMetaTags:               meta,
		Kind:                      kind,
	}, nil
}

// BuildSections maps every section of the tree in source order.
func (b *Builder) BuildSections(tree AnswerTree) ([]models.Section, error) {
	sections := make([]models.Section, 0, len(tree.Sections))
	for _, node := range tree.Sections {
		text, err := textcatalog.Lookup[textcatalog.SectionText](b.catalog, node.TextID)
		if err != nil {
			return nil, err
		}
		questions, err := b.MapFacts(node.Facts, 0)
		if err != nil {
			return nil, err
		}
		sections = append(sections, models.Section{
			Heading:     text.Title,
			Description: text.Description,
			HelpText:    text.HelpText,
			Questions:   questions,
		})
	}
	return sections, nil
}
