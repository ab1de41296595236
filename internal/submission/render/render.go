// Package render turns a Submission into the self-contained XHTML handed to the
// PDF/A converter. The same Submission renders in two modes: Compact (netto)
// carries questions and answers only, Full (brutto) adds descriptions, help texts,
// answer alerts and documentation justifications.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"
	_ "time/tzdata"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"soknadpdf/internal/submission/models"
)

// Mode selects the rendering fidelity.
type Mode int

const (
	Compact Mode = iota
	Full
)

func (m Mode) String() string {
	if m == Full {
		return "full"
	}
	return "compact"
}

// DefaultLocation is the zone used for the submission time in the info block.
const DefaultLocation = "Europe/Oslo"

//go:embed templates/document.gohtml templates/report.gohtml templates/stylesheet.css
var files embed.FS

var (
	documentTemplate = template.Must(template.ParseFS(files, "templates/document.gohtml"))
	stylesheet       = mustReadCSS("templates/stylesheet.css")
	tracer           = otel.Tracer("soknadpdf/internal/submission/render")
)

func mustReadCSS(name string) template.CSS {
	b, err := files.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return template.CSS(b)
}

// Engine renders submissions.
type Engine struct {
	location *time.Location
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the zone the submission time is shown in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.location = loc
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine. Without WithLocation the info block uses DefaultLocation.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	if e.location == nil {
		loc, err := time.LoadLocation(DefaultLocation)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", DefaultLocation, err)
		}
		e.location = loc
	}
	if e.logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return e, nil
}

// Render produces one XHTML document. Anchors are computed per call so the two
// modes of one Submission share every anchor.
func (e *Engine) Render(ctx context.Context, sub *models.Submission, mode Mode) (out string, err error) {
	_, span := tracer.Start(ctx, "render.Render")
	span.SetAttributes(attribute.String("render.mode", mode.String()))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if sub == nil {
		return "", fmt.Errorf("submission is required")
	}
	if _, ok := sub.InfoBlock(); !ok {
		e.logger.Warn("rendering submission without info block", "mode", mode.String())
	}

	v := &viewBuilder{
		sub:      sub,
		full:     mode == Full,
		phrases:  phrasesFor(sub.Language),
		location: e.location,
		anchors:  newAnchors(),
	}
	var buf bytes.Buffer
	if err := documentTemplate.ExecuteTemplate(&buf, "document", v.document(stylesheet)); err != nil {
		return "", fmt.Errorf("render %s document: %w", mode, err)
	}
	span.SetAttributes(attribute.Int("render.bytes", buf.Len()))
	return buf.String(), nil
}
