// Package textcatalog resolves the externally managed texts that label a
// submission document. A Catalog is built from the text service response once per
// request and passed explicitly to the builder.
package textcatalog

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"soknadpdf/internal/submission/docerr"
	"soknadpdf/internal/submission/models"
)

// Catalog is an id-keyed lookup over every text collection of the response.
//
// The collections are merged in a fixed order (sections, facts, answer options,
// app texts, documentation texts). When two collections declare the same id the
// later one wins and the collision is logged.
type Catalog struct {
	entries    map[string]Entry
	collisions int
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger used to report id collisions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *buildConfig) {
		c.logger = logger
	}
}

// Build parses and validates the catalog JSON. Any structural problem, unknown
// alert kind or malformed markup fragment fails the whole catalog.
func Build(data []byte, opts ...Option) (*Catalog, error) {
	cfg := buildConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validateStructure(data); err != nil {
		return nil, docerr.Wrap(err, docerr.CatalogParse, "", "catalog failed validation")
	}
	var wire wireCatalog
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, docerr.Wrap(err, docerr.CatalogParse, "", "catalog is not valid JSON")
	}

	c := &Catalog{entries: make(map[string]Entry)}
	t := wire.SanityTexts

	for _, s := range t.Sections {
		description, help, err := describe(s.TextID, s.Description, s.HelpText)
		if err != nil {
			return nil, err
		}
		c.put(cfg.logger, SectionText{ID: s.TextID, Title: s.Title, Description: description, HelpText: help})
	}
	for _, f := range t.Facts {
		description, help, err := describe(f.TextID, f.Description, f.HelpText)
		if err != nil {
			return nil, err
		}
		c.put(cfg.logger, FactText{ID: f.TextID, Label: f.Text, Description: description, HelpText: help, Unit: deref(f.Unit)})
	}
	for _, o := range t.AnswerOptions {
		alert, err := alertText(o.TextID, o.AlertText)
		if err != nil {
			return nil, err
		}
		c.put(cfg.logger, AnswerOptionText{ID: o.TextID, Label: o.Text, AlertText: alert})
	}
	for _, a := range t.AppTexts {
		c.put(cfg.logger, PlainText{ID: a.TextID, Text: a.ValueText})
	}
	for _, d := range t.Documentation {
		description, help, err := describe(d.TextID, d.Description, d.HelpText)
		if err != nil {
			return nil, err
		}
		c.put(cfg.logger, DocumentationText{ID: d.TextID, Title: d.Title, Description: description, HelpText: help})
	}

	return c, nil
}

func (c *Catalog) put(logger *slog.Logger, e Entry) {
	if prev, ok := c.entries[e.TextID()]; ok {
		c.collisions++
		logger.Warn("text id declared in more than one collection, keeping the later",
			"text_id", e.TextID(),
			"replaced_kind", prev.Kind().String(),
			"kept_kind", e.Kind().String(),
		)
	}
	c.entries[e.TextID()] = e
}

// Len returns the number of distinct ids.
func (c *Catalog) Len() int { return len(c.entries) }

// Collisions returns how many declarations replaced an earlier one.
func (c *Catalog) Collisions() int { return c.collisions }

// Lookup resolves id and checks that it has the kind the caller expects.
func (c *Catalog) Lookup(id string, expected Kind) (Entry, error) {
	e, ok := c.entries[id]
	if !ok {
		return nil, docerr.New(docerr.UnresolvedTextID, id, "no text for id")
	}
	if e.Kind() != expected {
		return nil, docerr.New(docerr.KindMismatch, id,
			fmt.Sprintf("expected %s text, found %s", expected, e.Kind()))
	}
	return e, nil
}

// Lookup resolves id to an entry of type T.
func Lookup[T Entry](c *Catalog, id string) (T, error) {
	var zero T
	e, ok := c.entries[id]
	if !ok {
		return zero, docerr.New(docerr.UnresolvedTextID, id, "no text for id")
	}
	t, ok := e.(T)
	if !ok {
		return zero, docerr.New(docerr.KindMismatch, id,
			fmt.Sprintf("expected %s text, found %s", zero.Kind(), e.Kind()))
	}
	return t, nil
}

// Text resolves a plain application text.
func (c *Catalog) Text(id string) (string, error) {
	t, err := Lookup[PlainText](c, id)
	if err != nil {
		return "", err
	}
	return t.Text, nil
}

func describe(id string, description *string, help *wireHelpText) (models.Markup, *models.HelpText, error) {
	desc, err := validateMarkup(deref(description))
	if err != nil {
		return "", nil, docerr.Wrap(err, docerr.CatalogParse, id, "description is not well-formed markup")
	}
	if help == nil {
		return desc, nil, nil
	}
	body, err := validateMarkup(help.Body)
	if err != nil {
		return "", nil, docerr.Wrap(err, docerr.CatalogParse, id, "help text is not well-formed markup")
	}
	title := deref(help.Title)
	if body == "" && title == "" {
		return desc, nil, nil
	}
	return desc, &models.HelpText{Title: title, Body: body}, nil
}

func alertText(id string, a *wireAlertText) (*models.AlertText, error) {
	if a == nil {
		return nil, nil
	}
	kind, err := models.ParseAlertKind(a.Type)
	if err != nil {
		return nil, docerr.Wrap(err, docerr.CatalogParse, id, "alert text has unknown type")
	}
	body, err := validateMarkup(a.Body)
	if err != nil {
		return nil, docerr.Wrap(err, docerr.CatalogParse, id, "alert text is not well-formed markup")
	}
	return &models.AlertText{Title: deref(a.Title), Kind: kind, Body: body}, nil
}
