package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"soknadpdf/internal/submission/models"
)

var reportTemplate = template.Must(template.ParseFS(files, "templates/report.gohtml"))

// ErrMalformedReport is returned when a report is not a JSON object.
var ErrMalformedReport = errors.New("malformed report")

type reportView struct {
	Lang       string
	Title      string
	Stylesheet template.CSS
	Lines      []reportLine
}

// reportLine is a "key: value" row, or the opening or closing line of a nested
// object. Indent is in em.
type reportLine struct {
	Indent int
	Text   string
}

// RenderReport renders a reporting period as an indented key/value listing in
// the order the fields appear in report. The document language is read from
// the top level "språk" field.
func (e *Engine) RenderReport(ctx context.Context, periodID string, report []byte) (out string, err error) {
	_, span := tracer.Start(ctx, "render.RenderReport")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var head struct {
		Language string `json:"språk"`
	}
	if err := json.Unmarshal(report, &head); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}
	lang, err := models.ParseLanguage(head.Language)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}

	d := json.NewDecoder(bytes.NewReader(report))
	d.UseNumber()
	if tok, err := d.Token(); err != nil || tok != json.Delim('{') {
		return "", fmt.Errorf("%w: not an object", ErrMalformedReport)
	}
	var lines []reportLine
	if err := flattenObject(d, 0, &lines); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}

	v := reportView{
		Lang:       lang.LangAttribute(),
		Title:      clean("Rapporteringperiode " + periodID),
		Stylesheet: stylesheet,
		Lines:      lines,
	}
	var buf bytes.Buffer
	if err := reportTemplate.ExecuteTemplate(&buf, "report", v); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	span.SetAttributes(attribute.Int("render.bytes", buf.Len()))
	return buf.String(), nil
}

// flattenObject reads the members of an object whose opening brace has been
// consumed, including the closing brace.
func flattenObject(d *json.Decoder, depth int, lines *[]reportLine) error {
	for d.More() {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected %v", tok)
		}
		var raw json.RawMessage
		if err := d.Decode(&raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if raw[0] != '{' {
			*lines = append(*lines, reportLine{Indent: 2 * depth, Text: clean(key + ": " + scalarText(raw))})
			continue
		}
		*lines = append(*lines, reportLine{Indent: 2 * depth, Text: clean(key + ": {")})
		nested := json.NewDecoder(bytes.NewReader(raw))
		nested.UseNumber()
		if _, err := nested.Token(); err != nil {
			return err
		}
		if err := flattenObject(nested, depth+1, lines); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*lines = append(*lines, reportLine{Indent: 2 * depth, Text: "}"})
	}
	_, err := d.Token()
	return err
}

// scalarText shows strings unquoted and everything else as compact JSON.
func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
