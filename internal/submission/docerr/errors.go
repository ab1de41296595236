// Package docerr defines the failure taxonomy for building and rendering a
// submission document. Every error raised by the catalog, builder and renderer is
// a *Error carrying a Category, so callers can decide between failing the whole
// request and logging a degraded answer.
package docerr

import (
	"errors"
	"fmt"
)

// Category classifies a document failure.
type Category string

const (
	// CatalogParse indicates the text catalog JSON is malformed or fails validation.
	CatalogParse Category = "catalog_parse"

	// UnresolvedTextID indicates a referenced text id is absent from the catalog.
	UnresolvedTextID Category = "unresolved_text_id"

	// KindMismatch indicates a text id resolved to an entry of an unexpected kind.
	// This is a contract violation between the answer tree and the catalog.
	KindMismatch Category = "kind_mismatch"

	// UnknownAnswerType indicates a fact carries a type tag the builder does not know.
	UnknownAnswerType Category = "unknown_answer_type"

	// MalformedAnswer indicates an answer value is present but cannot be interpreted
	// for its declared type (a date that does not parse, a boolean that is a string).
	MalformedAnswer Category = "malformed_answer"

	// MissingJustification indicates a deferred documentation requirement lacks its
	// justification.
	MissingJustification Category = "missing_justification"

	// UnknownRequirementChoice indicates a documentation requirement answer outside
	// the five known choices.
	UnknownRequirementChoice Category = "unknown_requirement_choice"

	// MaxDepthExceeded indicates repeating groups nest deeper than the builder allows.
	MaxDepthExceeded Category = "max_depth_exceeded"

	// MissingAnswer indicates a fact has no answer field. Non-fatal.
	MissingAnswer Category = "missing_answer"

	// AttachmentSummary indicates attachment metadata could not be summarized. Non-fatal.
	AttachmentSummary Category = "attachment_summary"
)

// Fatal reports whether a failure of this category must abort the document.
func (c Category) Fatal() bool {
	switch c {
	case MissingAnswer, AttachmentSummary:
		return false
	default:
		return true
	}
}

// Error is a categorized document failure.
type Error struct {
	Category   Category
	ID         string // text id, fact id or requirement id the failure concerns
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Category, e.Message)
	if e.ID != "" {
		msg = fmt.Sprintf("%s [%s]: %s", e.Category, e.ID, e.Message)
	}
	if e.Underlying != nil {
		return msg + ": " + e.Underlying.Error()
	}
	return msg
}

// Unwrap supports error unwrapping
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is matches another *Error by category so that errors.Is(err, docerr.Sentinel(c))
// works across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Category == e.Category && t.ID == "" && t.Message == ""
}

// New creates a categorized error.
func New(category Category, id, message string) *Error {
	return &Error{Category: category, ID: id, Message: message}
}

// Wrap creates a categorized error around an underlying cause.
func Wrap(err error, category Category, id, message string) *Error {
	return &Error{Category: category, ID: id, Message: message, Underlying: err}
}

// Sentinel returns a bare error of the given category for use with errors.Is.
func Sentinel(category Category) error {
	return &Error{Category: category}
}

// CategoryOf extracts the category from an error chain. Errors that are not
// document failures report an empty category.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// IsFatal reports whether err must abort the document. Uncategorized errors are
// treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Category.Fatal()
	}
	return true
}

// Has reports whether err carries the given category.
func Has(err error, category Category) bool {
	return CategoryOf(err) == category
}
