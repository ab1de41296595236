package models

import "fmt"

// Markup is a pre-sanitized XHTML fragment from the text catalog. It is validated
// for well-formedness when the catalog is built and inserted verbatim when rendered.
type Markup string

// HelpText is an expandable explanation attached to a section, fact or requirement.
type HelpText struct {
	Title string // optional
	Body  Markup
}

// AlertKind is the severity of an alert text.
type AlertKind string

const (
	AlertInfo    AlertKind = "info"
	AlertWarning AlertKind = "warning"
	AlertError   AlertKind = "error"
	AlertSuccess AlertKind = "success"
)

// ParseAlertKind maps the catalog's type key to an AlertKind. The catalog has
// historically spelled success as "succes"; both spellings are accepted.
func ParseAlertKind(s string) (AlertKind, error) {
	switch s {
	case "info":
		return AlertInfo, nil
	case "warning":
		return AlertWarning, nil
	case "error":
		return AlertError, nil
	case "success", "succes":
		return AlertSuccess, nil
	default:
		return "", fmt.Errorf("unknown alert kind %q", s)
	}
}

// AlertText is an alert attached to an answer option, shown beneath the question
// in the full rendering when the option was chosen.
type AlertText struct {
	Title string // optional
	Kind  AlertKind
	Body  Markup
}
