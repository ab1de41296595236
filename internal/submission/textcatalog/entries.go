package textcatalog

import "soknadpdf/internal/submission/models"

// Kind identifies which catalog collection an entry came from.
type Kind int

const (
	KindPlain Kind = iota
	KindSection
	KindFact
	KindAnswerOption
	KindDocumentation
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindSection:
		return "section"
	case KindFact:
		return "fact"
	case KindAnswerOption:
		return "answer_option"
	case KindDocumentation:
		return "documentation"
	default:
		return "unknown"
	}
}

// Entry is one resolved catalog text.
type Entry interface {
	TextID() string
	Kind() Kind
}

// PlainText is an application text (labels, headings, PDF metadata).
type PlainText struct {
	ID   string
	Text string
}

// SectionText titles and describes a section.
type SectionText struct {
	ID          string
	Title       string
	Description models.Markup
	HelpText    *models.HelpText
}

// FactText is the question text of a fact.
type FactText struct {
	ID          string
	Label       string
	Description models.Markup
	HelpText    *models.HelpText
	Unit        string
}

// AnswerOptionText labels an answer option and may carry an alert.
type AnswerOptionText struct {
	ID        string
	Label     string
	AlertText *models.AlertText
}

// DocumentationText titles and describes a documentation requirement.
type DocumentationText struct {
	ID          string
	Title       string
	Description models.Markup
	HelpText    *models.HelpText
}

func (e PlainText) TextID() string         { return e.ID }
func (e SectionText) TextID() string       { return e.ID }
func (e FactText) TextID() string          { return e.ID }
func (e AnswerOptionText) TextID() string  { return e.ID }
func (e DocumentationText) TextID() string { return e.ID }

func (PlainText) Kind() Kind         { return KindPlain }
func (SectionText) Kind() Kind       { return KindSection }
func (FactText) Kind() Kind          { return KindFact }
func (AnswerOptionText) Kind() Kind  { return KindAnswerOption }
func (DocumentationText) Kind() Kind { return KindDocumentation }
