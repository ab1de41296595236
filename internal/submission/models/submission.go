// Package models holds the document model produced by the builder and consumed by
// the renderer. A Submission is immutable once built except for the single
// InfoBlock attachment made by the caller.
package models

import (
	"errors"
	"time"
)

// Kind distinguishes the submission flavours that share one rendering.
type Kind int

const (
	Standard Kind = iota
	GeneralIntake
	Supplementary
)

func (k Kind) String() string {
	switch k {
	case GeneralIntake:
		return "general_intake"
	case Supplementary:
		return "supplementary"
	default:
		return "standard"
	}
}

// ErrInfoBlockAttached is returned when the info block is attached twice.
var ErrInfoBlockAttached = errors.New("info block already attached")

// Submission is the fully resolved document model for one application.
type Submission struct {
	Sections                  []Section
	GeneralText               GeneralText
	DocumentationRequirements []DocRequirement
	Language                  Language
	PDFMetaTags               PDFMetaTags
	Kind                      Kind

	infoBlock *InfoBlock
}

// AttachInfoBlock attaches identity data. It may be called exactly once.
func (s *Submission) AttachInfoBlock(ib InfoBlock) error {
	if s.infoBlock != nil {
		return ErrInfoBlockAttached
	}
	s.infoBlock = &ib
	return nil
}

// InfoBlock returns the attached info block, if any.
func (s *Submission) InfoBlock() (InfoBlock, bool) {
	if s.infoBlock == nil {
		return InfoBlock{}, false
	}
	return *s.infoBlock, true
}

// GeneralText holds the fixed document labels resolved from the catalog.
type GeneralText struct {
	MainHeading string
	Title       string
	AnswerLabel string
	DateLabel   string
	SSNLabel    string
}

// PDFMetaTags are written as meta tags for the PDF/A converter.
type PDFMetaTags struct {
	Description string
	Subject     string
	Author      string
}

// InfoBlock identifies the applicant and the submission time.
type InfoBlock struct {
	SSN         string
	SubmittedAt time.Time
	Name        string // optional
	Address     string // optional
}

// Section is one top-level block of questions, in source order.
type Section struct {
	Heading     string
	Description Markup
	HelpText    *HelpText
	Questions   []QuestionAnswer
}

// QuestionAnswer is one question with its answer and any follow-up groups from a
// repeating group.
type QuestionAnswer struct {
	Question       string
	Answer         Answer
	Description    Markup
	HelpText       *HelpText
	FollowUpGroups []QuestionGroup
}

// QuestionGroup is one repetition of a repeating group.
type QuestionGroup struct {
	Items []QuestionAnswer
}
