package models

import "fmt"

// RequirementChoice is the applicant's answer to a documentation requirement.
type RequirementChoice int

const (
	SubmitNow RequirementChoice = iota
	SubmitLater
	AlreadySubmitted
	OthersSubmit
	NotSubmitting
)

// RequirementChoices lists every choice in rendering order.
var RequirementChoices = []RequirementChoice{SubmitNow, SubmitLater, AlreadySubmitted, OthersSubmit, NotSubmitting}

var requirementChoiceKeys = map[string]RequirementChoice{
	"dokumentkrav.svar.send.naa":        SubmitNow,
	"dokumentkrav.svar.send.senere":     SubmitLater,
	"dokumentkrav.svar.sendt.tidligere": AlreadySubmitted,
	"dokumentkrav.svar.andre.sender":    OthersSubmit,
	"dokumentkrav.svar.sender.ikke":     NotSubmitting,
}

// ParseRequirementChoice maps the wire answer key to a RequirementChoice.
func ParseRequirementChoice(s string) (RequirementChoice, error) {
	if c, ok := requirementChoiceKeys[s]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown requirement choice %q", s)
}

func (c RequirementChoice) String() string {
	switch c {
	case SubmitNow:
		return "submit_now"
	case SubmitLater:
		return "submit_later"
	case AlreadySubmitted:
		return "already_submitted"
	case OthersSubmit:
		return "others_submit"
	case NotSubmitting:
		return "not_submitting"
	default:
		return fmt.Sprintf("RequirementChoice(%d)", int(c))
	}
}

// DocRequirement is a materialized documentation requirement: Submitted or
// Deferred. Use MatchRequirement to branch on it.
type DocRequirement interface {
	RequirementID() string
	RequirementChoice() RequirementChoice
	isDocRequirement()
}

// RequirementText is the catalog-resolved part shared by both variants.
type RequirementText struct {
	Label       string
	AnswerNote  string // optional structured note, rendered in parentheses
	Description Markup
	HelpText    *HelpText
}

// Submitted is a requirement whose documentation was attached with the submission.
type Submitted struct {
	ID string
	RequirementText
}

// Deferred is a requirement whose documentation is not attached now, along with
// the applicant's justification.
type Deferred struct {
	ID            string
	Choice        RequirementChoice
	Justification string
	RequirementText
}

func (s Submitted) RequirementID() string                { return s.ID }
func (s Submitted) RequirementChoice() RequirementChoice { return SubmitNow }
func (Submitted) isDocRequirement()                      {}

func (d Deferred) RequirementID() string                { return d.ID }
func (d Deferred) RequirementChoice() RequirementChoice { return d.Choice }
func (Deferred) isDocRequirement()                      {}

// MatchRequirement dispatches on the requirement variant.
func MatchRequirement[T any](r DocRequirement, submitted func(Submitted) T, deferred func(Deferred) T) T {
	switch v := r.(type) {
	case Submitted:
		return submitted(v)
	case Deferred:
		return deferred(v)
	default:
		panic(fmt.Sprintf("unhandled documentation requirement %T", r))
	}
}

// Text returns the shared text of either variant.
func Text(r DocRequirement) RequirementText {
	return MatchRequirement(r,
		func(s Submitted) RequirementText { return s.RequirementText },
		func(d Deferred) RequirementText { return d.RequirementText },
	)
}
