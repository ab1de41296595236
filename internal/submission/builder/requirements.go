package builder

import (
	"strings"

	"soknadpdf/internal/submission/docerr"
	"soknadpdf/internal/submission/models"
	"soknadpdf/internal/submission/textcatalog"
)

// BuildDocumentationRequirements materializes every requirement the applicant
// answered, in source order. Unanswered requirements are dropped.
func (b *Builder) BuildDocumentationRequirements(tree RequirementTree) ([]models.DocRequirement, error) {
	out := make([]models.DocRequirement, 0, len(tree.Requirements))
	for _, node := range tree.Requirements {
		if node.Answer == nil {
			continue
		}
		req, err := b.requirement(node)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func (b *Builder) requirement(node RequirementNode) (models.DocRequirement, error) {
	choice, err := models.ParseRequirementChoice(*node.Answer)
	if err != nil {
		return nil, docerr.Wrap(err, docerr.UnknownRequirementChoice, node.TextID, "requirement answer is not a known choice")
	}
	text, err := textcatalog.Lookup[textcatalog.DocumentationText](b.catalog, node.TextID)
	if err != nil {
		return nil, err
	}
	shared := models.RequirementText{
		Label:       text.Title,
		Description: text.Description,
		HelpText:    text.HelpText,
	}
	if node.AnswerNote != nil {
		shared.AnswerNote = strings.TrimSpace(*node.AnswerNote)
	}

	if choice == models.SubmitNow {
		return models.Submitted{ID: node.ID, RequirementText: shared}, nil
	}
	if node.Justification == nil || strings.TrimSpace(*node.Justification) == "" {
		return nil, docerr.New(docerr.MissingJustification, node.TextID,
			"requirement answered "+choice.String()+" has no justification")
	}
	return models.Deferred{
		ID:              node.ID,
		Choice:          choice,
		Justification:   strings.TrimSpace(*node.Justification),
		RequirementText: shared,
	}, nil
}
