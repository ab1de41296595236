package builder

import (
	"encoding/json"
	"fmt"
)

// AnswerTree is the answer service's view of a finished application.
type AnswerTree struct {
	Sections []SectionNode `json:"seksjoner"`
}

// SectionNode is one section of the answer tree.
type SectionNode struct {
	TextID string     `json:"beskrivendeId"`
	Facts  []FactNode `json:"fakta"`
}

// FactNode is one fact. Answer keeps the raw JSON because its shape depends on Type;
// a nil Answer means the field was absent.
type FactNode struct {
	ID     string          `json:"id"`
	TextID string          `json:"beskrivendeId"`
	Type   string          `json:"type"`
	Answer json.RawMessage `json:"svar"`
}

func (f FactNode) hasAnswer() bool {
	return len(f.Answer) > 0 && string(f.Answer) != "null"
}

// RequirementTree is the documentation requirement service's response.
type RequirementTree struct {
	Requirements []RequirementNode `json:"krav"`
}

// RequirementNode is one documentation requirement. Only nodes with an Answer are
// materialized.
type RequirementNode struct {
	ID            string  `json:"id"`
	TextID        string  `json:"beskrivendeId"`
	AnswerNote    *string `json:"beskrivelse"`
	Answer        *string `json:"svar"`
	Justification *string `json:"begrunnelse"`
}

// ParseAnswerTree decodes the answer service response.
func ParseAnswerTree(data []byte) (AnswerTree, error) {
	var tree AnswerTree
	if err := json.Unmarshal(data, &tree); err != nil {
		return AnswerTree{}, fmt.Errorf("parse answer tree: %w", err)
	}
	return tree, nil
}

// ParseRequirementTree decodes the documentation requirement service response.
func ParseRequirementTree(data []byte) (RequirementTree, error) {
	var tree RequirementTree
	if err := json.Unmarshal(data, &tree); err != nil {
		return RequirementTree{}, fmt.Errorf("parse requirement tree: %w", err)
	}
	return tree, nil
}
