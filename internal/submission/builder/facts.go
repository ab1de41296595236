package builder

import (
	"encoding/json"
	"fmt"

	"soknadpdf/internal/submission/docerr"
	"soknadpdf/internal/submission/models"
	"soknadpdf/internal/submission/textcatalog"
)

// Fact type tags as declared by the answer service.
const (
	TypeText        = "tekst"
	TypeInt         = "int"
	TypeDouble      = "double"
	TypeDate        = "localdate"
	TypePeriod      = "periode"
	TypeBoolean     = "boolean"
	TypeSingleValue = "envalg"
	TypeMultiValue  = "flervalg"
	TypeCountry     = "land"
	TypeDocument    = "dokument"
	TypeGenerator   = "generator"
)

type answerFunc func(b *Builder, f FactNode) (models.Answer, error)

var answerTypes = map[string]answerFunc{
	TypeText:        (*Builder).scalarAnswer,
	TypeInt:         (*Builder).scalarAnswer,
	TypeDouble:      (*Builder).scalarAnswer,
	TypeDate:        (*Builder).dateAnswer,
	TypePeriod:      (*Builder).periodAnswer,
	TypeBoolean:     (*Builder).booleanAnswer,
	TypeSingleValue: (*Builder).singleChoiceAnswer,
	TypeMultiValue:  (*Builder).multiChoiceAnswer,
	TypeCountry:     (*Builder).countryAnswer,
	TypeDocument:    (*Builder).documentAnswer,
	TypeGenerator:   func(*Builder, FactNode) (models.Answer, error) { return models.None{}, nil },
}

// MapFacts maps facts at the given nesting depth (0 for section level). Only the
// generator type recurses, producing one QuestionGroup per repetition.
func (b *Builder) MapFacts(facts []FactNode, depth int) ([]models.QuestionAnswer, error) {
	if depth > b.maxDepth {
		return nil, docerr.New(docerr.MaxDepthExceeded, "",
			fmt.Sprintf("repeating groups nested deeper than %d", b.maxDepth))
	}
	out := make([]models.QuestionAnswer, 0, len(facts))
	for _, f := range facts {
		qa, err := b.mapFact(f, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, qa)
	}
	return out, nil
}

func (b *Builder) mapFact(f FactNode, depth int) (models.QuestionAnswer, error) {
	toAnswer, ok := answerTypes[f.Type]
	if !ok {
		return models.QuestionAnswer{}, docerr.New(docerr.UnknownAnswerType, f.TextID,
			fmt.Sprintf("unknown fact type %q", f.Type))
	}
	text, err := textcatalog.Lookup[textcatalog.FactText](b.catalog, f.TextID)
	if err != nil {
		return models.QuestionAnswer{}, err
	}

	var answer models.Answer = models.None{}
	if f.hasAnswer() {
		if answer, err = toAnswer(b, f); err != nil {
			return models.QuestionAnswer{}, err
		}
	} else if f.Type != TypeGenerator {
		b.logger.Error("fact has no answer",
			"category", string(docerr.MissingAnswer),
			"text_id", f.TextID,
			"fact_type", f.Type,
		)
	}

	qa := models.QuestionAnswer{
		Question:    text.Label,
		Answer:      answer,
		Description: text.Description,
		HelpText:    text.HelpText,
	}
	if f.Type == TypeGenerator && f.hasAnswer() {
		groups, err := b.followUpGroups(f, depth)
		if err != nil {
			return models.QuestionAnswer{}, err
		}
		qa.FollowUpGroups = groups
	}
	return qa, nil
}

func (b *Builder) followUpGroups(f FactNode, depth int) ([]models.QuestionGroup, error) {
	var repetitions [][]FactNode
	if err := json.Unmarshal(f.Answer, &repetitions); err != nil {
		return nil, malformed(f, err)
	}
	groups := make([]models.QuestionGroup, 0, len(repetitions))
	for _, facts := range repetitions {
		items, err := b.MapFacts(facts, depth+1)
		if err != nil {
			return nil, err
		}
		groups = append(groups, models.QuestionGroup{Items: items})
	}
	return groups, nil
}

func (b *Builder) scalarAnswer(f FactNode) (models.Answer, error) {
	text, err := scalarText(f.Answer)
	if err != nil {
		return nil, malformed(f, err)
	}
	return models.Single{Text: text}, nil
}

func (b *Builder) dateAnswer(f FactNode) (models.Answer, error) {
	d, err := parseDate(f.Answer)
	if err != nil {
		return nil, malformed(f, err)
	}
	return models.Single{Text: formatDate(d)}, nil
}

func (b *Builder) periodAnswer(f FactNode) (models.Answer, error) {
	text, err := periodText(f.Answer)
	if err != nil {
		return nil, malformed(f, err)
	}
	return models.Single{Text: text}, nil
}

func (b *Builder) booleanAnswer(f FactNode) (models.Answer, error) {
	var v bool
	if err := json.Unmarshal(f.Answer, &v); err != nil {
		return nil, malformed(f, err)
	}
	suffix := ".svar.nei"
	if v {
		suffix = ".svar.ja"
	}
	option, err := b.option(f.TextID + suffix)
	if err != nil {
		return nil, err
	}
	return models.Choice{Options: []models.SelectedOption{option}}, nil
}

func (b *Builder) singleChoiceAnswer(f FactNode) (models.Answer, error) {
	var id string
	if err := json.Unmarshal(f.Answer, &id); err != nil {
		return nil, malformed(f, err)
	}
	option, err := b.option(id)
	if err != nil {
		return nil, err
	}
	return models.Choice{Options: []models.SelectedOption{option}}, nil
}

func (b *Builder) multiChoiceAnswer(f FactNode) (models.Answer, error) {
	var ids []string
	if err := json.Unmarshal(f.Answer, &ids); err != nil {
		return nil, malformed(f, err)
	}
	options := make([]models.SelectedOption, 0, len(ids))
	for _, id := range ids {
		option, err := b.option(id)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}
	return models.Choice{Options: options}, nil
}

func (b *Builder) countryAnswer(f FactNode) (models.Answer, error) {
	var code string
	if err := json.Unmarshal(f.Answer, &code); err != nil {
		return nil, malformed(f, err)
	}
	name, err := b.countries.Name(code, b.language)
	if err != nil {
		return nil, malformed(f, err)
	}
	return models.Single{Text: name}, nil
}

// documentAnswer never fails: the upload is only reported in the log since the
// documentation block lists attachments separately.
func (b *Builder) documentAnswer(f FactNode) (models.Answer, error) {
	summary, err := attachmentSummary(f.Answer)
	if err != nil {
		b.logger.Warn("could not summarize attachment",
			"category", string(docerr.AttachmentSummary),
			"text_id", f.TextID,
			"error", err,
		)
		return models.None{}, nil
	}
	b.logger.Warn(summary, "text_id", f.TextID)
	return models.None{}, nil
}

func (b *Builder) option(id string) (models.SelectedOption, error) {
	text, err := textcatalog.Lookup[textcatalog.AnswerOptionText](b.catalog, id)
	if err != nil {
		return models.SelectedOption{}, err
	}
	return models.SelectedOption{Label: text.Label, Annotation: text.AlertText}, nil
}

func malformed(f FactNode, err error) error {
	return docerr.Wrap(err, docerr.MalformedAnswer, f.TextID,
		fmt.Sprintf("answer does not match fact type %q", f.Type))
}
