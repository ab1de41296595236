package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"soknadpdf/internal/submission/docerr"
	"soknadpdf/internal/submission/models"
	"soknadpdf/internal/submission/textcatalog"
)

// =============================================================================
// Builder Test Suite
// =============================================================================
// Justification for unit tests: the builder is a pure mapping from two JSON trees
// to the document model. Every answer type, the recursion into repeating groups
// and every fatal category are exercised here against fixed fixtures.

type BuilderSuite struct {
	suite.Suite
	catalog      *textcatalog.Catalog
	answers      []byte
	requirements []byte
	logs         *bytes.Buffer
	builder      *Builder
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

func (s *BuilderSuite) SetupSuite() {
	raw, err := os.ReadFile("../testdata/catalog.json")
	s.Require().NoError(err)
	s.catalog, err = textcatalog.Build(raw)
	s.Require().NoError(err)

	s.answers, err = os.ReadFile("../testdata/fakta.json")
	s.Require().NoError(err)
	s.requirements, err = os.ReadFile("../testdata/dokumentasjonskrav.json")
	s.Require().NoError(err)
}

func (s *BuilderSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	b, err := New(s.catalog, WithLogger(slog.New(slog.NewJSONHandler(s.logs, nil))))
	s.Require().NoError(err)
	s.builder = b
}

func fact(textID, typ string, answer any) FactNode {
	f := FactNode{ID: textID, TextID: textID, Type: typ}
	if answer != nil {
		raw, err := json.Marshal(answer)
		if err != nil {
			panic(err)
		}
		f.Answer = raw
	}
	return f
}

func (s *BuilderSuite) mapOne(f FactNode) (models.QuestionAnswer, error) {
	qas, err := s.builder.MapFacts([]FactNode{f}, 0)
	if err != nil {
		return models.QuestionAnswer{}, err
	}
	s.Require().Len(qas, 1)
	return qas[0], nil
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *BuilderSuite) TestNew() {
	s.Run("nil catalog returns error", func() {
		_, err := New(nil)
		s.EqualError(err, "catalog is required")
	})

	s.Run("nil logger returns error", func() {
		_, err := New(s.catalog, WithLogger(nil))
		s.EqualError(err, "logger is required")
	})

	s.Run("non-positive depth keeps default", func() {
		b, err := New(s.catalog, WithMaxDepth(0))
		s.Require().NoError(err)
		s.Equal(DefaultMaxDepth, b.maxDepth)
	})
}

// =============================================================================
// Section Tests
// =============================================================================

func (s *BuilderSuite) TestBuildSections() {
	tree, err := ParseAnswerTree(s.answers)
	s.Require().NoError(err)

	sections, err := s.builder.BuildSections(tree)
	s.Require().NoError(err)

	s.Run("one section per input section in source order", func() {
		s.Require().Len(sections, 2)
		s.Equal("Din situasjon", sections[0].Heading)
		s.Equal("Arbeidsforhold", sections[1].Heading)
	})

	s.Run("section description and help text are carried", func() {
		s.NotEmpty(sections[0].Description)
		s.Require().NotNil(sections[0].HelpText)
		s.Empty(sections[1].Description)
		s.Nil(sections[1].HelpText)
	})

	s.Run("questions keep source order", func() {
		var questions []string
		for _, q := range sections[0].Questions {
			questions = append(questions, q.Question)
		}
		s.Equal([]string{
			"Har du mottatt dagpenger de siste 12 månedene?",
			"Hvilken dato søker du fra?",
			"Hvor mange timer jobbet du i uken?",
			"Hvilken type gårdsbruk?",
			"Last opp arbeidsavtalen",
		}, questions)
	})

	s.Run("unresolved section id fails the build", func() {
		_, err := s.builder.BuildSections(AnswerTree{Sections: []SectionNode{{TextID: "ukjent-seksjon"}}})
		s.Equal(docerr.UnresolvedTextID, docerr.CategoryOf(err))
	})
}

// =============================================================================
// Answer Dispatch Tests
// =============================================================================

func (s *BuilderSuite) TestScalarAnswers() {
	tests := []struct {
		name   string
		typ    string
		answer any
		want   string
	}{
		{"text", TypeText, "ACME AS", "ACME AS"},
		{"integer", TypeInt, 40, "40"},
		{"decimal keeps source digits", TypeDouble, json.RawMessage(`37.50`), "37.50"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			qa, err := s.mapOne(fact("faktum.arbeidstid", tt.typ, tt.answer))
			s.Require().NoError(err)
			s.Equal(models.Single{Text: tt.want}, qa.Answer)
		})
	}
}

func (s *BuilderSuite) TestMissingAnswerIsLoggedAsNone() {
	qa, err := s.mapOne(fact("faktum.arbeidstid", TypeText, nil))
	s.Require().NoError(err)
	s.Equal(models.None{}, qa.Answer)
	s.Contains(s.logs.String(), `"category":"missing_answer"`)

	s.Run("null counts as missing", func() {
		f := fact("faktum.arbeidstid", TypeDate, nil)
		f.Answer = json.RawMessage("null")
		qa, err := s.mapOne(f)
		s.Require().NoError(err)
		s.Equal(models.None{}, qa.Answer)
	})
}

func (s *BuilderSuite) TestDateAnswers() {
	s.Run("date is formatted DD.MM.YYYY", func() {
		qa, err := s.mapOne(fact("faktum.dagpenger-soknadsdato", TypeDate, "2024-01-02"))
		s.Require().NoError(err)
		s.Equal(models.Single{Text: "02.01.2024"}, qa.Answer)
	})

	s.Run("period formats both ends independently", func() {
		qa, err := s.mapOne(fact("faktum.arbeidsforhold.varighet", TypePeriod,
			map[string]string{"fom": "2024-01-02", "tom": "2024-03-04"}))
		s.Require().NoError(err)
		s.Equal(models.Single{Text: "02.01.2024 - 04.03.2024"}, qa.Answer)
	})

	s.Run("open period omits the end", func() {
		qa, err := s.mapOne(fact("faktum.arbeidsforhold.varighet", TypePeriod,
			map[string]string{"fom": "2023-05-01"}))
		s.Require().NoError(err)
		s.Equal(models.Single{Text: "01.05.2023 - "}, qa.Answer)
	})

	s.Run("unparseable date is malformed", func() {
		_, err := s.mapOne(fact("faktum.dagpenger-soknadsdato", TypeDate, "02.01.2024"))
		s.Equal(docerr.MalformedAnswer, docerr.CategoryOf(err))
	})
}

func (s *BuilderSuite) TestBooleanAnswers() {
	const id = "faktum.mottatt-dagpenger-siste-12-mnd"

	s.Run("true resolves the .svar.ja option", func() {
		qa, err := s.mapOne(fact(id, TypeBoolean, true))
		s.Require().NoError(err)
		want, err := textcatalog.Lookup[textcatalog.AnswerOptionText](s.catalog, id+".svar.ja")
		s.Require().NoError(err)
		s.Equal(models.Choice{Options: []models.SelectedOption{{Label: want.Label}}}, qa.Answer)
	})

	s.Run("false resolves the .svar.nei option with its alert", func() {
		qa, err := s.mapOne(fact(id, TypeBoolean, false))
		s.Require().NoError(err)
		choice, ok := qa.Answer.(models.Choice)
		s.Require().True(ok)
		s.Require().Len(choice.Options, 1)
		s.Equal("Nei", choice.Options[0].Label)
		s.Require().NotNil(choice.Options[0].Annotation)
		s.Equal(models.AlertWarning, choice.Options[0].Annotation.Kind)
	})

	s.Run("non-boolean value is malformed", func() {
		_, err := s.mapOne(fact(id, TypeBoolean, "ja"))
		s.Equal(docerr.MalformedAnswer, docerr.CategoryOf(err))
	})

	s.Run("missing option text fails", func() {
		_, err := s.mapOne(fact("faktum.arbeidstid", TypeBoolean, true))
		s.Equal(docerr.UnresolvedTextID, docerr.CategoryOf(err))
	})
}

func (s *BuilderSuite) TestChoiceAnswers() {
	s.Run("single choice resolves the chosen id", func() {
		qa, err := s.mapOne(fact("faktum.arbeidsforhold.endret", TypeSingleValue,
			"faktum.arbeidsforhold.endret.svar.sagt-opp-av-arbeidsgiver"))
		s.Require().NoError(err)
		s.Equal([]string{"Jeg er sagt opp av arbeidsgiver"}, models.Texts(qa.Answer))
	})

	s.Run("multi choice keeps source order", func() {
		qa, err := s.mapOne(fact("faktum.eget-gaardsbruk-type-gaardsbruk", TypeMultiValue, []string{
			"faktum.eget-gaardsbruk-type-gaardsbruk.svar.dyr",
			"faktum.eget-gaardsbruk-type-gaardsbruk.svar.jord",
		}))
		s.Require().NoError(err)
		s.Equal([]string{"Dyr", "Jord"}, models.Texts(qa.Answer))
	})

	s.Run("option id resolving to another kind is a mismatch", func() {
		_, err := s.mapOne(fact("faktum.arbeidsforhold.endret", TypeSingleValue, "faktum.arbeidstid"))
		s.Equal(docerr.KindMismatch, docerr.CategoryOf(err))
	})
}

type fixedNames map[string]string

func (f fixedNames) Name(code string, lang models.Language) (string, error) {
	name, ok := f[code+"/"+lang.String()]
	if !ok {
		return "", fmt.Errorf("unknown country %s", code)
	}
	return name, nil
}

func (s *BuilderSuite) TestCountryAnswer() {
	names := fixedNames{"NOR/" + models.English.String(): "Norway"}
	b, err := New(s.catalog, WithLanguage(models.English), WithCountryNames(names))
	s.Require().NoError(err)

	qas, err := b.MapFacts([]FactNode{fact("faktum.arbeidsforhold.land", TypeCountry, "NOR")}, 0)
	s.Require().NoError(err)
	s.Equal(models.Single{Text: "Norway"}, qas[0].Answer)

	_, err = b.MapFacts([]FactNode{fact("faktum.arbeidsforhold.land", TypeCountry, "XXX")}, 0)
	s.Equal(docerr.MalformedAnswer, docerr.CategoryOf(err))
}

func (s *BuilderSuite) TestDocumentAnswer() {
	s.Run("upload is summarized in the log", func() {
		qa, err := s.mapOne(fact("faktum.arbeidsavtale-opplasting", TypeDocument, map[string]string{
			"lastOppTidsstempel": "2024-01-05T10:15:30.123456",
			"urn":                "urn:vedlegg:3fa85f64/arbeidsavtale.pdf",
		}))
		s.Require().NoError(err)
		s.Equal(models.None{}, qa.Answer)
		s.Contains(s.logs.String(), "Du har lastet opp arbeidsavtale.pdf den 05.01.2024")
	})

	s.Run("malformed attachment is not fatal", func() {
		qa, err := s.mapOne(fact("faktum.arbeidsavtale-opplasting", TypeDocument, map[string]string{
			"lastOppTidsstempel": "i går",
			"urn":                "urn:vedlegg:x/y.pdf",
		}))
		s.Require().NoError(err)
		s.Equal(models.None{}, qa.Answer)
		s.Contains(s.logs.String(), `"category":"attachment_summary"`)
	})
}

func (s *BuilderSuite) TestUnknownTypeIsFatal() {
	_, err := s.mapOne(fact("faktum.arbeidstid", "valuta", "100"))
	s.Require().Error(err)
	s.Equal(docerr.UnknownAnswerType, docerr.CategoryOf(err))
	s.True(docerr.IsFatal(err))

	s.Run("nested unknown type fails the whole mapping", func() {
		nested := FactNode{
			TextID: "faktum.arbeidsforhold",
			Type:   TypeGenerator,
			Answer: json.RawMessage(`[[{"beskrivendeId":"faktum.arbeidstid","type":"valuta","svar":"1"}]]`),
		}
		qas, err := s.builder.MapFacts([]FactNode{nested}, 0)
		s.Nil(qas)
		s.Equal(docerr.UnknownAnswerType, docerr.CategoryOf(err))
	})
}

// =============================================================================
// Repeating Group Tests
// =============================================================================

func (s *BuilderSuite) TestGenerator() {
	tree, err := ParseAnswerTree(s.answers)
	s.Require().NoError(err)
	sections, err := s.builder.BuildSections(tree)
	s.Require().NoError(err)

	generator := sections[1].Questions[0]

	s.Run("one group per repetition", func() {
		s.Equal(models.None{}, generator.Answer)
		s.Require().Len(generator.FollowUpGroups, 2)
		s.Len(generator.FollowUpGroups[0].Items, 4)
		s.Len(generator.FollowUpGroups[1].Items, 3)
	})

	s.Run("group items are mapped like top-level facts", func() {
		first := generator.FollowUpGroups[0].Items
		s.Equal(models.Single{Text: "ACME AS"}, first[0].Answer)
		s.Equal(models.Single{Text: "Norge"}, first[1].Answer)
		s.Equal(models.Single{Text: "02.01.2024 - 04.03.2024"}, first[2].Answer)
		s.Equal([]string{"Jeg er sagt opp av arbeidsgiver"}, models.Texts(first[3].Answer))
	})

	s.Run("generator without repetitions has no groups", func() {
		qa, err := s.mapOne(fact("faktum.arbeidsforhold", TypeGenerator, nil))
		s.Require().NoError(err)
		s.Empty(qa.FollowUpGroups)
		s.NotContains(s.logs.String(), `"category":"missing_answer"`)
	})
}

// nestedGenerator builds a generator nested depth levels deep with a text leaf.
func nestedGenerator(depth int) FactNode {
	node := fact("faktum.arbeidsforhold.navn-bedrift", TypeText, "leaf")
	for range depth {
		raw, err := json.Marshal([][]FactNode{{node}})
		if err != nil {
			panic(err)
		}
		node = FactNode{TextID: "faktum.arbeidsforhold", Type: TypeGenerator, Answer: raw}
	}
	return node
}

func (s *BuilderSuite) TestNestingDepth() {
	s.Run("depth three is preserved", func() {
		qa, err := s.mapOne(nestedGenerator(3))
		s.Require().NoError(err)
		level := qa
		for range 3 {
			s.Require().Len(level.FollowUpGroups, 1)
			s.Require().Len(level.FollowUpGroups[0].Items, 1)
			level = level.FollowUpGroups[0].Items[0]
		}
		s.Equal(models.Single{Text: "leaf"}, level.Answer)
	})

	s.Run("exceeding the limit is fatal", func() {
		b, err := New(s.catalog, WithMaxDepth(2))
		s.Require().NoError(err)

		_, err = b.MapFacts([]FactNode{nestedGenerator(2)}, 0)
		s.Require().NoError(err)

		_, err = b.MapFacts([]FactNode{nestedGenerator(3)}, 0)
		s.Equal(docerr.MaxDepthExceeded, docerr.CategoryOf(err))
	})

	s.Run("malformed repetitions are fatal", func() {
		_, err := s.mapOne(fact("faktum.arbeidsforhold", TypeGenerator, "ikke en liste"))
		s.Equal(docerr.MalformedAnswer, docerr.CategoryOf(err))
	})
}

// =============================================================================
// Documentation Requirement Tests
// =============================================================================

func (s *BuilderSuite) TestBuildDocumentationRequirements() {
	tree, err := ParseRequirementTree(s.requirements)
	s.Require().NoError(err)

	reqs, err := s.builder.BuildDocumentationRequirements(tree)
	s.Require().NoError(err)

	s.Run("unanswered requirements are dropped", func() {
		s.Require().Len(reqs, 3)
	})

	s.Run("submit now becomes Submitted with the answer note", func() {
		submitted, ok := reqs[0].(models.Submitted)
		s.Require().True(ok)
		s.Equal("5", submitted.ID)
		s.Equal("Arbeidsavtale", submitted.Label)
		s.Equal("ACME AS", submitted.AnswerNote)
		s.NotEmpty(submitted.Description)
		s.NotNil(submitted.HelpText)
	})

	s.Run("other choices become Deferred with justification", func() {
		deferred, ok := reqs[1].(models.Deferred)
		s.Require().True(ok)
		s.Equal(models.AlreadySubmitted, deferred.Choice)
		s.Equal("Sendt med forrige søknad", deferred.Justification)
		s.Empty(deferred.AnswerNote)

		s.Equal(models.SubmitLater, reqs[2].RequirementChoice())
	})

	s.Run("deferred without justification is fatal", func() {
		later := "dokumentkrav.svar.andre.sender"
		_, err := s.builder.BuildDocumentationRequirements(RequirementTree{Requirements: []RequirementNode{
			{ID: "1", TextID: "faktum.dokument-oppsigelse", Answer: &later},
		}})
		s.Equal(docerr.MissingJustification, docerr.CategoryOf(err))
	})

	s.Run("unknown choice is fatal", func() {
		answer := "dokumentkrav.svar.kanskje"
		_, err := s.builder.BuildDocumentationRequirements(RequirementTree{Requirements: []RequirementNode{
			{ID: "1", TextID: "faktum.dokument-oppsigelse", Answer: &answer},
		}})
		s.Equal(docerr.UnknownRequirementChoice, docerr.CategoryOf(err))
	})
}

// =============================================================================
// Assemble Tests
// =============================================================================

func (s *BuilderSuite) TestAssemble() {
	ctx := context.Background()

	s.Run("standard submission", func() {
		sub, err := s.builder.Assemble(ctx, s.answers, s.requirements, models.Standard)
		s.Require().NoError(err)
		s.Len(sub.Sections, 2)
		s.Len(sub.DocumentationRequirements, 3)
		s.Equal("Søknad om dagpenger", sub.GeneralText.MainHeading)
		s.Equal("NAV", sub.PDFMetaTags.Author)
		s.Equal(models.Bokmal, sub.Language)
		_, attached := sub.InfoBlock()
		s.False(attached)
	})

	s.Run("general intake uses its own headings", func() {
		sub, err := s.builder.Assemble(ctx, s.answers, s.requirements, models.GeneralIntake)
		s.Require().NoError(err)
		s.Equal("Generell innsending", sub.GeneralText.MainHeading)
	})

	s.Run("supplementary kind is refused", func() {
		_, err := s.builder.Assemble(ctx, s.answers, s.requirements, models.Supplementary)
		s.Error(err)
	})

	s.Run("malformed answer tree", func() {
		_, err := s.builder.Assemble(ctx, []byte(`{"seksjoner":`), s.requirements, models.Standard)
		s.ErrorContains(err, "parse answer tree")
	})

	s.Run("supplementary submission has no sections", func() {
		sub, err := s.builder.AssembleSupplementary(ctx, s.requirements)
		s.Require().NoError(err)
		s.Empty(sub.Sections)
		s.Len(sub.DocumentationRequirements, 3)
		s.Equal(models.Supplementary, sub.Kind)
		s.Equal("Ettersending", sub.GeneralText.MainHeading)
	})
}

func TestAttachmentSummary(t *testing.T) {
	summary, err := attachmentSummary(json.RawMessage(`{"lastOppTidsstempel":"2022-03-30T10:00:00","urn":"urn:vedlegg:abc/lønnsslipp.png"}`))
	require.NoError(t, err)
	assert.Equal(t, "Du har lastet opp lønnsslipp.png den 30.03.2022", summary)

	_, err = attachmentSummary(json.RawMessage(`{"lastOppTidsstempel":"2022-03-30T10:00:00"}`))
	assert.Error(t, err)
}
