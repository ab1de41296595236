package render

import (
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"soknadpdf/internal/submission/models"
)

const (
	infoDateLayout      = "02.01.2006 15:04"
	documentationAnchor = "dokumentasjon"
)

type documentView struct {
	Lang          string
	Title         string
	Meta          models.PDFMetaTags
	Stylesheet    template.CSS
	Bookmarks     []bookmarkView
	MainHeading   string
	Info          infoView
	Sections      []sectionView
	Documentation *documentationView
}

type bookmarkView struct {
	Name string
	Href string
}

type labelled struct {
	Label string
	Value string
}

type infoView struct {
	Lines []labelled
}

type helpView struct {
	Title string
	Body  template.HTML
}

type sectionView struct {
	Anchor      string
	Heading     string
	Description template.HTML
	Help        *helpView
	Questions   []questionView
}

type questionView struct {
	Anchor      string
	Question    string
	Description template.HTML
	Help        *helpView
	Answer      answerView
	Alerts      []alertView
	Groups      [][]questionView
}

type answerView struct {
	Label   string
	Text    string
	Options []string
	Present bool
}

type alertView struct {
	Class   string
	Heading string
	Body    template.HTML
}

type documentationView struct {
	Anchor  string
	Heading string
	Groups  []requirementGroupView
}

type requirementGroupView struct {
	Intro string
	Items []requirementView
}

type requirementView struct {
	Title              string
	Description        template.HTML
	Help               *helpView
	JustificationLabel string
	Justification      string
}

// viewBuilder projects a Submission onto the template view for one mode. Compact
// mode leaves every descriptive field empty so templates render only what is set.
type viewBuilder struct {
	sub      *models.Submission
	full     bool
	phrases  phrases
	location *time.Location
	anchors  *anchors
}

func (v *viewBuilder) document(stylesheet template.CSS) documentView {
	general := v.sub.GeneralText
	doc := documentView{
		Lang:  v.sub.Language.LangAttribute(),
		Title: clean(general.Title),
		Meta: models.PDFMetaTags{
			Description: clean(v.sub.PDFMetaTags.Description),
			Subject:     clean(v.sub.PDFMetaTags.Subject),
			Author:      clean(v.sub.PDFMetaTags.Author),
		},
		Stylesheet:  stylesheet,
		MainHeading: clean(general.MainHeading),
		Info:        v.info(),
	}

	doc.Bookmarks = append(doc.Bookmarks,
		bookmarkView{Name: clean(general.MainHeading), Href: "#hovedoverskrift"},
		bookmarkView{Name: v.phrases.infoBookmark, Href: "#infoblokk"},
	)
	for _, s := range v.sub.Sections {
		sv := v.section(s)
		doc.Sections = append(doc.Sections, sv)
		doc.Bookmarks = append(doc.Bookmarks, bookmarkView{Name: sv.Heading, Href: "#" + sv.Anchor})
	}
	if docs := v.documentation(); docs != nil {
		doc.Documentation = docs
		doc.Bookmarks = append(doc.Bookmarks, bookmarkView{Name: docs.Heading, Href: "#" + docs.Anchor})
	}
	return doc
}

func (v *viewBuilder) info() infoView {
	general := v.sub.GeneralText
	ib, ok := v.sub.InfoBlock()
	if !ok {
		return infoView{}
	}
	lines := []labelled{{Label: clean(general.SSNLabel), Value: clean(ib.SSN)}}
	if ib.Name != "" {
		lines = append(lines, labelled{Label: v.phrases.nameLabel, Value: clean(ib.Name)})
	}
	if ib.Address != "" {
		lines = append(lines, labelled{Label: v.phrases.addressLabel, Value: clean(ib.Address)})
	}
	lines = append(lines, labelled{Label: clean(general.DateLabel), Value: ib.SubmittedAt.In(v.location).Format(infoDateLayout)})
	return infoView{Lines: lines}
}

func (v *viewBuilder) section(s models.Section) sectionView {
	sv := sectionView{
		Anchor:  v.anchors.next("seksjon-", s.Heading),
		Heading: clean(s.Heading),
	}
	if v.full {
		sv.Description = template.HTML(s.Description)
		sv.Help = help(s.HelpText)
	}
	for _, q := range s.Questions {
		sv.Questions = append(sv.Questions, v.question(q))
	}
	return sv
}

func (v *viewBuilder) question(q models.QuestionAnswer) questionView {
	qv := questionView{
		Anchor:   v.anchors.next("sporsmal-", q.Question),
		Question: clean(q.Question),
		Answer:   v.answer(q.Answer),
	}
	if v.full {
		qv.Description = template.HTML(q.Description)
		qv.Help = help(q.HelpText)
		qv.Alerts = v.alerts(q.Answer)
	}
	for _, g := range q.FollowUpGroups {
		items := make([]questionView, 0, len(g.Items))
		for _, item := range g.Items {
			items = append(items, v.question(item))
		}
		qv.Groups = append(qv.Groups, items)
	}
	return qv
}

func (v *viewBuilder) answer(a models.Answer) answerView {
	label := clean(v.sub.GeneralText.AnswerLabel)
	return models.MatchAnswer(a,
		func(s models.Single) answerView {
			return answerView{Label: label, Text: clean(s.Text), Present: true}
		},
		func(c models.Choice) answerView {
			switch len(c.Options) {
			case 0:
				return answerView{}
			case 1:
				return answerView{Label: label, Text: clean(c.Options[0].Label), Present: true}
			default:
				options := models.Texts(c)
				for i := range options {
					options[i] = clean(options[i])
				}
				return answerView{Label: label, Options: options, Present: true}
			}
		},
		func() answerView { return answerView{} },
	)
}

func (v *viewBuilder) alerts(a models.Answer) []alertView {
	return models.MatchAnswer(a,
		func(models.Single) []alertView { return nil },
		func(c models.Choice) []alertView {
			var out []alertView
			for _, o := range c.Options {
				if o.Annotation == nil {
					continue
				}
				heading := v.phrases.alertKinds[o.Annotation.Kind]
				if o.Annotation.Title != "" {
					heading += ": " + clean(o.Annotation.Title)
				}
				out = append(out, alertView{
					Class:   "hjelpetekst alert-" + string(o.Annotation.Kind),
					Heading: heading,
					Body:    template.HTML(o.Annotation.Body),
				})
			}
			return out
		},
		func() []alertView { return nil },
	)
}

func (v *viewBuilder) documentation() *documentationView {
	reqs := v.sub.DocumentationRequirements
	if len(reqs) == 0 {
		return nil
	}
	dv := &documentationView{Anchor: documentationAnchor, Heading: v.phrases.documentation}
	for _, choice := range models.RequirementChoices {
		var items []requirementView
		for _, r := range reqs {
			if r.RequirementChoice() != choice {
				continue
			}
			items = append(items, v.requirement(r))
		}
		if len(items) == 0 {
			continue
		}
		dv.Groups = append(dv.Groups, requirementGroupView{Intro: v.phrases.requirementIntro[choice], Items: items})
	}
	return dv
}

func (v *viewBuilder) requirement(r models.DocRequirement) requirementView {
	text := models.Text(r)
	rv := requirementView{Title: clean(text.Label)}
	if text.AnswerNote != "" {
		rv.Title += " (" + clean(text.AnswerNote) + ")"
	}
	if !v.full {
		return rv
	}
	rv.Description = template.HTML(text.Description)
	rv.Help = help(text.HelpText)
	rv.Justification = models.MatchRequirement(r,
		func(models.Submitted) string { return "" },
		func(d models.Deferred) string { return clean(d.Justification) },
	)
	if rv.Justification != "" {
		rv.JustificationLabel = v.phrases.justification
	}
	return rv
}

func help(h *models.HelpText) *helpView {
	if h == nil {
		return nil
	}
	return &helpView{Title: clean(h.Title), Body: template.HTML(h.Body)}
}

// clean drops runes that XML 1.0 does not allow in character data. User answers
// occasionally carry control characters pasted from other documents. Invalid
// UTF-8 bytes are removed first; an encoded U+FFFD is kept.
func clean(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF, r >= 0xD800 && r <= 0xDFFF:
			return -1
		default:
			return r
		}
	}, s)
}
