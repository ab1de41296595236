package textcatalog

// Wire shapes of the text service response. Only the fields the document needs are
// decoded.

type wireCatalog struct {
	SanityTexts wireTexts `json:"sanityTexts"`
}

type wireTexts struct {
	Sections      []wireSection       `json:"seksjoner"`
	Facts         []wireFact          `json:"fakta"`
	AnswerOptions []wireAnswerOption  `json:"svaralternativer"`
	AppTexts      []wireAppText       `json:"apptekster"`
	Documentation []wireDocumentation `json:"dokumentkrav"`
}

type wireHelpText struct {
	Title *string `json:"title"`
	Body  string  `json:"body"`
}

type wireAlertText struct {
	Title *string `json:"title"`
	Type  string  `json:"type"`
	Body  string  `json:"body"`
}

type wireSection struct {
	TextID      string        `json:"textId"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	HelpText    *wireHelpText `json:"helpText"`
}

type wireFact struct {
	TextID      string        `json:"textId"`
	Text        string        `json:"text"`
	Description *string       `json:"description"`
	HelpText    *wireHelpText `json:"helpText"`
	Unit        *string       `json:"unit"`
}

type wireAnswerOption struct {
	TextID    string         `json:"textId"`
	Text      string         `json:"text"`
	AlertText *wireAlertText `json:"alertText"`
}

type wireAppText struct {
	TextID    string `json:"textId"`
	ValueText string `json:"valueText"`
}

type wireDocumentation struct {
	TextID      string        `json:"textId"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	HelpText    *wireHelpText `json:"helpText"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
