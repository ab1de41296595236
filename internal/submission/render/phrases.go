package render

import "soknadpdf/internal/submission/models"

// phrases are the fixed document texts that are not part of the text catalog.
type phrases struct {
	infoBookmark     string
	documentation    string
	justification    string
	nameLabel        string
	addressLabel     string
	alertKinds       map[models.AlertKind]string
	requirementIntro map[models.RequirementChoice]string
}

var phrasesByLanguage = map[models.Language]phrases{
	models.Bokmal: {
		infoBookmark:  "Info om søknad",
		documentation: "Dokumentasjon",
		justification: "Begrunnelse",
		nameLabel:     "Navn",
		addressLabel:  "Adresse",
		alertKinds: map[models.AlertKind]string{
			models.AlertInfo:    "Info",
			models.AlertWarning: "Advarsel",
			models.AlertError:   "Feil",
			models.AlertSuccess: "Suksess",
		},
		requirementIntro: map[models.RequirementChoice]string{
			models.SubmitNow:        "Du har lagt ved følgende dokumentasjon:",
			models.SubmitLater:      "Du har sagt at du skal sende følgende dokumentasjon:",
			models.AlreadySubmitted: "Du har sagt at du tidligere har sendt inn følgende dokumentasjon:",
			models.OthersSubmit:     "Du har sagt at andre skal sende følgende dokumentasjon:",
			models.NotSubmitting:    "Du har sagt at du ikke sender følgende dokumentasjon:",
		},
	},
	models.English: {
		infoBookmark:  "About the application",
		documentation: "Documentation",
		justification: "Reason",
		nameLabel:     "Name",
		addressLabel:  "Address",
		alertKinds: map[models.AlertKind]string{
			models.AlertInfo:    "Info",
			models.AlertWarning: "Warning",
			models.AlertError:   "Error",
			models.AlertSuccess: "Success",
		},
		requirementIntro: map[models.RequirementChoice]string{
			models.SubmitNow:        "You have attached the following documentation:",
			models.SubmitLater:      "You have said that you will send the following documentation:",
			models.AlreadySubmitted: "You have said that you have previously sent the following documentation:",
			models.OthersSubmit:     "You have said that others will send the following documentation:",
			models.NotSubmitting:    "You have said that you will not send the following documentation:",
		},
	},
}

func phrasesFor(lang models.Language) phrases {
	if p, ok := phrasesByLanguage[lang]; ok {
		return p
	}
	return phrasesByLanguage[models.Bokmal]
}
