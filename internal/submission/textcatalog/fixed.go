package textcatalog

import "soknadpdf/internal/submission/models"

// Fixed application text ids the document requires.
const (
	IDMainHeading = "pdf.hovedoverskrift"
	IDTitle       = "pdf.tittel"
	IDAnswer      = "pdf.svar"
	IDDateSent    = "pdf.datosendt"
	IDSSN         = "pdf.fnr"

	IDPDFADescription = "pdfa.description"
	IDPDFASubject     = "pdfa.subject"
	IDPDFAAuthor      = "pdfa.author"

	IDGeneralIntakeMainHeading = "pdf.generell-innsending.hovedoverskrift"
	IDGeneralIntakeTitle       = "pdf.generell-innsending.tittel"
	IDSupplementaryMainHeading = "pdf.ettersending.hovedoverskrift"
	IDSupplementaryTitle       = "pdf.ettersending.tittel"
)

func headingIDs(kind models.Kind) (heading, title string) {
	switch kind {
	case models.GeneralIntake:
		return IDGeneralIntakeMainHeading, IDGeneralIntakeTitle
	case models.Supplementary:
		return IDSupplementaryMainHeading, IDSupplementaryTitle
	default:
		return IDMainHeading, IDTitle
	}
}

// GeneralText resolves the document labels for a submission kind.
func (c *Catalog) GeneralText(kind models.Kind) (models.GeneralText, error) {
	headingID, titleID := headingIDs(kind)
	ids := []string{headingID, titleID, IDAnswer, IDDateSent, IDSSN}
	texts := make([]string, len(ids))
	for i, id := range ids {
		t, err := c.Text(id)
		if err != nil {
			return models.GeneralText{}, err
		}
		texts[i] = t
	}
	return models.GeneralText{
		MainHeading: texts[0],
		Title:       texts[1],
		AnswerLabel: texts[2],
		DateLabel:   texts[3],
		SSNLabel:    texts[4],
	}, nil
}

// PDFMetaTags resolves the PDF/A metadata texts.
func (c *Catalog) PDFMetaTags() (models.PDFMetaTags, error) {
	description, err := c.Text(IDPDFADescription)
	if err != nil {
		return models.PDFMetaTags{}, err
	}
	subject, err := c.Text(IDPDFASubject)
	if err != nil {
		return models.PDFMetaTags{}, err
	}
	author, err := c.Text(IDPDFAAuthor)
	if err != nil {
		return models.PDFMetaTags{}, err
	}
	return models.PDFMetaTags{Description: description, Subject: subject, Author: author}, nil
}
