// Package country resolves ISO 3166 country codes to display names in the document
// language.
package country

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"soknadpdf/internal/submission/models"
)

// Namer resolves a country code to a display name.
type Namer interface {
	Name(code string, lang models.Language) (string, error)
}

// DisplayNames resolves names from the CLDR tables in golang.org/x/text. Both
// alpha-2 and alpha-3 codes are accepted.
type DisplayNames struct{}

// Name returns the country's name in lang, falling back to English when the
// language has no entry for the region.
func (DisplayNames) Name(code string, lang models.Language) (string, error) {
	region, err := language.ParseRegion(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("parse country code %q: %w", code, err)
	}
	if name := display.Regions(lang.Tag()).Name(region); name != "" {
		return name, nil
	}
	if name := display.Regions(language.English).Name(region); name != "" {
		return name, nil
	}
	return region.String(), nil
}
