package textcatalog

import (
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"soknadpdf/internal/submission/models"
)

var namedEntity = regexp.MustCompile(`&([A-Za-z][A-Za-z0-9]*);`)

// xmlEntities are the only named entities an undeclared XHTML document may use.
var xmlEntities = map[string]bool{"amp": true, "lt": true, "gt": true, "quot": true, "apos": true}

// validateMarkup checks that a catalog fragment is well-formed XML once wrapped in
// a single element. HTML named entities are rewritten as numeric character
// references so the fragment stays well-formed inside the rendered document;
// unknown entities are rejected. Void elements must be self-closed.
func validateMarkup(fragment string) (models.Markup, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	fragment = numericEntities(fragment)

	d := xml.NewDecoder(strings.NewReader("<div>" + fragment + "</div>"))
	d.Strict = true
	for {
		_, err := d.Token()
		if errors.Is(err, io.EOF) {
			return models.Markup(fragment), nil
		}
		if err != nil {
			return "", err
		}
	}
}

func numericEntities(fragment string) string {
	return namedEntity.ReplaceAllStringFunc(fragment, func(ref string) string {
		name := ref[1 : len(ref)-1]
		if xmlEntities[name] {
			return ref
		}
		value, ok := xml.HTMLEntity[name]
		if !ok {
			return ref
		}
		var b strings.Builder
		for _, r := range value {
			b.WriteString("&#" + strconv.Itoa(int(r)) + ";")
		}
		return b.String()
	})
}
