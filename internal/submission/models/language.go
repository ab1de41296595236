package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is the document language chosen by the applicant.
type Language int

const (
	Bokmal Language = iota
	English
)

// ParseLanguage parses the need message's document language. An empty value means
// Bokmål.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nb", "no", "nob":
		return Bokmal, nil
	case "en", "eng":
		return English, nil
	default:
		return Bokmal, fmt.Errorf("unsupported document language %q", s)
	}
}

// LangAttribute is the value of the document's lang attribute.
func (l Language) LangAttribute() string {
	if l == English {
		return "en"
	}
	return "no"
}

var norwegianBokmal = language.MustParse("nb")

// Tag is the BCP 47 tag used for localized names.
func (l Language) Tag() language.Tag {
	if l == English {
		return language.English
	}
	return norwegianBokmal
}

func (l Language) String() string {
	if l == English {
		return "english"
	}
	return "bokmal"
}
