package render

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that do not decompose to an ASCII base.
var foldReplacer = strings.NewReplacer(
	"æ", "ae",
	"ø", "o",
	"å", "a",
	"ß", "ss",
	"đ", "d",
	"ł", "l",
)

// slug turns heading text into an ASCII anchor fragment: lower-cased, spaces to
// "-", diacritics stripped, anything outside [a-z0-9_-] replaced by "-".
func slug(text string) string {
	lowered := foldReplacer.Replace(strings.ToLower(text))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, lowered)
	if err != nil {
		folded = lowered
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// anchors hands out document-unique anchors. A repeated anchor gets a positional
// suffix in document order: x, x-2, x-3.
type anchors struct {
	used  map[string]bool
	count map[string]int
}

func newAnchors() *anchors {
	return &anchors{used: make(map[string]bool), count: make(map[string]int)}
}

func (a *anchors) next(prefix, heading string) string {
	base := prefix + slug(heading)
	for n := a.count[base] + 1; ; n++ {
		candidate := base
		if n > 1 {
			candidate = base + "-" + strconv.Itoa(n)
		}
		if !a.used[candidate] {
			a.count[base] = n
			a.used[candidate] = true
			return candidate
		}
	}
}
