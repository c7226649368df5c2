package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

var german = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
	"é", "e", "è", "e", "à", "a", "ç", "c",
)

// Generate turns a free-form name into a lowercase, hyphen-separated token
// safe for storage keys and URLs. German umlauts are expanded.
//
// Examples:
//   - "Käsespätzle" → "kaesespaetzle"
//   - "Straße 12" → "strasse-12"
//   - "Pixel 8 / Anna's" → "pixel-8-anna-s"
func Generate(name string) string {
	slug := german.Replace(strings.ToLower(strings.TrimSpace(name)))
	slug = slugRegexp.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Namespace is Generate with a fallback for inputs that reduce to nothing.
func Namespace(name, fallback string) string {
	if s := Generate(name); s != "" {
		return s
	}
	return fallback
}
