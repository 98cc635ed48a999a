package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)
	dashRunRegex  = regexp.MustCompile(`-{2,}`)

	accentReplacer = strings.NewReplacer(
		"à", "a", "á", "a", "â", "a", "ä", "a",
		"è", "e", "é", "e", "ê", "e", "ë", "e",
		"ì", "i", "í", "i", "î", "i", "ï", "i",
		"ò", "o", "ó", "o", "ô", "o", "ö", "o",
		"ù", "u", "ú", "u", "û", "u", "ü", "u",
		"ç", "c", "ñ", "n",
	)
)

// Make converts free text into a URL safe slug.
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = accentReplacer.Replace(s)
	s = nonAlnumRegex.ReplaceAllString(s, "-")
	s = dashRunRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ForProduct builds the product slug from name and article code. The
// code suffix keeps slugs unique across products with the same name.
func ForProduct(name, code string) string {
	base := Make(name)
	codePart := Make(code)
	if base == "" {
		return codePart
	}
	if codePart == "" {
		return base
	}
	return base + "-" + codePart
}
