package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// GenericProductName é usado quando a URL não permite derivar nada
const GenericProductName = "Unknown Product"

// Segmentos que marcam o tipo de página e não descrevem o produto
var nonDescriptiveSlugs = map[string]struct{}{
	"dp": {}, "gp": {}, "p": {}, "pd": {},
	"product": {}, "products": {}, "product-reviews": {},
	"item": {}, "items": {}, "itm": {}, "ip": {},
	"review": {}, "reviews": {},
	"detail": {}, "details": {},
	"buy": {}, "shop": {}, "catalog": {},
}

var fileExtensions = []string{".html", ".htm", ".php", ".aspx", ".asp", ".jsp", ".cfm", ".cgi"}

// Identificadores opacos como ASINs (B0ExampleXYZ) ou SKUs
var opaqueIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{8,}$`)

var separatorReplacer = strings.NewReplacer("-", " ", "_", " ", "+", " ", ".", " ")

// DeriveProductName monta um nome legível a partir do host e do caminho da URL.
// Ex.: https://www.example.com/dp/blue-wireless-mouse -> "Example.com - Blue Wireless Mouse"
func DeriveProductName(u *url.URL) (name string) {
	defer func() {
		if r := recover(); r != nil {
			name = GenericProductName
		}
	}()

	if u == nil || u.Hostname() == "" {
		return GenericProductName
	}

	base := capitalize(strings.TrimPrefix(strings.ToLower(u.Hostname()), "www."))

	var segments []string
	for _, segment := range strings.Split(u.Path, "/") {
		if !isDescriptive(segment) {
			continue
		}
		if words := titleWords(segment); words != "" {
			segments = append(segments, words)
		}
	}

	if len(segments) == 0 {
		return base + " Product"
	}

	// Um segmento de uma palavra só costuma ser pouco informativo, então
	// inclui o anterior quando existir
	label := segments[len(segments)-1]
	if len(strings.Fields(label)) == 1 && len(segments) > 1 {
		label = segments[len(segments)-2] + " " + label
	}

	return base + " - " + label
}

func isDescriptive(segment string) bool {
	if segment == "" {
		return false
	}

	lower := strings.ToLower(segment)
	if _, ok := nonDescriptiveSlugs[lower]; ok {
		return false
	}
	if opaqueIDPattern.MatchString(segment) && strings.ContainsAny(segment, "0123456789") {
		return false
	}
	for _, ext := range fileExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}

	if utf8.RuneCountInString(segment) <= 3 || isNumeric(segment) {
		return false
	}
	return true
}

func titleWords(segment string) string {
	words := strings.Fields(separatorReplacer.Replace(segment))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
