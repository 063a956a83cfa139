package match

import (
	"strings"
	"unicode"
)

// Normalize folds an identifier for fuzzy comparison: CamelCase, snake_case
// and kebab-case spellings of the same words normalize to the same string.
//
//	Normalize("OrderID")  == "orderid"
//	Normalize("order_id") == "orderid"
func Normalize(s string) string {
	return strings.Join(Tokens(s), "")
}

// Tokens splits an identifier into lowercase words.
//
//	Tokens("XMLParser")       == ["xml", "parser"]
//	Tokens("getHTTPResponse") == ["get", "http", "response"]
func Tokens(s string) []string {
	var (
		tokens []string
		cur    []rune
	)

	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && wordBoundary(runes, i) {
			flush()
		}

		cur = append(cur, r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

func wordBoundary(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	// orderID: lower -> upper
	if !unicode.IsUpper(prev) {
		return !isSeparator(prev)
	}

	// XMLParser: last upper of an acronym followed by lower starts a word
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
