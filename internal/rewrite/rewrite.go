// Package rewrite converts conversational phrases into slash commands.
package rewrite

import (
	"regexp"
	"strings"
)

var (
	reCalcPhrase   = regexp.MustCompile(`(?i)what is|calculate`)
	reDefinePhrase = regexp.MustCompile(`(?i)define|what does|mean`)
	reTrailPunct   = regexp.MustCompile(`[?.,]+$`)
)

// Command rewrites free text into an explicit slash command. It returns
// ok=false when no rule matches, in which case the text is dispatched as-is.
//
// Rules are tried in order and the first match wins:
//   - "... weather in <city> ..."        -> /weather <city>
//   - "what is ..." / "calculate ..."    -> /calc <expression>
//   - "define ..." / "what does ... mean" -> /define <word>
func Command(text string) (string, bool) {
	lower := strings.ToLower(text)

	if idx := strings.Index(lower, "weather in"); idx >= 0 {
		city := lower[idx+len("weather in"):]
		city = strings.TrimSpace(city)
		city = reTrailPunct.ReplaceAllString(city, "")
		return "/weather " + city, true
	}

	if strings.HasPrefix(lower, "what is") || strings.HasPrefix(lower, "calculate") {
		expr := reCalcPhrase.ReplaceAllString(text, "")
		expr = strings.TrimSpace(expr)
		return "/calc " + expr, true
	}

	if strings.HasPrefix(lower, "define") || strings.HasPrefix(lower, "what does") {
		word := reDefinePhrase.ReplaceAllString(text, "")
		word = strings.TrimSpace(word)
		word = reTrailPunct.ReplaceAllString(word, "")
		return "/define " + word, true
	}

	return "", false
}
