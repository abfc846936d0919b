package listing

import "strings"

// cell text replacements for characters that garble File Exchange ingestion
var textReplacer = strings.NewReplacer(
	"�", "'",
	"’", "'",
	"‘", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
	"…", "...",
	"•", "-",
	"©", "(c)",
)

// NormalizeText maps typographic punctuation and replacement characters to
// ASCII and trims surrounding whitespace.
func NormalizeText(value string) string {
	return strings.TrimSpace(textReplacer.Replace(value))
}

// Truncate shortens text to limit runes, appending "..." when it had to cut.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return strings.TrimRight(string(runes[:limit-3]), " ") + "..."
}
