package listing

import (
	"regexp"
)

// The agent's description HTML carries bibliographic details as list items,
// e.g. <li>Author: Jane Doe</li>. Author and Title feed the workbook's title
// and catalog columns.

var (
	authorPattern = regexp.MustCompile(`(?is)<li>\s*Author:\s*(.*?)</li>`)
	titlePattern  = regexp.MustCompile(`(?is)<li>\s*Title:\s*(.*?)</li>`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// ExtractMetadata pulls the author and book title out of the description
// HTML. Missing fields come back empty; the joiner substitutes fallbacks.
func ExtractMetadata(descriptionHTML string) (author, title string) {
	return extractField(authorPattern, descriptionHTML), extractField(titlePattern, descriptionHTML)
}

func extractField(pattern *regexp.Regexp, html string) string {
	match := pattern.FindStringSubmatch(html)
	if match == nil {
		return ""
	}
	return NormalizeText(tagPattern.ReplaceAllString(match[1], ""))
}
