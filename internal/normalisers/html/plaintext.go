package html

import (
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for the substitution pipeline.
var (
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	closeP        = regexp.MustCompile(`(?i)</p\s*>`)
	closeDiv      = regexp.MustCompile(`(?i)</div\s*>`)
	closeLi       = regexp.MustCompile(`(?i)</li\s*>`)
	closeTr       = regexp.MustCompile(`(?i)</tr\s*>`)
	openLi        = regexp.MustCompile(`(?i)<li(\s[^>]*)?>`)
	closeTd       = regexp.MustCompile(`(?i)</td\s*>`)
	allTags       = regexp.MustCompile(`<[^>]*>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

var entities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// ToPlainText strips HTML into plain text. The steps run in a fixed order:
// layout tags become newlines, bullets and tabs; remaining tags are
// dropped; the six basic entities are decoded; whitespace is collapsed.
func ToPlainText(s string) string {
	s = brTags.ReplaceAllString(s, "\n")
	s = closeP.ReplaceAllString(s, "\n\n")
	s = closeDiv.ReplaceAllString(s, "\n")
	s = closeLi.ReplaceAllString(s, "\n")
	s = closeTr.ReplaceAllString(s, "\n")
	s = openLi.ReplaceAllString(s, "- ")
	s = closeTd.ReplaceAllString(s, "\t")

	s = allTags.ReplaceAllString(s, "")

	s = entities.Replace(s)

	s = multiSpaces.ReplaceAllString(s, " ")
	s = multiNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// LooksLikeHTML reports whether s contains something resembling markup.
func LooksLikeHTML(s string) bool {
	return allTags.MatchString(s)
}
