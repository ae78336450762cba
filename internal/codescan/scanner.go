package codescan

import (
	"regexp"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// Scanner recognises the surface syntax of one language.
type Scanner interface {
	// Language identifies the language handled.
	Language() domain.Language

	// Declarations returns the ordered declaration patterns. The first
	// pattern matching a line wins.
	Declarations() []Pattern

	// Import returns the imported module named on line, if any.
	Import(line string) (string, bool)

	// Export returns the exported name declared on line, if any.
	Export(line string) (string, bool)

	// Reserved reports whether a captured name is a keyword that must not
	// be reported as a declaration.
	Reserved(name string) bool
}

// Pattern is a line-anchored declaration pattern. Kind pins the record
// type; when empty the type is sniffed from the line text.
type Pattern struct {
	Re   *regexp.Regexp
	Kind domain.CodeRecordType
}

func decl(expr string) Pattern {
	return Pattern{Re: regexp.MustCompile(expr)}
}

func pinned(kind domain.CodeRecordType, expr string) Pattern {
	return Pattern{Re: regexp.MustCompile(expr), Kind: kind}
}

// patternScanner is a Scanner driven entirely by regular expressions.
type patternScanner struct {
	lang     domain.Language
	decls    []Pattern
	imports  *regexp.Regexp
	exports  *regexp.Regexp
	reserved map[string]bool
}

func (s *patternScanner) Language() domain.Language { return s.lang }
func (s *patternScanner) Declarations() []Pattern  { return s.decls }
func (s *patternScanner) Reserved(name string) bool { return s.reserved[name] }

func (s *patternScanner) Import(line string) (string, bool) {
	return lastGroup(s.imports, line)
}

func (s *patternScanner) Export(line string) (string, bool) {
	return lastGroup(s.exports, line)
}

// lastGroup returns the last non-empty capture group of the first match.
func lastGroup(re *regexp.Regexp, line string) (string, bool) {
	if re == nil {
		return "", false
	}
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	for i := len(m) - 1; i >= 1; i-- {
		if m[i] != "" {
			return m[i], true
		}
	}
	return "", true
}

func words(ws ...string) map[string]bool {
	out := make(map[string]bool, len(ws))
	for _, w := range ws {
		out[w] = true
	}
	return out
}

// controlWords are never declaration names in the C-like languages.
var controlWords = []string{
	"if", "else", "for", "foreach", "while", "do", "switch", "case", "catch",
	"try", "finally", "return", "throw", "new", "using", "lock", "sizeof",
	"typeof", "await", "yield", "super", "this", "base",
}

var scanners = map[domain.Language]Scanner{}

func register(s *patternScanner) {
	scanners[s.lang] = s
}

// ScannerFor returns the scanner of lang, falling back to DefaultLanguage.
func ScannerFor(lang domain.Language) Scanner {
	if s, ok := scanners[lang]; ok {
		return s
	}
	return scanners[DefaultLanguage]
}
