package codescan

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// DefaultLanguage is used for unknown extensions and hints.
const DefaultLanguage = domain.LangTypeScript

var extensions = map[string]domain.Language{
	".ts":   domain.LangTypeScript,
	".tsx":  domain.LangTypeScript,
	".mts":  domain.LangTypeScript,
	".cts":  domain.LangTypeScript,
	".js":   domain.LangJavaScript,
	".jsx":  domain.LangJavaScript,
	".mjs":  domain.LangJavaScript,
	".cjs":  domain.LangJavaScript,
	".py":   domain.LangPython,
	".cs":   domain.LangCSharp,
	".java": domain.LangJava,
	".go":   domain.LangGo,
	".rs":   domain.LangRust,
	".xpp":  domain.LangXPP,
}

var aliases = map[string]domain.Language{
	"typescript": domain.LangTypeScript,
	"ts":         domain.LangTypeScript,
	"javascript": domain.LangJavaScript,
	"js":         domain.LangJavaScript,
	"python":     domain.LangPython,
	"py":         domain.LangPython,
	"csharp":     domain.LangCSharp,
	"c#":         domain.LangCSharp,
	"cs":         domain.LangCSharp,
	"java":       domain.LangJava,
	"go":         domain.LangGo,
	"golang":     domain.LangGo,
	"rust":       domain.LangRust,
	"rs":         domain.LangRust,
	"xpp":        domain.LangXPP,
	"x++":        domain.LangXPP,
}

// LanguageForPath maps a file extension to a language.
func LanguageForPath(path string) domain.Language {
	if lang, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return DefaultLanguage
}

// ParseLanguage resolves a language name or common alias.
func ParseLanguage(hint string) (domain.Language, bool) {
	lang, ok := aliases[strings.ToLower(strings.TrimSpace(hint))]
	return lang, ok
}

// DetectLanguage prefers an explicit hint and falls back to the path
// extension, then to DefaultLanguage.
func DetectLanguage(hint, path string) domain.Language {
	if lang, ok := ParseLanguage(hint); ok {
		return lang
	}
	return LanguageForPath(path)
}

// Languages lists every supported language.
func Languages() []domain.Language {
	return []domain.Language{
		domain.LangTypeScript,
		domain.LangJavaScript,
		domain.LangPython,
		domain.LangCSharp,
		domain.LangJava,
		domain.LangGo,
		domain.LangRust,
		domain.LangXPP,
	}
}
