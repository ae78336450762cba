package codescan

import (
	"regexp"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

func init() {
	register(typescript(domain.LangTypeScript))
	register(typescript(domain.LangJavaScript))
	register(python())
	register(csharp())
	register(java())
	register(golang())
	register(rust())
	register(xpp())
}

// typescript covers both TypeScript and JavaScript.
func typescript(lang domain.Language) *patternScanner {
	return &patternScanner{
		lang: lang,
		decls: []Pattern{
			decl(`^\s*(?:export\s+)?(?:default\s+)?(?:declare\s+)?(?:abstract\s+)?class\s+(\w+)`),
			decl(`^\s*(?:export\s+)?(?:declare\s+)?interface\s+(\w+)`),
			decl(`^\s*(?:export\s+)?(?:declare\s+)?(?:const\s+)?enum\s+(\w+)`),
			decl(`^\s*(?:export\s+)?(?:declare\s+)?type\s+(\w+)\s*(?:<[^>]*>)?\s*=`),
			decl(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)`),
			pinned(domain.CodeFunction,
				`^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*(?::\s*[^=]+)?=\s*(?:async\s+)?(?:\([^)]*\)|\w+)\s*(?::\s*[^=]+)?=>`),
			decl(`^\s+(?:(?:public|private|protected|static|readonly|async|override|abstract|get|set)\s+)*(\w+)\s*(?:<[^>]*>)?\s*\([^)]*\)\s*(?::\s*[^{;=]+)?\s*\{`),
		},
		imports: regexp.MustCompile(
			`^\s*(?:import\s+(?:type\s+)?(?:.*?\s+from\s+)?['"]([^'"]+)['"]|(?:const|let|var)\s+.*?=\s*require\(\s*['"]([^'"]+)['"]\s*\))`),
		exports: regexp.MustCompile(
			`^\s*(?:export\s+(?:(?:default\s+)?(?:declare\s+)?(?:abstract\s+)?(?:async\s+)?(?:class|interface|enum|type|function\*?|const|let|var|namespace)\s+(\w+)|default\s+(\w+)|(\{[^}]*\}|\*(?:\s+as\s+\w+)?)\s+from)|(?:module\.)?exports\.(\w+)\s*=)`),
		reserved: words(append(controlWords, "function")...),
	}
}

func python() *patternScanner {
	return &patternScanner{
		lang: domain.LangPython,
		decls: []Pattern{
			decl(`^\s*class\s+(\w+)`),
			decl(`^\s*(?:async\s+)?def\s+(\w+)`),
		},
		imports:  regexp.MustCompile(`^\s*(?:from\s+([\w.]+)\s+import\s+.+|import\s+([\w.]+))`),
		exports:  regexp.MustCompile(`^(?:async\s+)?(?:def|class)\s+([A-Za-z]\w*)`),
		reserved: words(),
	}
}

// declEnd follows the declared name in a public member or type
// declaration: optional generic parameters, then an opening bracket, an
// initialiser, a base list or the end of the line.
const declEnd = `\s*(?:<[^>]*>)?(?:\s*[({:=;]|\s+(?:extends|implements|where)\b|\s*$)`

const csModifiers = `public|private|protected|internal|static|abstract|sealed|partial|readonly|unsafe|new|virtual|override|async|extern`

func csharp() *patternScanner {
	return &patternScanner{
		lang: domain.LangCSharp,
		decls: []Pattern{
			decl(`^\s*(?:(?:` + csModifiers + `)\s+)*(?:record\s+)?(?:class|interface|enum|struct)\s+(\w+)`),
			pinned(domain.CodeClass, `^\s*(?:(?:`+csModifiers+`)\s+)*record\s+(\w+)`),
			decl(`^\s*(?:(?:` + csModifiers + `)\s+)+[\w<>\[\],.?]+\s+(\w+)\s*(?:<[^>]*>)?\s*\(`),
		},
		imports: regexp.MustCompile(`^\s*(?:global\s+)?using\s+(?:static\s+)?(?:\w+\s*=\s*)?([\w.]+)\s*;`),
		exports: regexp.MustCompile(
			`^\s*(?:\[[^\]]*\]\s*)?public\s+(?:[\w<>\[\],.?]+\s+)*?(\w+)` + declEnd),
		reserved: words(controlWords...),
	}
}

const javaModifiers = `public|private|protected|static|abstract|final|sealed|non-sealed|strictfp|synchronized|native|default|transient`

func java() *patternScanner {
	return &patternScanner{
		lang: domain.LangJava,
		decls: []Pattern{
			decl(`^\s*(?:(?:` + javaModifiers + `)\s+)*(?:class|interface|@interface|enum)\s+(\w+)`),
			pinned(domain.CodeClass, `^\s*(?:(?:`+javaModifiers+`)\s+)*record\s+(\w+)\s*[(<]`),
			decl(`^\s*(?:(?:` + javaModifiers + `)\s+)+(?:<[^>]+>\s+)?[\w<>\[\],.?]+\s+(\w+)\s*\(`),
		},
		imports: regexp.MustCompile(`^\s*import\s+(?:static\s+)?([\w.*]+)\s*;`),
		exports: regexp.MustCompile(
			`^\s*public\s+(?:[\w<>\[\],.?@]+\s+)*?(\w+)` + declEnd),
		reserved: words(controlWords...),
	}
}

// golang pins every kind; Go declarations carry no sniffable keyword.
func golang() *patternScanner {
	return &patternScanner{
		lang: domain.LangGo,
		decls: []Pattern{
			pinned(domain.CodeStruct, `^type\s+(\w+)(?:\[[^\]]*\])?\s+struct\b`),
			pinned(domain.CodeInterface, `^type\s+(\w+)(?:\[[^\]]*\])?\s+interface\b`),
			pinned(domain.CodeType, `^type\s+(\w+)`),
			pinned(domain.CodeMethod, `^func\s+\([^)]*\)\s*(\w+)`),
			pinned(domain.CodeFunction, `^func\s+(\w+)`),
		},
		imports:  regexp.MustCompile(`^\s*(?:import\s+)?(?:[\w.]+\s+)?"([^"]+)"\s*(?://.*)?$`),
		exports:  regexp.MustCompile(`^(?:func(?:\s+\([^)]*\))?|type|var|const)\s+([A-Z]\w*)`),
		reserved: words(),
	}
}

const rustVis = `(?:pub(?:\([^)]*\))?\s+)?`

// rust pins kinds; traits are reported as interfaces and nested fns as
// methods.
func rust() *patternScanner {
	fn := `(?:(?:const|async|unsafe|extern\s+"[^"]*")\s+)*fn\s+(\w+)`
	return &patternScanner{
		lang: domain.LangRust,
		decls: []Pattern{
			pinned(domain.CodeStruct, `^\s*`+rustVis+`struct\s+(\w+)`),
			pinned(domain.CodeEnum, `^\s*`+rustVis+`enum\s+(\w+)`),
			pinned(domain.CodeInterface, `^\s*`+rustVis+`(?:unsafe\s+)?trait\s+(\w+)`),
			pinned(domain.CodeType, `^\s*`+rustVis+`type\s+(\w+)`),
			pinned(domain.CodeFunction, `^`+rustVis+fn),
			pinned(domain.CodeMethod, `^\s+`+rustVis+fn),
		},
		imports: regexp.MustCompile(`^\s*(?:pub\s+)?(?:use\s+([\w:{}*, ]+?)\s*;|extern\s+crate\s+(\w+))`),
		exports: regexp.MustCompile(
			`^\s*pub(?:\([^)]*\))?\s+(?:(?:async|const|unsafe|extern\s+"[^"]*")\s+)*(?:fn|struct|enum|trait|type|mod|const|static)\s+(\w+)`),
		reserved: words(),
	}
}

const xppModifiers = `public|private|protected|internal|static|final|abstract|client|server|display|edit|extension`

func xpp() *patternScanner {
	return &patternScanner{
		lang: domain.LangXPP,
		decls: []Pattern{
			decl(`^\s*(?:\[[^\]]*\]\s*)?(?:(?:` + xppModifiers + `)\s+)*class\s+(\w+)`),
			decl(`^\s*(?:(?:` + xppModifiers + `)\s+)*interface\s+(\w+)`),
			decl(`^\s*(?:public\s+)?enum\s+(\w+)`),
			decl(`^\s*(?:public\s+)?table\s+(\w+)`),
			decl(`^\s*(?:\[[^\]]*\]\s*)?(?:(?:` + xppModifiers + `)\s+)+[\w\[\]]+\s+(\w+)\s*\(`),
		},
		imports: regexp.MustCompile(`^\s*using\s+([\w.]+)\s*;`),
		exports: regexp.MustCompile(
			`^\s*(?:\[[^\]]*\]\s*)?public\s+(?:[\w\[\]]+\s+)*?(\w+)` + declEnd),
		reserved: words(append(controlWords, "select", "ttsbegin", "ttscommit")...),
	}
}
