package codescan

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// Output limits.
const (
	MaxSignatureChars = 200
	MaxCommentChars   = 500
	MaxFullLines      = 500
)

// Result is the output of a scan.
type Result struct {
	Records []domain.CodeRecord

	// Truncated is set when full mode dropped lines past MaxFullLines.
	Truncated bool

	// TotalLines is the physical line count of the input.
	TotalLines int
}

// Scan runs one extraction mode over text.
func Scan(text string, lang domain.Language, mode domain.CodeMode) Result {
	lines := splitLines(text)
	res := Result{TotalLines: len(lines)}

	switch mode {
	case domain.ModeImports:
		res.Records = imports(lines, ScannerFor(lang))
	case domain.ModeExports:
		res.Records = exports(lines, ScannerFor(lang))
	case domain.ModeComments:
		res.Records = comments(lines)
	case domain.ModeFull:
		res.Records, res.Truncated = full(lines)
	default:
		res.Records = structure(lines, ScannerFor(lang))
	}
	if res.Records == nil {
		res.Records = []domain.CodeRecord{}
	}
	return res
}

// Structure returns the declarations found in text.
func Structure(text string, lang domain.Language) []domain.CodeRecord {
	return Scan(text, lang, domain.ModeStructure).Records
}

// Imports returns the imported modules of text.
func Imports(text string, lang domain.Language) []domain.CodeRecord {
	return Scan(text, lang, domain.ModeImports).Records
}

// Exports returns the exported names of text.
func Exports(text string, lang domain.Language) []domain.CodeRecord {
	return Scan(text, lang, domain.ModeExports).Records
}

// Comments returns the documentation comments of text.
func Comments(text string) []domain.CodeRecord {
	return Scan(text, "", domain.ModeComments).Records
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func signature(line string) string {
	return domain.Truncate(strings.TrimSpace(line), MaxSignatureChars)
}

func structure(lines []string, sc Scanner) []domain.CodeRecord {
	var out []domain.CodeRecord
	for i, line := range lines {
		for _, p := range sc.Declarations() {
			name, ok := lastGroup(p.Re, line)
			if !ok || name == "" || sc.Reserved(name) {
				continue
			}
			kind := p.Kind
			if kind == "" {
				kind = sniffKind(line, sc.Language())
			}
			out = append(out, domain.CodeRecord{
				Type:      kind,
				Name:      name,
				Line:      i + 1,
				Signature: signature(line),
			})
			break
		}
	}
	return out
}

var (
	kwClass     = regexp.MustCompile(`\bclass\b`)
	kwInterface = regexp.MustCompile(`\binterface\b`)
	kwEnum      = regexp.MustCompile(`\benum\b`)
	kwStruct    = regexp.MustCompile(`\bstruct\b`)
	kwType      = regexp.MustCompile(`\btype\s`)
	kwFunction  = regexp.MustCompile(`\bfunction\b|\bdef\s`)
	kwTable     = regexp.MustCompile(`\btable\b`)
)

// sniffKind classifies a declaration line by the keywords it contains.
func sniffKind(line string, lang domain.Language) domain.CodeRecordType {
	switch {
	case kwClass.MatchString(line):
		return domain.CodeClass
	case kwInterface.MatchString(line):
		return domain.CodeInterface
	case kwEnum.MatchString(line):
		return domain.CodeEnum
	case kwStruct.MatchString(line):
		return domain.CodeStruct
	case lang == domain.LangTypeScript && kwType.MatchString(line):
		return domain.CodeType
	case kwFunction.MatchString(line):
		return domain.CodeFunction
	case lang == domain.LangXPP && kwTable.MatchString(line):
		return domain.CodeTable
	}
	return domain.CodeMethod
}

func imports(lines []string, sc Scanner) []domain.CodeRecord {
	var out []domain.CodeRecord
	for i, line := range lines {
		if name, ok := sc.Import(line); ok {
			out = append(out, domain.CodeRecord{
				Type:      domain.CodeImport,
				Name:      strings.TrimSpace(name),
				Line:      i + 1,
				Signature: signature(line),
			})
		}
	}
	return out
}

func exports(lines []string, sc Scanner) []domain.CodeRecord {
	var out []domain.CodeRecord
	for i, line := range lines {
		name, ok := sc.Export(line)
		if !ok || name == "" || sc.Reserved(name) {
			continue
		}
		out = append(out, domain.CodeRecord{
			Type:      domain.CodeExport,
			Name:      strings.TrimSpace(name),
			Line:      i + 1,
			Signature: signature(line),
		})
	}
	return out
}

// comments collects /** ... */ blocks and /// lines.
func comments(lines []string) []domain.CodeRecord {
	var out []domain.CodeRecord
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		switch {
		case strings.HasPrefix(trimmed, "/**"):
			start := i
			for i < len(lines) && !closesBlock(lines[i], i == start) {
				i++
			}
			if i == len(lines) {
				i = len(lines) - 1
			}
			block := strings.Join(lines[start:i+1], "\n")
			out = append(out, domain.CodeRecord{
				Type:      domain.CodeDocComment,
				Name:      commentSummary(lines[start : i+1]),
				Line:      start + 1,
				EndLine:   i + 1,
				Signature: signature(lines[start]),
				Body:      domain.Truncate(block, MaxCommentChars),
			})

		case strings.HasPrefix(trimmed, "///"):
			text := strings.TrimSpace(strings.TrimPrefix(trimmed, "///"))
			out = append(out, domain.CodeRecord{
				Type:      domain.CodeXMLDocComment,
				Name:      "",
				Line:      i + 1,
				Signature: signature(lines[i]),
				Body:      domain.Truncate(text, MaxCommentChars),
			})
		}
	}
	return out
}

// closesBlock reports whether line ends the comment. On the opening line
// the closer may share the opener's second star, so /**/ is closed.
func closesBlock(line string, opening bool) bool {
	if opening {
		idx := strings.Index(line, "/**")
		return strings.Contains(line[idx+2:], "*/")
	}
	return strings.Contains(line, "*/")
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

// commentSummary returns the first line of text in a comment block.
func commentSummary(block []string) string {
	for _, l := range block {
		l = strings.TrimSpace(l)
		if l == "/**/" {
			continue
		}
		l = strings.TrimPrefix(l, "/**")
		l = strings.TrimSuffix(l, "*/")
		l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "*"))
		l = strings.TrimSpace(xmlTag.ReplaceAllString(l, ""))
		if l != "" && !strings.HasPrefix(l, "@") {
			return domain.Truncate(l, MaxSignatureChars)
		}
	}
	return ""
}

func full(lines []string) ([]domain.CodeRecord, bool) {
	truncated := len(lines) > MaxFullLines
	if truncated {
		lines = lines[:MaxFullLines]
	}
	out := make([]domain.CodeRecord, 0, len(lines))
	for i, line := range lines {
		out = append(out, domain.CodeRecord{
			Type:      domain.CodeLine,
			Name:      "",
			Line:      i + 1,
			Signature: domain.Truncate(line, MaxSignatureChars),
		})
	}
	return out, truncated
}
