package domain

import (
	"fmt"
	"strings"
)

// CodeRecordType tags what a CodeRecord describes.
type CodeRecordType string

// Code record types.
const (
	CodeClass         CodeRecordType = "class"
	CodeInterface     CodeRecordType = "interface"
	CodeEnum          CodeRecordType = "enum"
	CodeStruct        CodeRecordType = "struct"
	CodeType          CodeRecordType = "type"
	CodeFunction      CodeRecordType = "function"
	CodeMethod        CodeRecordType = "method"
	CodeTable         CodeRecordType = "table"
	CodeImport        CodeRecordType = "import"
	CodeExport        CodeRecordType = "export"
	CodeDocComment    CodeRecordType = "doc-comment"
	CodeXMLDocComment CodeRecordType = "xml-doc-comment"
	CodeLine          CodeRecordType = "line"
)

// CodeRecord is one item recovered from source text.
type CodeRecord struct {
	Type      CodeRecordType `json:"type"`
	Name      string         `json:"name"`
	Line      int            `json:"line"`
	EndLine   int            `json:"endLine,omitempty"`
	Signature string         `json:"signature"`
	Body      string         `json:"body,omitempty"`
}

// ToRecord converts the code record into a generic record.
func (c CodeRecord) ToRecord() *Record {
	r := RecordOf(
		"type", string(c.Type),
		"name", c.Name,
		"line", c.Line,
		"signature", c.Signature,
	)
	if c.EndLine > 0 {
		r.Set("endLine", c.EndLine)
	}
	if c.Body != "" {
		r.Set("body", c.Body)
	}
	return r
}

// Language is a source language understood by the code scanner.
type Language string

// Supported languages.
const (
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangCSharp     Language = "csharp"
	LangJava       Language = "java"
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangXPP        Language = "xpp"
)

// CodeMode selects what the code scanner reports.
type CodeMode string

// Code extraction modes.
const (
	ModeStructure CodeMode = "structure"
	ModeImports   CodeMode = "imports"
	ModeExports   CodeMode = "exports"
	ModeComments  CodeMode = "comments"
	ModeFull      CodeMode = "full"
)

// ParseCodeMode validates a mode name; empty means structure.
func ParseCodeMode(s string) (CodeMode, error) {
	switch m := CodeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeStructure, nil
	case ModeStructure, ModeImports, ModeExports, ModeComments, ModeFull:
		return m, nil
	}
	return "", fmt.Errorf("%w: code mode %q", ErrUnsupportedType, s)
}
