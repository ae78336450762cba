package codescan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/core/domain"
)

// decl is a compact view of a structure record for table assertions.
type declView struct {
	Type domain.CodeRecordType
	Name string
	Line int
}

func view(recs []domain.CodeRecord) []declView {
	out := make([]declView, len(recs))
	for i, r := range recs {
		out[i] = declView{r.Type, r.Name, r.Line}
	}
	return out
}

func names(recs []domain.CodeRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

func TestStructure(t *testing.T) {
	tests := []struct {
		name string
		lang domain.Language
		src  string
		want []declView
	}{
		{
			name: "typescript",
			lang: domain.LangTypeScript,
			src: `export class CustomerService {
  constructor(private repo: Repo) {}
  async findAll(limit: number): Promise<Customer[]> {
    if (limit > 0) {
      return this.repo.list();
    }
  }
}
export interface Customer {
export enum Status { Live }
export type Id = string;
export function parse(input: string) {
const toUpper = (s: string) => s.toUpperCase();`,
			want: []declView{
				{domain.CodeClass, "CustomerService", 1},
				{domain.CodeMethod, "constructor", 2},
				{domain.CodeMethod, "findAll", 3},
				{domain.CodeInterface, "Customer", 9},
				{domain.CodeEnum, "Status", 10},
				{domain.CodeType, "Id", 11},
				{domain.CodeFunction, "parse", 12},
				{domain.CodeFunction, "toUpper", 13},
			},
		},
		{
			name: "javascript has no type aliases",
			lang: domain.LangJavaScript,
			src:  "class Widget {\n  render() {\n  }\n}\nfunction main() {}",
			want: []declView{
				{domain.CodeClass, "Widget", 1},
				{domain.CodeMethod, "render", 2},
				{domain.CodeFunction, "main", 5},
			},
		},
		{
			name: "python",
			lang: domain.LangPython,
			src:  "class Loader:\n    def load(self):\n        pass\n\nasync def main():\n    pass",
			want: []declView{
				{domain.CodeClass, "Loader", 1},
				{domain.CodeFunction, "load", 2},
				{domain.CodeFunction, "main", 5},
			},
		},
		{
			name: "csharp",
			lang: domain.LangCSharp,
			src: `namespace Acme {
public sealed class Importer : IImporter
{
    public async Task<int> RunAsync(string path)
    {
        if (path == null) return 0;
    }
    private static void Log(string msg) { }
}
public interface IImporter { }
internal enum Mode { A }
public readonly struct Point { }
public record Person(string Name);`,
			want: []declView{
				{domain.CodeClass, "Importer", 2},
				{domain.CodeMethod, "RunAsync", 4},
				{domain.CodeMethod, "Log", 8},
				{domain.CodeInterface, "IImporter", 10},
				{domain.CodeEnum, "Mode", 11},
				{domain.CodeStruct, "Point", 12},
				{domain.CodeClass, "Person", 13},
			},
		},
		{
			name: "java",
			lang: domain.LangJava,
			src: `public class Invoice {
    public static Invoice of(String id) {
        while (true) { }
    }
}
public @interface Audited {}
enum Currency { EUR }`,
			want: []declView{
				{domain.CodeClass, "Invoice", 1},
				{domain.CodeMethod, "of", 2},
				{domain.CodeInterface, "Audited", 6},
				{domain.CodeEnum, "Currency", 7},
			},
		},
		{
			name: "go",
			lang: domain.LangGo,
			src: `package store

type Store struct {
type Reader interface {
type ID string
func (s *Store) Get(id ID) error {
func New() *Store {`,
			want: []declView{
				{domain.CodeStruct, "Store", 3},
				{domain.CodeInterface, "Reader", 4},
				{domain.CodeType, "ID", 5},
				{domain.CodeMethod, "Get", 6},
				{domain.CodeFunction, "New", 7},
			},
		},
		{
			name: "rust",
			lang: domain.LangRust,
			src: `pub struct Config {
enum State {
pub trait Source {
type Result<T> = std::result::Result<T, Error>;
pub async fn run() {
impl Config {
    pub fn new() -> Self {`,
			want: []declView{
				{domain.CodeStruct, "Config", 1},
				{domain.CodeEnum, "State", 2},
				{domain.CodeInterface, "Source", 3},
				{domain.CodeType, "Result", 4},
				{domain.CodeFunction, "run", 5},
				{domain.CodeMethod, "new", 7},
			},
		},
		{
			name: "xpp",
			lang: domain.LangXPP,
			src: `public final class SalesOrderService
{
    public static void main(Args _args)
    {
    }
}
table CustTable
public enum SalesStatus`,
			want: []declView{
				{domain.CodeClass, "SalesOrderService", 1},
				{domain.CodeMethod, "main", 3},
				{domain.CodeTable, "CustTable", 7},
				{domain.CodeEnum, "SalesStatus", 8},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, view(Structure(tt.src, tt.lang)))
		})
	}
}

func TestStructure_SignatureTruncated(t *testing.T) {
	line := "function long(" + strings.Repeat("a, ", 100) + ") {"

	recs := Structure("  "+line, domain.LangTypeScript)
	require.Len(t, recs, 1)
	assert.Len(t, recs[0].Signature, MaxSignatureChars)
	assert.True(t, strings.HasPrefix(recs[0].Signature, "function long("))
}

func TestStructure_UnknownLanguageFallsBack(t *testing.T) {
	recs := Structure("export class A {}", "cobol")
	assert.Equal(t, []string{"A"}, names(recs))
}

func TestImports(t *testing.T) {
	tests := []struct {
		lang domain.Language
		src  string
		want []string
	}{
		{domain.LangTypeScript, "import { a } from './a';\nimport type { B } from \"b\";\nimport 'side-effect';\nconst fs = require('fs');", []string{"./a", "b", "side-effect", "fs"}},
		{domain.LangPython, "import os\nfrom typing import List\nx = 1", []string{"os", "typing"}},
		{domain.LangCSharp, "using System;\nusing static System.Math;\nusing Json = Newtonsoft.Json;\nusing (var x = y) {", []string{"System", "System.Math", "Newtonsoft.Json"}},
		{domain.LangJava, "import java.util.List;\nimport static org.junit.Assert.*;", []string{"java.util.List", "org.junit.Assert.*"}},
		{domain.LangGo, "import \"fmt\"\nimport (\n\t\"context\"\n\tlog \"github.com/x/log\"\n)\nvar s = []string{\n\t\"x\",\n}", []string{"fmt", "context", "github.com/x/log"}},
		{domain.LangRust, "use std::io;\npub use crate::config::{Config, Mode};\nextern crate serde;", []string{"std::io", "crate::config::{Config, Mode}", "serde"}},
		{domain.LangXPP, "using Microsoft.Dynamics.AX;", []string{"Microsoft.Dynamics.AX"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			recs := Imports(tt.src, tt.lang)
			assert.Equal(t, tt.want, names(recs))
			for _, r := range recs {
				assert.Equal(t, domain.CodeImport, r.Type)
			}
		})
	}
}

func TestExports(t *testing.T) {
	tests := []struct {
		lang domain.Language
		src  string
		want []string
	}{
		{domain.LangTypeScript, "export class A {}\nclass Hidden {}\nexport const b = 1;\nexport default App;\nexport { c, d } from './x';\nmodule.exports.e = 1;", []string{"A", "b", "App", "{ c, d }", "e"}},
		{domain.LangPython, "def public():\n    def inner():\ndef _private():\nclass Model:", []string{"public", "Model"}},
		{domain.LangCSharp, "public class Foo : Bar\n    public int Count { get; set; }\n    private int hidden;\n    public static void Main(string[] args)", []string{"Foo", "Count", "Main"}},
		{domain.LangJava, "public final class Service {\n  public List<String> names() {", []string{"Service", "names"}},
		{domain.LangGo, "func Exported() {}\nfunc internal() {}\nfunc (s *S) Method() {}\ntype Public struct{}\nconst Max = 1\nvar lower = 2", []string{"Exported", "Method", "Public", "Max"}},
		{domain.LangRust, "pub fn run() {}\nfn hidden() {}\npub(crate) struct Inner;\npub mod api;", []string{"run", "Inner", "api"}},
		{domain.LangXPP, "public class SalesHelper\n    public void post()\n    private void hidden()", []string{"SalesHelper", "post"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			recs := Exports(tt.src, tt.lang)
			assert.Equal(t, tt.want, names(recs))
		})
	}
}

func TestComments(t *testing.T) {
	src := `/**
 * Loads customers from disk.
 * @param path the file
 */
function load(path) {}
/** One-liner. */
/// <summary>Creates the order.</summary>
/// <param name="id">Order id</param>
// plain comment is ignored
/**
 * never closed`

	recs := Comments(src)
	require.Len(t, recs, 5)

	assert.Equal(t, domain.CodeDocComment, recs[0].Type)
	assert.Equal(t, "Loads customers from disk.", recs[0].Name)
	assert.Equal(t, 1, recs[0].Line)
	assert.Equal(t, 4, recs[0].EndLine)
	assert.Contains(t, recs[0].Body, "@param path the file")

	assert.Equal(t, 6, recs[1].Line)
	assert.Equal(t, 6, recs[1].EndLine)
	assert.Equal(t, "One-liner.", recs[1].Name)

	assert.Equal(t, domain.CodeXMLDocComment, recs[2].Type)
	assert.Equal(t, 7, recs[2].Line)
	assert.Equal(t, "<summary>Creates the order.</summary>", recs[2].Body)
	assert.Equal(t, domain.CodeXMLDocComment, recs[3].Type)

	assert.Equal(t, 10, recs[4].Line)
	assert.Equal(t, 11, recs[4].EndLine)
}

func TestComments_EmptyBlock(t *testing.T) {
	src := "/**/\nfunction a() {}\n/** Real doc */\nfunction b() {}"

	recs := Comments(src)
	require.Len(t, recs, 2)

	assert.Equal(t, domain.CodeDocComment, recs[0].Type)
	assert.Equal(t, 1, recs[0].Line)
	assert.Equal(t, 1, recs[0].EndLine)
	assert.Equal(t, "", recs[0].Name)
	assert.Equal(t, "/**/", recs[0].Body)

	assert.Equal(t, 3, recs[1].Line)
	assert.Equal(t, 3, recs[1].EndLine)
	assert.Equal(t, "Real doc", recs[1].Name)
}

func TestComments_BodyTruncated(t *testing.T) {
	src := "/**\n" + strings.Repeat(" * filler line\n", 100) + " */"

	recs := Comments(src)
	require.Len(t, recs, 1)
	assert.Equal(t, MaxCommentChars, len([]rune(recs[0].Body)))
}

func TestFull(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= MaxFullLines+25; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}

	res := Scan(b.String(), domain.LangGo, domain.ModeFull)
	assert.True(t, res.Truncated)
	assert.Equal(t, MaxFullLines+25, res.TotalLines)
	require.Len(t, res.Records, MaxFullLines)
	assert.Equal(t, domain.CodeLine, res.Records[0].Type)
	assert.Equal(t, "line 1", res.Records[0].Signature)
	assert.Equal(t, MaxFullLines, res.Records[MaxFullLines-1].Line)
}

func TestFull_ShortFile(t *testing.T) {
	res := Scan("a\r\nb\r\n", domain.LangGo, domain.ModeFull)
	assert.False(t, res.Truncated)
	assert.Equal(t, []string{"a", "b"}, func() []string {
		out := make([]string, len(res.Records))
		for i, r := range res.Records {
			out[i] = r.Signature
		}
		return out
	}())
}

func TestScan_EmptyInput(t *testing.T) {
	for _, mode := range []domain.CodeMode{
		domain.ModeStructure, domain.ModeImports, domain.ModeExports, domain.ModeComments, domain.ModeFull,
	} {
		res := Scan("", domain.LangTypeScript, mode)
		assert.NotNil(t, res.Records, mode)
		assert.Empty(t, res.Records, mode)
	}
}

func TestSniffKind(t *testing.T) {
	assert.Equal(t, domain.CodeType, sniffKind("type A = B", domain.LangTypeScript))
	assert.Equal(t, domain.CodeMethod, sniffKind("type A = B", domain.LangJavaScript))
	assert.Equal(t, domain.CodeTable, sniffKind("table CustTable", domain.LangXPP))
	assert.Equal(t, domain.CodeMethod, sniffKind("table CustTable", domain.LangCSharp))
	assert.Equal(t, domain.CodeMethod, sniffKind("  classify(x) {", domain.LangTypeScript))
	assert.Equal(t, domain.CodeFunction, sniffKind("def run():", domain.LangPython))
}
