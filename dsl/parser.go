package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		// 长的写法在前，避免 #rrggbb 被 #rgb 截断
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[(),;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	elided = participle.Elide("Whitespace", "LineComment", "BlockComment")

	documentParser = participle.MustBuild[Document](participle.Lexer(dslLexer), elided)
	colorParser    = participle.MustBuild[ColorExpr](participle.Lexer(dslLexer), elided)
)

// Document is the root AST node for a request file.
type Document struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Pattern *PatternDecl   `parser:"Newline* @@ Newline*"`
}

// PatternDecl is `pattern "Name" { ... }`; the name is optional.
type PatternDecl struct {
	Name  *StringLiteral `parser:"'pattern' @String?"`
	Block *Block         `parser:"@@"`
}

// Block is a delimited list of assignments.
type Block struct {
	Entries []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// Value is a single property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Func   *ColorFunc     `parser:"| @@"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value in its source form, with strings unquoted.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Func != nil:
		return v.Func.String()
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// ColorFunc captures rgb(r, g, b) and rgba(r, g, b, a).
type ColorFunc struct {
	Name string   `parser:"@( 'rgb' | 'rgba' )"`
	Args []string `parser:"'(' @Number ( ',' @Number )* ')'"`
}

func (f *ColorFunc) String() string {
	return f.Name + "(" + strings.Join(f.Args, ", ") + ")"
}

// ColorExpr is the grammar root for standalone colour literals.
type ColorExpr struct {
	Hex  *string    `parser:"  @Color"`
	Func *ColorFunc `parser:"| @@"`
	Name *string    `parser:"| @Ident"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a request file from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses a request file from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// Name returns the declared pattern name, or "" when omitted.
func (d *Document) Name() string {
	if d == nil || d.Pattern == nil || d.Pattern.Name == nil {
		return ""
	}
	return string(*d.Pattern.Name)
}
