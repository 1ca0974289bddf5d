package dsl

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
)

// Document is the root of a page description file:
//
//	doc <name> <version> { meta {…} resources {…} fragment X {…} page A4 … {…} }
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is one top-level section; exactly one field is set.
type Section struct {
	Meta      *Block           `parser:"  'meta' @@"`
	Resources *Block           `parser:"| 'resources' @@"`
	Fragment  *FragmentSection `parser:"| @@"`
	Page      *PageSection     `parser:"| @@"`
}

// Kind returns the section keyword.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Fragment != nil:
		return "fragment"
	case s.Page != nil:
		return "page"
	default:
		return "unknown"
	}
}

// FragmentSection defines a named block that pages splice in with `use <name>`.
type FragmentSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'fragment' @Ident"`
	Block *Block         `parser:"@@"`
}

// PageSection is `page <size> <params…> { … }`.
type PageSection struct {
	Spec  PageSpec `parser:"'page' @@"`
	Block *Block   `parser:"@@"`
}

// PageSpec holds the paper size and the raw header words after it
// (orientation, padding, size, spacing).
type PageSpec struct {
	Size   string    `parser:"@Ident"`
	Params []*Lexeme `parser:"@@*"`
}

// Block is `{ … }`; statements end at a newline or `;`.
type Block struct {
	Statements []*Statement `parser:"'{' ( Newline | ';' )* ( @@ ( Newline | ';' )* )* '}'"`
}

// Statement is a `key: value` setting, a command or a bare string.
type Statement struct {
	Assignment *Assignment    `parser:"  @@"`
	Command    *Command       `parser:"| @@"`
	Text       *StringLiteral `parser:"| @String"`
}

// Assignment is `key: value`.
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Command is `name args… [{ … }]`; the block must open on the same line.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"@@?"`
}

// Value is the right-hand side of an assignment.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *ColorLiteral  `parser:"| @Color"`
	Ref    *string        `parser:"| @Ident"`
	List   *List          `parser:"| @@"`
}

// List is `[a, b]`; items may also be separated by newlines.
type List struct {
	Items []*Value `parser:"'[' ( Newline | ',' )* ( @@ ( Newline | ',' )* )* ']'"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// ColorLiteral is `#rgb`, `#rrggbb` or `#rrggbbaa`.
type ColorLiteral string

// Capture implements participle.Capture.
func (c *ColorLiteral) Capture(values []string) error {
	v := values[0]
	switch len(v) - 1 {
	case 3, 6, 8:
	default:
		return fmt.Errorf("颜色值 %s 须为 3、6 或 8 位十六进制", v)
	}
	*c = ColorLiteral(v)
	return nil
}
