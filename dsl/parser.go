package dsl

import (
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var documentParser = participle.MustBuild[Document](
	participle.Lexer(dslLexer),
	participle.Elide("Whitespace", "Comment", "HashComment"),
)

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// Lexeme is one bare word of a command or page header. Type is the lexer
// rule name (Ident, Number, String, Color, Punct); Value is unquoted for
// strings.
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable: it takes any single token up to the
// end of the statement, a block brace or a `:`.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	if endsArgs(lex.Peek()) {
		return participle.NextMatch
	}
	tok := lex.Next()
	val := tok.Value
	if tok.Type == stringToken {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return participle.Errorf(tok.Pos, "字符串 %s 无法解析: %v", tok.Value, err)
		}
		val = unquoted
	}
	*l = Lexeme{Type: tokenNames[tok.Type], Value: val, Raw: tok.Value, Pos: tok.Pos}
	return nil
}

func endsArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineToken, lbraceToken, rbraceToken:
		return true
	case punctToken:
		return tok.Value == ";" || tok.Value == ":"
	}
	return false
}
