package dsl

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		// 连续空行（含缩进）合并为一个换行记号
		{Name: "Newline", Pattern: `\n\s*`},
		{Name: "Comment", Pattern: `//[^\n]*|/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		// # 后紧跟十六进制串即为颜色，位数在捕获时校验
		{Name: "Color", Pattern: `#[0-9A-Fa-f]+\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?\d+(?:\.\d+)?(?:pt|mm|cm|in|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][,;:=]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenNames = func() map[lexer.TokenType]string {
		out := map[lexer.TokenType]string{}
		for name, tt := range dslLexer.Symbols() {
			out[tt] = name
		}
		return out
	}()

	newlineToken = tokenType("Newline")
	lbraceToken  = tokenType("LBrace")
	rbraceToken  = tokenType("RBrace")
	punctToken   = tokenType("Punct")
	stringToken  = tokenType("String")
)

func tokenType(name string) lexer.TokenType {
	tt, ok := dslLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("未定义的记号 %s", name))
	}
	return tt
}
