package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/go-enry/go-enry/v2"

	"github.com/ByLCY/monopage/grid"
)

const codeTabWidth = 4

// Code 写入语法高亮的源码，折行与行占用规则与 Text 相同。
// language 可以是 chroma 词法器名称，也可以是用于识别语言的文件名。
func (v *View) Code(src, language string) {
	src = strings.ReplaceAll(src, "\t", strings.Repeat(" ", codeTabWidth))
	cur := cursor{v: v}
	// 部分词法器会在末尾补一个换行，只写入原文长度的字符
	remaining := utf8.RuneCountInString(src)

	tokens, err := chroma.Tokenise(chroma.Coalesce(codeLexer(language, src)), nil, src)
	if err != nil {
		tokens = []chroma.Token{{Type: chroma.Text, Value: src}}
	}
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		style := v.tokenStyle(tok.Type)
		for _, ch := range tok.Value {
			if remaining == 0 {
				break
			}
			remaining--
			if ch == '\n' {
				cur.newline()
				continue
			}
			cur.put(grid.Symbol{Char: ch, Color: style.color, Bold: style.bold, Italic: style.italic})
		}
	}
	cur.finish()
}

// tokenStyle 把 token 类别映射到调色板槽位。
func (v *View) tokenStyle(tt chroma.TokenType) textStyle {
	p := v.palette
	switch {
	case tt.InCategory(chroma.Keyword):
		return textStyle{color: p.H1, bold: true}
	case tt.InSubCategory(chroma.LiteralString):
		return textStyle{color: p.H2}
	case tt.InCategory(chroma.Comment):
		return textStyle{color: p.H3, italic: true}
	case tt.InSubCategory(chroma.LiteralNumber), tt == chroma.NameFunction, tt == chroma.NameClass:
		return textStyle{color: p.H4}
	default:
		return textStyle{color: p.Foreground}
	}
}

// codeLexer 依次尝试：词法器名称、go-enry 按文件名/内容识别、chroma 内容分析、兜底词法器。
func codeLexer(language, src string) chroma.Lexer {
	if language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
		if lang := enry.GetLanguage(language, []byte(src)); lang != "" {
			if l := lexers.Get(lang); l != nil {
				return l
			}
		}
	}
	if l := lexers.Analyse(src); l != nil {
		return l
	}
	return lexers.Fallback
}
