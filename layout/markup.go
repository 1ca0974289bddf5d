package layout

import "github.com/ByLCY/monopage/grid"

// markupTagLen 是控制标签的固定长度，例如 "<h1>"。
const markupTagLen = 4

// textStyle 是 FText 单次调用内的样式状态，不跨调用保留。
type textStyle struct {
	color  grid.Color
	bold   bool
	italic bool
}

// FText 写入带内联样式标签的文本。支持的标签：
//
//	<fg>        恢复前景色并清除粗体/斜体
//	<h1>..<h4>  切换到对应高亮色
//	<bo>        粗体
//	<it>        斜体
//
// 无法识别的 '<' 按字面输出，扫描从下一个字符继续。
func (v *View) FText(s string) {
	chars := []rune(s)
	style := textStyle{color: v.palette.Foreground}
	cur := cursor{v: v}

	for i := 0; i < len(chars); i++ {
		ch := chars[i]
		switch {
		case ch == '\n':
			cur.newline()
		case ch == '<' && i+markupTagLen <= len(chars) && v.applyTag(string(chars[i:i+markupTagLen]), &style):
			i += markupTagLen - 1
		default:
			cur.put(grid.Symbol{Char: ch, Color: style.color, Bold: style.bold, Italic: style.italic})
		}
	}
	cur.finish()
}

// applyTag 识别成功时修改样式并返回 true。
func (v *View) applyTag(tag string, style *textStyle) bool {
	switch tag {
	case "<fg>":
		*style = textStyle{color: v.palette.Foreground}
	case "<h1>":
		style.color = v.palette.H1
	case "<h2>":
		style.color = v.palette.H2
	case "<h3>":
		style.color = v.palette.H3
	case "<h4>":
		style.color = v.palette.H4
	case "<bo>":
		style.bold = true
	case "<it>":
		style.italic = true
	default:
		return false
	}
	return true
}
