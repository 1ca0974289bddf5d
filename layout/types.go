package layout

import "github.com/ByLCY/monopage/grid"

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。

// Result 保存一次渲染过程的网格与渲染所需的页面信息。
type Result struct {
	Page    Page         `json:"page"`
	Palette Palette      `json:"palette"`
	Metrics GridMetrics  `json:"metrics"`
	Fonts   FontSet      `json:"fonts"`
	Meta    DocumentMeta `json:"meta"`
	Grid    *grid.Grid   `json:"-"`
}

// Page 记录页面尺寸与字符网格参数，长度单位为 mm。
type Page struct {
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Padding    float64    `json:"padding"`
	FontSize   float64    `json:"fontSize"` // mm
	Spacing    float64    `json:"spacing"`  // 字符间距与行间距（mm）
	Background grid.Color `json:"background"`
}

// GridMetrics 由排版后端根据字体度量计算，描述网格在页面上的位置（mm）。
type GridMetrics struct {
	Rows       int     `json:"rows"`
	Cols       int     `json:"cols"`
	CellWidth  float64 `json:"cellWidth"`
	CellHeight float64 `json:"cellHeight"`
	OffsetX    float64 `json:"offsetX"`
	OffsetY    float64 `json:"offsetY"`
}

// FontResource 描述字体资源，src 可以是文件路径或 embed:* 形式。
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style"`
}

// FontSet 是一套等宽字体的四种变体。
type FontSet struct {
	Regular    FontResource `json:"regular"`
	Bold       FontResource `json:"bold"`
	Italic     FontResource `json:"italic"`
	BoldItalic FontResource `json:"boldItalic"`
}

// Variant 按 (bold, italic) 选择字体变体。
func (f FontSet) Variant(bold, italic bool) FontResource {
	switch {
	case bold && italic:
		return f.BoldItalic
	case bold:
		return f.Bold
	case italic:
		return f.Italic
	default:
		return f.Regular
	}
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
