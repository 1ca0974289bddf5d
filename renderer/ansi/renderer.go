// Package ansirenderer 把字符网格输出为带 24 位色的终端文本，用于在生成 PDF 前快速预览。
package ansirenderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/ByLCY/monopage/grid"
	"github.com/ByLCY/monopage/layout"
	"github.com/ByLCY/monopage/renderer"
)

// placeholder 替换显示宽度不为 1 的字符，保证终端中各列对齐。
const placeholder = '?'

// Renderer writes one terminal line per grid row.
type Renderer struct {
	lg         *lipgloss.Renderer
	background bool
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the preview.
type Options struct {
	// Profile 为 termenv 颜色能力；零值 termenv.TrueColor 即 24 位色。
	Profile termenv.Profile
	// Background 为真时用页面背景色填充每个单元。
	Background bool
}

// NewRenderer 创建预览渲染器，颜色能力由 opts.Profile 指定而不是探测输出终端。
func NewRenderer(opts Options) *Renderer {
	lg := lipgloss.NewRenderer(io.Discard)
	lg.SetColorProfile(opts.Profile)
	return &Renderer{lg: lg, background: opts.Background}
}

// Render 实现 renderer.Renderer。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || result.Grid == nil {
		return nil, fmt.Errorf("缺少可预览的网格")
	}
	g := result.Grid
	bg := hexColor(result.Page.Background)

	var out strings.Builder
	for row := 0; row < g.Rows(); row++ {
		r.writeRow(&out, g, row, bg)
		out.WriteByte('\n')
	}
	return []byte(out.String()), nil
}

// writeRow 将一行中样式相同的相邻单元合并为一次 lipgloss 渲染。
func (r *Renderer) writeRow(out *strings.Builder, g *grid.Grid, row int, bg string) {
	var run strings.Builder
	var current grid.Symbol
	flush := func() {
		if run.Len() == 0 {
			return
		}
		style := r.lg.NewStyle().
			Foreground(lipgloss.Color(hexColor(current.Color))).
			Bold(current.Bold).
			Italic(current.Italic)
		if r.background {
			style = style.Background(lipgloss.Color(bg))
		}
		out.WriteString(style.Render(run.String()))
		run.Reset()
	}

	for col := 0; col < g.Cols(); col++ {
		s := g.At(row, col)
		if col > 0 && !sameStyle(s, current) {
			flush()
		}
		current = s
		run.WriteRune(cellRune(s.Char))
	}
	flush()
}

func sameStyle(a, b grid.Symbol) bool {
	return a.Color == b.Color && a.Bold == b.Bold && a.Italic == b.Italic
}

func cellRune(ch rune) rune {
	if ch == 0 {
		return ' '
	}
	if runewidth.RuneWidth(ch) != 1 {
		return placeholder
	}
	return ch
}

func hexColor(c grid.Color) string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}
