package layout

import "github.com/ByLCY/monopage/grid"

// 该文件定义布局上下文 View：共享网格上的一块矩形区域及其默认配色。

// Point 是网格中的 (行, 列) 偏移。
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Size 是以单元计的行列尺寸。
type Size struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Palette 保存前景色与四种高亮色。
type Palette struct {
	Foreground grid.Color `json:"foreground"`
	H1         grid.Color `json:"h1"`
	H2         grid.Color `json:"h2"`
	H3         grid.Color `json:"h3"`
	H4         grid.Color `json:"h4"`
}

// Highlight 返回 h1..h4 对应的颜色，其他序号回落到前景色。
func (p Palette) Highlight(n int) grid.Color {
	switch n {
	case 1:
		return p.H1
	case 2:
		return p.H2
	case 3:
		return p.H3
	case 4:
		return p.H4
	default:
		return p.Foreground
	}
}

// View 是网格上的轻量描述符，按值复制派生子区域，所有副本共享同一个网格。
// 只有正在消费它的调用方（text/ftext/code）会原地收缩它。
type View struct {
	grid    *grid.Grid
	origin  Point
	extent  Size
	full    Size
	palette Palette
}

// Draw 创建覆盖整个网格的根 View 并同步执行顶层布局。
func Draw(g *grid.Grid, palette Palette, fn func(*View)) {
	if fn == nil {
		return
	}
	size := Size{Rows: g.Rows(), Cols: g.Cols()}
	fn(&View{grid: g, extent: size, full: size, palette: palette})
}

func (v *View) Origin() Point { return v.origin }
func (v *View) Extent() Size { return v.extent }
func (v *View) FullSize() Size { return v.full }
func (v *View) Palette() Palette { return v.palette }
func (v *View) Grid() *grid.Grid { return v.grid }

// child 复制当前 View 并替换区域，调用方负责保证新区域位于当前区域之内。
func (v *View) child(origin Point, extent Size) *View {
	c := *v
	c.origin = origin
	c.extent = extent
	return &c
}

// set 以 View 局部坐标写入单元，超出当前区域的写入被丢弃，不会溢出到相邻区域。
func (v *View) set(row, col int, s grid.Symbol) {
	if row < 0 || col < 0 || row >= v.extent.Rows || col >= v.extent.Cols {
		return
	}
	v.grid.Set(v.origin.Row+row, v.origin.Col+col, s)
}

func (v *View) plain(ch rune) grid.Symbol {
	return grid.Symbol{Char: ch, Color: v.palette.Foreground}
}

// consume 让 View 跳过已写入的行，使同一区域内的多次写入顺序衔接。
func (v *View) consume(rows int) {
	if rows > v.extent.Rows {
		rows = v.extent.Rows
	}
	if rows < 0 {
		rows = 0
	}
	v.origin.Row += rows
	v.extent.Rows -= rows
}
