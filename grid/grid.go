package grid

import (
	"fmt"
	"strings"
)

// Color 采用 0-1 的 RGB 浮点分量。
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Symbol 是网格中的一个带样式字符单元，写入时整体覆盖。
type Symbol struct {
	Char   rune  `json:"char"`
	Color  Color `json:"color"`
	Bold   bool  `json:"bold"`
	Italic bool  `json:"italic"`
}

// Blank 返回使用给定前景色的空白单元。
func Blank(fg Color) Symbol {
	return Symbol{Char: ' ', Color: fg}
}

// Grid 是一次渲染过程共享的固定尺寸字符画布，只能原地修改。
type Grid struct {
	rows  int
	cols  int
	cells []Symbol
}

// New 创建 rows×cols 的网格，每个单元都是空格 + 默认前景色。
func New(rows, cols int, fg Color) *Grid {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("grid: 非法尺寸 %dx%d", rows, cols))
	}
	cells := make([]Symbol, rows*cols)
	blank := Blank(fg)
	for i := range cells {
		cells[i] = blank
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Set 覆盖单个单元。越界写入只可能来自布局坐标计算错误，直接 panic。
func (g *Grid) Set(row, col int, s Symbol) {
	g.cells[g.index(row, col)] = s
}

// At 返回 (row, col) 处的单元。
func (g *Grid) At(row, col int) Symbol {
	return g.cells[g.index(row, col)]
}

// Line 返回某一行的纯文本内容，便于调试与测试。
func (g *Grid) Line(row int) string {
	var b strings.Builder
	for col := 0; col < g.cols; col++ {
		b.WriteRune(g.At(row, col).Char)
	}
	return b.String()
}

func (g *Grid) index(row, col int) int {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("grid: 写入越界 (%d,%d)，网格尺寸 %dx%d", row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}
