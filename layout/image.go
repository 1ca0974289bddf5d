package layout

import (
	"fmt"

	"github.com/ByLCY/monopage/grid"
)

// Bitmap 是按行存储、RGB 交错的 0-1 浮点像素。
type Bitmap struct {
	Pix    []float64 `json:"-"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
}

// Img 将像素 1:1 映射为亮度字符，超出区域的像素直接丢弃，不缩放。
// 与文本写入不同，Img 不收缩 View。
func (v *View) Img(pixels []float64, w, h int) {
	if len(pixels) < w*h*3 {
		panic(fmt.Sprintf("layout: 像素数据不足，需要 %d 个分量，实际 %d", w*h*3, len(pixels)))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= v.extent.Cols || y >= v.extent.Rows {
				continue
			}
			pix := (y*w + x) * 3
			c := grid.Color{R: pixels[pix], G: pixels[pix+1], B: pixels[pix+2]}
			v.set(y, x, grid.Symbol{Char: brightnessGlyph(luma(c)), Color: c})
		}
	}
}

func luma(c grid.Color) float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// brightnessGlyph 按 0.2 宽的亮度区间选择字符，区间下界包含在内。
// 区间之外的值（负数、大于 1、NaN）都落到最后一档。
func brightnessGlyph(l float64) rune {
	switch {
	case l < 0:
		return '@'
	case l < 0.2:
		return '.'
	case l < 0.4:
		return ':'
	case l < 0.6:
		return 'o'
	case l < 0.8:
		return '0'
	default:
		return '@'
	}
}
