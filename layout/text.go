package layout

import "github.com/ByLCY/monopage/grid"

// cursor 记录写入位置，按字符边界折行（等宽网格不做按词折行）。
type cursor struct {
	v   *View
	row int
	col int
}

func (c *cursor) newline() {
	c.col = 0
	c.row++
}

func (c *cursor) put(s grid.Symbol) {
	c.v.set(c.row, c.col, s)
	c.col++
	if c.col >= c.v.extent.Cols {
		c.col = 0
		c.row++
	}
}

// finish 收缩 View 以排除已占用的行。恰好在折行边界结束时回收一行，避免多出空行。
func (c *cursor) finish() {
	rows := c.row
	if c.col == 0 && rows > 0 {
		rows--
	}
	c.v.consume(rows + 1)
}

// Text 用前景色写入纯文本，之后 View 从已占用行之后继续。
func (v *View) Text(s string) {
	cur := cursor{v: v}
	for _, ch := range s {
		if ch == '\n' {
			cur.newline()
			continue
		}
		cur.put(v.plain(ch))
	}
	cur.finish()
}
