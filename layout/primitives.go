package layout

// 布局原语：每个原语从当前 View 派生子 View，并同步调用传入的续体。
// 区域不足时静默跳过，不视为错误。

// Frame 在区域边缘绘制 +/|/- 边框，再以内缩 1 格的区域调用 inner。
func (v *View) Frame(inner func(*View)) {
	rows, cols := v.extent.Rows, v.extent.Cols
	if rows < 2 || cols < 2 {
		return
	}

	v.set(0, 0, v.plain('+'))
	v.set(rows-1, 0, v.plain('+'))
	v.set(rows-1, cols-1, v.plain('+'))
	v.set(0, cols-1, v.plain('+'))

	for r := 1; r < rows-1; r++ {
		v.set(r, 0, v.plain('|'))
		v.set(r, cols-1, v.plain('|'))
	}
	for c := 1; c < cols-1; c++ {
		v.set(0, c, v.plain('-'))
		v.set(rows-1, c, v.plain('-'))
	}

	v.Padding(1, 1, 1, 1, inner)
}

// VSplit 沿行方向切分区域。split 为负时从底部倒数。
// 分隔行本身不属于任何子区域。
func (v *View) VSplit(split int, up, down func(*View)) {
	h := v.extent.Rows
	loc := resolveSplit(split, h)

	switch {
	case loc < 0:
		call(down, v.child(v.origin, v.extent))
	case loc > h:
		call(up, v.child(v.origin, v.extent))
	default:
		for c := 0; c < v.extent.Cols; c++ {
			v.set(loc, c, v.plain('-'))
		}
		if loc > 0 {
			call(up, v.child(v.origin, Size{Rows: loc, Cols: v.extent.Cols}))
		}
		if loc < h-1 {
			origin := Point{Row: v.origin.Row + loc + 1, Col: v.origin.Col}
			call(down, v.child(origin, Size{Rows: h - loc - 1, Cols: v.extent.Cols}))
		}
	}
}

// HSplit 是 VSplit 在列方向上的对应版本，分隔符为 '|'。
func (v *View) HSplit(split int, left, right func(*View)) {
	w := v.extent.Cols
	loc := resolveSplit(split, w)

	switch {
	case loc < 0:
		call(right, v.child(v.origin, v.extent))
	case loc > w:
		call(left, v.child(v.origin, v.extent))
	default:
		for r := 0; r < v.extent.Rows; r++ {
			v.set(r, loc, v.plain('|'))
		}
		if loc > 0 {
			call(left, v.child(v.origin, Size{Rows: v.extent.Rows, Cols: loc}))
		}
		if loc < w-1 {
			origin := Point{Row: v.origin.Row, Col: v.origin.Col + loc + 1}
			call(right, v.child(origin, Size{Rows: v.extent.Rows, Cols: w - loc - 1}))
		}
	}
}

// Padding 以四边留白后的区域调用 inner，内部至少要保留一行一列。
func (v *View) Padding(left, right, up, down int, inner func(*View)) {
	if left < 0 || right < 0 || up < 0 || down < 0 {
		return
	}
	if v.extent.Cols < left+right+1 || v.extent.Rows < up+down+1 {
		return
	}
	origin := Point{Row: v.origin.Row + up, Col: v.origin.Col + left}
	extent := Size{Rows: v.extent.Rows - up - down, Cols: v.extent.Cols - left - right}
	call(inner, v.child(origin, extent))
}

func resolveSplit(split, length int) int {
	if split >= 0 {
		return split
	}
	return length + split
}

func call(fn func(*View), v *View) {
	if fn != nil {
		fn(v)
	}
}
