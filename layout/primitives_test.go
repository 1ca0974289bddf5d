package layout

import (
	"testing"

	"github.com/ByLCY/monopage/grid"
)

var testPalette = Palette{
	Foreground: grid.Color{R: 0.9, G: 0.9, B: 0.9},
	H1:         grid.Color{R: 1},
	H2:         grid.Color{G: 1},
	H3:         grid.Color{B: 1},
	H4:         grid.Color{R: 1, G: 1},
}

// newTestView 返回覆盖整个网格的根 View。
func newTestView(t *testing.T, rows, cols int) (*grid.Grid, *View) {
	t.Helper()
	g := grid.New(rows, cols, testPalette.Foreground)
	var root *View
	Draw(g, testPalette, func(v *View) { root = v })
	if root == nil {
		t.Fatalf("Draw did not invoke the layout")
	}
	return g, root
}

// region 记录续体收到的子区域。
type region struct {
	called bool
	origin Point
	extent Size
}

func (r *region) capture(v *View) {
	r.called = true
	r.origin = v.Origin()
	r.extent = v.Extent()
}

func expectRegion(t *testing.T, name string, r region, origin Point, extent Size) {
	t.Helper()
	if !r.called {
		t.Fatalf("%s: continuation not invoked", name)
	}
	if r.origin != origin || r.extent != extent {
		t.Fatalf("%s: got origin=%+v extent=%+v, want origin=%+v extent=%+v", name, r.origin, r.extent, origin, extent)
	}
}

func expectLines(t *testing.T, g *grid.Grid, want ...string) {
	t.Helper()
	for i, line := range want {
		if got := g.Line(i); got != line {
			t.Fatalf("row %d: got %q want %q", i, got, line)
		}
	}
}

func TestDrawRootSpansGrid(t *testing.T) {
	_, v := newTestView(t, 4, 7)
	if v.Origin() != (Point{}) || v.Extent() != (Size{Rows: 4, Cols: 7}) || v.FullSize() != (Size{Rows: 4, Cols: 7}) {
		t.Fatalf("unexpected root view %+v %+v %+v", v.Origin(), v.Extent(), v.FullSize())
	}
}

func TestFrameDrawsBorderAndPadsInner(t *testing.T) {
	g, v := newTestView(t, 5, 10)
	var inner region
	v.Frame(inner.capture)

	expectRegion(t, "inner", inner, Point{Row: 1, Col: 1}, Size{Rows: 3, Cols: 8})
	expectLines(t, g,
		"+--------+",
		"|        |",
		"|        |",
		"|        |",
		"+--------+",
	)
	if got := g.At(0, 0); got.Color != testPalette.Foreground || got.Bold || got.Italic {
		t.Fatalf("border should use plain foreground, got %+v", got)
	}
}

func TestFrameTooSmallIsNoop(t *testing.T) {
	for _, size := range []Size{{Rows: 1, Cols: 5}, {Rows: 5, Cols: 1}} {
		g, v := newTestView(t, size.Rows, size.Cols)
		var inner region
		v.Frame(inner.capture)
		if inner.called {
			t.Fatalf("inner invoked for %+v", size)
		}
		for r := 0; r < size.Rows; r++ {
			for c := 0; c < size.Cols; c++ {
				if g.At(r, c).Char != ' ' {
					t.Fatalf("frame drew on undersized view %+v", size)
				}
			}
		}
	}
}

func TestFrameMinimalHasNoInterior(t *testing.T) {
	g, v := newTestView(t, 2, 2)
	var inner region
	v.Frame(inner.capture)
	if inner.called {
		t.Fatalf("2x2 frame leaves no interior, inner must not run")
	}
	expectLines(t, g, "++", "++")
}

func TestVSplitPositive(t *testing.T) {
	g, v := newTestView(t, 5, 4)
	var up, down region
	v.VSplit(2, up.capture, down.capture)

	expectRegion(t, "up", up, Point{}, Size{Rows: 2, Cols: 4})
	expectRegion(t, "down", down, Point{Row: 3}, Size{Rows: 2, Cols: 4})
	expectLines(t, g, "    ", "    ", "----", "    ", "    ")
}

func TestVSplitNegativeCountsFromBottom(t *testing.T) {
	g, v := newTestView(t, 5, 3)
	var up, down region
	v.VSplit(-1, up.capture, down.capture)

	expectRegion(t, "up", up, Point{}, Size{Rows: 4, Cols: 3})
	if down.called {
		t.Fatalf("down must not run when the divider is the last row")
	}
	expectLines(t, g, "   ", "   ", "   ", "   ", "---")
}

func TestVSplitOutOfRange(t *testing.T) {
	g, v := newTestView(t, 5, 3)
	var up, down region
	v.VSplit(-6, up.capture, down.capture)
	if up.called {
		t.Fatalf("up must not run for split before the view")
	}
	expectRegion(t, "down", down, Point{}, Size{Rows: 5, Cols: 3})

	up, down = region{}, region{}
	v.VSplit(6, up.capture, down.capture)
	if down.called {
		t.Fatalf("down must not run for split past the view")
	}
	expectRegion(t, "up", up, Point{}, Size{Rows: 5, Cols: 3})

	for r := 0; r < 5; r++ {
		if g.Line(r) != "   " {
			t.Fatalf("out of range split must not draw a divider, row %d = %q", r, g.Line(r))
		}
	}
}

// split 恰好等于高度时分隔行落在区域之外，被裁剪而不是越界写入。
func TestVSplitAtHeightClipsDivider(t *testing.T) {
	g := grid.New(3, 2, testPalette.Foreground)
	var up, down region
	Draw(g, testPalette, func(v *View) {
		v.Padding(0, 0, 0, 1, func(v *View) {
			v.VSplit(2, up.capture, down.capture)
		})
	})
	expectRegion(t, "up", up, Point{}, Size{Rows: 2, Cols: 2})
	if down.called {
		t.Fatalf("down must not run")
	}
	expectLines(t, g, "  ", "  ", "  ")
}

func TestVSplitAtZero(t *testing.T) {
	g, v := newTestView(t, 3, 2)
	var up, down region
	v.VSplit(0, up.capture, down.capture)
	if up.called {
		t.Fatalf("up must not run for an empty top region")
	}
	expectRegion(t, "down", down, Point{Row: 1}, Size{Rows: 2, Cols: 2})
	expectLines(t, g, "--", "  ", "  ")
}

func TestHSplit(t *testing.T) {
	g, v := newTestView(t, 2, 7)
	var left, right region
	v.HSplit(3, left.capture, right.capture)

	expectRegion(t, "left", left, Point{}, Size{Rows: 2, Cols: 3})
	expectRegion(t, "right", right, Point{Col: 4}, Size{Rows: 2, Cols: 3})
	expectLines(t, g, "   |   ", "   |   ")

	left, right = region{}, region{}
	_, v = newTestView(t, 2, 7)
	v.HSplit(-1, left.capture, right.capture)
	expectRegion(t, "left", left, Point{}, Size{Rows: 2, Cols: 6})
	if right.called {
		t.Fatalf("right must not run when the divider is the last column")
	}

	left, right = region{}, region{}
	v.HSplit(-8, left.capture, right.capture)
	expectRegion(t, "right", right, Point{}, Size{Rows: 2, Cols: 7})
	if left.called {
		t.Fatalf("left must not run")
	}
}

func TestSplitNilContinuations(t *testing.T) {
	g, v := newTestView(t, 3, 3)
	v.VSplit(1, nil, nil)
	v.HSplit(1, nil, nil)
	expectLines(t, g, " | ", "-|-", " | ")
}

func TestPadding(t *testing.T) {
	_, v := newTestView(t, 2, 2)
	var inner region
	v.Padding(1, 1, 0, 0, inner.capture)
	if inner.called {
		t.Fatalf("2x2 view cannot keep a column after 1+1 padding")
	}

	_, v = newTestView(t, 1, 3)
	v.Padding(1, 1, 0, 0, inner.capture)
	expectRegion(t, "inner", inner, Point{Col: 1}, Size{Rows: 1, Cols: 1})

	inner = region{}
	_, v = newTestView(t, 6, 8)
	v.Padding(2, 1, 3, 1, inner.capture)
	expectRegion(t, "inner", inner, Point{Row: 3, Col: 2}, Size{Rows: 2, Cols: 5})

	inner = region{}
	v.Padding(-1, 0, 0, 0, inner.capture)
	if inner.called {
		t.Fatalf("negative padding must be a no-op")
	}
}

func TestNestedPrimitivesCompose(t *testing.T) {
	g := grid.New(5, 9, testPalette.Foreground)
	var right region
	Draw(g, testPalette, func(v *View) {
		v.Frame(func(v *View) {
			v.HSplit(3, func(v *View) {
				v.Text("abcdef")
			}, right.capture)
		})
	})
	expectRegion(t, "right", right, Point{Row: 1, Col: 5}, Size{Rows: 3, Cols: 3})
	expectLines(t, g,
		"+-------+",
		"|abc|   |",
		"|def|   |",
		"|   |   |",
		"+-------+",
	)
}

// 任意组合都只在网格范围内写入，不会触发越界 panic。
func TestPrimitivesStayInBounds(t *testing.T) {
	for rows := 0; rows <= 4; rows++ {
		for cols := 0; cols <= 4; cols++ {
			g := grid.New(rows, cols, testPalette.Foreground)
			Draw(g, testPalette, func(v *View) {
				for split := -6; split <= 6; split++ {
					v.VSplit(split, func(v *View) {
						v.Frame(func(v *View) { v.FText("<h1>xyz\n<bo>w") })
					}, func(v *View) {
						v.HSplit(split, func(v *View) {
							v.Padding(1, 0, 1, 0, func(v *View) { v.Text("long text wraps") })
						}, func(v *View) {
							v.Img(make([]float64, 5*5*3), 5, 5)
							v.Code("x := 1", "go")
						})
					})
				}
			})
		}
	}
}
