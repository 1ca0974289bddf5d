package layout

// node 是编译后的布局命令。编译阶段已完成全部校验，draw 不会失败。
type node interface {
	draw(v *View)
}

// sequence 在同一个 View 上依次执行语句，文本类写入因此可以上下衔接。
type sequence []node

func (s sequence) draw(v *View) {
	for _, n := range s {
		n.draw(v)
	}
}

type frameNode struct {
	inner node
}

func (n frameNode) draw(v *View) { v.Frame(drawFn(n.inner)) }

type splitNode struct {
	vertical      bool
	at            int
	first, second node
}

func (n splitNode) draw(v *View) {
	if n.vertical {
		v.VSplit(n.at, drawFn(n.first), drawFn(n.second))
		return
	}
	v.HSplit(n.at, drawFn(n.first), drawFn(n.second))
}

type paddingNode struct {
	left, right, up, down int
	inner                 node
}

func (n paddingNode) draw(v *View) {
	v.Padding(n.left, n.right, n.up, n.down, drawFn(n.inner))
}

type textNode struct {
	content string
	markup  bool
}

func (n textNode) draw(v *View) {
	if n.markup {
		v.FText(n.content)
		return
	}
	v.Text(n.content)
}

type imageNode struct {
	bitmap Bitmap
}

func (n imageNode) draw(v *View) { v.Img(n.bitmap.Pix, n.bitmap.Width, n.bitmap.Height) }

type codeNode struct {
	src      string
	language string
}

func (n codeNode) draw(v *View) { v.Code(n.src, n.language) }

func drawFn(n node) func(*View) {
	if n == nil {
		return nil
	}
	return n.draw
}
