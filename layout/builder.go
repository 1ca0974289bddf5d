package layout

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ByLCY/monopage/binding"
	"github.com/ByLCY/monopage/dsl"
	"github.com/ByLCY/monopage/fonts"
	"github.com/ByLCY/monopage/grid"
)

const (
	defaultPadding  = 10.0 // mm
	defaultFontSize = 12.0 // pt
	defaultSpacing  = 2.0  // pt
)

var pagePresets = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

// DefaultPalette 是未在 page 中声明颜色时使用的配色。
var DefaultPalette = Palette{
	Foreground: grid.Color{R: 1, G: 1, B: 1},
	H1:         grid.Color{R: 1},
	H2:         grid.Color{G: 1},
	H3:         grid.Color{B: 1},
	H4:         grid.Color{R: 1, G: 1},
}

// DefaultFonts 使用内置的 Latin Modern Mono。
var DefaultFonts = FontSet{
	Regular:    FontResource{Name: "LatinModernMono", Src: "embed:" + fonts.Regular, Style: "regular"},
	Bold:       FontResource{Name: "LatinModernMono", Src: "embed:" + fonts.Bold, Style: "bold"},
	Italic:     FontResource{Name: "LatinModernMono", Src: "embed:" + fonts.Italic, Style: "italic"},
	BoldItalic: FontResource{Name: "LatinModernMono", Src: "embed:" + fonts.BoldItalic, Style: "bold-italic"},
}

// Build 将 DSL AST 编译为布局树，向 Sizer 询问网格尺寸，然后执行一次自顶向下的渲染。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Sizer == nil {
		return nil, fmt.Errorf("layout: 缺少网格尺寸计算后端 Sizer")
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	meta, err := collectMeta(doc)
	if err != nil {
		return nil, err
	}
	section := firstPage(doc)
	if section == nil {
		return nil, fmt.Errorf("文档中缺少 page 段落")
	}
	if section.Block == nil {
		return nil, fmt.Errorf("page 段落缺少内容")
	}

	page, err := resolvePage(section.Spec)
	if err != nil {
		return nil, err
	}
	palette := DefaultPalette
	fontSet := DefaultFonts
	if err := applyPageSettings(section.Block, res, &page, &palette, &fontSet); err != nil {
		return nil, err
	}

	c := &compiler{
		res:       res,
		fragments: collectFragments(doc),
		data:      data,
		images:    opts.Images,
		using:     map[string]bool{},
	}
	root, err := c.block(section.Block)
	if err != nil {
		return nil, err
	}

	metrics, err := opts.Sizer.Measure(page, fontSet)
	if err != nil {
		return nil, fmt.Errorf("计算网格尺寸失败: %w", err)
	}
	if metrics.Rows < 0 || metrics.Cols < 0 {
		return nil, fmt.Errorf("网格尺寸非法: %dx%d", metrics.Rows, metrics.Cols)
	}

	g := grid.New(metrics.Rows, metrics.Cols, palette.Foreground)
	Draw(g, palette, root.draw)

	return &Result{
		Page:    page,
		Palette: palette,
		Metrics: metrics,
		Fonts:   fontSet,
		Meta:    meta,
		Grid:    g,
	}, nil
}

// resources 保存 resources 段落中声明的字体与颜色。
type resources struct {
	fonts  map[string]map[string]FontResource // family -> style -> font
	colors map[string]grid.Color
}

func collectResources(doc *dsl.Document) (resources, error) {
	res := resources{
		fonts:  map[string]map[string]FontResource{},
		colors: map[string]grid.Color{},
	}
	for _, section := range doc.Sections {
		if section.Resources == nil {
			continue
		}
		for _, stmt := range section.Resources.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font, err := parseFontResource(stmt.Command)
				if err != nil {
					return res, err
				}
				if res.fonts[font.Name] == nil {
					res.fonts[font.Name] = map[string]FontResource{}
				}
				res.fonts[font.Name][font.Style] = font
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					return res, fmt.Errorf("第 %d 行: color 资源需要名称与取值", stmt.Command.Pos.Line)
				}
				c, err := parseColor(value)
				if err != nil {
					return res, fmt.Errorf("第 %d 行: %w", stmt.Command.Pos.Line, err)
				}
				res.colors[name] = c
			}
		}
	}
	return res, nil
}

func collectFragments(doc *dsl.Document) map[string]*dsl.Block {
	out := map[string]*dsl.Block{}
	for _, section := range doc.Sections {
		if section.Fragment != nil {
			out[section.Fragment.Name] = section.Fragment.Block
		}
	}
	return out
}

func collectMeta(doc *dsl.Document) (DocumentMeta, error) {
	meta := DocumentMeta{
		Creator: "monopage",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for _, stmt := range section.Meta.Statements {
			a := stmt.Assignment
			if a == nil {
				continue
			}
			var target *string
			switch strings.ToLower(a.Key) {
			case "title":
				target = &meta.Title
			case "author":
				target = &meta.Author
			case "subject":
				target = &meta.Subject
			case "creator":
				target = &meta.Creator
			case "keywords":
				keywords, err := stringList(a)
				if err != nil {
					return meta, err
				}
				meta.Keywords = keywords
				continue
			default:
				continue
			}
			v, err := scalarValue(a)
			if err != nil {
				return meta, err
			}
			*target = v
		}
	}
	return meta, nil
}

// parseFontResource 解析 `font <family> [style] { src: "..." }`。
func parseFontResource(cmd *dsl.Command) (FontResource, error) {
	if len(cmd.Args) == 0 {
		return FontResource{}, fmt.Errorf("第 %d 行: font 资源缺少名称", cmd.Pos.Line)
	}
	font := FontResource{Name: cmd.Args[0].Value, Style: "regular"}
	if len(cmd.Args) > 1 {
		font.Style = cmd.Args[1].Value
	}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			a := stmt.Assignment
			if a == nil || (a.Key != "src" && a.Key != "style") {
				continue
			}
			v, err := scalarValue(a)
			if err != nil {
				return FontResource{}, err
			}
			if a.Key == "src" {
				font.Src = v
			} else {
				font.Style = v
			}
		}
	}
	style, ok := normalizeFontStyle(font.Style)
	if !ok {
		return FontResource{}, fmt.Errorf("第 %d 行: 不支持的字体样式 %s", cmd.Pos.Line, font.Style)
	}
	font.Style = style
	if font.Src == "" {
		return FontResource{}, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	return font, nil
}

func normalizeFontStyle(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "regular", "normal":
		return "regular", true
	case "bold":
		return "bold", true
	case "italic", "oblique":
		return "italic", true
	case "bold-italic", "bolditalic", "bold-oblique":
		return "bold-italic", true
	default:
		return "", false
	}
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

func firstPage(doc *dsl.Document) *dsl.PageSection {
	for _, section := range doc.Sections {
		if section.Page != nil {
			return section.Page
		}
	}
	return nil
}

// resolvePage 解析 `page A4 landscape padding 10mm size 12pt spacing 2pt`。
func resolvePage(spec dsl.PageSpec) (Page, error) {
	base, ok := pagePresets[strings.ToUpper(spec.Size)]
	if !ok {
		return Page{}, fmt.Errorf("暂不支持的纸张尺寸：%s", spec.Size)
	}
	page := Page{
		Width:    base[0],
		Height:   base[1],
		Padding:  defaultPadding,
		FontSize: defaultFontSize * PtToMm,
		Spacing:  defaultSpacing * PtToMm,
	}

	params := spec.Params
	for i := 0; i < len(params); i++ {
		switch key := params[i].Value; key {
		case "landscape":
			page.Width, page.Height = base[1], base[0]
		case "portrait":
			page.Width, page.Height = base[0], base[1]
		case "padding", "size", "spacing":
			if i+1 >= len(params) {
				return Page{}, fmt.Errorf("page 参数 %s 缺少取值", key)
			}
			i++
			l, err := ParseLength(params[i].Value)
			if err != nil {
				return Page{}, fmt.Errorf("page 参数 %s: %w", key, err)
			}
			if l.Value < 0 {
				return Page{}, fmt.Errorf("page 参数 %s 不能为负: %s", key, l)
			}
			switch key {
			case "padding":
				page.Padding = l.ToMM()
			case "size":
				// 无单位字号按 pt 处理
				if l.Unit == UnitNone {
					l.Unit = UnitPT
				}
				page.FontSize = l.ToMM()
			case "spacing":
				if l.Unit == UnitNone {
					l.Unit = UnitPT
				}
				page.Spacing = l.ToMM()
			}
		}
	}
	if page.FontSize <= 0 {
		return Page{}, fmt.Errorf("字号必须大于 0")
	}
	return page, nil
}

// applyPageSettings 读取 page 块内的赋值语句：配色与字体。
func applyPageSettings(block *dsl.Block, res resources, page *Page, palette *Palette, fontSet *FontSet) error {
	for _, stmt := range block.Statements {
		a := stmt.Assignment
		if a == nil {
			continue
		}
		value, err := scalarValue(a)
		if err != nil {
			return err
		}
		key := strings.ToLower(a.Key)
		if key == "font" {
			set, err := resolveFontSet(value, res)
			if err != nil {
				return err
			}
			*fontSet = set
			continue
		}

		var target *grid.Color
		switch key {
		case "background":
			target = &page.Background
		case "foreground", "fg":
			target = &palette.Foreground
		case "h1":
			target = &palette.H1
		case "h2":
			target = &palette.H2
		case "h3":
			target = &palette.H3
		case "h4":
			target = &palette.H4
		default:
			return fmt.Errorf("未知的 page 设置：%s", a.Key)
		}
		c, err := resolveColor(value, res)
		if err != nil {
			return fmt.Errorf("page 设置 %s: %w", a.Key, err)
		}
		*target = c
	}
	return nil
}

// resolveFontSet 从同一 family 中取四种变体，缺失的变体回落到 regular。
func resolveFontSet(family string, res resources) (FontSet, error) {
	variants, ok := res.fonts[family]
	if !ok {
		return FontSet{}, fmt.Errorf("字体 %s 未定义", family)
	}
	regular, ok := variants["regular"]
	if !ok {
		return FontSet{}, fmt.Errorf("字体 %s 缺少 regular 变体", family)
	}
	pick := func(style string) FontResource {
		if f, ok := variants[style]; ok {
			return f
		}
		return regular
	}
	return FontSet{
		Regular:    regular,
		Bold:       pick("bold"),
		Italic:     pick("italic"),
		BoldItalic: pick("bold-italic"),
	}, nil
}

func resolveColor(value string, res resources) (grid.Color, error) {
	if c, ok := res.colors[value]; ok {
		return c, nil
	}
	return parseColor(value)
}

// parseColor 支持 #rgb、#rrggbb 与 #rrggbbaa（忽略透明度）。
func parseColor(value string) (grid.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		hex = hex[:6]
	default:
		return grid.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return grid.Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return grid.Color{R: c.R, G: c.G, B: c.B}, nil
}

// compiler 把 page 块编译为 node 树，所有可能的错误都在这里暴露。
type compiler struct {
	res       resources
	fragments map[string]*dsl.Block
	data      any
	images    ImageLoader
	using     map[string]bool
}

func (c *compiler) block(b *dsl.Block) (sequence, error) {
	seq := sequence{}
	if b == nil {
		return seq, nil
	}
	for _, stmt := range b.Statements {
		if stmt.Command == nil {
			continue
		}
		n, err := c.command(stmt.Command)
		if err != nil {
			return nil, err
		}
		seq = append(seq, n)
	}
	return seq, nil
}

func (c *compiler) command(cmd *dsl.Command) (node, error) {
	switch cmd.Name {
	case "frame":
		inner, err := c.block(cmd.Block)
		if err != nil {
			return nil, err
		}
		return frameNode{inner: inner}, nil
	case "vsplit":
		return c.split(cmd, true, "top", "bottom")
	case "hsplit":
		return c.split(cmd, false, "left", "right")
	case "padding":
		return c.padding(cmd)
	case "text", "ftext":
		content := binding.Interpolate(commandText(cmd), c.data)
		return textNode{content: content, markup: cmd.Name == "ftext"}, nil
	case "code":
		// code go { … } 或 code "main.go" { … }
		language := ""
		if len(cmd.Args) > 0 {
			language = cmd.Args[0].Value
		}
		return codeNode{src: extractText(cmd.Block), language: language}, nil
	case "image":
		return c.image(cmd)
	case "use":
		return c.use(cmd)
	default:
		return nil, fmt.Errorf("第 %d 行: 未知的布局命令 %s", cmd.Pos.Line, cmd.Name)
	}
}

// split 编译 `vsplit N { top {…} bottom {…} }` 或 `hsplit N { left {…} right {…} }`。
func (c *compiler) split(cmd *dsl.Command, vertical bool, firstName, secondName string) (node, error) {
	if len(cmd.Args) != 1 {
		return nil, fmt.Errorf("第 %d 行: %s 需要一个分割位置参数", cmd.Pos.Line, cmd.Name)
	}
	at, err := parseCount(cmd.Args[0].Value)
	if err != nil {
		return nil, fmt.Errorf("第 %d 行: %w", cmd.Pos.Line, err)
	}
	n := splitNode{vertical: vertical, at: at}
	if cmd.Block == nil {
		return n, nil
	}
	for _, stmt := range cmd.Block.Statements {
		part := stmt.Command
		if part == nil {
			continue
		}
		body, err := c.block(part.Block)
		if err != nil {
			return nil, err
		}
		switch part.Name {
		case firstName:
			n.first = body
		case secondName:
			n.second = body
		default:
			return nil, fmt.Errorf("第 %d 行: %s 只接受 %s 与 %s 子块，得到 %s", part.Pos.Line, cmd.Name, firstName, secondName, part.Name)
		}
	}
	return n, nil
}

// padding 参数：1 个值四边相同；2 个值为 水平 垂直；4 个值为 左 右 上 下。
func (c *compiler) padding(cmd *dsl.Command) (node, error) {
	vals := make([]int, 0, len(cmd.Args))
	for _, arg := range cmd.Args {
		v, err := parseCount(arg.Value)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", cmd.Pos.Line, err)
		}
		vals = append(vals, v)
	}
	inner, err := c.block(cmd.Block)
	if err != nil {
		return nil, err
	}
	n := paddingNode{inner: inner}
	switch len(vals) {
	case 1:
		n.left, n.right, n.up, n.down = vals[0], vals[0], vals[0], vals[0]
	case 2:
		n.left, n.right, n.up, n.down = vals[0], vals[0], vals[1], vals[1]
	case 4:
		n.left, n.right, n.up, n.down = vals[0], vals[1], vals[2], vals[3]
	default:
		return nil, fmt.Errorf("第 %d 行: padding 需要 1、2 或 4 个参数，得到 %d 个", cmd.Pos.Line, len(vals))
	}
	return n, nil
}

func (c *compiler) image(cmd *dsl.Command) (node, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("第 %d 行: image 缺少路径", cmd.Pos.Line)
	}
	if c.images == nil {
		return nil, fmt.Errorf("第 %d 行: 未配置图片加载器", cmd.Pos.Line)
	}
	src := cmd.Args[0].Value
	bmp, err := c.images.LoadImage(src)
	if err != nil {
		return nil, fmt.Errorf("第 %d 行: 加载图片 %s 失败: %w", cmd.Pos.Line, src, err)
	}
	if len(bmp.Pix) < bmp.Width*bmp.Height*3 {
		return nil, fmt.Errorf("图片 %s 像素数据不完整", src)
	}
	return imageNode{bitmap: bmp}, nil
}

func (c *compiler) use(cmd *dsl.Command) (node, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("第 %d 行: use 缺少 fragment 名称", cmd.Pos.Line)
	}
	name := cmd.Args[0].Value
	block, ok := c.fragments[name]
	if !ok {
		return nil, fmt.Errorf("第 %d 行: fragment %s 未定义", cmd.Pos.Line, name)
	}
	if c.using[name] {
		return nil, fmt.Errorf("fragment 引用存在循环：%s", name)
	}
	c.using[name] = true
	defer delete(c.using, name)
	return c.block(block)
}

// commandText 优先取块内的字符串字面量，否则拼接字符串参数。
func commandText(cmd *dsl.Command) string {
	if cmd.Block != nil {
		return extractText(cmd.Block)
	}
	var builder strings.Builder
	for _, arg := range cmd.Args {
		if arg.Type == "String" {
			builder.WriteString(arg.Value)
		}
	}
	return builder.String()
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(*stmt.Text))
		}
	}
	return builder.String()
}

// scalar 返回单值的文本形式；列表返回 false。
func scalar(v *dsl.Value) (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.String != nil:
		return string(*v.String), true
	case v.Number != nil:
		return *v.Number, true
	case v.Color != nil:
		return string(*v.Color), true
	case v.Ref != nil:
		return *v.Ref, true
	default:
		return "", false
	}
}

func scalarValue(a *dsl.Assignment) (string, error) {
	s, ok := scalar(a.Value)
	if !ok {
		return "", fmt.Errorf("第 %d 行: %s 需要单个取值而不是列表", a.Pos.Line, a.Key)
	}
	return s, nil
}

// stringList 接受单值或由单值组成的列表，空字符串被忽略。
func stringList(a *dsl.Assignment) ([]string, error) {
	if a.Value == nil || a.Value.List == nil {
		s, err := scalarValue(a)
		if err != nil || s == "" {
			return nil, err
		}
		return []string{s}, nil
	}
	out := make([]string, 0, len(a.Value.List.Items))
	for _, item := range a.Value.List.Items {
		s, ok := scalar(item)
		if !ok {
			return nil, fmt.Errorf("第 %d 行: %s 列表中不能嵌套列表", a.Pos.Line, a.Key)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
