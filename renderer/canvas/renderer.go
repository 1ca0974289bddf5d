package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/monopage/fonts"
	"github.com/ByLCY/monopage/grid"
	"github.com/ByLCY/monopage/layout"
	"github.com/ByLCY/monopage/renderer"
)

// Renderer draws character grids via github.com/tdewolff/canvas and doubles
// as the layout's Sizer, since both need the same font metrics.
type Renderer struct {
	baseDir string

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Sizer      = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // DSL 中以 built-in:<name> 引用
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving assets.
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{
		baseDir:      baseDir,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// NewRendererWithOptions creates a renderer with injected fonts. Path
// resources are read here so a missing file fails before any layout work.
func NewRendererWithOptions(opts Options) (*Renderer, error) {
	r := NewRenderer(opts.BaseDir)
	for name, res := range opts.Fonts {
		if name == "" {
			return nil, fmt.Errorf("内置字体名称不能为空")
		}
		data := res.Bytes
		if len(data) == 0 && res.Path != "" {
			var err error
			data, err = os.ReadFile(res.Path)
			if err != nil {
				return nil, fmt.Errorf("读取内置字体 %s 失败: %w", name, err)
			}
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("内置字体 %s 没有内容", name)
		}
		r.fontBlobs[name] = data
	}
	return r, nil
}

// Measure 实现 layout.Sizer：单元宽度取 "-" 的字宽加间距，单元高度取字号加间距，
// 网格在扣除页边距后的区域内取整并居中。
func (r *Renderer) Measure(page layout.Page, fontSet layout.FontSet) (layout.GridMetrics, error) {
	if page.FontSize <= 0 {
		return layout.GridMetrics{}, fmt.Errorf("字号必须大于 0")
	}
	face, err := r.fontFace(fontSet.Regular, toPt(page.FontSize), canvas.Black)
	if err != nil {
		return layout.GridMetrics{}, err
	}
	cellWidth := face.TextWidth("-") + page.Spacing
	cellHeight := page.FontSize + page.Spacing
	return gridMetrics(page, cellWidth, cellHeight), nil
}

func gridMetrics(page layout.Page, cellWidth, cellHeight float64) layout.GridMetrics {
	m := layout.GridMetrics{CellWidth: cellWidth, CellHeight: cellHeight}
	if cellWidth > 0 {
		m.Cols = int(math.Max(math.Floor((page.Width-2*page.Padding)/cellWidth), 0))
	}
	if cellHeight > 0 {
		m.Rows = int(math.Max(math.Floor((page.Height-2*page.Padding)/cellHeight), 0))
	}
	viewWidth := float64(m.Cols) * cellWidth
	viewHeight := float64(m.Rows)*cellHeight + page.Spacing
	m.OffsetX = (page.Width - viewWidth) / 2
	m.OffsetY = (page.Height - viewHeight) / 2
	return m
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.Grid == nil {
		return nil, fmt.Errorf("缺少可渲染的网格")
	}
	page := result.Page

	var buf bytes.Buffer
	writer := pdf.New(&buf, page.Width, page.Height, nil)
	r.applyMeta(writer, result.Meta)

	c := canvas.New(page.Width, page.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与网格保持左上角为原点

	ctx.SetFillColor(colorFromGrid(page.Background))
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.DrawPath(0, 0, canvas.Rectangle(page.Width, page.Height))

	if err := r.drawGrid(ctx, result); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

type faceKey struct {
	bold, italic bool
	color        grid.Color
}

// drawGrid 逐个绘制非空白单元。基线位于单元顶部下方一个字号处。
func (r *Renderer) drawGrid(ctx *canvas.Context, result *layout.Result) error {
	g, m, page := result.Grid, result.Metrics, result.Page
	sizePt := toPt(page.FontSize)
	faces := map[faceKey]*canvas.FontFace{}

	for row := 0; row < g.Rows(); row++ {
		baseline := m.OffsetY + page.FontSize + float64(row)*m.CellHeight
		for col := 0; col < g.Cols(); col++ {
			s := g.At(row, col)
			if s.Char == ' ' || s.Char == 0 {
				continue
			}
			key := faceKey{bold: s.Bold, italic: s.Italic, color: s.Color}
			face, ok := faces[key]
			if !ok {
				var err error
				face, err = r.fontFace(result.Fonts.Variant(s.Bold, s.Italic), sizePt, colorFromGrid(s.Color))
				if err != nil {
					return err
				}
				faces[key] = face
			}
			x := m.OffsetX + float64(col)*m.CellWidth
			ctx.DrawText(x, baseline, canvas.NewTextLine(face, string(s.Char), canvas.Left))
		}
	}
	return nil
}

func (r *Renderer) fontFace(font layout.FontResource, size float64, col color.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, col, style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Mono"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

// fallback 在字体加载失败时使用内置的 Latin Modern Mono 常规体。
func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Regular)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("monopage-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	if strings.Contains(s, "bold") {
		result = canvas.FontBold
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

func colorFromGrid(c grid.Color) color.Color {
	return canvas.RGBA(c.R, c.G, c.B, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
