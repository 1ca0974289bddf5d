// Package raster 把图片文件解码为布局层使用的 RGB 浮点像素。
package raster

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/monopage/layout"
)

// Loader 按 DSL 中的路径加载图片：built-in:<name> 取注册的内存资源，其他路径相对 baseDir 解析。
type Loader struct {
	baseDir string
	blobs   map[string][]byte
}

var _ layout.ImageLoader = (*Loader)(nil)

// NewLoader creates a loader that resolves relative paths against baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{baseDir: baseDir, blobs: map[string][]byte{}}
}

// Register 注册一张内置图片，DSL 中用 built-in:<name> 引用。
func (l *Loader) Register(name string, data []byte) {
	if name == "" || len(data) == 0 {
		return
	}
	l.blobs[name] = data
}

// LoadImage 实现 layout.ImageLoader。
func (l *Loader) LoadImage(src string) (layout.Bitmap, error) {
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		blob, ok := l.blobs[name]
		if !ok {
			return layout.Bitmap{}, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		return Decode(bytes.NewReader(blob))
	}

	path := src
	if !filepath.IsAbs(path) {
		if l.baseDir == "" {
			return layout.Bitmap{}, fmt.Errorf("未指定资源目录时不允许直接使用路径：%s（请改用 built-in:）", src)
		}
		path = filepath.Join(l.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return layout.Bitmap{}, fmt.Errorf("读取图片 %s 失败: %w", src, err)
	}
	defer file.Close()

	bmp, err := Decode(file)
	if err != nil {
		return layout.Bitmap{}, fmt.Errorf("解码图片 %s 失败: %w", src, err)
	}
	return bmp, nil
}

// Decode reads any registered image format and flattens it into row-major
// RGB triples in [0,1]. Alpha is dropped.
func Decode(r io.Reader) (layout.Bitmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return layout.Bitmap{}, err
	}
	return FromImage(img), nil
}

// FromImage 将 image.Image 转为 Bitmap，每个像素一个网格单元，不做缩放。
func FromImage(img image.Image) layout.Bitmap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]float64, 0, w*h*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			pix = append(pix, float64(r)/0xffff, float64(g)/0xffff, float64(bl)/0xffff)
		}
	}
	return layout.Bitmap{Pix: pix, Width: w, Height: h}
}
