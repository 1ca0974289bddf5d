package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/ByLCY/monopage/dsl"
	"github.com/ByLCY/monopage/layout"
	"github.com/ByLCY/monopage/raster"
	"github.com/ByLCY/monopage/renderer"
	ansirenderer "github.com/ByLCY/monopage/renderer/ansi"
	canvasrenderer "github.com/ByLCY/monopage/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/cv.monopage", "DSL 文件路径")
	output := flag.String("out", "output/cv.pdf", "PDF 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	preview := flag.String("preview", "auto", "终端预览：auto|always|never")
	builtinFonts := map[string]canvasrenderer.Resource{}
	flag.Func("font", "注册内置字体 name=path，DSL 中以 built-in:name 引用（可重复）", func(v string) error {
		return addFontFlag(builtinFonts, v)
	})
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	showPreview, err := wantPreview(*preview, term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		log.Fatalf("%v", err)
	}

	baseDir := filepath.Dir(*input)
	pdf, err := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: baseDir, Fonts: builtinFonts})
	if err != nil {
		log.Fatalf("%v", err)
	}
	p := pipeline{
		pdf:    pdf,
		images: raster.NewLoader(baseDir),
		stdout: os.Stdout,
	}
	if showPreview {
		p.preview = ansirenderer.NewRenderer(ansirenderer.Options{Background: true})
	}
	if err := p.run(*input, *output, *debug, inputData); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

// pipeline 串联解析、布局、渲染与可选的终端预览。
type pipeline struct {
	pdf     *canvasrenderer.Renderer
	images  layout.ImageLoader
	preview renderer.Renderer
	stdout  io.Writer
}

func (p pipeline) run(inputPath, outputPath, debugPath string, data any) error {
	if p.pdf == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{
		Sizer:  p.pdf,
		Images: p.images,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	pdfBytes, err := p.pdf.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	if p.preview != nil && p.stdout != nil {
		text, err := p.preview.Render(result)
		if err != nil {
			return fmt.Errorf("生成终端预览失败: %w", err)
		}
		if _, err := p.stdout.Write(text); err != nil {
			return fmt.Errorf("输出终端预览失败: %w", err)
		}
	}
	return nil
}

// wantPreview 解析 -preview 取值；auto 仅在标准输出为终端时预览。
func wantPreview(mode string, isTerminal bool) (bool, error) {
	switch mode {
	case "auto", "":
		return isTerminal, nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	default:
		return false, fmt.Errorf("无效的 -preview 取值 %q（可选 auto|always|never）", mode)
	}
}

// addFontFlag 解析一次 -font name=path。
func addFontFlag(fonts map[string]canvasrenderer.Resource, value string) error {
	name, path, ok := strings.Cut(value, "=")
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if !ok || name == "" || path == "" {
		return fmt.Errorf("-font 需要 name=path 形式，得到 %q", value)
	}
	if _, dup := fonts[name]; dup {
		return fmt.Errorf("-font %s 重复注册", name)
	}
	fonts[name] = canvasrenderer.Resource{Path: path}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
