package layout

// BuildOptions 配置布局阶段所需的依赖，例如网格尺寸计算与图片加载。
type BuildOptions struct {
	Sizer  Sizer
	Images ImageLoader
}

// Sizer 根据页面与字体度量计算一页能容纳多少网格单元。
type Sizer interface {
	Measure(page Page, fonts FontSet) (GridMetrics, error)
}

// ImageLoader 把 DSL 中的图片路径解码为像素数据。
type ImageLoader interface {
	LoadImage(src string) (Bitmap, error)
}
