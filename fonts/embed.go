package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10italic"
	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmmonolt10bold"
	"github.com/go-fonts/latin-modern/lmmonolt10boldoblique"
)

// 内置的 Latin Modern Mono 四种变体，名称用于 "embed:<name>" 形式的 src。
const (
	Regular    = "lmmono10-regular"
	Bold       = "lmmonolt10-bold"
	Italic     = "lmmono10-italic"
	BoldItalic = "lmmonolt10-bold-oblique"
)

var builtin = map[string][]byte{
	Regular:    lmmono10regular.TTF,
	Bold:       lmmonolt10bold.TTF,
	Italic:     lmmono10italic.TTF,
	BoldItalic: lmmonolt10boldoblique.TTF,
}

// Load 返回内置字体的字节数据，path 可写为 "embed:lmmono10-regular" 或直接 "lmmono10-regular"。
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "embed:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 可用字体 %s", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回全部内置字体名称（已排序）。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
