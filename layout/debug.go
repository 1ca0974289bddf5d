package layout

import (
	"encoding/json"
	"os"

	"github.com/ByLCY/monopage/grid"
)

// debugResult 在布局结果之外附带网格的逐行文本与样式片段。
type debugResult struct {
	*Result
	Lines []debugLine `json:"lines"`
}

type debugLine struct {
	Text  string     `json:"text"`
	Spans []debugRun `json:"spans,omitempty"`
}

// debugRun 是同一行内样式相同的一段连续单元。
type debugRun struct {
	Start  int        `json:"start"`
	End    int        `json:"end"`
	Color  grid.Color `json:"color"`
	Bold   bool       `json:"bold,omitempty"`
	Italic bool       `json:"italic,omitempty"`
}

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(newDebugResult(res), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func newDebugResult(res *Result) debugResult {
	out := debugResult{Result: res}
	g := res.Grid
	if g == nil {
		return out
	}
	out.Lines = make([]debugLine, 0, g.Rows())
	for row := 0; row < g.Rows(); row++ {
		line := debugLine{Text: g.Line(row)}
		for col := 0; col < g.Cols(); col++ {
			s := g.At(row, col)
			if n := len(line.Spans); n > 0 {
				last := &line.Spans[n-1]
				if last.Color == s.Color && last.Bold == s.Bold && last.Italic == s.Italic {
					last.End = col + 1
					continue
				}
			}
			line.Spans = append(line.Spans, debugRun{Start: col, End: col + 1, Color: s.Color, Bold: s.Bold, Italic: s.Italic})
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}
