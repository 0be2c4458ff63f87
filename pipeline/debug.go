package pipeline

import (
	"encoding/json"
	"os"
)

type debugResult struct {
	*Result
	Rows []string `json:"rows,omitempty"`
}

// WriteDebugJSON 将生成结果（含网格的 X/. 文本形式）输出为 JSON，便于调试。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	out := debugResult{Result: res}
	if res.Grid != nil {
		out.Rows = res.Grid.Rows()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
