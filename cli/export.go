package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ByLCY/xstitch/pipeline"
)

// exportSet selects which files writeExports produces.
type exportSet struct {
	png      bool
	withGrid bool
	pdf      bool
}

// writeExports writes the latest pattern into dir and returns the written paths.
func writeExports(gen *pipeline.Generator, dir string, set exportSet) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	var paths []string
	write := func(export func(*bytes.Buffer) (string, error)) error {
		var buf bytes.Buffer
		name, err := export(&buf)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	}
	if set.png {
		if err := write(func(b *bytes.Buffer) (string, error) { return gen.ExportPNG(b, set.withGrid) }); err != nil {
			return paths, err
		}
	}
	if set.pdf {
		if err := write(func(b *bytes.Buffer) (string, error) { return gen.ExportPDF(b) }); err != nil {
			return paths, err
		}
	}
	return paths, nil
}
