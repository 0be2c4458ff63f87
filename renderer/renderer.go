package renderer

import "github.com/ByLCY/xstitch/pattern"

// Rasterizer 将已过滤的文本行绘制到中间像素缓冲，缓冲紧贴文本外框（另加固定留白）。
// 相同输入、相同字体后端下输出必须逐字节一致。
type Rasterizer interface {
	Rasterize(lines []string, family pattern.FontFamily, cfg pattern.RenderConfig) (*pattern.PixelBuffer, error)
}

// Renderer 将针脚网格绘制为最终的栅格图像。
type Renderer interface {
	Render(grid *pattern.StitchGrid, opts pattern.RenderOptions) (*pattern.Surface, error)
}

// Exporter 将文档输出为分页 PDF 字节。
type Exporter interface {
	ExportPDF(doc pattern.Document) ([]byte, error)
}
