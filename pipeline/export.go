package pipeline

import (
	"fmt"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/ByLCY/xstitch/pattern"
)

// Export filenames.
const (
	PNGName         = "cross-stitch-pattern.png"
	PNGWithGridName = "cross-stitch-pattern-with-grid.png"
	PDFName         = "cross-stitch-pattern.pdf"
)

// Instructions is the fixed text printed on the second page of the PDF.
var Instructions = []string{
	"Find the centre of your fabric by folding it in half both ways, and start stitching from the centre of the pattern.",
	"Each X on the chart is one cross stitch covering one square of the fabric mesh.",
	"Use two strands of embroidery floss on 14-count Aida.",
	"Work each cross in two passes, and keep every top stitch slanting in the same direction.",
	"Count the heavier grid lines every 10 stitches to keep your place.",
	"Keep an even tension, and avoid knots on the back by weaving the thread ends under finished stitches.",
}

// PNGFilename returns the download name for a PNG export.
func PNGFilename(withGrid bool) string {
	if withGrid {
		return PNGWithGridName
	}
	return PNGName
}

// ExportPNG writes the latest pattern as PNG. When withGrid differs from the
// stored surface, the pattern is redrawn from the retained grid; the stored
// surface stays untouched.
func (g *Generator) ExportPNG(w io.Writer, withGrid bool) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return "", pattern.ErrNoPattern
	}
	surface := g.last.Surface
	if surface == nil || surface.WithGrid != withGrid {
		var err error
		surface, err = g.renderer.Render(g.last.Grid, g.renderOptions(g.last.Request, g.last.Config, withGrid))
		if err != nil {
			return "", fmt.Errorf("重新绘制图案失败: %w", err)
		}
	}
	if err := png.Encode(w, surface.Image); err != nil {
		return "", fmt.Errorf("编码 PNG 失败: %w", err)
	}
	name := PNGFilename(withGrid)
	g.logger.Debug("exported png", "file", name, "grid", withGrid)
	return name, nil
}

// ExportPDF writes the latest pattern as a two-page PDF.
func (g *Generator) ExportPDF(w io.Writer) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return "", pattern.ErrNoPattern
	}
	if g.exporter == nil {
		return "", fmt.Errorf("当前渲染后端不支持 PDF 导出")
	}
	data, err := g.exporter.ExportPDF(Document(g.last))
	if err != nil {
		return "", fmt.Errorf("生成 PDF 失败: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("写入 PDF 失败: %w", err)
	}
	g.logger.Debug("exported pdf", "file", PDFName, "bytes", len(data))
	return PDFName, nil
}

// Document builds the printable document for res.
func Document(res *Result) pattern.Document {
	req := res.Request
	m := res.Metrics
	doc := pattern.Document{
		Title:    "Cross-Stitch Pattern",
		Subject:  strings.Join(res.Lines, " / "),
		Keywords: []string{"cross-stitch", "pattern", string(req.FontFamily)},
		Fields: []pattern.DocumentField{
			{Label: "Text", Value: strings.Join(res.Lines, " / ")},
			{Label: "Dimensions", Value: m.Dimensions},
			{Label: "Stitch Count", Value: strconv.Itoa(m.StitchCount)},
			{Label: "Font", Value: fmt.Sprintf("%s, %s", req.FontFamily, req.FontSize)},
			{Label: "Line Spacing", Value: string(req.LineSpacing)},
			{Label: "Thread Color", Value: req.StitchColor.Hex()},
			{Label: "Fabric", Value: string(req.FabricColor)},
			{Label: "Estimated Time", Value: m.Time},
			{Label: "Fabric Size", Value: m.Fabric},
			{Label: "Floss", Value: m.Floss},
		},
		Instructions: Instructions,
	}
	if res.Surface != nil {
		doc.Image = res.Surface.Image
	}
	return doc
}
