package canvasrenderer

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/xstitch/fonts"
	"github.com/ByLCY/xstitch/pattern"
)

// 页面几何，单位 mm（A4 纵向）。
const (
	pageWidth      = 210.0
	pageHeight     = 297.0
	pageMargin     = 15.0
	maxImageWidth  = 180.0
	maxImageHeight = 200.0

	titleSizePt   = 20.0
	headingSizePt = 14.0
	bodySizePt    = 11.0
	fieldGap      = 1.5
)

var textColor = canvas.Hex("#1e1e1e")

// ExportPDF 实现 renderer.Exporter：首页为标题、元信息与图案图片，次页为刺绣说明。
func (r *Renderer) ExportPDF(doc pattern.Document) ([]byte, error) {
	if doc.Image == nil {
		return nil, fmt.Errorf("文档缺少图案图片")
	}
	title, err := r.fontFace(fonts.Default, titleSizePt, textColor)
	if err != nil {
		return nil, err
	}
	heading, err := r.fontFace(fonts.Default, headingSizePt, textColor)
	if err != nil {
		return nil, err
	}
	body, err := r.fontFace(fonts.Default, bodySizePt, textColor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, pageWidth, pageHeight, nil)
	writer.SetInfo(doc.Title, doc.Subject, strings.Join(doc.Keywords, ", "), "", "xstitch")

	first := canvas.New(pageWidth, pageHeight)
	ctx := canvas.NewContext(first)
	ctx.SetCoordSystem(canvas.CartesianIV)
	cursorY := pageMargin
	cursorY = drawLines(ctx, title, []string{doc.Title}, cursorY)
	cursorY += fieldGap * 2
	for _, field := range doc.Fields {
		text := field.Label + ": " + field.Value
		cursorY = drawLines(ctx, body, wrapText(text, pageWidth-2*pageMargin, body), cursorY)
		cursorY += fieldGap
	}
	cursorY += fieldGap * 2
	drawPatternImage(ctx, doc, cursorY)
	first.RenderTo(writer)

	if len(doc.Instructions) > 0 {
		writer.NewPage(pageWidth, pageHeight)
		second := canvas.New(pageWidth, pageHeight)
		ctx := canvas.NewContext(second)
		ctx.SetCoordSystem(canvas.CartesianIV)
		cursorY := drawLines(ctx, heading, []string{"Stitching Instructions"}, pageMargin)
		cursorY += fieldGap * 2
		for i, step := range doc.Instructions {
			text := fmt.Sprintf("%d. %s", i+1, step)
			cursorY = drawLines(ctx, body, wrapText(text, pageWidth-2*pageMargin, body), cursorY)
			cursorY += fieldGap * 2
		}
		second.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLines 从 top（行顶，mm）开始逐行绘制，返回下一行的行顶。
func drawLines(ctx *canvas.Context, face *canvas.FontFace, lines []string, top float64) float64 {
	metrics := face.Metrics()
	for _, line := range lines {
		ctx.DrawText(pageMargin, top+metrics.Ascent, canvas.NewTextLine(face, line, canvas.Left))
		top += metrics.LineHeight
	}
	return top
}

// drawPatternImage 按固定像素→毫米换算放置图案，超出最大宽高时等比缩小，并水平居中。
func drawPatternImage(ctx *canvas.Context, doc pattern.Document, top float64) {
	b := doc.Image.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	width, _ := imagePlacement(b.Dx(), b.Dy(), pageHeight-pageMargin-top)
	x := (pageWidth - width) / 2
	ctx.DrawImage(x, top, doc.Image, canvas.DPMM(float64(b.Dx())/width))
}

// imagePlacement 返回图片在页面上的宽高（mm），保持宽高比。
func imagePlacement(pxWidth, pxHeight int, available float64) (float64, float64) {
	width := float64(pxWidth) * pattern.PxToMm
	height := float64(pxHeight) * pattern.PxToMm
	maxHeight := maxImageHeight
	if available > 0 {
		maxHeight = math.Min(maxHeight, available)
	}
	scale := math.Min(1, math.Min(maxImageWidth/width, maxHeight/height))
	return width * scale, height * scale
}
