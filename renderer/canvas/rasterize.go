package canvasrenderer

import (
	"fmt"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/xstitch/pattern"
)

// Rasterize 实现 renderer.Rasterizer：每行水平居中，黑色文字绘制在透明底上。
// 缓冲宽度 = ceil(最宽行) + 留白，高度 = 行数 × 行高 + 留白，行顶位于 留白/2 + i × 行高。
func (r *Renderer) Rasterize(lines []string, family pattern.FontFamily, cfg pattern.RenderConfig) (*pattern.PixelBuffer, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("没有可栅格化的文本行")
	}
	if cfg.LineHeight <= 0 || cfg.PointSize <= 0 {
		return nil, fmt.Errorf("无效的排版参数: 字号 %d, 行高 %d", cfg.PointSize, cfg.LineHeight)
	}

	// 字号按像素给出，画布单位即像素，这里换算为 pt 创建字体面。
	face, err := r.fontFace(string(family), toPt(float64(cfg.PointSize)), canvas.Black)
	if err != nil {
		return nil, err
	}

	widths := make([]float64, len(lines))
	maxWidth := 0.0
	for i, line := range lines {
		widths[i] = face.TextWidth(line)
		maxWidth = math.Max(maxWidth, widths[i])
	}

	width := int(math.Ceil(maxWidth)) + cfg.BufferMargin
	height := len(lines)*cfg.LineHeight + cfg.BufferMargin
	if r.limits.MaxBufferPixels > 0 && width*height > r.limits.MaxBufferPixels {
		return nil, fmt.Errorf("%w: 像素缓冲 %d×%d 超过上限 %d", pattern.ErrPatternTooLarge, width, height, r.limits.MaxBufferPixels)
	}

	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与像素缓冲一致

	ascent := face.Metrics().Ascent
	top := float64(cfg.BufferMargin / 2)
	for i, line := range lines {
		x := (float64(width) - widths[i]) / 2
		y := top + float64(i*cfg.LineHeight)
		ctx.DrawText(x, y+ascent, canvas.NewTextLine(face, line, canvas.Left))
	}

	img := rasterizer.Draw(c, pixelResolution, canvas.DefaultColorSpace)
	return pattern.FromImage(img), nil
}
