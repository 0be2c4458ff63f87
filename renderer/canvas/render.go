package canvasrenderer

import (
	"fmt"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/xstitch/pattern"
)

// textureSpacing 是布纹点阵的间距（px），奇数行错开半个间距。
const textureSpacing = 4

// Render 实现 renderer.Renderer：布料底色 → 布纹 → 针脚 → 网格线，依次叠加。
func (r *Renderer) Render(grid *pattern.StitchGrid, opts pattern.RenderOptions) (*pattern.Surface, error) {
	if grid == nil {
		return nil, fmt.Errorf("针脚网格为空")
	}
	cfg := opts.Config
	if cfg.GridSize <= 0 {
		return nil, fmt.Errorf("无效的格子尺寸 %d", cfg.GridSize)
	}
	if r.limits.MaxGridCells > 0 && grid.Cells() > r.limits.MaxGridCells {
		return nil, fmt.Errorf("%w: 网格 %d×%d 超过上限 %d 格", pattern.ErrPatternTooLarge, grid.Width, grid.Height, r.limits.MaxGridCells)
	}

	patternWidth := grid.Width * cfg.GridSize
	patternHeight := grid.Height * cfg.GridSize
	width := patternWidth + 2*cfg.Margin
	height := patternHeight + 2*cfg.Margin
	if side := r.limits.MaxSurfaceSide; side > 0 && (width > side || height > side) {
		return nil, fmt.Errorf("%w: 画布 %d×%d 超过单边上限 %d", pattern.ErrPatternTooLarge, width, height, side)
	}

	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	fabric := opts.Fabric.Color()
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.SetFillColor(canvasColor(fabric))
	ctx.DrawPath(0, 0, canvas.Rectangle(float64(width), float64(height)))

	if opts.Texture {
		drawTexture(ctx, width, height, fabric.Darken(0.8).WithAlpha(cfg.TextureAlpha))
	}
	drawStitches(ctx, grid, cfg, opts.StitchColor)
	if opts.ShowGrid {
		drawGrid(ctx, grid, cfg)
	}

	img := rasterizer.Draw(c, pixelResolution, canvas.DefaultColorSpace)
	return &pattern.Surface{
		Image:    img,
		GridSize: cfg.GridSize,
		Margin:   cfg.Margin,
		WithGrid: opts.ShowGrid,
	}, nil
}

// drawStitches 所有针脚合并为一条描边路径；中心点缀合并为一条填充路径。
func drawStitches(ctx *canvas.Context, grid *pattern.StitchGrid, cfg pattern.RenderConfig, col pattern.Color) {
	if grid.Count == 0 {
		return
	}
	g := float64(cfg.GridSize)
	m := float64(cfg.Margin)
	cross := &canvas.Path{}
	accent := &canvas.Path{}
	half := cfg.AccentSize / 2

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if !grid.At(x, y) {
				continue
			}
			cx := m + float64(x)*g
			cy := m + float64(y)*g
			cross.MoveTo(cx+1, cy+1)
			cross.LineTo(cx+g-1, cy+g-1)
			cross.MoveTo(cx+g-1, cy+1)
			cross.LineTo(cx+1, cy+g-1)

			if cfg.AccentSize > 0 {
				ax := cx + g/2 - half
				ay := cy + g/2 - half
				accent.MoveTo(ax, ay)
				accent.LineTo(ax+cfg.AccentSize, ay)
				accent.LineTo(ax+cfg.AccentSize, ay+cfg.AccentSize)
				accent.LineTo(ax, ay+cfg.AccentSize)
				accent.Close()
			}
		}
	}

	stitch := canvasColor(col)
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(stitch)
	ctx.SetStrokeWidth(cfg.StrokeWidth)
	ctx.SetStrokeCapper(canvas.RoundCap)
	ctx.DrawPath(0, 0, cross)

	if cfg.AccentSize > 0 {
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.SetFillColor(stitch)
		ctx.DrawPath(0, 0, accent)
	}
}

// drawGrid 每一档都覆盖整个图案范围，包含最右、最下的边界线。
func drawGrid(ctx *canvas.Context, grid *pattern.StitchGrid, cfg pattern.RenderConfig) {
	g := float64(cfg.GridSize)
	m := float64(cfg.Margin)
	right := m + float64(grid.Width)*g
	bottom := m + float64(grid.Height)*g

	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeCapper(canvas.ButtCap)
	for _, tier := range pattern.GridTiers {
		p := &canvas.Path{}
		for x := 0; x <= grid.Width; x += tier.Every {
			px := m + float64(x)*g
			p.MoveTo(px, m)
			p.LineTo(px, bottom)
		}
		for y := 0; y <= grid.Height; y += tier.Every {
			py := m + float64(y)*g
			p.MoveTo(m, py)
			p.LineTo(right, py)
		}
		ctx.SetStrokeColor(canvasColor(tier.Color))
		ctx.SetStrokeWidth(tier.Width)
		ctx.DrawPath(0, 0, p)
	}
}

// drawTexture 用稀疏点阵模拟布纹，只影响外观。
func drawTexture(ctx *canvas.Context, width, height int, col pattern.Color) {
	if col.A == 0 {
		return
	}
	p := &canvas.Path{}
	for y := 0; y < height; y += textureSpacing {
		offset := 0
		if (y/textureSpacing)%2 == 1 {
			offset = textureSpacing / 2
		}
		for x := offset; x < width; x += textureSpacing {
			fx, fy := float64(x), float64(y)
			p.MoveTo(fx, fy)
			p.LineTo(fx+1, fy)
			p.LineTo(fx+1, fy+1)
			p.LineTo(fx, fy+1)
			p.Close()
		}
	}
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.SetFillColor(col)
	ctx.DrawPath(0, 0, p)
}
