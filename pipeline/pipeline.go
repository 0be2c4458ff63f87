// Package pipeline runs the full text → stitch pattern generation and keeps
// the most recent output for export and zoomed viewing.
//
// A Generator serializes every call: one generation runs to completion before
// the next starts, and exports always read the latest surface.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/xstitch/pattern"
	"github.com/ByLCY/xstitch/renderer"
	"github.com/ByLCY/xstitch/report"
)

// Result is the outcome of one Generate call.
type Result struct {
	Request pattern.Request      `json:"request"`
	Empty   bool                 `json:"empty"`
	Lines   []string             `json:"lines"`
	Config  pattern.RenderConfig `json:"config"`
	Grid    *pattern.StitchGrid  `json:"grid,omitempty"`
	Surface *pattern.Surface     `json:"-"`
	Metrics report.Metrics       `json:"metrics"`
	Elapsed time.Duration        `json:"elapsed"`
}

// Options configures a Generator.
type Options struct {
	Limits pattern.Limits
	Logger *log.Logger
	// NoTexture skips the fabric weave dots.
	NoTexture bool
}

// Generator wires a rendering backend into the generation pipeline.
type Generator struct {
	rasterizer renderer.Rasterizer
	renderer   renderer.Renderer
	exporter   renderer.Exporter // nil when the backend cannot write PDF

	limits  pattern.Limits
	logger  *log.Logger
	texture bool

	mu   sync.Mutex
	last *Result
	zoom pattern.Zoom
}

// New builds a Generator around backend, which must also rasterize text.
// PDF export is available when backend implements renderer.Exporter.
func New(backend renderer.Renderer, opts Options) (*Generator, error) {
	if backend == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	rast, ok := backend.(renderer.Rasterizer)
	if !ok {
		return nil, fmt.Errorf("renderer 未实现文本栅格化接口")
	}
	exp, _ := backend.(renderer.Exporter)
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{
		rasterizer: rast,
		renderer:   backend,
		exporter:   exp,
		limits:     opts.Limits,
		logger:     logger,
		texture:    !opts.NoTexture,
	}, nil
}

// Generate runs rasterize → convert → render → summarize for req and stores
// the result as the latest pattern. Text with no printable lines yields an
// Empty result and clears the latest pattern; so does any failure.
func (g *Generator) Generate(ctx context.Context, req pattern.Request) (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	res, err := g.generate(ctx, req)
	if err != nil || res.Empty {
		g.last = nil
		return res, err
	}
	g.last = res
	return res, nil
}

func (g *Generator) generate(ctx context.Context, req pattern.Request) (*Result, error) {
	start := time.Now()
	lines := req.Lines()
	if len(lines) == 0 {
		g.logger.Debug("empty text, clearing pattern")
		return &Result{Request: req, Empty: true}, nil
	}
	cfg := pattern.NewRenderConfig(req)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := g.rasterizer.Rasterize(lines, req.FontFamily, cfg)
	if err != nil {
		return nil, fmt.Errorf("栅格化文本失败: %w", err)
	}
	g.logger.Debug("rasterized", "lines", len(lines), "buffer", fmt.Sprintf("%dx%d", buf.Width, buf.Height), "scale", cfg.ScaleFactor)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid, err := pattern.Convert(buf, cfg.ScaleFactor, g.limits)
	if err != nil {
		return nil, fmt.Errorf("转换针脚网格失败: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	surface, err := g.renderer.Render(grid, g.renderOptions(req, cfg, req.ShowGrid))
	if err != nil {
		return nil, fmt.Errorf("绘制图案失败: %w", err)
	}

	res := &Result{
		Request: req,
		Lines:   lines,
		Config:  cfg,
		Grid:    grid,
		Surface: surface,
		Metrics: report.Summarize(grid.Width, grid.Height, grid.Count),
		Elapsed: time.Since(start),
	}
	g.logger.Info("pattern generated",
		"grid", fmt.Sprintf("%dx%d", grid.Width, grid.Height),
		"stitches", grid.Count,
		"elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

func (g *Generator) renderOptions(req pattern.Request, cfg pattern.RenderConfig, showGrid bool) pattern.RenderOptions {
	return pattern.RenderOptions{
		Config:      cfg,
		StitchColor: req.StitchColor,
		Fabric:      req.FabricColor,
		ShowGrid:    showGrid,
		Texture:     g.texture,
	}
}

// Latest returns the most recent successful result.
func (g *Generator) Latest() (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil {
		return nil, pattern.ErrNoPattern
	}
	return g.last, nil
}

// Clear drops the latest pattern. Zoom is kept.
func (g *Generator) Clear() {
	g.mu.Lock()
	g.last = nil
	g.mu.Unlock()
}
