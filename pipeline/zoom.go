package pipeline

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/ByLCY/xstitch/pattern"
)

// Zoom returns the current view scale.
func (g *Generator) Zoom() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.zoom.Scale()
}

// ZoomIn steps the view scale up by pattern.ZoomStep.
func (g *Generator) ZoomIn() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.zoom.In()
}

// ZoomOut steps the view scale down by pattern.ZoomStep.
func (g *Generator) ZoomOut() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.zoom.Out()
}

// ZoomReset restores the view scale to 1.
func (g *Generator) ZoomReset() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.zoom.Reset()
}

// View returns the latest surface scaled by the current zoom. Pattern data is
// not affected.
func (g *Generator) View() (image.Image, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil || g.last.Surface == nil {
		return nil, pattern.ErrNoPattern
	}
	src := g.last.Surface.Image
	scale := g.zoom.Scale()
	if scale == pattern.DefaultZoom {
		return src, nil
	}
	b := src.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}
