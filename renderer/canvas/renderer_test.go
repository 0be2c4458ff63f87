package canvasrenderer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/xstitch/pattern"
)

func testConfig(size pattern.FontSize) pattern.RenderConfig {
	req := pattern.DefaultRequest()
	req.FontSize = size
	return pattern.NewRenderConfig(req)
}

// TestRasterizeDeterministic 验证相同输入两次栅格化逐字节一致。
func TestRasterizeDeterministic(t *testing.T) {
	r := NewRenderer()
	cfg := testConfig(pattern.FontLarge)
	lines := []string{"Hello", "World!"}

	a, err := r.Rasterize(lines, pattern.FamilySansSerif, cfg)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	b, err := r.Rasterize(lines, pattern.FamilySansSerif, cfg)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if a.Width != b.Width || a.Height != b.Height || !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("rasterization is not deterministic")
	}
}

// TestRasterizeBufferSize 验证缓冲高度 = 行数 × 行高 + 留白，且宽度覆盖最宽行。
func TestRasterizeBufferSize(t *testing.T) {
	r := NewRenderer()
	cfg := testConfig(pattern.FontMedium)
	buf, err := r.Rasterize([]string{"A", "ABCDEFG", "AB"}, pattern.FamilyMonospace, cfg)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if want := 3*cfg.LineHeight + cfg.BufferMargin; buf.Height != want {
		t.Fatalf("height = %d, want %d", buf.Height, want)
	}
	face, err := r.fontFace(string(pattern.FamilyMonospace), toPt(float64(cfg.PointSize)), canvas.Black)
	if err != nil {
		t.Fatalf("fontFace: %v", err)
	}
	if want := int(math.Ceil(face.TextWidth("ABCDEFG"))) + cfg.BufferMargin; buf.Width != want {
		t.Fatalf("width = %d, want %d", buf.Width, want)
	}
	if len(buf.Pix) != buf.Width*buf.Height*4 {
		t.Fatalf("pix length %d for %dx%d", len(buf.Pix), buf.Width, buf.Height)
	}
}

func TestRasterizeProducesInk(t *testing.T) {
	r := NewRenderer()
	for _, family := range pattern.FontFamilies() {
		buf, err := r.Rasterize([]string{"XO"}, pattern.FontFamily(family), testConfig(pattern.FontExtraLarge))
		if err != nil {
			t.Fatalf("%s: %v", family, err)
		}
		opaque := 0
		for i := 3; i < len(buf.Pix); i += 4 {
			if buf.Pix[i] > 128 {
				opaque++
			}
		}
		if opaque == 0 {
			t.Fatalf("%s: no glyph pixels rendered", family)
		}
		// 四周留白必须透明
		if c := buf.At(0, 0); c.A != 0 {
			t.Fatalf("%s: margin pixel not transparent: %+v", family, c)
		}
	}
}

func TestRasterizeUnknownFamilyFallsBack(t *testing.T) {
	r := NewRenderer()
	cfg := testConfig(pattern.FontMedium)
	a, err := r.Rasterize([]string{"Hi"}, "comic", cfg)
	if err != nil {
		t.Fatalf("unknown family should fall back: %v", err)
	}
	b, err := r.Rasterize([]string{"Hi"}, pattern.FamilySansSerif, cfg)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("fallback should render with the default family")
	}
}

func TestRasterizeRejectsHugeBuffer(t *testing.T) {
	r := NewRendererWithOptions(Options{Limits: pattern.Limits{MaxBufferPixels: 100}})
	_, err := r.Rasterize([]string{"Too big"}, pattern.FamilySansSerif, testConfig(pattern.FontLarge))
	if !errors.Is(err, pattern.ErrPatternTooLarge) {
		t.Fatalf("expected ErrPatternTooLarge, got %v", err)
	}
}

func renderOptions(showGrid bool) pattern.RenderOptions {
	return pattern.RenderOptions{
		Config:      testConfig(pattern.FontMedium),
		StitchColor: pattern.Color{R: 0xc0, A: 0xff},
		Fabric:      pattern.FabricCream,
		ShowGrid:    showGrid,
		Texture:     true,
	}
}

func TestRenderSurfaceGeometry(t *testing.T) {
	grid := pattern.NewStitchGrid(12, 5)
	grid.Set(0, 0, true)
	grid.Set(11, 4, true)
	opts := renderOptions(false)

	surface, err := NewRenderer().Render(grid, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	cfg := opts.Config
	if w := 12*cfg.GridSize + 2*cfg.Margin; surface.Width() != w {
		t.Fatalf("width = %d, want %d", surface.Width(), w)
	}
	if h := 5*cfg.GridSize + 2*cfg.Margin; surface.Height() != h {
		t.Fatalf("height = %d, want %d", surface.Height(), h)
	}

	// 空格子中心应保持布料色（允许布纹带来的轻微偏差）。
	empty := surface.Image.RGBAAt(cfg.Margin+5*cfg.GridSize+cfg.GridSize/2, cfg.Margin+2*cfg.GridSize+cfg.GridSize/2)
	if !near(empty, pattern.FabricCream.Color(), 12) {
		t.Fatalf("empty cell colour %+v is not fabric", empty)
	}
	// 落针格子中心有针脚颜色。
	stitched := surface.Image.RGBAAt(cfg.Margin+cfg.GridSize/2, cfg.Margin+cfg.GridSize/2)
	if near(stitched, pattern.FabricCream.Color(), 12) {
		t.Fatalf("stitched cell centre still shows fabric: %+v", stitched)
	}
}

// TestRenderGridIsAdditive 网格叠加只改变外观，不影响尺寸。
func TestRenderGridIsAdditive(t *testing.T) {
	grid := pattern.NewStitchGrid(20, 3)
	grid.Set(4, 1, true)
	r := NewRenderer()

	plain, err := r.Render(grid, renderOptions(false))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	withGrid, err := r.Render(grid, renderOptions(true))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if plain.Width() != withGrid.Width() || plain.Height() != withGrid.Height() {
		t.Fatalf("grid overlay changed surface size")
	}
	if !withGrid.WithGrid || plain.WithGrid {
		t.Fatalf("WithGrid flag not recorded")
	}
	if bytes.Equal(plain.Image.Pix, withGrid.Image.Pix) {
		t.Fatalf("grid overlay drew nothing")
	}
	if grid.Count != 1 {
		t.Fatalf("rendering mutated the grid")
	}
}

func TestRenderRejectsOversizedSurface(t *testing.T) {
	r := NewRendererWithOptions(Options{Limits: pattern.Limits{MaxSurfaceSide: 200}})
	_, err := r.Render(pattern.NewStitchGrid(100, 2), renderOptions(false))
	if !errors.Is(err, pattern.ErrPatternTooLarge) {
		t.Fatalf("expected ErrPatternTooLarge, got %v", err)
	}
}

func TestExportPDF(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 120))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	doc := pattern.Document{
		Title:        "Cross-Stitch Pattern",
		Fields:       []pattern.DocumentField{{Label: "Text", Value: "Hello"}, {Label: "Stitches", Value: "42"}},
		Image:        img,
		Instructions: []string{"Start from the centre.", "Keep tension even."},
	}
	data, err := NewRenderer().ExportPDF(doc)
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", data[:min(8, len(data))])
	}

	doc.Image = nil
	if _, err := NewRenderer().ExportPDF(doc); err == nil {
		t.Fatalf("expected error without image")
	}
}

func TestImagePlacementKeepsAspect(t *testing.T) {
	w, h := imagePlacement(2000, 500, 250)
	if math.Abs(w-maxImageWidth) > 1e-9 {
		t.Fatalf("wide image width = %g, want %g", w, maxImageWidth)
	}
	if math.Abs(w/h-4) > 1e-9 {
		t.Fatalf("aspect ratio changed: %g", w/h)
	}
	w, h = imagePlacement(100, 100, 250)
	if math.Abs(w-100*pattern.PxToMm) > 1e-9 || math.Abs(h-w) > 1e-9 {
		t.Fatalf("small images keep their physical size, got %gx%g", w, h)
	}
	_, h = imagePlacement(400, 2000, 120)
	if h > 120+1e-9 {
		t.Fatalf("tall image exceeds available height: %g", h)
	}
}

// TestWrapTextHonorsWidth 验证折行后每行宽度不超过限制（mm）。
func TestWrapTextHonorsWidth(t *testing.T) {
	r := NewRenderer()
	face, err := r.fontFace("sans-serif", 11, canvas.Black)
	if err != nil {
		t.Fatalf("fontFace: %v", err)
	}
	limit := 30.0
	lines := wrapText("Use two strands of floss for fourteen count aida and aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", limit, face)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	for i, ln := range lines {
		if face.TextWidth(ln)-limit > 1e-6 {
			t.Fatalf("line %d too wide: %q", i, ln)
		}
	}
	if got := wrapText("foo\n\nbar", 1000, face); len(got) != 3 || got[1] != "" {
		t.Fatalf("explicit newlines must be kept, got %q", got)
	}
}

func near(c color.RGBA, want pattern.Color, tol int) bool {
	d := func(a, b uint8) bool { x := int(a) - int(b); return x <= tol && x >= -tol }
	return d(c.R, want.R) && d(c.G, want.G) && d(c.B, want.B)
}
