package pattern

import (
	"errors"
	"math"
	"testing"
)

func TestNewRenderConfigPerFontSize(t *testing.T) {
	cases := []struct {
		size                    FontSize
		point, grid, scale      int
		stroke                  float64
		accent                  bool
	}{
		{FontSmall, 8, 8, 1, 1.5, false},
		{FontMedium, 12, 10, 1, 10.0 / 6, true},
		{FontLarge, 16, 12, 2, 2, true},
		{FontExtraLarge, 20, 14, 2, 14.0 / 6, true},
	}
	for _, tc := range cases {
		req := DefaultRequest()
		req.FontSize = tc.size
		cfg := NewRenderConfig(req)
		if cfg.PointSize != tc.point || cfg.GridSize != tc.grid || cfg.ScaleFactor != tc.scale {
			t.Fatalf("%s: got point=%d grid=%d scale=%d", tc.size, cfg.PointSize, cfg.GridSize, cfg.ScaleFactor)
		}
		if math.Abs(cfg.StrokeWidth-tc.stroke) > 1e-9 {
			t.Fatalf("%s: stroke width %g, want %g", tc.size, cfg.StrokeWidth, tc.stroke)
		}
		if (cfg.AccentSize > 0) != tc.accent {
			t.Fatalf("%s: accent size %g", tc.size, cfg.AccentSize)
		}
	}
}

func TestLineHeightUsesSpacing(t *testing.T) {
	req := DefaultRequest()
	req.FontSize = FontExtraLarge
	want := map[LineSpacing]int{SpacingTight: 16, SpacingNormal: 24, SpacingLoose: 30, SpacingExtraLoose: 40}
	for spacing, h := range want {
		req.LineSpacing = spacing
		if got := NewRenderConfig(req).LineHeight; got != h {
			t.Fatalf("%s: line height %d, want %d", spacing, got, h)
		}
	}
}

// TestUnknownKeysFallBack 验证未知布料色与字体族回退到默认值，而未知字号/行距报错。
func TestUnknownKeysFallBack(t *testing.T) {
	if got := FabricColor("tartan").Color(); got != (Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Fatalf("unknown fabric should fall back to white, got %s", got.Hex())
	}
	if got := FabricColor("Light_Blue").Color().Hex(); got != "#e6f3ff" {
		t.Fatalf("light-blue = %s", got)
	}
	if got := ParseFontFamily("comic"); got != DefaultFontFamily {
		t.Fatalf("unknown family should fall back, got %s", got)
	}
	if got := ParseFontFamily(" Serif "); got != FamilySerif {
		t.Fatalf("family parse = %s", got)
	}
	if _, err := ParseFontSize("huge"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if s, err := ParseFontSize("Extra-Large"); err != nil || s != FontExtraLarge {
		t.Fatalf("ParseFontSize = %q, %v", s, err)
	}
	if _, err := ParseLineSpacing("double"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if _, err := ParseFabricColor("tartan"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if f, err := ParseFabricColor("LIGHT_PINK"); err != nil || f != FabricLightPink {
		t.Fatalf("ParseFabricColor = %q, %v", f, err)
	}
	if FontSize("bogus").Spec() != FontMedium.Spec() {
		t.Fatalf("unknown size spec should be medium")
	}
}

func TestColorHelpers(t *testing.T) {
	c := Color{R: 200, G: 100, B: 50, A: 255}
	if c.Hex() != "#c86432" {
		t.Fatalf("hex = %s", c.Hex())
	}
	if d := c.Darken(0.5); d != (Color{R: 100, G: 50, B: 25, A: 255}) {
		t.Fatalf("darken = %+v", d)
	}
	if c.WithAlpha(8).Hex() != "#c8643208" {
		t.Fatalf("alpha hex = %s", c.WithAlpha(8).Hex())
	}
}

func TestZoomClampsAndSteps(t *testing.T) {
	var z Zoom
	if z.Scale() != 1 {
		t.Fatalf("zero zoom should be 1, got %g", z.Scale())
	}
	for i := 0; i < 20; i++ {
		z.In()
	}
	if z.Scale() != MaxZoom {
		t.Fatalf("zoom should clamp at %g, got %g", MaxZoom, z.Scale())
	}
	for i := 0; i < 30; i++ {
		z.Out()
	}
	if z.Scale() != MinZoom {
		t.Fatalf("zoom should clamp at %g, got %g", MinZoom, z.Scale())
	}
	z.In()
	if z.Scale() != 0.4 {
		t.Fatalf("0.2 + 0.2 = %g", z.Scale())
	}
	if z.Reset() != 1 {
		t.Fatalf("reset should return 1")
	}
}
