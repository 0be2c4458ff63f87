package pattern

import "math"

const (
	// bufferMargin 是中间像素缓冲在文本外围额外留出的像素（两侧合计）。
	bufferMargin = 10
	// surfaceMargin 是输出画布四周的留白，不小于最粗网格线描边宽度（1.5px）的 1.5 倍。
	surfaceMargin = 20
	// accentMinGrid 以下的格子太小，不再绘制中心点缀。
	accentMinGrid = 8
	accentSize    = 2
	textureAlpha  = 8 // ≈3%
)

// GridTier 是网格叠加层的一档：每 Every 个格子画一条线。
type GridTier struct {
	Every int
	Color Color
	Width float64
}

// GridTiers 按绘制顺序排列，后面的档位覆盖前面的。
var GridTiers = []GridTier{
	{Every: 1, Color: Color{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}, Width: 0.5},
	{Every: 10, Color: Color{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}, Width: 1},
	{Every: 50, Color: Color{R: 0x66, G: 0x66, B: 0x66, A: 0xff}, Width: 1.5},
}

// RenderConfig 汇总一次生成所需的几何常量，全部由 Request 推导。
type RenderConfig struct {
	PointSize    int     `json:"pointSize"`
	GridSize     int     `json:"gridSize"`
	ScaleFactor  int     `json:"scaleFactor"`
	LineHeight   int     `json:"lineHeight"`
	BufferMargin int     `json:"bufferMargin"`
	Margin       int     `json:"margin"`
	StrokeWidth  float64 `json:"strokeWidth"`
	AccentSize   float64 `json:"accentSize"` // 0 表示不绘制中心点缀
	TextureAlpha uint8   `json:"textureAlpha"`
}

// NewRenderConfig derives the geometry for req.
func NewRenderConfig(req Request) RenderConfig {
	spec := req.FontSize.Spec()
	cfg := RenderConfig{
		PointSize:    spec.Point,
		GridSize:     spec.Grid,
		ScaleFactor:  ScaleFactor(spec.Grid),
		LineHeight:   LineHeight(spec.Point, req.LineSpacing.Multiplier()),
		BufferMargin: bufferMargin,
		Margin:       surfaceMargin,
		StrokeWidth:  math.Max(1.5, float64(spec.Grid)/6),
		TextureAlpha: textureAlpha,
	}
	if spec.Grid > accentMinGrid {
		cfg.AccentSize = accentSize
	}
	return cfg
}

// ScaleFactor 返回折叠为一个针脚的源像素块边长：max(1, round(gridSize/8))。
func ScaleFactor(gridSize int) int {
	s := int(math.Round(float64(gridSize) / 8))
	if s < 1 {
		return 1
	}
	return s
}

// LineHeight returns round(pointSize × multiplier), never less than 1.
func LineHeight(pointSize int, multiplier float64) int {
	h := int(math.Round(float64(pointSize) * multiplier))
	if h < 1 {
		return 1
	}
	return h
}
