package pattern

// 该文件定义一次生成调用中在各组件之间传递的数据类型。

import (
	"fmt"
	"image"
	"image/color"
)

// Request 是一次生成的输入配置，构造后不再修改。
type Request struct {
	Text        string      `json:"text"`
	MaxLines    int         `json:"maxLines"` // 0 不保留任何行，负数表示不限制
	FontSize    FontSize    `json:"fontSize"`
	FontFamily  FontFamily  `json:"fontFamily"`
	LineSpacing LineSpacing `json:"lineSpacing"`
	StitchColor Color       `json:"stitchColor"`
	FabricColor FabricColor `json:"fabricColor"`
	ShowGrid    bool        `json:"showGrid"`
}

// DefaultRequest returns the request used when no option is given.
func DefaultRequest() Request {
	return Request{
		MaxLines:    3,
		FontSize:    FontMedium,
		FontFamily:  DefaultFontFamily,
		LineSpacing: SpacingNormal,
		StitchColor: Color{A: 0xff},
		FabricColor: DefaultFabric,
	}
}

// Lines 返回过滤后的文本行，见 PrepareLines。
func (r Request) Lines() []string { return PrepareLines(r.Text, r.MaxLines) }

// Color 采用 0-255 的 RGBA 数值（非预乘）。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Hex 以 #rrggbb 形式输出，非不透明时追加 alpha。
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Darken scales the colour channels by f (0..1), keeping alpha.
func (c Color) Darken(f float64) Color {
	scale := func(v uint8) uint8 {
		x := float64(v) * f
		if x < 0 {
			return 0
		}
		if x > 255 {
			return 255
		}
		return uint8(x + 0.5)
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// RenderOptions 是绘制图案时除网格外的全部输入。
type RenderOptions struct {
	Config      RenderConfig
	StitchColor Color
	Fabric      FabricColor
	ShowGrid    bool
	Texture     bool
}

// Surface 是最终的栅格图像，宽高单位为像素。
type Surface struct {
	Image    *image.RGBA
	GridSize int
	Margin   int
	WithGrid bool
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dx()
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dy()
}

// Document 描述导出的分页文档：首页标题、元信息与图案图片，次页为说明。
type Document struct {
	Title        string
	Subject      string
	Keywords     []string
	Fields       []DocumentField
	Image        image.Image
	Instructions []string
}

// DocumentField 是首页元信息中的一行。
type DocumentField struct {
	Label string
	Value string
}
