package pattern

import (
	"fmt"
	"sort"
	"strings"
)

// 该文件定义请求中可枚举的选项及其映射表。

// FontSize 是字号档位，决定字体点数与网格单元像素。
type FontSize string

const (
	FontSmall      FontSize = "small"
	FontMedium     FontSize = "medium"
	FontLarge      FontSize = "large"
	FontExtraLarge FontSize = "extra-large"
)

// FontSizeSpec 描述一个字号档位：栅格化时的字号（px）与输出中每个针脚的格子边长（px）。
type FontSizeSpec struct {
	Point int `json:"point"`
	Grid  int `json:"grid"`
}

var fontSizes = map[FontSize]FontSizeSpec{
	FontSmall:      {Point: 8, Grid: 8},
	FontMedium:     {Point: 12, Grid: 10},
	FontLarge:      {Point: 16, Grid: 12},
	FontExtraLarge: {Point: 20, Grid: 14},
}

// Spec 返回档位映射；未知档位按 medium 处理。
func (s FontSize) Spec() FontSizeSpec {
	if spec, ok := fontSizes[s]; ok {
		return spec
	}
	return fontSizes[FontMedium]
}

// ParseFontSize 解析字号档位，大小写与首尾空白不敏感。
func ParseFontSize(value string) (FontSize, error) {
	s := FontSize(normalizeKey(value))
	if _, ok := fontSizes[s]; !ok {
		return "", fmt.Errorf("%w: 未知字号 %q（可选：%s）", ErrInvalidOption, value, strings.Join(FontSizes(), ", "))
	}
	return s, nil
}

// FontSizes lists the known size keys, smallest first.
func FontSizes() []string {
	return []string{string(FontSmall), string(FontMedium), string(FontLarge), string(FontExtraLarge)}
}

// FontFamily 是字体族键名，由 fonts 包映射为具体字体数据。
type FontFamily string

const (
	FamilyPixel     FontFamily = "pixel"
	FamilySerif     FontFamily = "serif"
	FamilySansSerif FontFamily = "sans-serif"
	FamilyMonospace FontFamily = "monospace"
	FamilyScript    FontFamily = "script"

	DefaultFontFamily = FamilySansSerif
)

var fontFamilies = []FontFamily{FamilyPixel, FamilySerif, FamilySansSerif, FamilyMonospace, FamilyScript}

// ParseFontFamily 解析字体族；无法识别的键回退到默认字体族而不是报错。
func ParseFontFamily(value string) FontFamily {
	f := FontFamily(normalizeKey(value))
	for _, known := range fontFamilies {
		if f == known {
			return f
		}
	}
	return DefaultFontFamily
}

// FontFamilies lists the known family keys.
func FontFamilies() []string {
	out := make([]string, len(fontFamilies))
	for i, f := range fontFamilies {
		out[i] = string(f)
	}
	return out
}

// LineSpacing 是行距档位。
type LineSpacing string

const (
	SpacingTight      LineSpacing = "tight"
	SpacingNormal     LineSpacing = "normal"
	SpacingLoose      LineSpacing = "loose"
	SpacingExtraLoose LineSpacing = "extra-loose"
)

var lineSpacings = map[LineSpacing]float64{
	SpacingTight:      0.8,
	SpacingNormal:     1.2,
	SpacingLoose:      1.5,
	SpacingExtraLoose: 2.0,
}

// Multiplier 返回行距倍数；未知档位按 normal 处理。
func (s LineSpacing) Multiplier() float64 {
	if m, ok := lineSpacings[s]; ok {
		return m
	}
	return lineSpacings[SpacingNormal]
}

// ParseLineSpacing 解析行距档位。
func ParseLineSpacing(value string) (LineSpacing, error) {
	s := LineSpacing(normalizeKey(value))
	if _, ok := lineSpacings[s]; !ok {
		return "", fmt.Errorf("%w: 未知行距 %q（可选：%s）", ErrInvalidOption, value, strings.Join(LineSpacings(), ", "))
	}
	return s, nil
}

// LineSpacings lists the known spacing keys, tightest first.
func LineSpacings() []string {
	return []string{string(SpacingTight), string(SpacingNormal), string(SpacingLoose), string(SpacingExtraLoose)}
}

// FabricColor 是布料底色键名。
type FabricColor string

const (
	FabricWhite     FabricColor = "white"
	FabricCream     FabricColor = "cream"
	FabricLightGray FabricColor = "light-gray"
	FabricBeige     FabricColor = "beige"
	FabricLightBlue FabricColor = "light-blue"
	FabricLightPink FabricColor = "light-pink"

	DefaultFabric = FabricWhite
)

var fabricColors = map[FabricColor]Color{
	FabricWhite:     {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	FabricCream:     {R: 0xff, G: 0xfd, B: 0xd0, A: 0xff},
	FabricLightGray: {R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff},
	FabricBeige:     {R: 0xf5, G: 0xf5, B: 0xdc, A: 0xff},
	FabricLightBlue: {R: 0xe6, G: 0xf3, B: 0xff, A: 0xff},
	FabricLightPink: {R: 0xff, G: 0xe6, B: 0xf0, A: 0xff},
}

// Color 返回布料底色；无法识别的键回退到白色。
func (f FabricColor) Color() Color {
	if c, ok := fabricColors[FabricColor(normalizeKey(string(f)))]; ok {
		return c
	}
	return fabricColors[DefaultFabric]
}

// ParseFabricColor 解析布料底色键名。
func ParseFabricColor(value string) (FabricColor, error) {
	f := FabricColor(normalizeKey(value))
	if _, ok := fabricColors[f]; !ok {
		return "", fmt.Errorf("%w: 未知布料颜色 %q（可选：%s）", ErrInvalidOption, value, strings.Join(FabricColors(), ", "))
	}
	return f, nil
}

// FabricColors lists the known fabric keys in sorted order.
func FabricColors() []string {
	out := make([]string, 0, len(fabricColors))
	for k := range fabricColors {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", "-")
}
