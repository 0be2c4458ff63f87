package dsl

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/ByLCY/xstitch/pattern"
)

// Request applies the document's assignments on top of base.
// Later assignments win; unknown keys are an error.
func (d *Document) Request(base pattern.Request) (pattern.Request, error) {
	req := base
	if d == nil || d.Pattern == nil || d.Pattern.Block == nil {
		return req, nil
	}
	for _, entry := range d.Pattern.Block.Entries {
		if err := ApplyOption(&req, entry.Key, entry.Value.Text()); err != nil {
			return base, fmt.Errorf("%s: %w", entry.Pos, err)
		}
	}
	return req, nil
}

// ApplyOption sets one request field from its textual form. It is shared by
// request files, command-line flags and HTTP payloads.
func ApplyOption(req *pattern.Request, key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "text":
		req.Text = value
	case "lines", "max-lines":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: 行数必须是整数，得到 %q", pattern.ErrInvalidOption, value)
		}
		req.MaxLines = n
	case "font-size":
		s, err := pattern.ParseFontSize(value)
		if err != nil {
			return err
		}
		req.FontSize = s
	case "font-family":
		req.FontFamily = pattern.ParseFontFamily(value)
	case "line-spacing":
		s, err := pattern.ParseLineSpacing(value)
		if err != nil {
			return err
		}
		req.LineSpacing = s
	case "stitch-color", "color":
		c, err := ParseColor(value)
		if err != nil {
			return err
		}
		req.StitchColor = c
	case "fabric", "fabric-color":
		f, err := pattern.ParseFabricColor(value)
		if err != nil {
			return err
		}
		req.FabricColor = f
	case "grid", "show-grid":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		req.ShowGrid = b
	default:
		return fmt.Errorf("%w: 未知属性 %q", pattern.ErrInvalidOption, key)
	}
	return nil
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa, rgb(r, g, b), rgba(r, g, b, a)
// with a in [0, 1], and CSS colour names.
func ParseColor(input string) (pattern.Color, error) {
	expr, err := colorParser.ParseString("", strings.TrimSpace(input))
	if err != nil {
		return pattern.Color{}, fmt.Errorf("%w: 无法解析颜色 %q: %v", pattern.ErrInvalidOption, input, err)
	}
	switch {
	case expr.Hex != nil:
		return parseHex(*expr.Hex)
	case expr.Func != nil:
		return expr.Func.color()
	case expr.Name != nil:
		c, ok := colornames.Map[strings.ToLower(*expr.Name)]
		if !ok {
			return pattern.Color{}, fmt.Errorf("%w: 未知颜色名 %q", pattern.ErrInvalidOption, *expr.Name)
		}
		return fromRGBA(c), nil
	}
	return pattern.Color{}, fmt.Errorf("%w: 空颜色", pattern.ErrInvalidOption)
}

func parseHex(s string) (pattern.Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return pattern.Color{}, fmt.Errorf("%w: 非法十六进制颜色 #%s", pattern.ErrInvalidOption, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return pattern.Color{}, fmt.Errorf("%w: 非法十六进制颜色 #%s", pattern.ErrInvalidOption, s)
	}
	return pattern.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func (f *ColorFunc) color() (pattern.Color, error) {
	want := 3
	if f.Name == "rgba" {
		want = 4
	}
	if len(f.Args) != want {
		return pattern.Color{}, fmt.Errorf("%w: %s 需要 %d 个参数，得到 %d", pattern.ErrInvalidOption, f.Name, want, len(f.Args))
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(f.Args[i])
		if err != nil || n < 0 || n > 255 {
			return pattern.Color{}, fmt.Errorf("%w: 颜色分量 %q 不在 0-255 范围内", pattern.ErrInvalidOption, f.Args[i])
		}
		ch[i] = uint8(n)
	}
	c := pattern.Color{R: ch[0], G: ch[1], B: ch[2], A: 0xff}
	if want == 4 {
		a, err := strconv.ParseFloat(f.Args[3], 64)
		if err != nil || a < 0 || a > 1 {
			return pattern.Color{}, fmt.Errorf("%w: 透明度 %q 不在 0-1 范围内", pattern.ErrInvalidOption, f.Args[3])
		}
		c.A = uint8(math.Round(a * 255))
	}
	return c, nil
}

func fromRGBA(c color.RGBA) pattern.Color {
	// colornames 中全部为不透明色，预乘与非预乘一致
	return pattern.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: 无法解析布尔值 %q", pattern.ErrInvalidOption, value)
}
