// Package fonts 提供图案可选的字体族，字体数据随二进制一起分发。
package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Default 是未知键名与文档正文使用的字体族。
const Default = "sans-serif"

// Font 是一个可加载的字体：名称、样式描述与 TTF/OTF 字节。
type Font struct {
	Name  string
	Style string // regular / bold / italic，交给渲染器解析
	Data  []byte
}

var registry = map[string]Font{
	"pixel":      {Name: "Go Mono Bold", Style: "bold", Data: gomonobold.TTF},
	"serif":      {Name: "Latin Modern Roman", Style: "regular", Data: lmroman10regular.TTF},
	"sans-serif": {Name: "Go Regular", Style: "regular", Data: goregular.TTF},
	"monospace":  {Name: "Go Mono", Style: "regular", Data: gomono.TTF},
	"script":     {Name: "Latin Modern Roman Italic", Style: "italic", Data: lmroman10italic.TTF},
}

// Load 返回字体族对应的字体数据，name 大小写不敏感。
func Load(name string) (Font, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	font, ok := registry[key]
	if !ok {
		return Font{}, fmt.Errorf("未知字体族 %q", name)
	}
	if len(font.Data) == 0 {
		return Font{}, fmt.Errorf("字体族 %q 缺少字体数据", name)
	}
	return font, nil
}
