package pattern

import "strings"

// StitchGrid 是转换结果：gw × gh 个格子，每格是否落针。
// 渲染与统计都只读这一份数据，保证针数一致。
type StitchGrid struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ScaleFactor int    `json:"scaleFactor"`
	Count       int    `json:"stitchCount"`
	Active      []bool `json:"-"` // 行优先
}

// NewStitchGrid returns an empty grid of the given size.
func NewStitchGrid(width, height int) *StitchGrid {
	return &StitchGrid{Width: width, Height: height, ScaleFactor: 1, Active: make([]bool, width*height)}
}

// At reports whether cell (x, y) carries a stitch.
func (g *StitchGrid) At(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return false
	}
	return g.Active[y*g.Width+x]
}

// Set marks cell (x, y) and keeps Count in sync.
func (g *StitchGrid) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	i := y*g.Width + x
	if g.Active[i] == on {
		return
	}
	g.Active[i] = on
	if on {
		g.Count++
	} else {
		g.Count--
	}
}

// Cells returns gw × gh.
func (g *StitchGrid) Cells() int { return g.Width * g.Height }

// Rows 以 'X'（落针）和 '.'（空格）逐行输出网格。
func (g *StitchGrid) Rows() []string {
	rows := make([]string, g.Height)
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		sb.Reset()
		sb.Grow(g.Width)
		for x := 0; x < g.Width; x++ {
			if g.Active[y*g.Width+x] {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

func (g *StitchGrid) String() string { return strings.Join(g.Rows(), "\n") }
