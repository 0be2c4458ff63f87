package pattern

import "math"

// 缩放只影响显示，不参与图案生成。
const (
	MinZoom     = 0.2
	MaxZoom     = 3.0
	ZoomStep    = 0.2
	DefaultZoom = 1.0
)

// Zoom 是显示层的缩放状态；零值等价于 1.0。
type Zoom struct {
	scale float64
}

// Scale returns the current factor in [MinZoom, MaxZoom].
func (z Zoom) Scale() float64 {
	if z.scale == 0 {
		return DefaultZoom
	}
	return z.scale
}

// In 放大一档。
func (z *Zoom) In() float64 { return z.Set(z.Scale() + ZoomStep) }

// Out 缩小一档。
func (z *Zoom) Out() float64 { return z.Set(z.Scale() - ZoomStep) }

// Reset 恢复为 1.0。
func (z *Zoom) Reset() float64 { return z.Set(DefaultZoom) }

// Set clamps v into range and rounds to one decimal so repeated steps do not drift.
func (z *Zoom) Set(v float64) float64 {
	v = math.Round(v*10) / 10
	v = math.Max(MinZoom, math.Min(MaxZoom, v))
	z.scale = v
	return v
}
