package pattern

// This file holds unit conversion constants shared by the rasterizer and exporters.

// Conversion constants between pt, mm and screen pixels.
const (
	MmToPt = 72 / 25.4

	// PxToMm converts a 96 dpi screen pixel to millimetres when placing
	// the pattern image on a PDF page.
	PxToMm = 0.264583
)

// Limits 限制单次生成可以分配的内存规模。
// 任一字段 <=0 表示不检查该项。
type Limits struct {
	MaxGridCells    int `json:"maxGridCells"`
	MaxSurfaceSide  int `json:"maxSurfaceSide"`
	MaxBufferPixels int `json:"maxBufferPixels"`
}

// DefaultLimits returns caps that comfortably fit several lines of
// extra-large text while refusing pathological input.
func DefaultLimits() Limits {
	return Limits{
		MaxGridCells:    250_000,
		MaxSurfaceSide:  16_384,
		MaxBufferPixels: 16_000_000,
	}
}

func exceeds(value, limit int) bool { return limit > 0 && value > limit }
