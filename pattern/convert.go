package pattern

import "fmt"

// 采样阈值：透明度不高于 sampleAlphaMin 的像素视为抗锯齿边缘，不参与统计；
// 块的平均透明度需高于 activeAlphaMin，且平均亮度需低于 activeBrightnessMax 才落针。
const (
	sampleAlphaMin      = 50
	activeAlphaMin      = 128
	activeBrightnessMax = 180
)

// Convert 以 scale × scale 的像素块对缓冲降采样，得到针脚网格。
// gw = ceil(W/scale)，gh = ceil(H/scale)，边缘处的块按缓冲边界裁剪。
// 网格格数超过 limits.MaxGridCells 时返回 ErrPatternTooLarge。
func Convert(buf *PixelBuffer, scale int, limits Limits) (*StitchGrid, error) {
	if buf == nil {
		return nil, fmt.Errorf("像素缓冲为空")
	}
	if scale < 1 {
		scale = 1
	}
	gw := ceilDiv(buf.Width, scale)
	gh := ceilDiv(buf.Height, scale)
	if exceeds(gw*gh, limits.MaxGridCells) {
		return nil, fmt.Errorf("%w: 网格 %d×%d 超过上限 %d 格", ErrPatternTooLarge, gw, gh, limits.MaxGridCells)
	}

	grid := NewStitchGrid(gw, gh)
	grid.ScaleFactor = scale
	for gy := 0; gy < gh; gy++ {
		for gx := 0; gx < gw; gx++ {
			if blockActive(buf, gx*scale, gy*scale, scale) {
				grid.Active[gy*gw+gx] = true
				grid.Count++
			}
		}
	}
	return grid, nil
}

// blockActive 判断以 (x0, y0) 为原点的块是否落针。
func blockActive(buf *PixelBuffer, x0, y0, scale int) bool {
	x1 := min(x0+scale, buf.Width)
	y1 := min(y0+scale, buf.Height)

	var alphaSum, brightnessSum float64
	samples := 0
	for y := y0; y < y1; y++ {
		row := y * buf.Width * 4
		for x := x0; x < x1; x++ {
			i := row + x*4
			a := buf.Pix[i+3]
			if a <= sampleAlphaMin {
				continue
			}
			alphaSum += float64(a)
			brightnessSum += (float64(buf.Pix[i]) + float64(buf.Pix[i+1]) + float64(buf.Pix[i+2])) / 3
			samples++
		}
	}
	if samples == 0 {
		return false
	}
	n := float64(samples)
	return alphaSum/n > activeAlphaMin && brightnessSum/n < activeBrightnessMax
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
