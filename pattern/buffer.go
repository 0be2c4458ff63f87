package pattern

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// PixelBuffer 是栅格化得到的中间像素缓冲，按行存储非预乘 RGBA。
// 只在一次生成调用内存在，转换为网格后即丢弃。
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8 // len = Width*Height*4
}

// NewPixelBuffer allocates a fully transparent buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &PixelBuffer{Width: width, Height: height, Pix: make([]uint8, width*height*4)}
}

// FromImage 将任意图像转换为非预乘的像素缓冲。
func FromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &PixelBuffer{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// At returns the sample at (x, y); out-of-range reads are transparent.
func (b *PixelBuffer) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.NRGBA{}
	}
	i := (y*b.Width + x) * 4
	return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Set writes the sample at (x, y); out-of-range writes are ignored.
func (b *PixelBuffer) Set(x, y int, c color.NRGBA) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 4
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = c.R, c.G, c.B, c.A
}

// Fill paints the rectangle r (clipped to the buffer) with c.
func (b *PixelBuffer) Fill(r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(image.Rect(0, 0, b.Width, b.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.Set(x, y, c)
		}
	}
}
