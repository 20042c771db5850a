package packoverlay

import (
	"fmt"
	"image"
	"image/color"
)

// AveragePixel mixes a texture pixel with a pattern pixel at a fixed 3:1 weighting.
// Each color channel is b*3/4 + o/4 with integer division, so the result never
// exceeds 254; alpha is taken from the texture alone.
func AveragePixel(block, pattern color.NRGBA) color.NRGBA {
	return color.NRGBA{
		R: mix(block.R, pattern.R),
		G: mix(block.G, pattern.G),
		B: mix(block.B, pattern.B),
		A: block.A, // Keeps transparent pixels transparent.
	}
}

func mix(b, o uint8) uint8 {
	return uint8(int(b)*3/4 + int(o)/4)
}

// Blend applies AveragePixel to every coordinate of two equally sized images.
func Blend(block, pattern *image.NRGBA) (*image.NRGBA, error) {
	bs, ps := block.Rect.Size(), pattern.Rect.Size()
	if bs != ps {
		return nil, fmt.Errorf("size mismatch: texture %v, pattern %v", bs, ps)
	}
	w, h := bs.X, bs.Y
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			bi := block.PixOffset(block.Rect.Min.X+x, block.Rect.Min.Y+y)
			pi := pattern.PixOffset(pattern.Rect.Min.X+x, pattern.Rect.Min.Y+y)
			oi := out.PixOffset(x, y)
			out.Pix[oi+0] = mix(block.Pix[bi+0], pattern.Pix[pi+0])
			out.Pix[oi+1] = mix(block.Pix[bi+1], pattern.Pix[pi+1])
			out.Pix[oi+2] = mix(block.Pix[bi+2], pattern.Pix[pi+2])
			out.Pix[oi+3] = block.Pix[bi+3]
		}
	}
	return out, nil
}
