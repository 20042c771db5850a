package utils

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// LuminanceStats returns the alpha-weighted mean and standard deviation of per-pixel
// relative luminance in [0,1]. Fully transparent images report zeros.
func LuminanceStats(img image.Image) (mean, stddev float64) {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0, 0
	}
	lum := make([]float64, 0, n)
	weights := make([]float64, 0, n)
	total := 0.0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			w := float64(c.A) / 255.0
			lum = append(lum, Luminance(colorful.Color{
				R: float64(c.R) / 255.0,
				G: float64(c.G) / 255.0,
				B: float64(c.B) / 255.0,
			}))
			weights = append(weights, w)
			total += w
		}
	}
	if total == 0 {
		return 0, 0
	}
	if total <= 1 {
		// Weighted variance is undefined for a total weight of one or less.
		return stat.Mean(lum, weights), 0
	}
	return stat.MeanStdDev(lum, weights)
}
