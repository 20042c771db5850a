package packoverlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAveragePixel_AllChannelPairs(t *testing.T) {
	for b := range 256 {
		for o := range 256 {
			want := uint8(b*3/4 + o/4)
			got := AveragePixel(
				color.NRGBA{R: uint8(b), G: uint8(b), B: uint8(b), A: uint8(b)},
				color.NRGBA{R: uint8(o), G: uint8(o), B: uint8(o), A: uint8(255 - o)},
			)
			if got.R != want || got.G != want || got.B != want || got.A != uint8(b) {
				t.Fatalf("AveragePixel(%d, %d) = %v, want rgb %d alpha %d", b, o, got, want, b)
			}
		}
	}
}

func TestAveragePixel_Examples(t *testing.T) {
	tests := []struct {
		name           string
		block, pattern color.NRGBA
		want           color.NRGBA
	}{
		{"white over white", color.NRGBA{255, 255, 255, 255}, color.NRGBA{255, 255, 255, 255}, color.NRGBA{254, 254, 254, 255}},
		{"black over white", color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255}, color.NRGBA{63, 63, 63, 255}},
		{"mixed channels", color.NRGBA{200, 100, 40, 255}, color.NRGBA{40, 80, 120, 0}, color.NRGBA{160, 95, 60, 255}},
		{"transparent stays transparent", color.NRGBA{9, 9, 9, 0}, color.NRGBA{255, 0, 0, 255}, color.NRGBA{69, 6, 6, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AveragePixel(tt.block, tt.pattern))
		})
	}
}

func TestBlend(t *testing.T) {
	block := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	pattern := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			block.SetNRGBA(x, y, color.NRGBA{uint8(x * 60), uint8(y * 60), 17, uint8(x * y * 15)})
			pattern.SetNRGBA(x, y, color.NRGBA{255, uint8(x * 10), uint8(y * 70), 3})
		}
	}

	out, err := Blend(block, pattern)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	for y := range 4 {
		for x := range 4 {
			assert.Equal(t, AveragePixel(block.NRGBAAt(x, y), pattern.NRGBAAt(x, y)), out.NRGBAAt(x, y))
		}
	}
}

func TestBlend_SubImage(t *testing.T) {
	big := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	big.SetNRGBA(4, 4, color.NRGBA{100, 100, 100, 255})
	block := big.SubImage(image.Rect(4, 4, 6, 6)).(*image.NRGBA)
	pattern := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	out, err := Blend(block, pattern)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{75, 75, 75, 255}, out.NRGBAAt(0, 0))
}

func TestBlend_SizeMismatch(t *testing.T) {
	_, err := Blend(image.NewNRGBA(image.Rect(0, 0, 16, 16)), image.NewNRGBA(image.Rect(0, 0, 128, 128)))
	assert.Error(t, err)
}
