package utils

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(w, h, cell int, a, b color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x/cell+y/cell)%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
	return img
}

func TestSaveAndReadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "img.png")
	src := checker(4, 4, 1, color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 128})

	require.NoError(t, SaveImage(src, path))

	img, err := ReadImage(path)
	require.NoError(t, err)
	got := ToNRGBA(img)
	assert.Equal(t, src.Pix, got.Pix)
}

func TestReadImage_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadImage(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("\x89PNG\r\n\x1a\nnot really"), 0644))
	_, err = ReadImage(bad)
	assert.Error(t, err)
}

func TestToNRGBA_OffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 12, 22))
	src.SetRGBA(10, 20, color.RGBA{1, 2, 3, 255})

	got := ToNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 2), got.Bounds())
	assert.Equal(t, color.NRGBA{1, 2, 3, 255}, got.NRGBAAt(0, 0))
}

func TestResizeNearest(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	transparent := color.NRGBA{10, 20, 30, 0}
	half := color.NRGBA{200, 100, 50, 77}
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, red)
	src.SetNRGBA(1, 0, transparent)
	src.SetNRGBA(0, 1, half)
	src.SetNRGBA(1, 1, red)

	dst, err := ResizeNearest(src, 128, 128)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 128), dst.Bounds())

	// Each source pixel becomes a 64×64 block, straight alpha preserved exactly.
	assert.Equal(t, red, dst.NRGBAAt(0, 0))
	assert.Equal(t, red, dst.NRGBAAt(63, 63))
	assert.Equal(t, transparent, dst.NRGBAAt(64, 0))
	assert.Equal(t, transparent, dst.NRGBAAt(127, 63))
	assert.Equal(t, half, dst.NRGBAAt(0, 64))
	assert.Equal(t, red, dst.NRGBAAt(127, 127))
}

func TestResizeNearest_Downscale(t *testing.T) {
	src := checker(256, 256, 128, color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255})
	dst, err := ResizeNearest(src, 128, 128)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, dst.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, dst.NRGBAAt(64, 0))
}

func TestResize_InvalidSize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	_, err := ResizeNearest(src, 0, 128)
	assert.Error(t, err)
	_, err = ResizeSmooth(src, 128, -1)
	assert.Error(t, err)
	_, err = ResizeNearest(image.NewNRGBA(image.Rectangle{}), 8, 8)
	assert.Error(t, err)
	_, err = ResizeSmooth(image.NewNRGBA(image.Rectangle{}), 8, 8)
	assert.Error(t, err)
}

func TestResizeSmooth(t *testing.T) {
	for _, size := range []image.Point{{16, 16}, {300, 200}, {64, 512}} {
		src := checker(size.X, size.Y, 8, color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 255})
		dst, err := ResizeSmooth(src, 128, 128)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 128, 128), dst.Bounds())
	}

	// A uniform image stays uniform.
	flat := checker(37, 53, 1, color.NRGBA{90, 120, 30, 255}, color.NRGBA{90, 120, 30, 255})
	dst, err := ResizeSmooth(flat, 128, 128)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{90, 120, 30, 255}, dst.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{90, 120, 30, 255}, dst.NRGBAAt(77, 101))
}

func TestParsePaletteMethod(t *testing.T) {
	m, err := ParsePaletteMethod("")
	require.NoError(t, err)
	assert.Equal(t, PaletteMethodDominantColor, m)

	m, err = ParsePaletteMethod("kmeans")
	require.NoError(t, err)
	assert.Equal(t, PaletteMethodKMeans, m)
	assert.Equal(t, "kmeans", m.String())

	_, err = ParsePaletteMethod("median-cut")
	assert.Error(t, err)
}

func TestExtractPalette(t *testing.T) {
	img := checker(64, 64, 8, color.NRGBA{250, 10, 10, 255}, color.NRGBA{10, 10, 250, 255})

	for _, method := range []PaletteMethod{PaletteMethodDominantColor, PaletteMethodKMeans} {
		t.Run(method.String(), func(t *testing.T) {
			palette, used := ExtractPalette(img, 2, method)
			assert.Equal(t, method, used)
			require.NotEmpty(t, palette)
			assert.LessOrEqual(t, len(palette), 2)
			assert.Len(t, HexPalette(palette), len(palette))
		})
	}

	palette, _ := ExtractPalette(img, 0, PaletteMethodDominantColor)
	assert.Empty(t, palette)
}

func TestExtractPalette_KMeansFallback(t *testing.T) {
	img := checker(8, 8, 2, color.NRGBA{250, 10, 10, 255}, color.NRGBA{10, 10, 250, 255})
	palette, used := ExtractPalette(img, 0, PaletteMethodKMeans)
	assert.Equal(t, PaletteMethodDominantColor, used)
	assert.Empty(t, palette)
}

func TestSortPaletteByBrightness(t *testing.T) {
	palette := []colorful.Color{
		{R: 1, G: 1, B: 1},
		{R: 0, G: 0, B: 0},
		{R: 0.5, G: 0.5, B: 0.5},
	}
	SortPaletteByBrightness(palette)
	assert.Equal(t, []string{"#000000", "#808080", "#ffffff"}, HexPalette(palette))
}

func TestLuminanceStats(t *testing.T) {
	flat := checker(16, 16, 1, color.NRGBA{128, 128, 128, 255}, color.NRGBA{128, 128, 128, 255})
	mean, std := LuminanceStats(flat)
	assert.Greater(t, mean, 0.0)
	assert.InDelta(t, 0.0, std, 1e-9)

	bw := checker(16, 16, 4, color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255})
	mean, std = LuminanceStats(bw)
	assert.InDelta(t, 0.5, mean, 1e-9)
	assert.Greater(t, std, 0.4)

	mean, std = LuminanceStats(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	assert.Zero(t, mean)
	assert.Zero(t, std)
}
