package packoverlay

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/setanarut/packoverlay/internal/apperr"
	"github.com/setanarut/packoverlay/utils"
)

const (
	// OutputNamespace is the namespace every generated texture is written under.
	OutputNamespace = "minecraft"

	DefaultSize          = 128
	DefaultSidecarMarker = ".mcmeta"
)

type Options struct {
	// Edge length of the square canvas both images are resampled to.
	Size int
	// Namespace searched inside the extracted archive (assets/<Namespace>/textures/...).
	Namespace string
	// Texture kinds processed, e.g. "block" or "item". Each is a flat directory.
	Kinds []string
	// File names containing this marker are sidecar metadata, not images.
	SidecarMarker string
	// Copy sidecars verbatim next to the blended textures instead of skipping them.
	CopySidecars bool
}

func DefaultOptions() Options {
	return Options{
		Size:          DefaultSize,
		Namespace:     OutputNamespace,
		Kinds:         []string{"block"},
		SidecarMarker: DefaultSidecarMarker,
	}
}

// TextureDir is the slash-separated location of one texture kind inside a pack.
func TextureDir(namespace, kind string) string {
	return path.Join("assets", namespace, "textures", kind)
}

// Report lists what an overlay pass produced. Paths are slash-separated and relative
// to the output root.
type Report struct {
	Blended  []string
	Sidecars []string
}

func (r *Report) merge(o Report) {
	r.Blended = append(r.Blended, o.Blended...)
	r.Sidecars = append(r.Sidecars, o.Sidecars...)
}

// Engine blends one pattern into every texture of a working tree.
type Engine struct {
	opts Options
	log  logr.Logger
}

func NewEngine(opts Options, log logr.Logger) (*Engine, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid canvas size %d", opts.Size)
	}
	if opts.SidecarMarker == "" {
		opts.SidecarMarker = DefaultSidecarMarker
	}
	return &Engine{opts: opts, log: log}, nil
}

func (e *Engine) Options() Options {
	return e.opts
}

// LoadPattern decodes the user's picture and resamples it once, smoothly, to the canvas size.
func (e *Engine) LoadPattern(imagePath string) (*image.NRGBA, error) {
	img, err := readImage(imagePath)
	if err != nil {
		return nil, err
	}
	pattern, err := utils.ResizeSmooth(img, e.opts.Size, e.opts.Size)
	if err != nil {
		return nil, apperr.ImageDecode(imagePath, err)
	}
	b := img.Bounds()
	e.log.Info("loaded pattern", "path", imagePath, "width", b.Dx(), "height", b.Dy(), "size", e.opts.Size)
	return pattern, nil
}

// Overlay processes every configured texture kind of workDir into outRoot.
func (e *Engine) Overlay(workDir, outRoot string, pattern *image.NRGBA) (Report, error) {
	var report Report
	for _, kind := range e.opts.Kinds {
		rel := TextureDir(OutputNamespace, kind)
		src := filepath.Join(workDir, filepath.FromSlash(TextureDir(e.opts.Namespace, kind)))
		dst := filepath.Join(outRoot, filepath.FromSlash(rel))

		r, err := e.OverlayDir(src, dst, pattern)
		if err != nil {
			return report, err
		}
		for i := range r.Blended {
			r.Blended[i] = path.Join(rel, r.Blended[i])
		}
		for i := range r.Sidecars {
			r.Sidecars[i] = path.Join(rel, r.Sidecars[i])
		}
		report.merge(r)
	}
	return report, nil
}

// OverlayDir blends every regular file directly inside srcDir (no recursion) and writes the
// results to dstDir under the same names. Files are visited in lexicographic order.
// A missing srcDir yields an empty report; an undecodable texture aborts the pass.
// Report paths are file names relative to dstDir.
func (e *Engine) OverlayDir(srcDir, dstDir string, pattern *image.NRGBA) (Report, error) {
	var report Report

	if s := pattern.Rect.Size(); s.X != e.opts.Size || s.Y != e.opts.Size {
		return report, fmt.Errorf("pattern is %dx%d, want %dx%d", s.X, s.Y, e.opts.Size, e.opts.Size)
	}
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return report, apperr.IO("create texture directory", dstDir, err)
	}

	// ReadDir returns entries sorted by file name.
	entries, err := os.ReadDir(srcDir)
	if errors.Is(err, fs.ErrNotExist) {
		e.log.Info("texture directory not found, nothing to overlay", "dir", srcDir)
		return report, nil
	}
	if err != nil {
		return report, apperr.IO("list textures", srcDir, err)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		src := filepath.Join(srcDir, name)

		if strings.Contains(name, e.opts.SidecarMarker) {
			if e.opts.CopySidecars {
				if err := copyFile(src, filepath.Join(dstDir, name)); err != nil {
					return report, err
				}
			}
			report.Sidecars = append(report.Sidecars, name)
			e.log.V(1).Info("sidecar", "name", name, "copied", e.opts.CopySidecars)
			continue
		}

		outName := strings.ReplaceAll(name, `"`, "")
		if err := e.blendFile(src, filepath.Join(dstDir, outName), pattern); err != nil {
			return report, err
		}
		report.Blended = append(report.Blended, outName)
	}

	e.log.Info("overlaid texture directory", "dir", srcDir, "blended", len(report.Blended), "sidecars", len(report.Sidecars))
	return report, nil
}

func (e *Engine) blendFile(src, dst string, pattern *image.NRGBA) error {
	img, err := readImage(src)
	if err != nil {
		return err
	}
	block, err := utils.ResizeNearest(img, e.opts.Size, e.opts.Size)
	if err != nil {
		return apperr.ImageDecode(src, err)
	}
	out, err := Blend(block, pattern)
	if err != nil {
		return err
	}
	if err := utils.SaveImage(out, dst); err != nil {
		return apperr.IO("write texture", dst, err)
	}
	b := img.Bounds()
	e.log.V(1).Info("blended texture", "src", src, "width", b.Dx(), "height", b.Dy())
	return nil
}

// readImage separates filesystem failures from decode failures.
func readImage(p string) (image.Image, error) {
	img, err := utils.ReadImage(p)
	if err == nil {
		return img, nil
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return nil, apperr.IO("open image", p, err)
	}
	return nil, apperr.ImageDecode(p, err)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return apperr.IO("read sidecar", src, err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return apperr.IO("write sidecar", dst, err)
	}
	return nil
}
