// Package pipeline sequences one pack generation run: two prompts, extraction, manifest,
// overlay and cleanup.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"

	"github.com/setanarut/packoverlay"
	"github.com/setanarut/packoverlay/internal/apperr"
	"github.com/setanarut/packoverlay/internal/archive"
	"github.com/setanarut/packoverlay/internal/config"
	"github.com/setanarut/packoverlay/internal/manifest"
	"github.com/setanarut/packoverlay/internal/metrics"
	"github.com/setanarut/packoverlay/internal/platform"
	"github.com/setanarut/packoverlay/internal/prompt"
	"github.com/setanarut/packoverlay/utils"
)

const (
	Title            = "Minecraft Textures"
	MsgChooseArchive = "Please select a minecraft .jar file. These are located in the version folders (ex. 1.17)"
	MsgChooseImage   = "Please select the image that you wish to put on the Minecraft textures."
	MsgDone          = "Done!"

	// IconName is the optional pack icon at the output root.
	IconName = "pack.png"

	lowContrastStdDev = 0.02
)

type Options struct {
	OutputRoot    string
	WorkDirName   string
	Icon          bool
	Manifest      manifest.Manifest
	Engine        packoverlay.Options
	PaletteColors int
	PaletteMethod utils.PaletteMethod
}

// OptionsFromConfig translates a validated config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	method, err := utils.ParsePaletteMethod(cfg.Palette.Method)
	if err != nil {
		return Options{}, err
	}
	return Options{
		OutputRoot:  cfg.Output.Root,
		WorkDirName: cfg.Output.WorkDirName,
		Icon:        cfg.Output.Icon,
		Manifest:    manifest.New(cfg.Manifest.PackFormat, cfg.Manifest.Description),
		Engine: packoverlay.Options{
			Size:          cfg.Textures.Size,
			Namespace:     cfg.Textures.Namespace,
			Kinds:         cfg.Textures.Kinds,
			SidecarMarker: cfg.Textures.SidecarMarker,
			CopySidecars:  cfg.Textures.CopySidecars,
		},
		PaletteColors: cfg.Palette.Colors,
		PaletteMethod: method,
	}, nil
}

// Result describes a successful run.
type Result struct {
	ArchivePath string
	ImagePath   string
	OutputRoot  string
	Extracted   archive.Stats
	// Output-root relative, slash-separated paths.
	Blended  []string
	Sidecars []string
	Icon     bool

	Palette       []string
	PaletteMethod string
	PatternMean   float64
	PatternStdDev float64
}

// Pipeline runs once; create a new one per run.
type Pipeline struct {
	opts    Options
	prompt  prompt.UserPrompt
	paths   platform.Paths
	engine  *packoverlay.Engine
	metrics metrics.Recorder
	log     logr.Logger

	state   State
	history []State
}

func New(opts Options, p prompt.UserPrompt, paths platform.Paths, rec metrics.Recorder, log logr.Logger) (*Pipeline, error) {
	if opts.OutputRoot == "" {
		return nil, fmt.Errorf("output root must be specified")
	}
	if opts.WorkDirName == "" {
		opts.WorkDirName = "temp"
	}
	engine, err := packoverlay.NewEngine(opts.Engine, log.WithName("overlay"))
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		opts:    opts,
		prompt:  p,
		paths:   paths,
		engine:  engine,
		metrics: rec,
		log:     log,
	}, nil
}

// State is the current (after Run: terminal) state.
func (p *Pipeline) State() State {
	return p.state
}

// History lists every state entered, in order.
func (p *Pipeline) History() []State {
	return append([]State(nil), p.history...)
}

// Run drives the state machine to a terminal state. Cancelling at a prompt returns an
// error of kind apperr.KindCancelled and leaves the filesystem untouched. Any other
// error is fatal; the output root is only replaced when every step succeeded.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res, err := p.run(ctx)
	p.metrics.RecordRun(p.state.String(), time.Since(start))
	return res, err
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	p.enter(StateStart)

	p.enter(StateFolderPrompt)
	archivePath, err := p.choose(ctx, MsgChooseArchive, p.paths.GameDir(), "archive")
	if err != nil {
		return nil, err
	}
	p.enter(StateArchiveChosen)

	p.enter(StateImagePrompt)
	imagePath, err := p.choose(ctx, MsgChooseImage, p.paths.PicturesDir(), "image")
	if err != nil {
		return nil, err
	}
	p.enter(StateImageChosen)

	res, err := p.build(ctx, archivePath, imagePath)
	if err != nil {
		return nil, p.fail(err)
	}

	p.enter(StateDone)
	p.log.Info("pack generated", "root", res.OutputRoot, "blended", len(res.Blended), "sidecars", len(res.Sidecars))
	if err := p.prompt.Notify(MsgDone); err != nil {
		p.log.Error(err, "failed to show completion notice")
	}
	return res, nil
}

func (p *Pipeline) choose(ctx context.Context, message, hint, what string) (string, error) {
	if err := ctx.Err(); err != nil {
		p.enter(StateAborted)
		return "", apperr.New(apperr.KindCancelled, "choose "+what, "", err)
	}
	if err := p.prompt.Notify(message); err != nil {
		return "", p.fail(apperr.IO("show prompt", "", err))
	}
	path, err := p.prompt.ChooseFile(hint)
	if errors.Is(err, prompt.ErrCancelled) {
		p.enter(StateAborted)
		p.log.Info("cancelled by user", "prompt", what)
		return "", apperr.Cancelled(what)
	}
	if err != nil {
		return "", p.fail(apperr.IO("choose "+what, "", err))
	}
	p.log.Info("chosen", what, path)
	return path, nil
}

// build produces the pack in a staging directory beside the output root and swaps it in
// only on success. The working tree lives inside the staging directory and is removed on
// every exit path.
func (p *Pipeline) build(ctx context.Context, archivePath, imagePath string) (*Result, error) {
	root := filepath.Clean(p.opts.OutputRoot)
	parent := filepath.Dir(root)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, apperr.IO("create output parent", parent, err)
	}
	staging, err := os.MkdirTemp(parent, "."+filepath.Base(root)+"-staging-*")
	if err != nil {
		return nil, apperr.IO("create staging directory", parent, err)
	}
	published := false
	defer func() {
		if !published {
			if err := os.RemoveAll(staging); err != nil {
				p.log.Error(err, "failed to remove staging directory", "dir", staging)
			}
		}
	}()

	workDir := filepath.Join(staging, p.opts.WorkDirName)
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			p.log.Error(err, "failed to remove working directory", "dir", workDir)
		}
	}()

	res := &Result{ArchivePath: archivePath, ImagePath: imagePath, OutputRoot: root}

	p.enter(StateExtracting)
	t0 := time.Now()
	st, err := archive.Extract(archivePath, workDir)
	p.metrics.RecordExtraction(st.Files, st.Bytes, err == nil, time.Since(t0))
	if err != nil {
		return nil, err
	}
	res.Extracted = st
	p.log.Info("extracted archive", "path", archivePath, "files", st.Files, "bytes", st.Bytes)

	if err := checkpoint(ctx); err != nil {
		return nil, err
	}
	if err := manifest.Write(filepath.Join(staging, manifest.FileName), p.opts.Manifest); err != nil {
		return nil, err
	}
	p.enter(StateManifestWritten)

	if err := checkpoint(ctx); err != nil {
		return nil, err
	}
	p.enter(StateOverlaying)
	pattern, err := p.engine.LoadPattern(imagePath)
	if err != nil {
		return nil, err
	}
	p.describePattern(pattern, res)

	report, err := p.engine.Overlay(workDir, staging, pattern)
	if err != nil {
		return nil, err
	}
	p.metrics.RecordTextures(len(report.Blended), len(report.Sidecars))
	res.Blended, res.Sidecars = report.Blended, report.Sidecars

	if p.opts.Icon {
		iconPath := filepath.Join(staging, IconName)
		if err := utils.SaveImage(pattern, iconPath); err != nil {
			return nil, apperr.IO("write icon", iconPath, err)
		}
		res.Icon = true
	}

	p.enter(StateCleaningUp)
	if err := os.RemoveAll(workDir); err != nil {
		return nil, apperr.IO("remove working directory", workDir, err)
	}
	if err := publish(staging, root); err != nil {
		return nil, err
	}
	published = true
	return res, nil
}

func (p *Pipeline) describePattern(pattern *image.NRGBA, res *Result) {
	palette, method := utils.ExtractPalette(pattern, p.opts.PaletteColors, p.opts.PaletteMethod)
	utils.SortPaletteByBrightness(palette)
	res.Palette = utils.HexPalette(palette)
	res.PaletteMethod = method.String()
	res.PatternMean, res.PatternStdDev = utils.LuminanceStats(pattern)

	p.log.Info("pattern palette", "colors", res.Palette, "method", res.PaletteMethod,
		"luminanceMean", res.PatternMean, "luminanceStdDev", res.PatternStdDev)
	if res.PatternStdDev < lowContrastStdDev {
		p.log.Info("pattern has almost no contrast, textures will only be tinted", "luminanceStdDev", res.PatternStdDev)
	}
}

func (p *Pipeline) fail(err error) error {
	p.enter(StateFailed)
	p.log.Error(err, "pack generation failed", "kind", apperr.KindOf(err).String())

	msg := "Failed: " + err.Error()
	var notifyErr error
	if a, ok := p.prompt.(prompt.Alerter); ok {
		notifyErr = a.Alert(msg)
	} else {
		notifyErr = p.prompt.Notify(msg)
	}
	if notifyErr != nil {
		p.log.Error(notifyErr, "failed to show error notice")
	}
	return err
}

func (p *Pipeline) enter(s State) {
	p.state = s
	p.history = append(p.history, s)
	p.log.V(1).Info("state", "state", s.String())
}

func checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}
	return nil
}

// publish moves staging onto root. An existing root is moved aside first and removed
// once the new tree is in place.
func publish(staging, root string) error {
	_, err := os.Lstat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.Rename(staging, root); err != nil {
			return apperr.IO("publish output", root, err)
		}
		return nil
	case err != nil:
		return apperr.IO("inspect output", root, err)
	}

	previous := staging + "-previous"
	if err := os.Rename(root, previous); err != nil {
		return apperr.IO("move previous output aside", root, err)
	}
	if err := os.Rename(staging, root); err != nil {
		// Restore the previous output.
		_ = os.Rename(previous, root)
		return apperr.IO("publish output", root, err)
	}
	if err := os.RemoveAll(previous); err != nil {
		return apperr.IO("remove previous output", previous, err)
	}
	return nil
}
