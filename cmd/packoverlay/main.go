package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/setanarut/packoverlay/internal/apperr"
	"github.com/setanarut/packoverlay/internal/config"
	"github.com/setanarut/packoverlay/internal/metrics"
	"github.com/setanarut/packoverlay/internal/pipeline"
	"github.com/setanarut/packoverlay/internal/platform"
	"github.com/setanarut/packoverlay/internal/prompt"
	"github.com/setanarut/packoverlay/internal/prompt/native"
)

const desc = `Generates a resource pack by blending a picture into every block texture of a game archive.`

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

var cli struct {
	Config       string `short:"c" type:"path" help:"YAML configuration file."`
	Archive      string `short:"a" type:"path" help:"Game archive (.jar). Skips the archive prompt."`
	Image        string `short:"i" type:"path" help:"Pattern image. Skips the image prompt."`
	Out          string `short:"o" type:"path" help:"Output root of the generated pack."`
	Terminal     bool   `short:"t" help:"Prompt on the terminal instead of native dialogs."`
	Icon         bool   `help:"Also write the pattern as pack.png."`
	CopySidecars bool   `help:"Copy .mcmeta sidecars next to the blended textures."`
	MetricsFile  string `type:"path" help:"Write run metrics in Prometheus text format to this file."`
	LogLevel     string `help:"Log level: debug, info, warn or error."`
}

func main() {
	os.Exit(run())
}

func run() int {
	parser, err := kong.New(&cli,
		kong.Name("packoverlay"),
		kong.Description(desc),
		kong.UsageOnError(),
	)
	if err != nil {
		panic(err)
	}
	if _, err := parser.Parse(os.Args[1:]); err != nil {
		parser.Errorf("%s", err)
		return exitUsage
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "packoverlay: %v\n", err)
		return exitUsage
	}

	zl, err := newZapLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "packoverlay: %v\n", err)
		return exitUsage
	}
	defer zl.Sync() //nolint:errcheck
	log := zapr.NewLogger(zl)

	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		log.Error(err, "invalid configuration")
		return exitUsage
	}

	rec := metrics.NewPrometheusRecorder()
	pl, err := pipeline.New(opts, newPrompt(), platform.Current(), rec, log)
	if err != nil {
		log.Error(err, "invalid configuration")
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = pl.Run(ctx)
	writeMetrics(log, rec, cfg.Metrics.TextfilePath)

	switch {
	case err == nil:
		return exitOK
	case apperr.Is(err, apperr.KindCancelled):
		return exitOK
	default:
		return exitFailed
	}
}

// loadConfig layers defaults, the config file, the environment and flags, in that order.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cli.Config != "" {
		if err := cfg.LoadFile(cli.Config); err != nil {
			return nil, err
		}
	}
	cfg.LoadFromEnvironment()

	if cli.Out != "" {
		cfg.Output.Root = cli.Out
	}
	if cli.Icon {
		cfg.Output.Icon = true
	}
	if cli.CopySidecars {
		cfg.Textures.CopySidecars = true
	}
	if cli.MetricsFile != "" {
		cfg.Metrics.TextfilePath = cli.MetricsFile
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newZapLogger(lc config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if lc.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// newPrompt uses native dialogs unless the terminal was requested or both inputs came
// from flags, which makes the run headless.
func newPrompt() prompt.UserPrompt {
	var next prompt.UserPrompt
	if cli.Terminal || (cli.Archive != "" && cli.Image != "") {
		next = prompt.NewTerminal(os.Stdin, os.Stderr, pipeline.Title)
	} else {
		next = native.New(pipeline.Title)
	}
	if cli.Archive == "" && cli.Image == "" {
		return next
	}
	return &prompt.Prefilled{Paths: []string{cli.Archive, cli.Image}, Next: next}
}

func writeMetrics(log logr.Logger, rec *metrics.PrometheusRecorder, path string) {
	if path == "" {
		return
	}
	if err := rec.WriteTextfile(path); err != nil {
		log.Error(err, "failed to write metrics", "path", path)
		return
	}
	log.V(1).Info("wrote metrics", "path", path)
}
