// Package config provides configuration management for the pack generator.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/setanarut/packoverlay/internal/manifest"
	"github.com/setanarut/packoverlay/utils"
)

// Config holds the configuration for a pack generation run
type Config struct {
	// Output layout
	Output OutputConfig `yaml:"output"`

	// Texture discovery and resampling
	Textures TexturesConfig `yaml:"textures"`

	// Manifest content
	Manifest ManifestConfig `yaml:"manifest"`

	// Pattern palette report
	Palette PaletteConfig `yaml:"palette"`

	// Metrics export
	Metrics MetricsConfig `yaml:"metrics"`

	// Logging
	Log LogConfig `yaml:"log"`
}

// OutputConfig holds output tree configuration
type OutputConfig struct {
	// Root directory of the generated pack
	Root string `yaml:"root"`

	// WorkDirName is the name of the ephemeral extraction directory inside the staging root
	WorkDirName string `yaml:"work_dir_name"`

	// Icon writes the resampled pattern as pack.png
	Icon bool `yaml:"icon"`
}

// TexturesConfig holds texture processing configuration
type TexturesConfig struct {
	// Namespace searched inside the archive
	Namespace string `yaml:"namespace"`

	// Kinds of texture directories to process (block, item, ...)
	Kinds []string `yaml:"kinds"`

	// Size of the square canvas textures and pattern are resampled to
	Size int `yaml:"size"`

	// SidecarMarker identifies non-image metadata files
	SidecarMarker string `yaml:"sidecar_marker"`

	// CopySidecars copies sidecars verbatim instead of skipping them
	CopySidecars bool `yaml:"copy_sidecars"`
}

// ManifestConfig holds pack.mcmeta configuration
type ManifestConfig struct {
	PackFormat  int    `yaml:"pack_format"`
	Description string `yaml:"description"`
}

// PaletteConfig holds pattern palette report configuration
type PaletteConfig struct {
	// Colors is the number of palette entries reported
	Colors int `yaml:"colors"`

	// Method is "dominantcolor" or "kmeans"
	Method string `yaml:"method"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	// TextfilePath receives the run metrics in Prometheus text format when non-empty
	TextfilePath string `yaml:"textfile_path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`

	// Development switches to a human readable console encoder
	Development bool `yaml:"development"`
}

// DefaultConfig returns a configuration that reproduces the classic tool's output
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Root:        "out",
			WorkDirName: "temp",
		},
		Textures: TexturesConfig{
			Namespace:     "minecraft",
			Kinds:         []string{"block"},
			Size:          128,
			SidecarMarker: ".mcmeta",
		},
		Manifest: ManifestConfig{
			PackFormat:  manifest.DefaultPackFormat,
			Description: manifest.DefaultDescription,
		},
		Palette: PaletteConfig{
			Colors: 5,
			Method: "dominantcolor",
		},
		Log: LogConfig{
			Level:       "info",
			Development: true,
		},
	}
}

// LoadFile overlays the YAML file at path onto c. Unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if root := os.Getenv("PACKOVERLAY_OUTPUT_ROOT"); root != "" {
		c.Output.Root = root
	}
	if iconStr := os.Getenv("PACKOVERLAY_ICON"); iconStr != "" {
		if icon, err := strconv.ParseBool(iconStr); err == nil {
			c.Output.Icon = icon
		}
	}
	if ns := os.Getenv("PACKOVERLAY_NAMESPACE"); ns != "" {
		c.Textures.Namespace = ns
	}
	if kinds := os.Getenv("PACKOVERLAY_KINDS"); kinds != "" {
		c.Textures.Kinds = splitList(kinds)
	}
	if sizeStr := os.Getenv("PACKOVERLAY_SIZE"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil {
			c.Textures.Size = size
		}
	}
	if copyStr := os.Getenv("PACKOVERLAY_COPY_SIDECARS"); copyStr != "" {
		if copySidecars, err := strconv.ParseBool(copyStr); err == nil {
			c.Textures.CopySidecars = copySidecars
		}
	}
	if formatStr := os.Getenv("PACKOVERLAY_PACK_FORMAT"); formatStr != "" {
		if format, err := strconv.Atoi(formatStr); err == nil {
			c.Manifest.PackFormat = format
		}
	}
	if desc := os.Getenv("PACKOVERLAY_DESCRIPTION"); desc != "" {
		c.Manifest.Description = desc
	}
	if method := os.Getenv("PACKOVERLAY_PALETTE_METHOD"); method != "" {
		c.Palette.Method = method
	}
	if path := os.Getenv("PACKOVERLAY_METRICS_TEXTFILE"); path != "" {
		c.Metrics.TextfilePath = path
	}
	if level := os.Getenv("PACKOVERLAY_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Output.Root == "" {
		return fmt.Errorf("output root must be specified")
	}
	if c.Output.WorkDirName == "" || strings.ContainsAny(c.Output.WorkDirName, `/\`) || c.Output.WorkDirName == ".." {
		return fmt.Errorf("invalid work directory name %q", c.Output.WorkDirName)
	}

	if c.Textures.Namespace == "" {
		return fmt.Errorf("texture namespace must be specified")
	}
	if len(c.Textures.Kinds) == 0 {
		return fmt.Errorf("at least one texture kind must be specified")
	}
	for _, kind := range c.Textures.Kinds {
		if kind == "" || strings.ContainsAny(kind, `/\`) || kind == ".." {
			return fmt.Errorf("invalid texture kind %q", kind)
		}
	}
	if c.Textures.Size <= 0 {
		return fmt.Errorf("texture size must be positive")
	}
	if c.Textures.SidecarMarker == "" {
		return fmt.Errorf("sidecar marker must be specified")
	}

	if c.Manifest.PackFormat <= 0 {
		return fmt.Errorf("pack format must be positive")
	}

	if c.Palette.Colors < 1 || c.Palette.Colors > 16 {
		return fmt.Errorf("palette colors must be between 1 and 16")
	}
	if _, err := utils.ParsePaletteMethod(c.Palette.Method); err != nil {
		return err
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn or error)", c.Log.Level)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
