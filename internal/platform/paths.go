// Package platform guesses where the game installation and the user's pictures live.
// The results only pre-seed file dialogs: any lookup failure yields an empty hint.
package platform

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// Paths resolves best-guess starting directories for the two file prompts.
type Paths interface {
	// GameDir is the directory holding per-version game archives, or "".
	GameDir() string
	// PicturesDir is the user's picture library, or "".
	PicturesDir() string
}

// Resolver supplies the base directories the variants derive their hints from.
// A function returning an error is treated as an unknown location.
type Resolver struct {
	Home     func() (string, error)
	Config   func() (string, error)
	Pictures func() string
}

// SystemResolver reads the current user's directories.
func SystemResolver() Resolver {
	return Resolver{
		Home:     os.UserHomeDir,
		Config:   os.UserConfigDir,
		Pictures: func() string { return xdg.UserDirs.Pictures },
	}
}

// Current returns the variant for the running OS.
func Current() Paths {
	return ForOS(runtime.GOOS, SystemResolver())
}

// ForOS returns the variant for goos.
func ForOS(goos string, r Resolver) Paths {
	switch goos {
	case "windows":
		return Windows{r}
	case "linux":
		return Linux{r}
	case "darwin":
		return MacOS{r}
	default:
		return Other{r}
	}
}

// Windows keeps the launcher data under the roaming application data directory.
type Windows struct{ r Resolver }

func (w Windows) GameDir() string {
	return under(w.r.Config, ".minecraft", "versions")
}

func (w Windows) PicturesDir() string { return pictures(w.r) }

// Linux keeps the launcher data in a dot directory under home.
type Linux struct{ r Resolver }

func (l Linux) GameDir() string {
	return under(l.r.Home, ".minecraft", "versions")
}

func (l Linux) PicturesDir() string { return pictures(l.r) }

// MacOS keeps the launcher data under Application Support.
type MacOS struct{ r Resolver }

func (m MacOS) GameDir() string {
	return under(m.r.Config, "minecraft", "versions")
}

func (m MacOS) PicturesDir() string { return pictures(m.r) }

// Other has no known game location.
type Other struct{ r Resolver }

func (Other) GameDir() string { return "" }

func (o Other) PicturesDir() string { return pictures(o.r) }

func under(base func() (string, error), elem ...string) string {
	if base == nil {
		return ""
	}
	dir, err := base()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(append([]string{dir}, elem...)...)
}

func pictures(r Resolver) string {
	if r.Pictures == nil {
		return ""
	}
	return r.Pictures()
}
