// Package manifest writes the pack.mcmeta descriptor of a generated resource pack.
package manifest

import (
	"encoding/json"
	"os"

	"github.com/setanarut/packoverlay/internal/apperr"
)

const (
	// FileName is the descriptor's name at the pack root.
	FileName = "pack.mcmeta"

	DefaultPackFormat  = 7
	DefaultDescription = "Automatically generated pack"
)

// Manifest is the descriptor payload.
type Manifest struct {
	Pack Pack `json:"pack"`
}

type Pack struct {
	PackFormat  int    `json:"pack_format"`
	Description string `json:"description"`
}

// Default returns the fixed descriptor the generator emits.
func Default() Manifest {
	return New(DefaultPackFormat, DefaultDescription)
}

func New(format int, description string) Manifest {
	return Manifest{Pack: Pack{PackFormat: format, Description: description}}
}

// Marshal renders m with four-space indentation and no trailing newline.
func Marshal(m Manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "    ")
}

// Write serializes m to path, replacing any existing file.
// The parent directory must already exist.
func Write(path string, m Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return apperr.IO("encode manifest", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperr.IO("write manifest", path, err)
	}
	return nil
}
