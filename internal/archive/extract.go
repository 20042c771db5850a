// Package archive unpacks zip-format game archives (.jar/.zip) into a working tree.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/setanarut/packoverlay/internal/apperr"
)

// Stats summarizes one extraction.
type Stats struct {
	Files int
	Dirs  int
	Bytes int64
}

// Extract writes every entry of the archive at archivePath under destDir, preserving internal paths.
// Any failure aborts the extraction and may leave destDir partially populated; the caller removes it.
func Extract(archivePath, destDir string) (Stats, error) {
	var st Stats

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return st, apperr.Archive("open", archivePath, err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return st, apperr.Archive("create destination", destDir, err)
	}

	for _, f := range r.File {
		target, err := entryPath(destDir, f.Name)
		if err != nil {
			return st, apperr.Archive("resolve entry", f.Name, err)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return st, apperr.Archive("create directory", target, err)
			}
			st.Dirs++
			continue
		}

		n, err := extractFile(f, target)
		if err != nil {
			return st, apperr.Archive("extract entry", f.Name, err)
		}
		st.Files++
		st.Bytes += n
	}

	return st, nil
}

// entryPath maps an entry name to a path under destDir, rejecting names that escape it.
func entryPath(destDir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty entry name")
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("entry escapes destination: %s", name)
	}
	return filepath.Join(destDir, clean), nil
}

func extractFile(f *zip.File, target string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, err
	}

	rc, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return 0, err
	}

	// Checksum and decompression errors surface from the copy.
	n, err := io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}
