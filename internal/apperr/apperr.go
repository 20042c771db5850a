// Package apperr defines the failure taxonomy shared by the pack generation pipeline.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindArchive covers open, format, entry-decode and write failures during extraction.
	KindArchive
	// KindImageDecode covers unreadable or corrupt raster input.
	KindImageDecode
	// KindIO covers filesystem create/write/remove failures outside the archive.
	KindIO
	// KindCancelled is user driven and not a fault.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindArchive:
		return "ArchiveError"
	case KindImageDecode:
		return "ImageDecodeError"
	case KindIO:
		return "IoError"
	case KindCancelled:
		return "DialogCancelled"
	default:
		return "UnknownError"
	}
}

// Error is a classified failure. Op names the operation, Path the file involved (may be empty).
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a classified error.
func New(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Archive wraps err as an ArchiveError.
func Archive(op, path string, err error) error {
	return New(KindArchive, op, path, err)
}

// ImageDecode wraps err as an ImageDecodeError.
func ImageDecode(path string, err error) error {
	return New(KindImageDecode, "decode", path, err)
}

// IO wraps err as an IoError.
func IO(op, path string, err error) error {
	return New(KindIO, op, path, err)
}

// Cancelled reports that the user dismissed the prompt for what.
func Cancelled(what string) error {
	return New(KindCancelled, fmt.Sprintf("choose %s", what), "", nil)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
