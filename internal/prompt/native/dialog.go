// Package native implements prompt.UserPrompt with the operating system's file chooser
// and message boxes.
package native

import (
	"errors"
	"os"

	"github.com/sqweek/dialog"

	"github.com/setanarut/packoverlay/internal/prompt"
)

type Dialog struct {
	title string
}

func New(title string) *Dialog {
	return &Dialog{title: title}
}

func (d *Dialog) ChooseFile(hintDir string) (string, error) {
	b := dialog.File().Title(d.title)
	if fi, err := os.Stat(hintDir); hintDir != "" && err == nil && fi.IsDir() {
		b = b.SetStartDir(hintDir)
	}
	path, err := b.Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", prompt.ErrCancelled
	}
	return path, err
}

func (d *Dialog) Notify(message string) error {
	dialog.Message("%s", message).Title(d.title).Info()
	return nil
}

func (d *Dialog) Alert(message string) error {
	dialog.Message("%s", message).Title(d.title).Error()
	return nil
}
