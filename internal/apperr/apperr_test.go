package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"archive", Archive("open", "x.jar", fs.ErrNotExist), KindArchive},
		{"decode", ImageDecode("a.png", errors.New("bad")), KindImageDecode},
		{"io", IO("write", "out/pack.mcmeta", fs.ErrPermission), KindIO},
		{"cancelled", Cancelled("archive"), KindCancelled},
		{"wrapped", fmt.Errorf("overlay: %w", ImageDecode("b.png", nil)), KindImageDecode},
		{"plain", errors.New("plain"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrapAndMessage(t *testing.T) {
	err := Archive("open", "/tmp/x.jar", fs.ErrNotExist)

	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.True(t, Is(err, KindArchive))
	assert.False(t, Is(err, KindIO))
	assert.Equal(t, "ArchiveError: open /tmp/x.jar: file does not exist", err.Error())
	assert.Equal(t, "DialogCancelled: choose image", Cancelled("image").Error())
}
