package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_ChooseFile(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		hint      string
		want      string
		cancelled bool
	}{
		{"plain path", "/tmp/1.17.jar\n", "", "/tmp/1.17.jar", false},
		{"quoted path", "  \"/tmp/my pic.png\"  \n", "", "/tmp/my pic.png", false},
		{"no trailing newline", "/tmp/x.jar", "", "/tmp/x.jar", false},
		{"empty line cancels", "\n", "/home/steve/.minecraft/versions", "", true},
		{"eof cancels", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewTerminal(strings.NewReader(tt.input), &out, "Minecraft Textures")

			got, err := p.ChooseFile(tt.hint)
			if tt.cancelled {
				assert.ErrorIs(t, err, ErrCancelled)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			if tt.hint != "" {
				assert.Contains(t, out.String(), tt.hint)
			}
		})
	}
}

func TestTerminal_SequentialAnswers(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminal(strings.NewReader("a.jar\nb.png\n"), &out, "T")

	first, err := p.ChooseFile("")
	require.NoError(t, err)
	second, err := p.ChooseFile("")
	require.NoError(t, err)
	assert.Equal(t, "a.jar", first)
	assert.Equal(t, "b.png", second)
}

func TestTerminal_Notify(t *testing.T) {
	var out bytes.Buffer
	p := NewTerminal(strings.NewReader(""), &out, "Minecraft Textures")

	require.NoError(t, p.Notify("Done!"))
	require.NoError(t, p.Alert("boom"))
	assert.Equal(t, "[Minecraft Textures] Done!\n[Minecraft Textures] ERROR: boom\n", out.String())
}

func TestScripted(t *testing.T) {
	s := NewScripted("a.jar", "")

	got, err := s.ChooseFile("/hint/one")
	require.NoError(t, err)
	assert.Equal(t, "a.jar", got)

	_, err = s.ChooseFile("/hint/two")
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = s.ChooseFile("")
	assert.ErrorIs(t, err, ErrCancelled)

	require.NoError(t, s.Notify("hello"))
	assert.Equal(t, []string{"/hint/one", "/hint/two", ""}, s.Hints)
	assert.Equal(t, []string{"hello"}, s.Messages)

	var _ UserPrompt = s
	var _ Alerter = s
}

func TestPrefilled(t *testing.T) {
	next := NewScripted("asked.png")
	p := &Prefilled{Paths: []string{"", "given.png", "late.jar"}, Next: next}

	got, err := p.ChooseFile("/hint/one")
	require.NoError(t, err)
	assert.Equal(t, "asked.png", got, "empty entry defers to next")

	got, err = p.ChooseFile("/hint/two")
	require.NoError(t, err)
	assert.Equal(t, "given.png", got)

	got, err = p.ChooseFile("")
	require.NoError(t, err)
	assert.Equal(t, "late.jar", got)

	_, err = p.ChooseFile("/hint/four")
	assert.ErrorIs(t, err, ErrCancelled)

	require.NoError(t, p.Notify("hello"))
	require.NoError(t, p.Alert("boom"))
	assert.Equal(t, []string{"/hint/one", "/hint/four"}, next.Hints)
	assert.Equal(t, []string{"hello"}, next.Messages)
	assert.Equal(t, []string{"boom"}, next.Alerts)
}
