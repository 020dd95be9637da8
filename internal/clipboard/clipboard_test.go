package clipboard

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonekit/tonekit/internal/palette"
)

func stubClipboard(t *testing.T, missing bool, writeErr error) *string {
	t.Helper()
	var written string
	origWrite, origMissing := clipboardWriteAll, clipboardMissing
	clipboardWriteAll = func(s string) error {
		if writeErr != nil {
			return writeErr
		}
		written = s
		return nil
	}
	clipboardMissing = func() bool { return missing }
	t.Cleanup(func() {
		clipboardWriteAll = origWrite
		clipboardMissing = origMissing
	})
	return &written
}

func TestCopy_UsesClipboard(t *testing.T) {
	written := stubClipboard(t, false, nil)
	var fb bytes.Buffer

	m, err := Copy(":root {}", &fb)
	require.NoError(t, err)
	assert.Equal(t, MethodClipboard, m)
	assert.Equal(t, ":root {}", *written)
	assert.Zero(t, fb.Len())
}

func TestCopy_FallsBackWhenUnsupported(t *testing.T) {
	stubClipboard(t, true, nil)
	var fb bytes.Buffer

	m, err := Copy("text", &fb)
	require.NoError(t, err)
	assert.Equal(t, MethodFallback, m)
	assert.Equal(t, "text", fb.String())
}

func TestCopy_FallsBackOnError(t *testing.T) {
	stubClipboard(t, false, errors.New("no display"))
	var fb bytes.Buffer

	m, err := Copy("text", &fb)
	require.NoError(t, err)
	assert.Equal(t, MethodFallback, m)
}

func TestCopy_NoFallback(t *testing.T) {
	stubClipboard(t, true, nil)
	_, err := Copy("text", nil)
	assert.Error(t, err)
}

func TestExtractColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  palette.HSL
		ok    bool
	}{
		{name: "css hsl", input: "hsl(216 58% 48%)", want: palette.HSL{H: 216, S: 58, L: 48}, ok: true},
		{name: "comma hsl", input: "hsl(216, 58%, 48%)", want: palette.HSL{H: 216, S: 58, L: 48}, ok: true},
		{name: "bare triple", input: "  120 6 49 ", want: palette.HSL{H: 120, S: 6, L: 49}, ok: true},
		{name: "alpha ignored", input: "hsla(0, 99%, 50%, 0.5)", want: palette.HSL{H: 0, S: 99, L: 50}, ok: true},
		{name: "clamped", input: "hsl(400 120% 50%)", want: palette.HSL{H: 360, S: 100, L: 50}, ok: true},
		{name: "white hex", input: "#ffffff", want: palette.HSL{H: 0, S: 0, L: 100}, ok: true},
		{name: "short black hex", input: "000", want: palette.HSL{H: 0, S: 0, L: 0}, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "multiline", input: "hsl(1 2% 3%)\nhsl(4 5% 6%)", ok: false},
		{name: "words", input: "primary blue", ok: false},
		{name: "bad hex", input: "#12345", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractColor(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want.H, got.H, 0.5)
				assert.InDelta(t, tt.want.S, got.S, 0.5)
				assert.InDelta(t, tt.want.L, got.L, 0.5)
			}
		})
	}
}

func TestReadColor(t *testing.T) {
	orig := clipboardReadAll
	t.Cleanup(func() { clipboardReadAll = orig })

	clipboardReadAll = func() (string, error) { return "hsl(48 100% 50%)", nil }
	hsl, ok := ReadColor()
	require.True(t, ok)
	assert.Equal(t, palette.HSL{H: 48, S: 100, L: 50}, hsl)

	clipboardReadAll = func() (string, error) { return "", errors.New("empty") }
	_, ok = ReadColor()
	assert.False(t, ok)
}

func TestFileFallback(t *testing.T) {
	stubClipboard(t, true, nil)
	path := filepath.Join(t.TempDir(), "state", "clipboard.txt")

	m, err := Copy("first", FileFallback(path))
	require.NoError(t, err)
	assert.Equal(t, MethodFallback, m)

	_, err = Copy("second", FileFallback(path))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
