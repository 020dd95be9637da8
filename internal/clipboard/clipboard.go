package clipboard

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

var (
	clipboardWriteAll = clipboard.WriteAll
	clipboardReadAll  = clipboard.ReadAll
	clipboardMissing  = func() bool { return clipboard.Unsupported }
)

// Method reports where copied text ended up.
type Method string

const (
	MethodClipboard Method = "clipboard"
	MethodFallback  Method = "fallback"
)

// Copy puts text on the system clipboard. When no clipboard is available,
// or writing to it fails, the text is written to fallback instead.
func Copy(text string, fallback io.Writer) (Method, error) {
	if !clipboardMissing() {
		if err := clipboardWriteAll(text); err == nil {
			return MethodClipboard, nil
		}
	}
	if fallback == nil {
		return "", fmt.Errorf("clipboard unavailable and no fallback configured")
	}
	if _, err := io.WriteString(fallback, text); err != nil {
		return "", fmt.Errorf("write fallback: %w", err)
	}
	return MethodFallback, nil
}

// FileFallback is a fallback writer that replaces the file at path with
// whatever is copied.
type FileFallback string

func (f FileFallback) Write(p []byte) (int, error) {
	path := string(f)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, p, 0o644); err != nil {
		return 0, err
	}
	return len(p), nil
}
