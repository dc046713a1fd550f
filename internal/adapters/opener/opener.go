// Package opener hands files to the desktop: HTML reports to the browser and
// the config file to the user's editor.
package opener

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"sentinel/internal/ports"
)

// Browser implements ports.ReportOpener with the platform's URL handler
type Browser struct {
	goos string
}

var _ ports.ReportOpener = (*Browser)(nil)

// NewBrowser creates a browser opener for the running platform
func NewBrowser() *Browser {
	return &Browser{goos: runtime.GOOS}
}

// Open shows the file at path in the default browser
func (b *Browser) Open(path string) error {
	cmd, err := b.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns the exec.Cmd that opens path
func (b *Browser) Command(path string) (*exec.Cmd, error) {
	uri, err := FileURL(path)
	if err != nil {
		return nil, err
	}

	switch b.goos {
	case "darwin":
		return exec.Command("open", uri), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", uri), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", uri), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", b.goos)
	}
}

// FileURL builds a file:// URL for path, made absolute first
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// Editor implements ports.EditorOpener
type Editor struct {
	lookPath func(string) (string, error)
}

var _ ports.EditorOpener = (*Editor)(nil)

// NewEditor creates a new editor opener
func NewEditor() *Editor {
	return &Editor{lookPath: exec.LookPath}
}

// OpenFile opens a file in the user's preferred editor
func (e *Editor) OpenFile(path string) error {
	cmd, err := e.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
func (e *Editor) Command(path string) (*exec.Cmd, error) {
	editor := e.find()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// find returns $EDITOR, then $VISUAL, then the first common editor on PATH
func (e *Editor) find() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := e.lookPath(editor); err == nil {
			return path
		}
	}
	return ""
}
