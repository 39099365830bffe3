package pdf

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Opener opens documents in a viewer.
type Opener struct {
	reader string
	goos   string
}

// NewOpener creates an opener for the named reader. Empty or "system"
// uses the platform default (open, xdg-open).
func NewOpener(reader string) *Opener {
	if reader == "" {
		reader = "system"
	}
	return &Opener{reader: reader, goos: runtime.GOOS}
}

// Open starts the viewer on path without waiting for it to exit.
func (o *Opener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document does not exist: %s", path)
		}
		return fmt.Errorf("checking document: %w", err)
	}

	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command returns the viewer command for path.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return o.darwinCommand(path), nil
	case "linux", "freebsd", "openbsd":
		return o.linuxCommand(path), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", o.goos)
	}
}

func (o *Opener) darwinCommand(path string) *exec.Cmd {
	switch o.reader {
	case "skim":
		return exec.Command("open", "-a", "Skim", path)
	case "preview":
		return exec.Command("open", "-a", "Preview", path)
	case "system":
		return exec.Command("open", path)
	default:
		return exec.Command("open", "-a", o.reader, path)
	}
}

func (o *Opener) linuxCommand(path string) *exec.Cmd {
	switch o.reader {
	case "system":
		return exec.Command("xdg-open", path)
	default: // zathura, evince, okular, ...
		return exec.Command(o.reader, path)
	}
}
