// Package editor hands text to an external editor program.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Editor edits text and returns the result.
type Editor interface {
	Edit(ctx context.Context, text string) (string, error)
}

// External runs an editor command on a temporary file. The command may
// carry arguments ("code --wait"); the file path is appended.
type External struct {
	Command string
	Suffix  string // Temp file suffix, e.g. ".bib"

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExternal returns an editor bound to the terminal.
func NewExternal(command string) *External {
	return &External{
		Command: command,
		Suffix:  ".bib",
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit writes text to a temporary file, waits for the editor to exit and
// returns the file's new content.
func (e *External) Edit(ctx context.Context, text string) (string, error) {
	args := strings.Fields(e.Command)
	if len(args) == 0 {
		return "", fmt.Errorf("no editor configured")
	}

	f, err := os.CreateTemp("", "refman-*"+e.Suffix)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s: %w", args[0], err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading edited file: %w", err)
	}
	return string(edited), nil
}

// Func adapts a function to the Editor interface.
type Func func(ctx context.Context, text string) (string, error)

// Edit calls f(ctx, text).
func (f Func) Edit(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
