package editor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "fake-editor")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExternalEdit(t *testing.T) {
	script := writeScript(t, `sed 's/Wasserman_2018/TestKey_2004/' "$1" > "$1.new" && mv "$1.new" "$1"`+"\n")

	e := NewExternal(script)
	got, err := e.Edit(context.Background(), "@article{Wasserman_2018,\n}")
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if got != "@article{TestKey_2004,\n}" {
		t.Errorf("Edit() = %q", got)
	}
}

func TestExternalEdit_Unchanged(t *testing.T) {
	script := writeScript(t, "exit 0\n")

	got, err := NewExternal(script).Edit(context.Background(), "same")
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if got != "same" {
		t.Errorf("Edit() = %q, want %q", got, "same")
	}
}

func TestExternalEdit_Arguments(t *testing.T) {
	script := writeScript(t, `printf '%s' "$1" > "$2"`+"\n")

	got, err := NewExternal(script+" --wait").Edit(context.Background(), "x")
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if got != "--wait" {
		t.Errorf("Edit() = %q, want the first argument", got)
	}
}

func TestExternalEdit_Failure(t *testing.T) {
	script := writeScript(t, "exit 3\n")

	_, err := NewExternal(script).Edit(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "running") {
		t.Errorf("Edit() error = %v, want running failure", err)
	}

	if _, err := NewExternal("").Edit(context.Background(), "x"); err == nil {
		t.Error("Edit() with no command should fail")
	}
}

func TestFunc(t *testing.T) {
	var e Editor = Func(func(_ context.Context, text string) (string, error) {
		return strings.ToUpper(text), nil
	})
	got, _ := e.Edit(context.Background(), "abc")
	if got != "ABC" {
		t.Errorf("Edit() = %q", got)
	}
}
