package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matsen/refman/internal/fetch"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDataDir, EnvEditor, EnvMirrorURL, EnvUserAgent} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wd, _ := os.Getwd()
	if want := filepath.Join(wd, DefaultDataDir); cfg.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, want)
	}
	if cfg.Editor != DefaultEditor {
		t.Errorf("Editor = %q, want %q", cfg.Editor, DefaultEditor)
	}
	if cfg.UserAgent != fetch.DefaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.MirrorURL != "" {
		t.Errorf("MirrorURL = %q, want empty", cfg.MirrorURL)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %s, want 60s", cfg.Timeout)
	}
	if cfg.RateLimit != fetch.DefaultRateLimit {
		t.Errorf("RateLimit = %v", cfg.RateLimit)
	}
}

func TestLoad_GlobalFile(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	clearEnv(t)

	writeGlobalConfig(t, "data_dir: /srv/refs\ntimeout: 5s\nrate_limit: 1\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/srv/refs" {
		t.Errorf("DataDir = %q, want /srv/refs", cfg.DataDir)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Timeout)
	}
	if cfg.RateLimit != 1 {
		t.Errorf("RateLimit = %v, want 1", cfg.RateLimit)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	writeGlobalConfig(t, "data_dir: /srv/refs\neditor: vim\n")
	t.Setenv(EnvDataDir, "/env/refs")
	t.Setenv(EnvEditor, "emacs")
	t.Setenv(EnvMirrorURL, "https://mirror.example/{doi}")
	t.Setenv(EnvUserAgent, "refman-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/env/refs" {
		t.Errorf("DataDir = %q, want /env/refs", cfg.DataDir)
	}
	if cfg.Editor != "emacs" {
		t.Errorf("Editor = %q, want emacs", cfg.Editor)
	}
	if cfg.MirrorURL != "https://mirror.example/{doi}" {
		t.Errorf("MirrorURL = %q", cfg.MirrorURL)
	}
	if cfg.UserAgent != "refman-test" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	clearEnv(t)

	writeGlobalConfig(t, "timeout: later\n")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on an unparseable timeout")
	}
}

func TestValidateReader(t *testing.T) {
	tests := []struct {
		name    string
		reader  string
		wantErr bool
	}{
		{"empty", "", false},
		{"system", "system", false},
		{"skim", "skim", false},
		{"zathura", "zathura", false},
		{"evince", "evince", false},
		{"okular", "okular", false},
		{"invalid", "invalid", true},
		{"uppercase", "SYSTEM", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReader(tt.reader)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateReader(%q) error = %v, wantErr %v", tt.reader, err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/refs", filepath.Join(home, "refs")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
