// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		verbose bool
		want    log.Level
		wantErr bool
	}{
		{name: "default", want: log.InfoLevel},
		{name: "warn", level: "warn", want: log.WarnLevel},
		{name: "debug", level: "debug", want: log.DebugLevel},
		{name: "verbose overrides level", level: "error", verbose: true, want: log.DebugLevel},
		{name: "unknown level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, closer, err := New(Options{Writer: &bytes.Buffer{}, Level: tt.level, Verbose: tt.verbose})
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer closer.Close()

			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew_LinePrefix(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closer, err := New(Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closer.Close()

	logger.Info("Resetting staging directory")

	out := buf.String()
	if !strings.Contains(out, Prefix+":") {
		t.Errorf("output %q missing prefix %q", out, Prefix)
	}
	if !strings.Contains(out, "Resetting staging directory") {
		t.Errorf("output %q missing message", out)
	}
}

func TestNew_TeesToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "fpz.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("earlier run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger, closer, err := New(Options{Writer: &buf, File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("Installing component", "id", "dev/tools")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "earlier run\n") {
		t.Errorf("log file was truncated: %q", content)
	}
	if !strings.Contains(content, "Installing component") {
		t.Errorf("log file %q missing line", content)
	}
	if !strings.Contains(buf.String(), "Installing component") {
		t.Errorf("writer %q missing line", buf.String())
	}
}

func TestNew_CreatesLogDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "fpz.log")
	_, closer, err := New(Options{Writer: &bytes.Buffer{}, File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closer.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := Discard()
	logger.Info("dropped")
	logger.Error("dropped")
	if got := logger.GetLevel(); got != log.FatalLevel {
		t.Errorf("level = %v, want %v", got, log.FatalLevel)
	}
}
