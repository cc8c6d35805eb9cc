// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

const testSchema = `
#Settings: {
	source:    string
	retries:   int & >=0
	category?: string
	log?: {
		level?: "debug" | "info"
	}
}
`

type testSettings struct {
	Source   string `json:"source"`
	Retries  int    `json:"retries"`
	Category string `json:"category,omitempty"`
}

func TestParseAndDecode_Struct(t *testing.T) {
	t.Parallel()

	data := []byte(`source: "http://example.com/list.xml"
retries: 0
category: "core"
`)
	res, err := ParseAndDecode[testSettings]([]byte(testSchema), data, "#Settings")
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if res.Value.Source != "http://example.com/list.xml" || res.Value.Category != "core" {
		t.Errorf("Value = %+v", res.Value)
	}
}

func TestParseAndDecode_Map(t *testing.T) {
	t.Parallel()

	res, err := ParseAndDecodeString[map[string]any](testSchema, []byte(`log: level: "debug"`), "#Settings",
		WithConcrete(false), WithFilename("config.cue"))
	if err != nil {
		t.Fatalf("ParseAndDecodeString() error = %v", err)
	}

	logSection, ok := (*res.Value)["log"].(map[string]any)
	if !ok || logSection["level"] != "debug" {
		t.Errorf("Value = %v", *res.Value)
	}
}

func TestParseAndDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		opts     []Option
		contains []string
	}{
		{
			name:     "syntax error",
			data:     `source: "unterminated`,
			opts:     []Option{WithFilename("broken.cue")},
			contains: []string{"broken.cue"},
		},
		{
			name:     "constraint violation",
			data:     `source: "x", retries: -1`,
			opts:     []Option{WithFilename("config.cue")},
			contains: []string{"config.cue", "retries"},
		},
		{
			name:     "unknown field in closed definition",
			data:     `source: "x", retries: 1, colour: "red"`,
			contains: []string{"<input>", "colour"},
		},
		{
			name:     "missing concrete value",
			data:     `source: "x"`,
			contains: []string{"retries"},
		},
		{
			name:     "file too large",
			data:     `source: "x", retries: 1`,
			opts:     []Option{WithMaxFileSize(4)},
			contains: []string{"exceeds maximum"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseAndDecode[testSettings]([]byte(testSchema), []byte(tt.data), "#Settings", tt.opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tt.contains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q should contain %q", err, want)
				}
			}
		})
	}
}

func TestParseAndDecode_TypedErrors(t *testing.T) {
	t.Parallel()

	schema := []byte(testSchema)

	_, err := ParseAndDecode[testSettings](schema, []byte(`source: "x", retries: -1`), "#Settings",
		WithFilename("config.cue"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if !errors.Is(err, ErrSchemaViolation) {
		t.Error("error should wrap ErrSchemaViolation")
	}
	if verr.File != "config.cue" || !slices.Contains(verr.Paths(), "retries") {
		t.Errorf("ValidationError = %+v", verr)
	}

	_, err = ParseAndDecode[testSettings](schema, []byte(`source: "x", retries: 1`), "#Settings",
		WithMaxFileSize(4))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("error = %v, want ErrFileTooLarge", err)
	}
}

func TestParseAndDecode_BrokenSchema(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecodeString[testSettings](testSchema, []byte(`source: "x", retries: 1`), "#Missing")
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Fatalf("error = %v, want internal error", err)
	}
	if errors.Is(err, ErrSchemaViolation) {
		t.Error("a schema lookup failure is not a document error")
	}
}
