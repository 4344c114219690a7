package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/danieljhkim/gqlpick/internal/selection"
)

// captureOutput redirects the package output streams for one test.
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr, oldNoColor := stdout, stderr, color.NoColor
	stdout, stderr, color.NoColor = &out, &errOut, true
	t.Cleanup(func() {
		stdout, stderr, color.NoColor = oldOut, oldErr, oldNoColor
	})
	return &out, &errOut
}

func TestFormatJSON(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{
			name:  "simple map",
			input: map[string]string{"key": "value"},
			want:  "{\n  \"key\": \"value\"\n}",
		},
		{
			name:  "empty map",
			input: map[string]string{},
			want:  "{}",
		},
		{
			name:  "array",
			input: []string{"a", "b", "c"},
			want:  "[\n  \"a\",\n  \"b\",\n  \"c\"\n]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatJSON(tt.input)
			if err != nil {
				t.Fatalf("formatJSON() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("formatJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	got := formatError(os.ErrNotExist)
	if !strings.Contains(got, "Error:") {
		t.Errorf("formatError() = %q, expected to contain 'Error:'", got)
	}
}

func TestOutputJSON(t *testing.T) {
	out, _ := captureOutput(t)

	if err := outputJSON(map[string]string{"test": "value"}); err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}

	var v map[string]string
	if err := json.Unmarshal(out.Bytes(), &v); err != nil {
		t.Errorf("outputJSON() produced invalid JSON: %v", err)
	}
	if v["test"] != "value" {
		t.Errorf("outputJSON() = %v", v)
	}
}

func TestPrintFunctions(t *testing.T) {
	out, errOut := captureOutput(t)

	PrintSuccess("Success message")
	PrintWarning("Warning message")
	PrintError("Error message")
	PrintInfo("Info message")

	if !strings.Contains(out.String(), "Success message") || !strings.Contains(out.String(), "Info message") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Error message") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestPrintValidation(t *testing.T) {
	tests := []struct {
		validation selection.Validation
		symbol     string
	}{
		{selection.ValidationValid, "✓"},
		{selection.ValidationInvalid, "✗"},
		{selection.ValidationUnknown, "•"},
	}

	for _, tt := range tests {
		t.Run(tt.validation.String(), func(t *testing.T) {
			out, _ := captureOutput(t)

			PrintValidation(tt.validation, "https://a.example", "")

			if !strings.HasPrefix(out.String(), tt.symbol+" https://a.example") {
				t.Errorf("PrintValidation() = %q, want prefix %q", out.String(), tt.symbol)
			}
		})
	}
}

func TestPrintCount(t *testing.T) {
	if got := PrintCount(1, "document", "documents"); got != "1 document" {
		t.Errorf("PrintCount(1) = %q", got)
	}
	if got := PrintCount(3, "document", "documents"); got != "3 documents" {
		t.Errorf("PrintCount(3) = %q", got)
	}
}
