package cli

import (
	"bytes"
	"strings"
	"testing"
)

// executeRoot runs rootCmd with args on clean flags. Cobra keeps parsed
// flag values such as --help on the shared command between executions.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var buf bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	output, err := executeRoot(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if output == "" {
		t.Error("expected help output, got empty string")
	}
	if !strings.Contains(output, "gqlpick") {
		t.Error("expected help to contain 'gqlpick'")
	}
	if !strings.Contains(output, "Endpoint Selection:") {
		t.Error("expected help to list the Endpoint Selection group")
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	// Cobra uses --version flag, not a version subcommand
	output, err := executeRoot(t, "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(output, "1.2.3") {
		t.Errorf("expected version output to contain version, got %q", output)
	}
}

func TestRootCommand_VersionAfterHelp(t *testing.T) {
	SetVersion("4.5.6")

	if _, err := executeRoot(t, "--help"); err != nil {
		t.Fatalf("Execute(--help) error = %v", err)
	}
	output, err := executeRoot(t, "--version")
	if err != nil {
		t.Fatalf("Execute(--version) error = %v", err)
	}
	if !strings.Contains(output, "4.5.6") {
		t.Errorf("expected version output after help, got %q", output)
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	_, err := executeRoot(t, "invalid-command")
	if err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"normal version", "1.2.3", "1.2.3"},
		{"empty version", "", "dev"}, // Should not change if empty
		{"dev version", "dev", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetVersion(tt.version)
			if tt.version != "" && rootCmd.Version != tt.version {
				t.Errorf("SetVersion(%q) = %q, want %q", tt.version, rootCmd.Version, tt.version)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	subcommands := []string{
		"resolve", "check", "select", "open", "use", "last", "serve",
		"workspace", "version", "completion",
	}

	for _, cmd := range subcommands {
		t.Run(cmd, func(t *testing.T) {
			subCmd, _, err := rootCmd.Find([]string{cmd})
			if err != nil {
				t.Errorf("Find(%q) error = %v", cmd, err)
			}
			if subCmd == nil {
				t.Errorf("Find(%q) returned nil command", cmd)
			}
		})
	}
}

func TestWorkspaceSubcommands(t *testing.T) {
	for _, name := range []string{"ls", "add", "rm", "import"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := rootCmd.Find([]string{"workspace", name})
			if err != nil {
				t.Fatalf("Find(workspace %s) error = %v", name, err)
			}
			if subCmd.Name() != name {
				t.Errorf("Find(workspace %s) = %q", name, subCmd.Name())
			}
		})
	}
}
