package main

import (
	"testing"

	"github.com/fzdarsky/twofa/internal/cli/clicontext"
)

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name            string
		input           []string
		expectedCommand string
		expectedArgs    []string
		expectedGlobal  clicontext.Global
	}{
		{
			name:            "global flag before command",
			input:           []string{"-o", "json", "proof", "--info", "a.yaml"},
			expectedCommand: "proof",
			expectedArgs:    []string{"--info", "a.yaml"},
			expectedGlobal:  clicontext.Global{Output: "json"},
		},
		{
			name:            "global flag after command",
			input:           []string{"proof", "--output", "json", "--info", "a.yaml"},
			expectedCommand: "proof",
			expectedArgs:    []string{"--info", "a.yaml"},
			expectedGlobal:  clicontext.Global{Output: "json"},
		},
		{
			name:            "global flag at end with equals",
			input:           []string{"proof", "--info", "a.yaml", "--output=yaml"},
			expectedCommand: "proof",
			expectedArgs:    []string{"--info", "a.yaml"},
			expectedGlobal:  clicontext.Global{Output: "yaml"},
		},
		{
			name:            "all global flags",
			input:           []string{"--config", "/tmp/c.yaml", "--log-level=debug", "selftest", "-o", "json"},
			expectedCommand: "selftest",
			expectedArgs:    []string{},
			expectedGlobal:  clicontext.Global{ConfigPath: "/tmp/c.yaml", Output: "json", LogLevel: "debug"},
		},
		{
			name:            "no global flag",
			input:           []string{"check-group", "--g", "3"},
			expectedCommand: "check-group",
			expectedArgs:    []string{"--g", "3"},
		},
		{
			name:            "help flag",
			input:           []string{"--help"},
			expectedCommand: "--help",
			expectedArgs:    []string{},
		},
		{
			name:            "command help stays with the command",
			input:           []string{"proof", "--help"},
			expectedCommand: "proof",
			expectedArgs:    []string{"--help"},
		},
		{
			name:            "command only",
			input:           []string{"selftest"},
			expectedCommand: "selftest",
			expectedArgs:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset global context before each test
			clicontext.Reset()

			args, command, err := parseGlobalFlags(tt.input)
			if err != nil {
				t.Fatalf("parseGlobalFlags() error = %v", err)
			}

			// Verify command
			if command != tt.expectedCommand {
				t.Errorf("parseGlobalFlags() command = %v, want %v", command, tt.expectedCommand)
			}

			// Verify remaining args
			if len(args) != len(tt.expectedArgs) {
				t.Errorf("parseGlobalFlags() args length = %v, want %v", len(args), len(tt.expectedArgs))
			} else {
				for i, arg := range args {
					if arg != tt.expectedArgs[i] {
						t.Errorf("parseGlobalFlags() args[%d] = %v, want %v", i, arg, tt.expectedArgs[i])
					}
				}
			}

			// Verify global flags
			if got := clicontext.Get(); got != tt.expectedGlobal {
				t.Errorf("parseGlobalFlags() global = %+v, want %+v", got, tt.expectedGlobal)
			}
		})
	}
}

func TestParseGlobalFlags_MissingValue(t *testing.T) {
	clicontext.Reset()

	if _, _, err := parseGlobalFlags([]string{"proof", "--output"}); err == nil {
		t.Error("expected error for global flag without value")
	}
}

func TestIsFlag(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		expected bool
	}{
		{"short flag", "-o", true},
		{"long flag", "--config", true},
		{"command", "proof", false},
		{"value", "json", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFlag(tt.arg); got != tt.expected {
				t.Errorf("isFlag(%q) = %v, want %v", tt.arg, got, tt.expected)
			}
		})
	}
}
