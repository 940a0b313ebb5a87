package utils

import (
	"strings"
	"testing"
)

func TestBuildReplicationCommand(t *testing.T) {
	tests := []struct {
		name       string
		command    string
		flags      map[string]any
		expected   []string
		unexpected []string
	}{
		{
			name:    "Load settings for a repository list",
			command: "repo settings load",
			flags: map[string]any{
				"hostname":     "github.company.com",
				"org":          "octo-org",
				"repo-list":    "repos.csv",
				"settings":     "settings.yml",
				"include-ghas": true,
				"delay":        5,
			},
			expected: []string{
				"gh migrate-settings repo settings load",
				"-u github.company.com",
				"-o octo-org",
				"-l repos.csv",
				"-s settings.yml",
				"--include-ghas",
				"-d 5",
			},
		},
		{
			name:    "Default hostname is omitted",
			command: "repo settings load",
			flags: map[string]any{
				"hostname":  "api.github.com",
				"org":       "octo-org",
				"repo-list": "repos.csv",
			},
			expected:   []string{"-o octo-org", "-l repos.csv"},
			unexpected: []string{"-u"},
		},
		{
			name:    "Dry run and config prefix",
			command: "repo settings load",
			flags: map[string]any{
				"config":    "targets.yml",
				"prefix":    "dest",
				"repo-list": "repos.csv",
				"dry-run":   true,
			},
			expected: []string{"-c targets.yml", "-p dest", "--dry-run"},
		},
		{
			name:    "Tokens and unset values are never included",
			command: "repo settings load",
			flags: map[string]any{
				"token":        "ghp_secret",
				"org":          "octo-org",
				"repo-list":    "repos.csv",
				"include-ghas": false,
				"delay":        0,
			},
			expected:   []string{"-o octo-org"},
			unexpected: []string{"ghp_secret", "--include-ghas", "-d"},
		},
		{
			name:    "Copy between organizations",
			command: "repo settings copy",
			flags: map[string]any{
				"src-hostname":  "github.company.com",
				"src-org":       "old-org",
				"dest-hostname": "api.github.com",
				"dest-org":      "new-org",
				"repo-list":     "repos.csv",
			},
			expected:   []string{"--src-hostname github.company.com", "--src-org old-org", "--dest-org new-org"},
			unexpected: []string{"--dest-hostname"},
		},
		{
			name:    "String with spaces gets quoted",
			command: "repo settings load",
			flags: map[string]any{
				"org":       "octo-org",
				"repo-list": "my repos.csv",
			},
			expected: []string{"-l \"my repos.csv\""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BuildReplicationCommand(tt.command, tt.flags)

			for _, expected := range tt.expected {
				if !strings.Contains(result, expected) {
					t.Errorf("BuildReplicationCommand() result missing expected substring:\n  Expected: %s\n  Got: %s", expected, result)
				}
			}
			for _, unexpected := range tt.unexpected {
				if strings.Contains(result, unexpected) {
					t.Errorf("BuildReplicationCommand() result should not contain %q, got %q", unexpected, result)
				}
			}

			expectedPrefix := "gh migrate-settings " + tt.command
			if !strings.HasPrefix(result, expectedPrefix) {
				t.Errorf("BuildReplicationCommand() result should start with %q, got %q", expectedPrefix, result)
			}
		})
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "No spaces - no quotes",
			input:    "repos.csv",
			expected: "repos.csv",
		},
		{
			name:     "With spaces - add quotes",
			input:    "my repos.csv",
			expected: "\"my repos.csv\"",
		},
		{
			name:     "Empty string - no quotes",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := quoteIfNeeded(tt.input)
			if result != tt.expected {
				t.Errorf("quoteIfNeeded() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestFlagString(t *testing.T) {
	tests := []struct {
		flagName string
		expected string
	}{
		{"hostname", "-u"},
		{"org", "-o"},
		{"repo-list", "-l"},
		{"settings", "-s"},
		{"delay", "-d"},
		{"include-ghas", "--include-ghas"},
		{"dry-run", "--dry-run"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			result := flagString(tt.flagName)
			if result != tt.expected {
				t.Errorf("flagString(%q) = %q, want %q", tt.flagName, result, tt.expected)
			}
		})
	}
}
