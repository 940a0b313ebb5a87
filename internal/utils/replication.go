package utils

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// flagOrder lists the flags carried into a replication command. Tokens and
// key paths are never included.
var flagOrder = []string{
	"hostname",
	"org",
	"src-hostname",
	"src-org",
	"dest-hostname",
	"dest-org",
	"config",
	"prefix",
	"repo-list",
	"settings",
	"visibility",
	"include-ghas",
	"dry-run",
	"delay",
}

var shortFlags = map[string]string{
	"hostname":  "u",
	"org":       "o",
	"config":    "c",
	"prefix":    "p",
	"repo-list": "l",
	"settings":  "s",
	"delay":     "d",
}

// BuildReplicationCommand creates a command string that can be used to replicate the same action
func BuildReplicationCommand(command string, flags map[string]any) string {
	var parts []string
	parts = append(parts, "gh migrate-settings", command)

	for _, flagName := range flagOrder {
		value, exists := flags[flagName]
		if !exists || value == nil {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" && !(strings.HasSuffix(flagName, "hostname") && v == "api.github.com") {
				parts = append(parts, fmt.Sprintf("%s %s", flagString(flagName), quoteIfNeeded(v)))
			}
		case bool:
			if v {
				parts = append(parts, flagString(flagName))
			}
		case int:
			if v > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", flagString(flagName), v))
			}
		}
	}

	return strings.Join(parts, " ")
}

func flagString(flagName string) string {
	if short, ok := shortFlags[flagName]; ok {
		return "-" + short
	}
	return "--" + flagName
}

// quoteIfNeeded adds quotes around a string if it contains spaces
func quoteIfNeeded(s string) string {
	if strings.Contains(s, " ") {
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}

// ShowReplicationCommand displays the replication command to the user
func ShowReplicationCommand(command string) {
	pterm.Println()
	pterm.Info.Println("To replicate this operation, use the following command:")
	pterm.Println()

	boxedCommand := pterm.DefaultBox.
		WithTitle("Replication Command").
		WithTitleTopCenter().
		WithRightPadding(2).
		WithLeftPadding(2).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(command)

	pterm.Println(boxedCommand)
}
