package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pterm/pterm"

	"github.com/callmegreg/gh-migrate-settings/internal/settings"
)

func colorValue(value any) string {
	if value == nil {
		return pterm.Gray("null")
	}
	valueStr := fmt.Sprintf("%v", value)
	switch valueStr {
	case "true", "enabled":
		return pterm.Green(valueStr)
	case "false", "disabled":
		return pterm.Red(valueStr)
	default:
		return pterm.Yellow(valueStr)
	}
}

// DisplaySettings shows a settings document with colored values, sorted by key
func DisplaySettings(doc map[string]any) {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		pterm.Printf("  %s: %s\n", pterm.Cyan(key), colorValue(doc[key]))
	}
}

// DisplayChanges shows the fields that a load or copy changes
func DisplayChanges(target string, changes []settings.Change, written bool) {
	if len(changes) == 0 {
		pterm.Info.Printf("%s is already up to date\n", target)
		return
	}

	if written {
		pterm.Success.Printf("Updated %d settings of %s\n", len(changes), target)
	} else {
		pterm.Info.Printf("%d settings of %s would change\n", len(changes), target)
	}
	for _, change := range changes {
		pterm.Printf("  %s: %s → %s\n", pterm.Cyan(change.Field), colorValue(change.Old), colorValue(change.New))
	}
}

// ShowNoRepositoriesWarning displays appropriate warning based on source
func ShowNoRepositoriesWarning(repoListPath string) {
	if repoListPath != "" {
		pterm.Warning.Println("No valid repositories found in the CSV file.")
	} else {
		pterm.Warning.Println("No repositories to process.")
	}
}

// ShowOperationCancelled displays cancellation message
func ShowOperationCancelled() {
	pterm.Info.Println("Operation cancelled.")
}

// ShowProcessingStartWithDelay displays the start of processing with delay info
func ShowProcessingStartWithDelay(repoCount, delay int) {
	if delay > 0 {
		pterm.Info.Printf("Processing %d repositories sequentially with %d second delay between repositories...\n", repoCount, delay)
		return
	}
	pterm.Info.Printf("Processing %d repositories sequentially...\n", repoCount)
}

// PrintCompletionHeader prints the completion header with results
func PrintCompletionHeader(operation string, successCount, skippedCount, errorCount int) {
	style := pterm.NewStyle(pterm.BgGreen)
	if errorCount > 0 {
		style = pterm.NewStyle(pterm.BgYellow)
	}
	pterm.DefaultHeader.WithFullWidth().WithBackgroundStyle(style).WithTextStyle(pterm.NewStyle(pterm.FgBlack)).Printf("%s Complete! (Success: %d, Skipped: %d, Errors: %d)", operation, successCount, skippedCount, errorCount)
}

// ShowVisibility prints a repository visibility the way it is written on the
// wire
func ShowVisibility(repo, visibility string) {
	pterm.Printf("%s: %s\n", pterm.Cyan(repo), pterm.Yellow(strings.ToLower(visibility)))
}
