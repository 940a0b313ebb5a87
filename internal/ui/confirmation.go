package ui

import (
	"github.com/pterm/pterm"
)

// ConfirmBulkOperation shows a bulk load summary and asks for confirmation.
// Without an interactive terminal the operation proceeds.
func ConfirmBulkOperation(operation string, repos []string, overlay map[string]any, dryRun bool) (bool, error) {
	pterm.Println()
	pterm.DefaultHeader.WithFullWidth().WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).WithTextStyle(pterm.NewStyle(pterm.FgBlack)).Println("Operation Summary")

	pterm.Printf("Operation: %s\n", pterm.Yellow(operation))
	pterm.Printf("Repositories: %d\n", len(repos))
	if dryRun {
		pterm.Printf("Mode: %s\n", pterm.Cyan("dry run"))
	}
	pterm.Println()

	if len(overlay) > 0 {
		pterm.Info.Println("Settings:")
		DisplaySettings(overlay)
		pterm.Println()
	}

	if dryRun || !Interactive() {
		return true, nil
	}

	confirmed, err := pterm.DefaultInteractiveConfirm.WithDefaultText("Proceed?").WithDefaultValue(false).Show()
	if err != nil {
		return false, err
	}

	return confirmed, nil
}
