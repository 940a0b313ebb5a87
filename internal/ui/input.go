package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Interactive reports whether prompts can be shown
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// GetEnterpriseInput prompts for enterprise slug or uses provided value
func GetEnterpriseInput(enterpriseFlag string) (string, error) {
	if strings.TrimSpace(enterpriseFlag) != "" {
		return strings.TrimSpace(enterpriseFlag), nil
	}
	if !Interactive() {
		return "", fmt.Errorf("enterprise slug is required when targeting GitHub.com")
	}

	enterprise, err := pterm.DefaultInteractiveTextInput.WithDefaultText("").WithMultiLine(false).Show("Enter the enterprise slug (e.g., github)")
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(enterprise) == "" {
		return "", fmt.Errorf("enterprise slug is required")
	}

	return strings.TrimSpace(enterprise), nil
}

// GetSecretValue prompts for a secret value with masked input or uses the
// provided value
func GetSecretValue(name, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	if !Interactive() {
		return "", fmt.Errorf("a value is required for secret '%s'", name)
	}

	secret, err := pterm.DefaultInteractiveTextInput.WithMask("*").WithMultiLine(false).Show(fmt.Sprintf("Enter the value of %s", name))
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", fmt.Errorf("a value is required for secret '%s'", name)
	}
	return secret, nil
}
