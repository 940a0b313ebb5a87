package ui

import (
	"github.com/pterm/pterm"

	"github.com/callmegreg/gh-migrate-settings/internal/settings"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

// GetActionsPolicyInput builds the overlay of an Actions policy update from
// the provided flags, prompting for the values that were not provided
func GetActionsPolicyInput(enabledRepositories, allowedActions string) (map[string]any, error) {
	if (enabledRepositories == "" || allowedActions == "") && Interactive() {
		pterm.Info.Println("Configure the GitHub Actions policy:")
	}

	overlay := make(map[string]any)

	enabled, err := SelectEnumInput(types.OrgActionsEnabledRepositories, enabledRepositories, "Repositories allowed to run GitHub Actions")
	if err != nil {
		return nil, err
	}
	if enabled != "" {
		overlay["enabled_repositories"] = enabled
	}

	allowed, err := SelectEnumInput(types.OrgAllowedActions, allowedActions, "Actions and reusable workflows allowed")
	if err != nil {
		return nil, err
	}
	if allowed != "" {
		overlay["allowed_actions"] = allowed
	}

	return overlay, nil
}

// SelectEnumInput prompts for a member of e, returning its wire token, or
// uses the provided value. An empty result means the setting is left as is.
func SelectEnumInput(e *settings.Enum, value, prompt string) (string, error) {
	if value != "" {
		member, err := e.Parse(value)
		if err != nil {
			return "", err
		}
		return e.Token(member), nil
	}
	if !Interactive() {
		return "", nil
	}

	const keep = "(keep current)"
	options := append([]string{keep}, e.Tokens()...)
	selected, err := pterm.DefaultInteractiveSelect.WithOptions(options).WithDefaultOption(keep).Show(prompt)
	if err != nil {
		return "", err
	}
	if selected == keep {
		return "", nil
	}
	return selected, nil
}
