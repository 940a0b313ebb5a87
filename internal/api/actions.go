package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/callmegreg/gh-migrate-settings/internal/settings"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

func actionsPath(org string) string {
	return fmt.Sprintf("orgs/%s/actions/permissions", org)
}

// GetOrgActionsPermissions retrieves the GitHub Actions policy of an
// organization
func GetOrgActionsPermissions(ctx context.Context, c GitHubClient, org string) (types.OrgActionsPermissions, error) {
	var doc map[string]any
	if err := c.FetchResource(ctx, actionsPath(org), &doc); err != nil {
		return types.OrgActionsPermissions{}, err
	}
	return types.OrgActionsPermissionsSchema.Decode(doc)
}

// SetOrgActionsPermissions writes the GitHub Actions policy of an organization.
// The API does not return the applied policy.
func SetOrgActionsPermissions(ctx context.Context, c GitHubClient, org string, rec types.OrgActionsPermissions) error {
	body, err := types.OrgActionsPermissionsSchema.EncodeWrite(rec)
	if err != nil {
		return err
	}
	return c.WriteResource(ctx, http.MethodPut, actionsPath(org), body, nil)
}

// GetOrgAllowedActions retrieves the actions allowed when the policy allows
// selected actions
func GetOrgAllowedActions(ctx context.Context, c GitHubClient, org string) (types.OrgSelectedActions, error) {
	var doc map[string]any
	if err := c.FetchResource(ctx, actionsPath(org)+"/selected-actions", &doc); err != nil {
		return types.OrgSelectedActions{}, err
	}
	return types.OrgSelectedActionsSchema.Decode(doc)
}

// SetOrgAllowedActions writes the actions allowed when the policy allows
// selected actions
func SetOrgAllowedActions(ctx context.Context, c GitHubClient, org string, rec types.OrgSelectedActions) error {
	body, err := types.OrgSelectedActionsSchema.EncodeWrite(rec)
	if err != nil {
		return err
	}
	return c.WriteResource(ctx, http.MethodPut, actionsPath(org)+"/selected-actions", body, nil)
}

// ListOrgActionsEnabledRepos lists the repositories allowed to run GitHub
// Actions when the policy enables selected repositories
func ListOrgActionsEnabledRepos(ctx context.Context, c GitHubClient, org string) ([]types.Repo, error) {
	return collectRepositories(ctx, c, actionsPath(org)+"/repositories")
}

// UpdateOrgActionsPermissions merges overlay into the Actions policy of an
// organization and writes it only when something changed
func UpdateOrgActionsPermissions(ctx context.Context, c GitHubClient, org string, overlay map[string]any, dryRun bool) (settings.Result[types.OrgActionsPermissions], error) {
	current, err := GetOrgActionsPermissions(ctx, c, org)
	if err != nil {
		return settings.Result[types.OrgActionsPermissions]{}, err
	}

	var write settings.WriteFunc[types.OrgActionsPermissions]
	if !dryRun {
		write = func(ctx context.Context, desired types.OrgActionsPermissions) (types.OrgActionsPermissions, error) {
			if err := SetOrgActionsPermissions(ctx, c, org, desired); err != nil {
				return types.OrgActionsPermissions{}, err
			}
			return desired, nil
		}
	}
	return settings.Reconcile(ctx, types.OrgActionsPermissionsSchema, current, overlay, write)
}

// CopyOrgActionsPermissions applies the Actions policy of one organization to
// another, including the allowed actions when the source allows selected
// actions
func CopyOrgActionsPermissions(ctx context.Context, src GitHubClient, srcOrg string, dest GitHubClient, destOrg string, dryRun bool) ([]settings.Change, error) {
	source, err := GetOrgActionsPermissions(ctx, src, srcOrg)
	if err != nil {
		return nil, err
	}
	overlay, err := types.OrgActionsPermissionsSchema.EncodeWrite(source)
	if err != nil {
		return nil, err
	}
	res, err := UpdateOrgActionsPermissions(ctx, dest, destOrg, overlay, dryRun)
	if err != nil {
		return nil, err
	}
	changes := res.Changes

	if source.AllowedActions != "SELECTED" {
		return changes, nil
	}

	selected, err := GetOrgAllowedActions(ctx, src, srcOrg)
	if err != nil {
		return changes, err
	}
	var current types.OrgSelectedActions
	if res.Current.AllowedActions == "SELECTED" {
		if current, err = GetOrgAllowedActions(ctx, dest, destOrg); err != nil {
			return changes, err
		}
	} else {
		current = types.OrgSelectedActionsSchema.Defaults()
	}

	var write settings.WriteFunc[types.OrgSelectedActions]
	if !dryRun {
		write = func(ctx context.Context, desired types.OrgSelectedActions) (types.OrgSelectedActions, error) {
			return desired, SetOrgAllowedActions(ctx, dest, destOrg, desired)
		}
	}
	selectedRes, err := settings.Apply(ctx, types.OrgSelectedActionsSchema, current, selected, write)
	if err != nil {
		return changes, err
	}
	return append(changes, selectedRes.Changes...), nil
}
