package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/callmegreg/gh-migrate-settings/internal/settings"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

func repoPath(org, repo string) string {
	return fmt.Sprintf("repos/%s/%s", org, repo)
}

// GetRepositoryID retrieves the numeric ID of a repository
func GetRepositoryID(ctx context.Context, c GitHubClient, org, repo string) (int64, error) {
	var payload struct {
		ID int64 `json:"id"`
	}
	if err := c.FetchResource(ctx, repoPath(org, repo), &payload); err != nil {
		return 0, err
	}
	return payload.ID, nil
}

// GetRepoSettings retrieves the settings of a repository. GHAS settings are
// only read when includeGhas is set.
func GetRepoSettings(ctx context.Context, c GitHubClient, org, repo string, includeGhas bool) (types.RepoSettings, error) {
	var doc map[string]any
	if err := c.FetchResource(ctx, repoPath(org, repo), &doc); err != nil {
		return types.RepoSettings{}, err
	}
	rec, err := types.DecodeRepoSettings(doc, includeGhas)
	if err != nil {
		return types.RepoSettings{}, fmt.Errorf("failed to read settings of '%s/%s': %w", org, repo, err)
	}
	return rec, nil
}

// SetRepoSettings writes the settings of a repository in a single update. The
// security_and_analysis group is only sent when GHAS settings are present.
func SetRepoSettings(ctx context.Context, c GitHubClient, org, repo string, rec types.RepoSettings) (types.RepoSettings, error) {
	body, err := rec.WriteBody()
	if err != nil {
		return types.RepoSettings{}, err
	}

	var doc map[string]any
	if err := c.WriteResource(ctx, http.MethodPatch, repoPath(org, repo), body, &doc); err != nil {
		return types.RepoSettings{}, err
	}
	return types.DecodeRepoSettings(doc, rec.Ghas != nil)
}

// LoadRepoSettings merges overlay into the current settings of a repository
// and writes them only when something changed
func LoadRepoSettings(ctx context.Context, c GitHubClient, org, repo string, overlay map[string]any, includeGhas, dryRun bool) (settings.Result[types.RepoSettings], error) {
	current, err := GetRepoSettings(ctx, c, org, repo, includeGhas)
	if err != nil {
		return settings.Result[types.RepoSettings]{}, err
	}

	desired, err := types.RepoSettingsSchema.Merge(current, overlay)
	if err != nil {
		return settings.Result[types.RepoSettings]{Current: current}, fmt.Errorf("failed to update settings of '%s/%s': %w", org, repo, err)
	}
	if !includeGhas {
		desired.Ghas = nil
	}

	var write settings.WriteFunc[types.RepoSettings]
	if !dryRun {
		write = func(ctx context.Context, desired types.RepoSettings) (types.RepoSettings, error) {
			return SetRepoSettings(ctx, c, org, repo, desired)
		}
	}
	return settings.Apply(ctx, types.RepoSettingsSchema, current, desired, write)
}

// CopyRepoSettings applies the settings of one repository to another
func CopyRepoSettings(ctx context.Context, src GitHubClient, srcOrg, srcRepo string, dest GitHubClient, destOrg, destRepo string, includeGhas, dryRun bool) (settings.Result[types.RepoSettings], error) {
	source, err := GetRepoSettings(ctx, src, srcOrg, srcRepo, includeGhas)
	if err != nil {
		return settings.Result[types.RepoSettings]{}, err
	}
	overlay, err := source.Document()
	if err != nil {
		return settings.Result[types.RepoSettings]{}, err
	}
	return LoadRepoSettings(ctx, dest, destOrg, destRepo, overlay, includeGhas, dryRun)
}

// GetRepoVisibility returns the visibility member of a repository
func GetRepoVisibility(ctx context.Context, c GitHubClient, org, repo string) (string, error) {
	rec, err := GetRepoSettings(ctx, c, org, repo, false)
	if err != nil {
		return "", err
	}
	return rec.Visibility, nil
}

// SetRepoVisibility changes the visibility of a repository when it differs and
// reports whether a write was issued
func SetRepoVisibility(ctx context.Context, c GitHubClient, org, repo, visibility string) (bool, error) {
	member, err := types.RepoVisibility.Parse(visibility)
	if err != nil {
		return false, err
	}
	current, err := GetRepoVisibility(ctx, c, org, repo)
	if err != nil {
		return false, err
	}
	if current == member {
		return false, nil
	}

	body := map[string]any{"visibility": types.RepoVisibility.Token(member)}
	if err := c.WriteResource(ctx, http.MethodPatch, repoPath(org, repo), body, nil); err != nil {
		return false, err
	}
	return true, nil
}

// CopyRepoVisibility applies the visibility of one repository to another
func CopyRepoVisibility(ctx context.Context, src GitHubClient, srcOrg, srcRepo string, dest GitHubClient, destOrg, destRepo string) (bool, error) {
	visibility, err := GetRepoVisibility(ctx, src, srcOrg, srcRepo)
	if err != nil {
		return false, err
	}
	return SetRepoVisibility(ctx, dest, destOrg, destRepo, visibility)
}
