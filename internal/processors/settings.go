package processors

import (
	"context"
	"fmt"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/settings"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
	"github.com/callmegreg/gh-migrate-settings/internal/ui"
)

// SettingsProcessor implements RepositoryProcessor for the repo settings load
// command
type SettingsProcessor struct {
	Client      api.GitHubClient
	Org         string
	Overlay     map[string]any
	IncludeGhas bool
	DryRun      bool
}

// ProcessRepository loads the overlay into a single repository
func (sp *SettingsProcessor) ProcessRepository(ctx context.Context, repo string) types.ProcessingResult {
	result, err := api.LoadRepoSettings(ctx, sp.Client, sp.Org, repo, sp.Overlay, sp.IncludeGhas, sp.DryRun)
	return settingsResult(fmt.Sprintf("%s/%s", sp.Org, repo), repo, result, err)
}

// CopyProcessor implements RepositoryProcessor for the repo settings copy
// command: each repository is copied to the repository named in Renames, or
// to the repository of the same name in the destination organization
type CopyProcessor struct {
	Source      api.GitHubClient
	SrcOrg      string
	Dest        api.GitHubClient
	DestOrg     string
	Renames     map[string]string
	IncludeGhas bool
	DryRun      bool
}

// ProcessRepository copies the settings of a single repository
func (cp *CopyProcessor) ProcessRepository(ctx context.Context, repo string) types.ProcessingResult {
	dest := destName(cp.Renames, repo)
	result, err := api.CopyRepoSettings(ctx, cp.Source, cp.SrcOrg, repo, cp.Dest, cp.DestOrg, dest, cp.IncludeGhas, cp.DryRun)
	return settingsResult(fmt.Sprintf("%s/%s", cp.DestOrg, dest), repo, result, err)
}

// destName returns the destination of repo, which defaults to the same name
func destName(renames map[string]string, repo string) string {
	if dest, ok := renames[repo]; ok {
		return dest
	}
	return repo
}

func settingsResult(target, repo string, result settings.Result[types.RepoSettings], err error) types.ProcessingResult {
	if err != nil {
		return types.ProcessingResult{Repository: repo, Error: err}
	}

	ui.DisplayChanges(target, result.Changes, result.Written)
	if !result.Written {
		return types.ProcessingResult{Repository: repo, Skipped: true, Changes: len(result.Changes)}
	}
	return types.ProcessingResult{Repository: repo, Success: true, Changes: len(result.Changes)}
}
