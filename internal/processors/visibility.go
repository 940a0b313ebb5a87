package processors

import (
	"context"

	"github.com/pterm/pterm"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

// VisibilityProcessor implements RepositoryProcessor for the repo visibility
// set and copy commands. With Source set, the visibility of the repository in
// SrcOrg is copied to its destination in Org, named by Renames or the same
// name; otherwise Visibility is applied.
type VisibilityProcessor struct {
	Client     api.GitHubClient
	Org        string
	Visibility string
	Source     api.GitHubClient
	SrcOrg     string
	Renames    map[string]string
}

// ProcessRepository sets the visibility of a single repository
func (vp *VisibilityProcessor) ProcessRepository(ctx context.Context, repo string) types.ProcessingResult {
	target := repo
	var (
		changed bool
		err     error
	)
	if vp.Source != nil {
		target = destName(vp.Renames, repo)
		changed, err = api.CopyRepoVisibility(ctx, vp.Source, vp.SrcOrg, repo, vp.Client, vp.Org, target)
	} else {
		changed, err = api.SetRepoVisibility(ctx, vp.Client, vp.Org, repo, vp.Visibility)
	}
	if err != nil {
		return types.ProcessingResult{Repository: repo, Error: err}
	}

	if !changed {
		pterm.Info.Printf("Visibility of '%s/%s' is already up to date, skipping\n", vp.Org, target)
		return types.ProcessingResult{Repository: repo, Skipped: true}
	}
	return types.ProcessingResult{Repository: repo, Success: true, Changes: 1}
}
