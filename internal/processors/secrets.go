package processors

import (
	"context"
	"fmt"
	"slices"

	"github.com/pterm/pterm"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

// SecretsProcessor implements RepositoryProcessor for the repo secrets load
// command
type SecretsProcessor struct {
	Client  api.GitHubClient
	Org     string
	Secrets map[string]string
	DryRun  bool
}

// ProcessRepository writes every secret to a single repository
func (sp *SecretsProcessor) ProcessRepository(ctx context.Context, repo string) types.ProcessingResult {
	if len(sp.Secrets) == 0 {
		return types.ProcessingResult{Repository: repo, Skipped: true}
	}

	names := make([]string, 0, len(sp.Secrets))
	for name := range sp.Secrets {
		names = append(names, name)
	}
	slices.Sort(names)

	if sp.DryRun {
		pterm.Info.Printf("Would set %d secrets on '%s/%s'\n", len(names), sp.Org, repo)
		return types.ProcessingResult{Repository: repo, Skipped: true, Changes: len(names)}
	}

	for i, name := range names {
		if err := api.SetRepoSecret(ctx, sp.Client, sp.Org, repo, name, sp.Secrets[name]); err != nil {
			return types.ProcessingResult{Repository: repo, Changes: i, Error: fmt.Errorf("failed to set secret '%s': %w", name, err)}
		}
	}
	return types.ProcessingResult{Repository: repo, Success: true, Changes: len(names)}
}
