package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/config"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
	"github.com/callmegreg/gh-migrate-settings/internal/ui"
)

var orgSecretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "List and write organization Actions secrets",
}

var orgSecretsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the Actions secrets of an organization",
	Long:  "List the Actions secrets of an organization with their visibility. Secret values cannot be read back.",
	Args:  cobra.NoArgs,
	RunE:  runOrgSecretsList,
}

var orgSecretsSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update an organization Actions secret",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrgSecretsSet,
}

var orgSecretsLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Create or update organization Actions secrets from a YAML or JSON file",
	Long: `Create or update every secret in a flat YAML or JSON mapping of names to values.
Names are converted to upper case.`,
	Args: cobra.NoArgs,
	RunE: runOrgSecretsLoad,
}

// orgSecretEntry is the listed form of an organization secret
type orgSecretEntry struct {
	Name                 string   `json:"name" yaml:"name"`
	Visibility           string   `json:"visibility" yaml:"visibility"`
	SelectedRepositories []string `json:"selected_repositories,omitempty" yaml:"selected_repositories,omitempty"`
	UpdatedAt            string   `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func init() {
	for _, cmd := range []*cobra.Command{orgSecretsListCmd, orgSecretsSetCmd, orgSecretsLoadCmd} {
		config.AddTargetFlags(cmd.Flags())
	}
	addOutputFlags(orgSecretsListCmd)

	for _, cmd := range []*cobra.Command{orgSecretsSetCmd, orgSecretsLoadCmd} {
		cmd.Flags().String("visibility", "private", "Secret visibility: "+joinTokens(types.OrgSecretVisibility.Tokens()))
		cmd.Flags().StringSlice("repos", nil, "Repositories that can access the secret when the visibility is 'selected'")
	}
	orgSecretsSetCmd.Flags().String("value", "", "The secret value; prompted for when omitted")
	addLoadFlags(orgSecretsLoadCmd)

	orgSecretsCmd.AddCommand(orgSecretsListCmd, orgSecretsSetCmd, orgSecretsLoadCmd)
}

func runOrgSecretsList(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}

	secrets, err := api.ListOrgSecrets(cmd.Context(), client, target.Org)
	if err != nil {
		return err
	}

	entries := make([]orgSecretEntry, 0, len(secrets))
	for _, secret := range secrets {
		entry := orgSecretEntry{
			Name:       secret.Name,
			Visibility: types.OrgSecretVisibility.Token(secret.Visibility),
			UpdatedAt:  secret.UpdatedAt,
		}
		if secret.Visibility == types.SecretVisibilitySelected && secret.SelectedRepositoriesURL != "" {
			repos, err := api.ListOrgSelectedReposForSecret(cmd.Context(), client, secret.SelectedRepositoriesURL)
			if err != nil {
				return err
			}
			for _, repo := range repos {
				entry.SelectedRepositories = append(entry.SelectedRepositories, repo.Name)
			}
		}
		entries = append(entries, entry)
	}
	return writeOutput(cmd, entries)
}

// secretAccess resolves the visibility flag and the IDs of the --repos
// repositories
func secretAccess(ctx context.Context, cmd *cobra.Command, client api.GitHubClient, org string) (string, []int64, error) {
	visibilityFlag, _ := cmd.Flags().GetString("visibility")
	visibility, err := types.OrgSecretVisibility.Parse(visibilityFlag)
	if err != nil {
		return "", nil, err
	}
	repos, _ := cmd.Flags().GetStringSlice("repos")

	if visibility != types.SecretVisibilitySelected {
		if len(repos) > 0 {
			return "", nil, fmt.Errorf("--repos requires the 'selected' visibility")
		}
		return visibility, nil, nil
	}

	ids := make([]int64, 0, len(repos))
	for _, repo := range repos {
		id, err := api.GetRepositoryID(ctx, client, org, repo)
		if err != nil {
			return "", nil, fmt.Errorf("failed to look up repository '%s': %w", repo, err)
		}
		ids = append(ids, id)
	}
	return visibility, ids, nil
}

func runOrgSecretsSet(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}
	visibility, ids, err := secretAccess(cmd.Context(), cmd, client, target.Org)
	if err != nil {
		return err
	}

	valueFlag, _ := cmd.Flags().GetString("value")
	value, err := ui.GetSecretValue(args[0], valueFlag)
	if err != nil {
		return err
	}

	if err := api.SetOrgSecret(cmd.Context(), client, target.Org, args[0], value, visibility, ids); err != nil {
		return err
	}
	pterm.Success.Printf("Set secret '%s' in '%s'\n", args[0], target.Org)
	return nil
}

func runOrgSecretsLoad(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}
	secrets, err := readSecrets(cmd, true)
	if err != nil {
		return err
	}
	visibility, ids, err := secretAccess(cmd.Context(), cmd, client, target.Org)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(secrets))
	for name := range secrets {
		names = append(names, name)
	}
	slices.Sort(names)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		pterm.Info.Printf("Would set %d secrets in '%s' with %s visibility\n", len(names), target.Org, types.OrgSecretVisibility.Token(visibility))
		for _, name := range names {
			pterm.Printf("  %s\n", pterm.Cyan(name))
		}
		return nil
	}

	for _, name := range names {
		if err := api.SetOrgSecret(cmd.Context(), client, target.Org, name, secrets[name], visibility, ids); err != nil {
			return fmt.Errorf("failed to set secret '%s': %w", name, err)
		}
		pterm.Success.Printf("Set secret '%s'\n", name)
	}
	return nil
}
