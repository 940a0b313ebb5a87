package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/config"
	"github.com/callmegreg/gh-migrate-settings/internal/processors"
	"github.com/callmegreg/gh-migrate-settings/internal/ui"
	"github.com/callmegreg/gh-migrate-settings/internal/utils"
)

var repoSecretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "List and write repository Actions secrets",
}

var repoSecretsListCmd = &cobra.Command{
	Use:   "list <repo>",
	Short: "List the Actions secrets of a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepoSecretsList,
}

var repoSecretsSetCmd = &cobra.Command{
	Use:   "set <repo> <name>",
	Short: "Create or update a repository or environment Actions secret",
	Args:  cobra.ExactArgs(2),
	RunE:  runRepoSecretsSet,
}

var repoSecretsLoadCmd = &cobra.Command{
	Use:   "load [repo]",
	Short: "Create or update repository Actions secrets from a YAML or JSON file",
	Long: `Create or update every secret in a flat YAML or JSON mapping of names to values.
Use --repo-list to write the same secrets to many repositories.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepoSecretsLoad,
}

func init() {
	for _, cmd := range []*cobra.Command{repoSecretsListCmd, repoSecretsSetCmd, repoSecretsLoadCmd} {
		config.AddTargetFlags(cmd.Flags())
	}
	addOutputFlags(repoSecretsListCmd)

	repoSecretsSetCmd.Flags().String("value", "", "The secret value; prompted for when omitted")
	repoSecretsSetCmd.Flags().String("env", "", "Write the secret to this deployment environment")

	addLoadFlags(repoSecretsLoadCmd)
	utils.AddBulkFlags(repoSecretsLoadCmd)

	repoSecretsCmd.AddCommand(repoSecretsListCmd, repoSecretsSetCmd, repoSecretsLoadCmd)
}

func runRepoSecretsList(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}

	secrets, err := api.ListRepoSecrets(cmd.Context(), client, target.Org, args[0])
	if err != nil {
		return err
	}
	return writeOutput(cmd, secrets)
}

func runRepoSecretsSet(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}
	repo, name := args[0], args[1]
	if err := utils.ValidateRepositoryName(repo); err != nil {
		return err
	}

	valueFlag, _ := cmd.Flags().GetString("value")
	value, err := ui.GetSecretValue(name, valueFlag)
	if err != nil {
		return err
	}

	env, _ := cmd.Flags().GetString("env")
	if env != "" {
		if err := api.SetEnvironmentSecret(cmd.Context(), client, target.Org, repo, env, name, value); err != nil {
			return err
		}
		pterm.Success.Printf("Set secret '%s' in environment '%s' of '%s/%s'\n", name, env, target.Org, repo)
		return nil
	}

	if err := api.SetRepoSecret(cmd.Context(), client, target.Org, repo, name, value); err != nil {
		return err
	}
	pterm.Success.Printf("Set secret '%s' in '%s/%s'\n", name, target.Org, repo)
	return nil
}

func runRepoSecretsLoad(cmd *cobra.Command, args []string) error {
	bulk, err := utils.ExtractBulkFlags(cmd, args)
	if err != nil {
		return err
	}
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}
	secrets, err := readSecrets(cmd, false)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	processor := &processors.SecretsProcessor{
		Client:  client,
		Org:     target.Org,
		Secrets: secrets,
		DryRun:  dryRun,
	}
	return runRepositories(cmd, "Repository Secrets Load", bulk, nil, dryRun, processor)
}
