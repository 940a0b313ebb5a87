package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/config"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
	"github.com/callmegreg/gh-migrate-settings/internal/ui"
)

var orgActionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Manage the GitHub Actions policy of an organization",
}

var orgActionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the GitHub Actions policy of an organization",
	Args:  cobra.NoArgs,
	RunE:  runOrgActionsList,
}

var orgActionsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the GitHub Actions policy of an organization",
	Long: `Change which repositories may run GitHub Actions and which actions they may use.
Values that are not passed as flags are prompted for on an interactive terminal.`,
	Args: cobra.NoArgs,
	RunE: runOrgActionsSet,
}

var orgActionsListAllowedCmd = &cobra.Command{
	Use:   "list-allowed-actions",
	Short: "Print the actions allowed when the policy allows selected actions",
	Args:  cobra.NoArgs,
	RunE:  runOrgActionsListAllowed,
}

var orgActionsListReposCmd = &cobra.Command{
	Use:   "list-repos",
	Short: "List the repositories allowed to run GitHub Actions when the policy enables selected repositories",
	Args:  cobra.NoArgs,
	RunE:  runOrgActionsListRepos,
}

var orgActionsCopyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the GitHub Actions policy of one organization to another",
	Args:  cobra.NoArgs,
	RunE:  runOrgActionsCopy,
}

func init() {
	for _, cmd := range []*cobra.Command{orgActionsListCmd, orgActionsSetCmd, orgActionsListAllowedCmd, orgActionsListReposCmd} {
		config.AddTargetFlags(cmd.Flags())
	}
	config.AddMigrationFlags(orgActionsCopyCmd.Flags())

	addOutputFlags(orgActionsListCmd)
	addOutputFlags(orgActionsListAllowedCmd)
	addOutputFlags(orgActionsListReposCmd)

	orgActionsSetCmd.Flags().String("enabled-repositories", "", "Repositories allowed to run GitHub Actions: "+joinTokens(types.OrgActionsEnabledRepositories.Tokens()))
	orgActionsSetCmd.Flags().String("allowed-actions", "", "Actions allowed to run: "+joinTokens(types.OrgAllowedActions.Tokens()))
	orgActionsSetCmd.Flags().Bool("dry-run", false, "Show the changes without writing them")
	orgActionsCopyCmd.Flags().Bool("dry-run", false, "Show the changes without writing them")

	orgActionsCmd.AddCommand(orgActionsListCmd, orgActionsSetCmd, orgActionsListAllowedCmd, orgActionsListReposCmd, orgActionsCopyCmd)
}

func runOrgActionsList(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}

	rec, err := api.GetOrgActionsPermissions(cmd.Context(), client, target.Org)
	if err != nil {
		return err
	}
	doc, err := types.OrgActionsPermissionsSchema.Encode(rec)
	if err != nil {
		return err
	}
	return writeOutput(cmd, doc)
}

func runOrgActionsSet(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}
	enabled, _ := cmd.Flags().GetString("enabled-repositories")
	allowed, _ := cmd.Flags().GetString("allowed-actions")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	overlay, err := ui.GetActionsPolicyInput(enabled, allowed)
	if err != nil {
		return err
	}
	if len(overlay) == 0 {
		pterm.Warning.Println("No policy values given, nothing to change.")
		return nil
	}

	result, err := api.UpdateOrgActionsPermissions(cmd.Context(), client, target.Org, overlay, dryRun)
	if err != nil {
		return err
	}
	ui.DisplayChanges(target.Org, result.Changes, result.Written)
	return nil
}

func runOrgActionsListAllowed(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}

	rec, err := api.GetOrgAllowedActions(cmd.Context(), client, target.Org)
	if err != nil {
		return err
	}
	doc, err := types.OrgSelectedActionsSchema.Encode(rec)
	if err != nil {
		return err
	}
	return writeOutput(cmd, doc)
}

func runOrgActionsListRepos(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}

	repos, err := api.ListOrgActionsEnabledRepos(cmd.Context(), client, target.Org)
	if err != nil {
		return err
	}
	return writeOutput(cmd, repos)
}

func runOrgActionsCopy(cmd *cobra.Command, args []string) error {
	src, dest, m, err := migrationClients(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	pterm.Info.Printf("Copying the GitHub Actions policy of '%s' to '%s'\n", m.SrcOrg, m.DestOrg)
	changes, err := api.CopyOrgActionsPermissions(cmd.Context(), src, m.SrcOrg, dest, m.DestOrg, dryRun)
	if err != nil {
		return err
	}
	ui.DisplayChanges(m.DestOrg, changes, !dryRun)
	return nil
}
