package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/config"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
	"github.com/callmegreg/gh-migrate-settings/internal/ui"
)

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Manage organization settings, secrets, IP allow lists and Actions policies",
}

var orgSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read, copy and load organization settings",
}

var orgSettingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the settings of an organization",
	Args:  cobra.NoArgs,
	RunE:  runOrgSettingsList,
}

var orgSettingsCopyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the settings of one organization to another",
	Long: `Copy the settings of the source organization to the destination organization.

The organization name is never copied. Settings are only written when the destination differs.`,
	Args: cobra.NoArgs,
	RunE: runOrgSettingsCopy,
}

var orgSettingsLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load organization settings from a YAML or JSON file",
	Long: `Merge the settings in the file into the current settings of the organization and write
them when something changed. Keys may use either the settings names printed by 'list' or the
names used by the GitHub API.`,
	Args: cobra.NoArgs,
	RunE: runOrgSettingsLoad,
}

var orgReposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List the repositories of an organization",
}

var orgReposListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the repositories of an organization",
	Args:  cobra.NoArgs,
	RunE:  runOrgReposList,
}

func init() {
	for _, cmd := range []*cobra.Command{orgSettingsListCmd, orgSettingsLoadCmd, orgReposListCmd} {
		config.AddTargetFlags(cmd.Flags())
	}
	config.AddMigrationFlags(orgSettingsCopyCmd.Flags())

	addOutputFlags(orgSettingsListCmd)
	addOutputFlags(orgReposListCmd)
	addLoadFlags(orgSettingsLoadCmd)
	orgSettingsCopyCmd.Flags().Bool("dry-run", false, "Show the changes without writing them")

	for _, cmd := range []*cobra.Command{orgSettingsListCmd, orgSettingsCopyCmd, orgSettingsLoadCmd} {
		cmd.Flags().Bool("include-ghas", false, "Include the GitHub Advanced Security defaults for new repositories")
	}

	orgReposListCmd.Flags().String("sort", "full_name", "Sort order: "+joinTokens(types.OrgRepoSort.Tokens()))
	orgReposListCmd.Flags().String("type", "all", "Repository type: "+joinTokens(types.OrgRepoType.Tokens()))

	orgSettingsCmd.AddCommand(orgSettingsListCmd, orgSettingsCopyCmd, orgSettingsLoadCmd)
	orgReposCmd.AddCommand(orgReposListCmd)
	orgCmd.AddCommand(orgSettingsCmd, orgSecretsCmd, orgIPAllowCmd, orgActionsCmd, orgReposCmd)
}

func runOrgSettingsList(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}

	rec, err := api.GetOrgSettings(cmd.Context(), client, target.Org)
	if err != nil {
		return err
	}
	doc, err := rec.Document()
	if err != nil {
		return err
	}
	if includeGhas, _ := cmd.Flags().GetBool("include-ghas"); !includeGhas {
		doc = withoutGhas(doc)
	}
	return writeOutput(cmd, doc)
}

func runOrgSettingsCopy(cmd *cobra.Command, args []string) error {
	src, dest, m, err := migrationClients(cmd)
	if err != nil {
		return err
	}
	includeGhas, _ := cmd.Flags().GetBool("include-ghas")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	pterm.Info.Printf("Copying settings of '%s' to '%s'\n", m.SrcOrg, m.DestOrg)
	result, err := api.CopyOrgSettings(cmd.Context(), src, m.SrcOrg, dest, m.DestOrg, includeGhas, dryRun)
	if err != nil {
		return err
	}
	ui.DisplayChanges(m.DestOrg, result.Changes, result.Written)
	return nil
}

func runOrgSettingsLoad(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}
	overlay, err := readOverlay(cmd)
	if err != nil {
		return err
	}
	if includeGhas, _ := cmd.Flags().GetBool("include-ghas"); !includeGhas {
		overlay = withoutGhas(overlay)
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	result, err := api.LoadOrgSettings(cmd.Context(), client, target.Org, overlay, dryRun)
	if err != nil {
		return err
	}
	ui.DisplayChanges(target.Org, result.Changes, result.Written)
	return nil
}

func runOrgReposList(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}

	sortFlag, _ := cmd.Flags().GetString("sort")
	sort, err := types.OrgRepoSort.Parse(sortFlag)
	if err != nil {
		return err
	}
	typeFlag, _ := cmd.Flags().GetString("type")
	repoType, err := types.OrgRepoType.Parse(typeFlag)
	if err != nil {
		return err
	}

	repos, err := api.ListOrganizationRepositories(cmd.Context(), client, target.Org, sort, repoType)
	if err != nil {
		return err
	}
	return writeOutput(cmd, repos)
}
