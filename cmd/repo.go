package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/config"
	"github.com/callmegreg/gh-migrate-settings/internal/processors"
	"github.com/callmegreg/gh-migrate-settings/internal/ui"
	"github.com/callmegreg/gh-migrate-settings/internal/utils"
)

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Manage repository settings, secrets and visibility",
}

var repoSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read, copy and load repository settings",
}

var repoSettingsListCmd = &cobra.Command{
	Use:   "list <repo>",
	Short: "Print the settings of a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepoSettingsList,
}

var repoSettingsCopyCmd = &cobra.Command{
	Use:   "copy [repo]",
	Short: "Copy the settings of repositories to repositories in another organization",
	Long: `Copy the settings of a repository in the source organization to the repository of the
same name in the destination organization, or to the repository named by --dest-repo.
Use --repo-list to copy many repositories; a second CSV column names a different destination.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepoSettingsCopy,
}

var repoSettingsLoadCmd = &cobra.Command{
	Use:   "load [repo]",
	Short: "Load repository settings from a YAML or JSON file",
	Long: `Merge the settings in the file into the current settings of a repository and write them
when something changed. Use --repo-list to load the same settings into many repositories.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepoSettingsLoad,
}

func init() {
	config.AddTargetFlags(repoSettingsListCmd.Flags())
	config.AddTargetFlags(repoSettingsLoadCmd.Flags())
	config.AddMigrationFlags(repoSettingsCopyCmd.Flags())

	addOutputFlags(repoSettingsListCmd)
	addLoadFlags(repoSettingsLoadCmd)
	repoSettingsCopyCmd.Flags().Bool("dry-run", false, "Show the changes without writing them")
	utils.AddBulkFlags(repoSettingsLoadCmd)
	utils.AddCopyFlags(repoSettingsCopyCmd)

	for _, cmd := range []*cobra.Command{repoSettingsListCmd, repoSettingsCopyCmd, repoSettingsLoadCmd} {
		cmd.Flags().Bool("include-ghas", false, "Include the GitHub Advanced Security settings")
	}

	repoSettingsCmd.AddCommand(repoSettingsListCmd, repoSettingsCopyCmd, repoSettingsLoadCmd)
	repoCmd.AddCommand(repoSettingsCmd, repoSecretsCmd, repoVisibilityCmd)
}

func runRepoSettingsList(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}
	if err := utils.ValidateRepositoryName(args[0]); err != nil {
		return err
	}
	includeGhas, _ := cmd.Flags().GetBool("include-ghas")

	rec, err := api.GetRepoSettings(cmd.Context(), client, target.Org, args[0], includeGhas)
	if err != nil {
		return err
	}
	doc, err := rec.Document()
	if err != nil {
		return err
	}
	return writeOutput(cmd, doc)
}

func runRepoSettingsCopy(cmd *cobra.Command, args []string) error {
	bulk, err := utils.ExtractBulkFlags(cmd, args)
	if err != nil {
		return err
	}
	src, dest, m, err := migrationClients(cmd)
	if err != nil {
		return err
	}
	includeGhas, _ := cmd.Flags().GetBool("include-ghas")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	processor := &processors.CopyProcessor{
		Source:      src,
		SrcOrg:      m.SrcOrg,
		Dest:        dest,
		DestOrg:     m.DestOrg,
		Renames:     bulk.Renames,
		IncludeGhas: includeGhas,
		DryRun:      dryRun,
	}
	return runRepositories(cmd, "Repository Settings Copy", bulk, nil, dryRun, processor)
}

func runRepoSettingsLoad(cmd *cobra.Command, args []string) error {
	bulk, err := utils.ExtractBulkFlags(cmd, args)
	if err != nil {
		return err
	}
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}
	overlay, err := readOverlay(cmd)
	if err != nil {
		return err
	}
	includeGhas, _ := cmd.Flags().GetBool("include-ghas")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	processor := &processors.SettingsProcessor{
		Client:      client,
		Org:         target.Org,
		Overlay:     overlay,
		IncludeGhas: includeGhas,
		DryRun:      dryRun,
	}
	return runRepositories(cmd, "Repository Settings Load", bulk, overlay, dryRun, processor)
}

// runRepositories runs processor over the target repositories. A single
// repository is processed directly; a repository list is confirmed, processed
// sequentially and summarized with a replication command.
func runRepositories(cmd *cobra.Command, operation string, bulk *utils.BulkFlags, overlay map[string]any, dryRun bool, processor processors.RepositoryProcessor) error {
	if bulk.RepoListPath == "" {
		result := processor.ProcessRepository(cmd.Context(), bulk.Repos[0])
		return result.Error
	}
	if len(bulk.Repos) == 0 {
		ui.ShowNoRepositoriesWarning(bulk.RepoListPath)
		return nil
	}

	confirmed, err := ui.ConfirmBulkOperation(operation, bulk.Repos, overlay, dryRun)
	if err != nil {
		return err
	}
	if !confirmed {
		ui.ShowOperationCancelled()
		return nil
	}

	ui.ShowProcessingStartWithDelay(len(bulk.Repos), bulk.Delay)
	successCount, skippedCount, errorCount := processors.NewSequentialProcessor(bulk.Repos, processor, bulk.Delay).Process(cmd.Context())
	ui.PrintCompletionHeader(operation, successCount, skippedCount, errorCount)

	command := strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ")
	flags := replicationFlags(cmd,
		"hostname", "org", "src-hostname", "src-org", "dest-hostname", "dest-org",
		"config", "prefix", "repo-list", "settings", "visibility", "include-ghas", "dry-run", "delay")
	utils.ShowReplicationCommand(utils.BuildReplicationCommand(command, flags))

	if errorCount > 0 {
		return fmt.Errorf("%d of %d repositories failed", errorCount, len(bulk.Repos))
	}
	return nil
}
