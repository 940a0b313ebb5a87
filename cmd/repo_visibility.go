package cmd

import (
	"github.com/spf13/cobra"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/config"
	"github.com/callmegreg/gh-migrate-settings/internal/processors"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
	"github.com/callmegreg/gh-migrate-settings/internal/ui"
	"github.com/callmegreg/gh-migrate-settings/internal/utils"
)

var repoVisibilityCmd = &cobra.Command{
	Use:   "visibility",
	Short: "Read, set and copy repository visibility",
}

var repoVisibilityGetCmd = &cobra.Command{
	Use:   "get <repo>",
	Short: "Print the visibility of a repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepoVisibilityGet,
}

var repoVisibilitySetCmd = &cobra.Command{
	Use:   "set [repo]",
	Short: "Change the visibility of repositories",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRepoVisibilitySet,
}

var repoVisibilityCopyCmd = &cobra.Command{
	Use:   "copy [repo]",
	Short: "Copy the visibility of repositories to repositories in another organization",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRepoVisibilityCopy,
}

func init() {
	config.AddTargetFlags(repoVisibilityGetCmd.Flags())
	config.AddTargetFlags(repoVisibilitySetCmd.Flags())
	config.AddMigrationFlags(repoVisibilityCopyCmd.Flags())

	repoVisibilitySetCmd.Flags().String("visibility", "", "The new visibility: "+joinTokens(types.RepoVisibility.Tokens()))
	repoVisibilitySetCmd.MarkFlagRequired("visibility")
	utils.AddBulkFlags(repoVisibilitySetCmd)
	utils.AddCopyFlags(repoVisibilityCopyCmd)

	repoVisibilityCmd.AddCommand(repoVisibilityGetCmd, repoVisibilitySetCmd, repoVisibilityCopyCmd)
}

func runRepoVisibilityGet(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}

	visibility, err := api.GetRepoVisibility(cmd.Context(), client, target.Org, args[0])
	if err != nil {
		return err
	}
	ui.ShowVisibility(args[0], visibility)
	return nil
}

func runRepoVisibilitySet(cmd *cobra.Command, args []string) error {
	bulk, err := utils.ExtractBulkFlags(cmd, args)
	if err != nil {
		return err
	}
	visibilityFlag, _ := cmd.Flags().GetString("visibility")
	visibility, err := types.RepoVisibility.Parse(visibilityFlag)
	if err != nil {
		return err
	}
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}

	processor := &processors.VisibilityProcessor{
		Client:     client,
		Org:        target.Org,
		Visibility: visibility,
	}
	overlay := map[string]any{"visibility": types.RepoVisibility.Token(visibility)}
	return runRepositories(cmd, "Repository Visibility Update", bulk, overlay, false, processor)
}

func runRepoVisibilityCopy(cmd *cobra.Command, args []string) error {
	bulk, err := utils.ExtractBulkFlags(cmd, args)
	if err != nil {
		return err
	}
	src, dest, m, err := migrationClients(cmd)
	if err != nil {
		return err
	}

	processor := &processors.VisibilityProcessor{
		Client:  dest,
		Org:     m.DestOrg,
		Source:  src,
		SrcOrg:  m.SrcOrg,
		Renames: bulk.Renames,
	}
	return runRepositories(cmd, "Repository Visibility Copy", bulk, nil, false, processor)
}
