package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/config"
)

var orgIPAllowCmd = &cobra.Command{
	Use:   "ipallow",
	Short: "Manage the IP allow list of an organization",
}

var orgIPAllowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the IP allow list entries of an organization",
	Args:  cobra.NoArgs,
	RunE:  runOrgIPAllowList,
}

var orgIPAllowCreateCmd = &cobra.Command{
	Use:   "create <ip-or-cidr>",
	Short: "Add an IP address or CIDR range to the IP allow list",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrgIPAllowCreate,
}

var orgIPAllowDeleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Remove an entry from the IP allow list",
	Long:  "Remove an entry from the IP allow list by the ID printed by 'list'.",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrgIPAllowDelete,
}

func init() {
	config.AddTargetFlags(orgIPAllowListCmd.Flags())
	config.AddTargetFlags(orgIPAllowCreateCmd.Flags())
	config.AddTargetFlags(orgIPAllowDeleteCmd.Flags())
	addOutputFlags(orgIPAllowListCmd)

	orgIPAllowCreateCmd.Flags().String("name", "", "A description of the entry")
	orgIPAllowCreateCmd.Flags().Bool("active", true, "Whether the entry is enforced")

	orgIPAllowCmd.AddCommand(orgIPAllowListCmd, orgIPAllowCreateCmd, orgIPAllowDeleteCmd)
}

func runOrgIPAllowList(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}

	entries, err := api.GetOrgIPAllowList(cmd.Context(), client, target.Org)
	if err != nil {
		return err
	}
	return writeOutput(cmd, entries)
}

func runOrgIPAllowCreate(cmd *cobra.Command, args []string) error {
	client, target, err := targetClient(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	active, _ := cmd.Flags().GetBool("active")

	entry, err := api.CreateOrgIPAllowListEntry(cmd.Context(), client, target.Org, args[0], name, active)
	if err != nil {
		return err
	}
	pterm.Success.Printf("Created IP allow list entry %s for %s\n", entry.ID, entry.AllowListValue)
	return nil
}

func runOrgIPAllowDelete(cmd *cobra.Command, args []string) error {
	client, _, err := targetClient(cmd)
	if err != nil {
		return err
	}

	entry, err := api.DeleteOrgIPAllowListEntry(cmd.Context(), client, args[0])
	if err != nil {
		return err
	}
	pterm.Success.Printf("Deleted IP allow list entry %s (%s)\n", entry.ID, entry.AllowListValue)
	return nil
}
