package cmd

import (
	"github.com/spf13/cobra"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/config"
	"github.com/callmegreg/gh-migrate-settings/internal/ui"
)

var enterpriseCmd = &cobra.Command{
	Use:   "enterprise",
	Short: "Inspect an enterprise",
}

var enterpriseOrgCmd = &cobra.Command{
	Use:   "org",
	Short: "Inspect the organizations of an enterprise",
}

var enterpriseOrgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the organizations of an enterprise",
	Long: `List the organizations of an enterprise.

On GitHub.com the token requires the read:enterprise scope. On GitHub Enterprise Server every
organization of the instance is listed, except the built-in 'actions' and 'github' organizations.`,
	Args: cobra.NoArgs,
	RunE: runEnterpriseOrgList,
}

func init() {
	config.AddTargetFlags(enterpriseOrgListCmd.Flags())
	addOutputFlags(enterpriseOrgListCmd)
	enterpriseOrgListCmd.Flags().StringP("enterprise-slug", "e", "", "GitHub Enterprise slug (e.g., github); required on GitHub.com")

	enterpriseOrgCmd.AddCommand(enterpriseOrgListCmd)
	enterpriseCmd.AddCommand(enterpriseOrgCmd)
}

func runEnterpriseOrgList(cmd *cobra.Command, args []string) error {
	client, target, err := hostClient(cmd)
	if err != nil {
		return err
	}

	var enterprise string
	if api.IsCloud(target.Hostname) {
		enterpriseFlag, _ := cmd.Flags().GetString("enterprise-slug")
		if enterprise, err = ui.GetEnterpriseInput(enterpriseFlag); err != nil {
			return err
		}
	}

	orgs, err := api.GetOrganizationsInEnterprise(cmd.Context(), client, enterprise)
	if err != nil {
		return err
	}
	return writeOutput(cmd, orgs)
}
