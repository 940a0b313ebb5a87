package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/callmegreg/gh-migrate-settings/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "migrate-settings",
	Short: "Inspect, copy and load GitHub organization and repository settings",
	Long: `A GitHub CLI extension to read and write organization settings, repository settings,
Actions secrets and policies, IP allow lists and repository visibility, and to copy them
between organizations on github.com and GitHub Enterprise Server.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging, including HTTP requests (env: GITHUB_DEBUG, DEBUG)")

	rootCmd.AddCommand(orgCmd)
	rootCmd.AddCommand(repoCmd)
	rootCmd.AddCommand(enterpriseCmd)
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	logger.SetFormatter(&logger.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)

	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return err
	}
	if debug || envEnabled("GITHUB_DEBUG") || envEnabled("DEBUG") {
		logger.SetLevel(logger.DebugLevel)
		logger.Debug("Debug logging enabled")
	}
	return nil
}

func envEnabled(name string) bool {
	value := strings.ToLower(os.Getenv(name))
	return value == "true" || value == "1"
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		ui.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
