package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
	"github.com/callmegreg/gh-migrate-settings/internal/config"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
	"github.com/callmegreg/gh-migrate-settings/internal/ui"
	"github.com/callmegreg/gh-migrate-settings/internal/utils"
)

// clientOptions routes the go-gh request log into the debug log
func clientOptions() api.Options {
	var opts api.Options
	if logger.IsLevelEnabled(logger.DebugLevel) {
		opts.Log = logger.StandardLogger().WriterLevel(logger.DebugLevel)
	}
	return opts
}

func targetClient(cmd *cobra.Command) (*api.Client, *config.Target, error) {
	target, err := config.LoadTarget(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	client, err := target.NewClient(cmd.Context(), clientOptions())
	if err != nil {
		return nil, nil, err
	}
	return client, target, nil
}

func hostClient(cmd *cobra.Command) (*api.Client, *config.Target, error) {
	target, err := config.LoadHost(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	client, err := target.NewClient(cmd.Context(), clientOptions())
	if err != nil {
		return nil, nil, err
	}
	return client, target, nil
}

func migrationClients(cmd *cobra.Command) (src, dest *api.Client, m *config.Migration, err error) {
	m, err = config.LoadMigration(cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}
	src, err = m.Source().NewClient(cmd.Context(), clientOptions())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("source: %w", err)
	}
	dest, err = m.Destination().NewClient(cmd.Context(), clientOptions())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("destination: %w", err)
	}
	return src, dest, m, nil
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "f", "", "Write the result to the specified file instead of stdout")
	cmd.Flags().BoolP("compact", "r", false, "Print a compact dump on an interactive terminal")
	cmd.Flags().Bool("json", false, "Write JSON instead of YAML")
}

// writeOutput serializes the result of a list command
func writeOutput(cmd *cobra.Command, v any) error {
	path, _ := cmd.Flags().GetString("output")
	compact, _ := cmd.Flags().GetBool("compact")
	asJSON, _ := cmd.Flags().GetBool("json")

	format := ui.FormatYAML
	if asJSON || strings.EqualFold(filepath.Ext(path), ".json") {
		format = ui.FormatJSON
	}

	out, closeFn, err := ui.NewOutput(path, format, compact)
	if err != nil {
		return err
	}
	if err := out.Write(v); err != nil {
		closeFn()
		return fmt.Errorf("failed to write output: %w", err)
	}
	return closeFn()
}

func addLoadFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("settings", "s", "", "YAML or JSON settings file to load, '-' for stdin")
	cmd.Flags().Bool("dry-run", false, "Show the changes without writing them")
}

func readInput(cmd *cobra.Command) (io.Reader, func() error, error) {
	path, _ := cmd.Flags().GetString("settings")
	if path == "" && ui.Interactive() {
		return nil, nil, fmt.Errorf("--settings is required, or pipe the settings on stdin")
	}
	return utils.OpenInput(path, cmd.InOrStdin())
}

func readOverlay(cmd *cobra.Command) (map[string]any, error) {
	r, closeFn, err := readInput(cmd)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return utils.ReadSettings(r)
}

func readSecrets(cmd *cobra.Command, upper bool) (map[string]string, error) {
	r, closeFn, err := readInput(cmd)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return utils.ReadSecrets(r, upper)
}

// withoutGhas removes the GHAS defaults from an organization settings document
func withoutGhas(doc map[string]any) map[string]any {
	for _, key := range types.OrgGhasFields {
		delete(doc, key)
	}
	return doc
}

// replicationFlags collects the flags of cmd that were set, for the
// replication command
func replicationFlags(cmd *cobra.Command, names ...string) map[string]any {
	flags := make(map[string]any)
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		switch f.Value.Type() {
		case "bool":
			flags[name], _ = cmd.Flags().GetBool(name)
		case "int":
			flags[name], _ = cmd.Flags().GetInt(name)
		default:
			flags[name] = f.Value.String()
		}
	}
	return flags
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, ", ")
}
