package utils

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BulkFlags selects the repositories a repository command runs against
type BulkFlags struct {
	Repos        []string
	RepoListPath string
	Delay        int
	// DestRepo names the destination of a single repository copy
	DestRepo     string
	// Renames maps a source repository to a destination of another name
	Renames      map[string]string

	copy bool
}

// AddBulkFlags registers the --repo-list and --delay flags
func AddBulkFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("repo-list", "l", "", "Path to CSV file containing repository names to target (one per line, no header)")
	cmd.Flags().IntP("delay", "d", 0, "Delay in seconds between repositories when using --repo-list")
}

// AddCopyFlags registers the bulk flags of a copy command together with
// --dest-repo
func AddCopyFlags(cmd *cobra.Command) {
	AddBulkFlags(cmd)
	cmd.Flags().String("dest-repo", "", "Name of the destination repository when it differs from the source (with --repo-list, use a second CSV column)")
	cmd.Flags().Lookup("repo-list").Usage = "Path to CSV file containing source repository names, optionally followed by the destination name (no header)"
}

// ExtractBulkFlags resolves the target repositories from the positional
// argument or the --repo-list file
func ExtractBulkFlags(cmd *cobra.Command, args []string) (*BulkFlags, error) {
	repoListPath, err := cmd.Flags().GetString("repo-list")
	if err != nil {
		return nil, err
	}

	delay, err := cmd.Flags().GetInt("delay")
	if err != nil {
		return nil, err
	}

	flags := &BulkFlags{RepoListPath: repoListPath, Delay: delay}
	if cmd.Flags().Lookup("dest-repo") != nil {
		flags.copy = true
		if flags.DestRepo, err = cmd.Flags().GetString("dest-repo"); err != nil {
			return nil, err
		}
	}
	if err := ValidateRepoFlags(flags, args); err != nil {
		return nil, err
	}
	return flags, nil
}

// ValidateRepoFlags validates repository targeting and reads the CSV file if
// provided
func ValidateRepoFlags(flags *BulkFlags, args []string) error {
	if len(args) == 0 && flags.RepoListPath == "" {
		return fmt.Errorf("a repository name or --repo-list must be specified")
	}
	if len(args) > 0 && flags.RepoListPath != "" {
		return fmt.Errorf("a repository name and --repo-list cannot be combined")
	}
	if flags.DestRepo != "" && flags.RepoListPath != "" {
		return fmt.Errorf("--dest-repo cannot be combined with --repo-list; name destinations in the second CSV column")
	}
	if err := ValidateDelay(flags.Delay); err != nil {
		return err
	}

	if flags.RepoListPath != "" {
		targets, err := ReadRepoTargetsFromCSV(flags.RepoListPath)
		if err != nil {
			return fmt.Errorf("CSV validation failed: %w", err)
		}
		if len(targets) == 0 {
			return fmt.Errorf("CSV file contains no valid repositories")
		}
		for _, target := range targets {
			flags.Repos = append(flags.Repos, target.Name)
			if flags.copy && target.Dest != "" && target.Dest != target.Name {
				flags.rename(target.Name, target.Dest)
			}
		}
		return nil
	}

	if err := ValidateRepositoryName(args[0]); err != nil {
		return err
	}
	flags.Repos = []string{args[0]}
	if flags.DestRepo != "" {
		if err := ValidateRepositoryName(flags.DestRepo); err != nil {
			return err
		}
		if flags.DestRepo != args[0] {
			flags.rename(args[0], flags.DestRepo)
		}
	}
	return nil
}

func (f *BulkFlags) rename(src, dest string) {
	if f.Renames == nil {
		f.Renames = make(map[string]string)
	}
	f.Renames[src] = dest
}
