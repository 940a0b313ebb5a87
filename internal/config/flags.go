package config

import "github.com/spf13/pflag"

// AddTargetFlags registers the flags that identify a single target
func AddTargetFlags(fs *pflag.FlagSet) {
	fs.StringP("token", "t", "", "The GitHub access token (env: GH_TOKEN)")
	fs.StringP("hostname", "u", "api.github.com", "The GitHub instance hostname, e.g. api.github.com or github.company.com (env: GH_HOSTNAME)")
	fs.StringP("org", "o", "", "The organization/owner name (env: GH_ORG)")
	fs.StringP("config", "c", "", "Load settings from the specified YAML or JSON configuration file")
	fs.StringP("prefix", "p", "", "Only read configuration keys named <PREFIX>_<key>")
	fs.Int64("app-id", 0, "GitHub App ID used to mint an installation token")
	fs.Int64("installation-id", 0, "GitHub App installation ID")
	fs.String("private-key", "", "Path to the GitHub App private key (PEM)")
}

// AddMigrationFlags registers the flags that identify a source and a
// destination
func AddMigrationFlags(fs *pflag.FlagSet) {
	fs.String("src-token", "", "The source access token (env: SRC_TOKEN)")
	fs.String("src-hostname", "api.github.com", "The source instance hostname (env: SRC_HOSTNAME)")
	fs.String("src-org", "", "The source organization (env: SRC_ORG)")
	fs.String("dest-token", "", "The destination access token (env: DEST_TOKEN)")
	fs.String("dest-hostname", "api.github.com", "The destination instance hostname (env: DEST_HOSTNAME)")
	fs.String("dest-org", "", "The destination organization (env: DEST_ORG)")
	fs.StringP("config", "c", "", "Load settings from the specified YAML or JSON configuration file")
}
