package config

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cli/go-gh/v2/pkg/auth"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/callmegreg/gh-migrate-settings/internal/api"
)

// Target identifies one organization on one GitHub instance
type Target struct {
	Hostname       string `koanf:"hostname" validate:"required"`
	Token          string `koanf:"token"`
	Org            string `koanf:"org" validate:"required,excludesall=/ "`
	AppID          int64  `koanf:"app_id" validate:"omitempty,gt=0"`
	InstallationID int64  `koanf:"installation_id" validate:"required_with=AppID"`
	PrivateKey     string `koanf:"private_key" validate:"required_with=AppID"`
}

// Migration identifies the source and destination of a copy
type Migration struct {
	SrcHostname  string `koanf:"src_hostname" validate:"required"`
	SrcToken     string `koanf:"src_token"`
	SrcOrg       string `koanf:"src_org" validate:"required,excludesall=/ "`
	DestHostname string `koanf:"dest_hostname" validate:"required"`
	DestToken    string `koanf:"dest_token"`
	DestOrg      string `koanf:"dest_org" validate:"required,excludesall=/ "`
}

// Source returns the source side of the migration as a Target
func (m *Migration) Source() *Target {
	return &Target{Hostname: m.SrcHostname, Token: m.SrcToken, Org: m.SrcOrg}
}

// Destination returns the destination side of the migration as a Target
func (m *Migration) Destination() *Target {
	return &Target{Hostname: m.DestHostname, Token: m.DestToken, Org: m.DestOrg}
}

var (
	validate = validator.New()

	// tokenForHost looks up the credentials stored by gh
	tokenForHost = auth.TokenForHost
)

var targetKeys = map[string]bool{
	"hostname": true, "token": true, "org": true,
	"app_id": true, "installation_id": true, "private_key": true,
}

var migrationKeys = map[string]bool{
	"src_hostname": true, "src_token": true, "src_org": true,
	"dest_hostname": true, "dest_token": true, "dest_org": true,
}

// LoadTarget resolves a Target from the flags, the GH_ environment variables
// and the optional --config file, in that order of precedence
func LoadTarget(flags *pflag.FlagSet) (*Target, error) {
	return loadTarget(flags, true)
}

// LoadHost resolves a Target whose organization is optional, for commands that
// address the whole instance
func LoadHost(flags *pflag.FlagSet) (*Target, error) {
	return loadTarget(flags, false)
}

func loadTarget(flags *pflag.FlagSet, requireOrg bool) (*Target, error) {
	k := koanf.New(".")
	k.Set("hostname", api.DefaultHostname)

	configFile, _ := flags.GetString("config")
	prefix, _ := flags.GetString("prefix")
	if err := loadFile(k, configFile, prefix); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider("GH_", ".", envKey("GH_", targetKeys)), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags, targetKeys)), nil); err != nil {
		return nil, fmt.Errorf("failed to read flags: %w", err)
	}

	var cfg Target
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	var err error
	if requireOrg {
		err = validate.Struct(cfg)
	} else {
		err = validate.StructExcept(cfg, "Org")
	}
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	logger.Debugf("Target %s on %s", cfg.Org, cfg.Hostname)
	return &cfg, nil
}

// LoadMigration resolves a Migration from the flags, the SRC_ and DEST_
// environment variables and the optional --config file
func LoadMigration(flags *pflag.FlagSet) (*Migration, error) {
	k := koanf.New(".")
	k.Set("src_hostname", api.DefaultHostname)
	k.Set("dest_hostname", api.DefaultHostname)

	configFile, _ := flags.GetString("config")
	if err := loadFile(k, configFile, ""); err != nil {
		return nil, err
	}

	for _, prefix := range []string{"SRC_", "DEST_"} {
		if err := k.Load(env.Provider(prefix, ".", envKey("", migrationKeys)), nil); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags, migrationKeys)), nil); err != nil {
		return nil, fmt.Errorf("failed to read flags: %w", err)
	}

	var cfg Migration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	logger.Debugf("Migrating %s on %s to %s on %s", cfg.SrcOrg, cfg.SrcHostname, cfg.DestOrg, cfg.DestHostname)
	return &cfg, nil
}

// loadFile merges a YAML or JSON config file. With a prefix only the keys
// named <prefix>_<key> are read, with the prefix removed.
func loadFile(k *koanf.Koanf, path, prefix string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	var parser koanf.Parser = yaml.Parser()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		parser = json.Parser()
	}

	fk := koanf.New(".")
	if err := fk.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	if prefix == "" {
		return k.Merge(fk)
	}
	for key, value := range fk.All() {
		if name, ok := strings.CutPrefix(key, prefix+"_"); ok {
			if err := k.Set(name, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// envKey maps GH_TOKEN to token and SRC_TOKEN to src_token, dropping
// variables that are not configuration keys
func envKey(trim string, keys map[string]bool) func(string) string {
	return func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, trim))
		if !keys[key] {
			return ""
		}
		return key
	}
}

// flagKey maps --app-id to app_id, ignoring flags that are not configuration
// keys
func flagKey(flags *pflag.FlagSet, keys map[string]bool) func(*pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !keys[key] {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}
}

// ResolveToken fills in a missing token, minting an installation token when
// GitHub App credentials are configured and otherwise falling back to the
// credentials stored by gh
func (t *Target) ResolveToken(ctx context.Context, transport http.RoundTripper) error {
	if t.Token != "" {
		return nil
	}

	if t.AppID != 0 {
		key, err := os.ReadFile(t.PrivateKey)
		if err != nil {
			return fmt.Errorf("failed to read private key: %w", err)
		}
		token, err := api.InstallationToken(ctx, t.Hostname, api.AppCredentials{
			AppID:          t.AppID,
			InstallationID: t.InstallationID,
			PrivateKey:     key,
		}, transport)
		if err != nil {
			return err
		}
		t.Token = token
		return nil
	}

	host := api.Hostname(t.Hostname)
	token, source := tokenForHost(host)
	if token == "" {
		return fmt.Errorf("no token for %s: pass --token, set GH_TOKEN or run 'gh auth login'", host)
	}
	logger.Debugf("Using token for %s from %s", host, source)
	t.Token = token
	return nil
}

// NewClient resolves the token of the target and creates its API client
func (t *Target) NewClient(ctx context.Context, opts api.Options) (*api.Client, error) {
	if err := t.ResolveToken(ctx, opts.Transport); err != nil {
		return nil, err
	}
	opts.Hostname = t.Hostname
	opts.Token = t.Token
	return api.NewClient(opts)
}
