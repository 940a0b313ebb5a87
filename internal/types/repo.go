package types

import (
	"github.com/callmegreg/gh-migrate-settings/internal/settings"
)

// GhasSecurityGroup is the repository key holding the GitHub Advanced Security
// toggles
const GhasSecurityGroup = "security_and_analysis"

// GhasSettings represents the GitHub Advanced Security settings of a repository
type GhasSettings struct {
	AdvancedSecurity             bool
	SecretScanning               bool
	SecretScanningPushProtection bool
}

// GhasSettingsSchema maps the flattened GHAS toggles
var GhasSettingsSchema = settings.MustSchema("GhasSettings", []settings.Field[GhasSettings]{
	{
		Name: "advanced_security", Kind: settings.KindBool,
		Get: func(g GhasSettings) any { return g.AdvancedSecurity },
		Set: func(g *GhasSettings, v any) { g.AdvancedSecurity = settings.ToBool(v) },
	},
	{
		Name: "secret_scanning", Kind: settings.KindBool,
		Get: func(g GhasSettings) any { return g.SecretScanning },
		Set: func(g *GhasSettings, v any) { g.SecretScanning = settings.ToBool(v) },
	},
	{
		Name: "secret_scanning_push_protection", Kind: settings.KindBool,
		Get: func(g GhasSettings) any { return g.SecretScanningPushProtection },
		Set: func(g *GhasSettings, v any) { g.SecretScanningPushProtection = settings.ToBool(v) },
	},
})

// statusSchema reads the security_and_analysis object, where every toggle is a
// {"status": "enabled"} object
var statusSchema = settings.MustSchema("GhasSettings", []settings.Field[GhasSettings]{
	{
		Name: "advanced_security", Kind: settings.KindBool,
		Aliases: []settings.Alias{{Key: "advanced_security_status", Convert: settings.Enabled}},
		Get:     func(g GhasSettings) any { return g.AdvancedSecurity },
		Set:     func(g *GhasSettings, v any) { g.AdvancedSecurity = settings.ToBool(v) },
	},
	{
		Name: "secret_scanning", Kind: settings.KindBool,
		Aliases: []settings.Alias{{Key: "secret_scanning_status", Convert: settings.Enabled}},
		Get:     func(g GhasSettings) any { return g.SecretScanning },
		Set:     func(g *GhasSettings, v any) { g.SecretScanning = settings.ToBool(v) },
	},
	{
		Name: "secret_scanning_push_protection", Kind: settings.KindBool,
		Aliases: []settings.Alias{{Key: "secret_scanning_push_protection_status", Convert: settings.Enabled}},
		Get:     func(g GhasSettings) any { return g.SecretScanningPushProtection },
		Set:     func(g *GhasSettings, v any) { g.SecretScanningPushProtection = settings.ToBool(v) },
	},
})

// DecodeGhasStatus reads the security_and_analysis object of a repository.
// Toggles that are missing or not "enabled" read as false.
func DecodeGhasStatus(group map[string]any) (GhasSettings, error) {
	doc := make(map[string]any, len(group))
	for key, value := range group {
		doc[key+"_status"] = value
	}
	return statusSchema.Decode(doc)
}

// Status returns the security_and_analysis write body
func (g GhasSettings) Status() map[string]any {
	return map[string]any{
		"advanced_security":               settings.Status(g.AdvancedSecurity),
		"secret_scanning":                 settings.Status(g.SecretScanning),
		"secret_scanning_push_protection": settings.Status(g.SecretScanningPushProtection),
	}
}

// RepoSettings represents the configurable settings of a repository
type RepoSettings struct {
	AllowSquashMerge    bool
	AllowMergeCommit    bool
	AllowRebaseMerge    bool
	AllowAutoMerge      bool
	DeleteBranchOnMerge bool
	AllowUpdateBranch   bool
	DefaultBranch       string
	Visibility          string
	Ghas                *GhasSettings
}

func repoBool(name string, def bool, get func(RepoSettings) bool, set func(*RepoSettings, bool)) settings.Field[RepoSettings] {
	return settings.Field[RepoSettings]{
		Name:    name,
		Kind:    settings.KindBool,
		Default: def,
		Get:     func(r RepoSettings) any { return get(r) },
		Set:     func(r *RepoSettings, v any) { set(r, settings.ToBool(v)) },
	}
}

// RepoSettingsSchema maps the repository REST resource
var RepoSettingsSchema = settings.MustSchema("RepoSettings", []settings.Field[RepoSettings]{
	repoBool("allow_squash_merge", true,
		func(r RepoSettings) bool { return r.AllowSquashMerge },
		func(r *RepoSettings, v bool) { r.AllowSquashMerge = v }),
	repoBool("allow_merge_commit", true,
		func(r RepoSettings) bool { return r.AllowMergeCommit },
		func(r *RepoSettings, v bool) { r.AllowMergeCommit = v }),
	repoBool("allow_rebase_merge", true,
		func(r RepoSettings) bool { return r.AllowRebaseMerge },
		func(r *RepoSettings, v bool) { r.AllowRebaseMerge = v }),
	repoBool("allow_auto_merge", false,
		func(r RepoSettings) bool { return r.AllowAutoMerge },
		func(r *RepoSettings, v bool) { r.AllowAutoMerge = v }),
	repoBool("delete_branch_on_merge", false,
		func(r RepoSettings) bool { return r.DeleteBranchOnMerge },
		func(r *RepoSettings, v bool) { r.DeleteBranchOnMerge = v }),
	repoBool("allow_update_branch", false,
		func(r RepoSettings) bool { return r.AllowUpdateBranch },
		func(r *RepoSettings, v bool) { r.AllowUpdateBranch = v }),
	{
		Name: "default_branch", Kind: settings.KindString, Default: "main",
		Get: func(r RepoSettings) any { return r.DefaultBranch },
		Set: func(r *RepoSettings, v any) { r.DefaultBranch = settings.ToString(v) },
	},
	{
		Name: "visibility", Kind: settings.KindEnum, Enum: RepoVisibility, Default: VisibilityPrivate,
		Get: func(r RepoSettings) any { return r.Visibility },
		Set: func(r *RepoSettings, v any) { r.Visibility = settings.ToString(v) },
	},
}, &settings.Embedding[RepoSettings, GhasSettings]{
	Name:   "ghas",
	Schema: GhasSettingsSchema,
	Get:    func(r RepoSettings) *GhasSettings { return r.Ghas },
	Set:    func(r *RepoSettings, g *GhasSettings) { r.Ghas = g },
	Group:  GhasSecurityGroup,
	Wire:   func(g GhasSettings) any { return g.Status() },
})

// DecodeRepoSettings builds RepoSettings from a repository payload. GHAS
// settings are read from the security_and_analysis object only when
// includeGhas is set; otherwise Ghas is nil.
func DecodeRepoSettings(doc map[string]any, includeGhas bool) (RepoSettings, error) {
	rec, err := RepoSettingsSchema.Decode(doc)
	if err != nil {
		return RepoSettings{}, err
	}
	if !includeGhas {
		rec.Ghas = nil
		return rec, nil
	}

	group, ok := doc[GhasSecurityGroup].(map[string]any)
	if !ok {
		return rec, nil
	}
	ghas, err := DecodeGhasStatus(group)
	if err != nil {
		return RepoSettings{}, err
	}
	rec.Ghas = &ghas
	return rec, nil
}

// Document returns the settings document of the repository
func (r RepoSettings) Document() (map[string]any, error) {
	return RepoSettingsSchema.Encode(r)
}

// WriteBody returns the PATCH body that applies the settings
func (r RepoSettings) WriteBody() (map[string]any, error) {
	return RepoSettingsSchema.EncodeWrite(r)
}

// Repo summarizes a repository
type Repo struct {
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Owner     string `json:"owner" yaml:"owner"`
	FullName  string `json:"full_name" yaml:"full_name"`
	URL       string `json:"url" yaml:"url"`
	IsPrivate bool   `json:"is_private" yaml:"is_private"`
}

// RepoSecret represents a repository or environment Actions secret
type RepoSecret struct {
	Name      string `json:"name" yaml:"name"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}
