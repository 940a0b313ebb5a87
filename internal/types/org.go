package types

import "github.com/callmegreg/gh-migrate-settings/internal/settings"

// OrgSettings represents the configurable settings of an organization
type OrgSettings struct {
	Company                                            *string
	Email                                              *string
	TwitterUsername                                    *string
	Location                                           *string
	Name                                               *string
	Description                                        *string
	Blog                                               *string
	WebCommitSignoffRequired                           bool
	HasOrganizationProjects                            bool
	HasRepositoryProjects                              bool
	DefaultRepositoryPermission                        string
	MembersCanCreateRepositories                       bool
	TwoFactorRequirementEnabled                        bool
	MembersCanCreatePublicRepositories                 bool
	MembersCanCreatePrivateRepositories                bool
	MembersCanCreateInternalRepositories               bool
	MembersCanCreatePrivatePages                       bool
	MembersCanCreatePublicPages                        bool
	MembersCanForkPrivateRepositories                  bool
	AdvancedSecurityEnabledForNewRepositories          bool
	DependabotAlertsEnabledForNewRepositories          bool
	DependabotSecurityUpdatesEnabledForNewRepositories bool
	DependencyGraphEnabledForNewRepositories           bool
	SecretScanningEnabledForNewRepositories            bool
	SecretScanningPushProtectionEnabledForNewRepos     bool
	SecretScanningPushProtectionCustomLinkEnabled      bool
	SecretScanningPushProtectionCustomLink             *string
}

// OrgGhasFields are the organization defaults for new repositories that
// require GitHub Advanced Security or Dependabot on the target
var OrgGhasFields = []string{
	"advanced_security_enabled_for_new_repositories",
	"dependabot_alerts_enabled_for_new_repositories",
	"dependabot_security_updates_enabled_for_new_repositories",
	"dependency_graph_enabled_for_new_repositories",
	"secret_scanning_enabled_for_new_repositories",
	"secret_scanning_push_protection_enabled_for_new_repositories",
	"secret_scanning_push_protection_custom_link_enabled",
	"secret_scanning_push_protection_custom_link",
}

const repositoryCreationType = "members_allowed_repository_creation_type"

func orgString(name string, get func(OrgSettings) *string, set func(*OrgSettings, *string), aliases ...settings.Alias) settings.Field[OrgSettings] {
	return settings.Field[OrgSettings]{
		Name:     name,
		Kind:     settings.KindString,
		Nullable: true,
		Aliases:  aliases,
		Get:      func(o OrgSettings) any { return settings.StringPtr(get(o)) },
		Set:      func(o *OrgSettings, v any) { set(o, settings.ToStringPtr(v)) },
	}
}

func orgBool(name string, get func(OrgSettings) bool, set func(*OrgSettings, bool), aliases ...settings.Alias) settings.Field[OrgSettings] {
	return settings.Field[OrgSettings]{
		Name:    name,
		Kind:    settings.KindBool,
		Default: false,
		Aliases: aliases,
		Get:     func(o OrgSettings) any { return get(o) },
		Set:     func(o *OrgSettings, v any) { set(o, settings.ToBool(v)) },
	}
}

// OrgSettingsSchema maps the organization REST resource
var OrgSettingsSchema = settings.MustSchema("OrgSettings", []settings.Field[OrgSettings]{
	orgString("company",
		func(o OrgSettings) *string { return o.Company },
		func(o *OrgSettings, v *string) { o.Company = v }),
	orgString("email",
		func(o OrgSettings) *string { return o.Email },
		func(o *OrgSettings, v *string) { o.Email = v }),
	orgString("twitter_username",
		func(o OrgSettings) *string { return o.TwitterUsername },
		func(o *OrgSettings, v *string) { o.TwitterUsername = v }),
	orgString("location",
		func(o OrgSettings) *string { return o.Location },
		func(o *OrgSettings, v *string) { o.Location = v }),
	orgString("name",
		func(o OrgSettings) *string { return o.Name },
		func(o *OrgSettings, v *string) { o.Name = v },
		settings.Alias{Key: "login"}),
	orgString("description",
		func(o OrgSettings) *string { return o.Description },
		func(o *OrgSettings, v *string) { o.Description = v }),
	orgString("blog",
		func(o OrgSettings) *string { return o.Blog },
		func(o *OrgSettings, v *string) { o.Blog = v }),
	orgBool("web_commit_signoff_required",
		func(o OrgSettings) bool { return o.WebCommitSignoffRequired },
		func(o *OrgSettings, v bool) { o.WebCommitSignoffRequired = v }),
	orgBool("has_organization_projects",
		func(o OrgSettings) bool { return o.HasOrganizationProjects },
		func(o *OrgSettings, v bool) { o.HasOrganizationProjects = v }),
	orgBool("has_repository_projects",
		func(o OrgSettings) bool { return o.HasRepositoryProjects },
		func(o *OrgSettings, v bool) { o.HasRepositoryProjects = v }),
	{
		Name:    "default_repository_permission",
		Kind:    settings.KindEnum,
		Enum:    OrgRepoPermissions,
		Default: PermissionRead,
		Get:     func(o OrgSettings) any { return o.DefaultRepositoryPermission },
		Set:     func(o *OrgSettings, v any) { o.DefaultRepositoryPermission = settings.ToString(v) },
	},
	orgBool("members_can_create_repositories",
		func(o OrgSettings) bool { return o.MembersCanCreateRepositories },
		func(o *OrgSettings, v bool) { o.MembersCanCreateRepositories = v }),
	{
		Name:     "two_factor_requirement_enabled",
		Kind:     settings.KindBool,
		ReadOnly: true,
		Get:      func(o OrgSettings) any { return o.TwoFactorRequirementEnabled },
		Set:      func(o *OrgSettings, v any) { o.TwoFactorRequirementEnabled = settings.ToBool(v) },
	},
	orgBool("members_can_create_public_repositories",
		func(o OrgSettings) bool { return o.MembersCanCreatePublicRepositories },
		func(o *OrgSettings, v bool) { o.MembersCanCreatePublicRepositories = v },
		settings.Alias{Key: repositoryCreationType, Convert: settings.Equals("all")}),
	orgBool("members_can_create_private_repositories",
		func(o OrgSettings) bool { return o.MembersCanCreatePrivateRepositories },
		func(o *OrgSettings, v bool) { o.MembersCanCreatePrivateRepositories = v },
		settings.Alias{Key: repositoryCreationType, Convert: settings.NotEquals("none")}),
	orgBool("members_can_create_internal_repositories",
		func(o OrgSettings) bool { return o.MembersCanCreateInternalRepositories },
		func(o *OrgSettings, v bool) { o.MembersCanCreateInternalRepositories = v },
		settings.Alias{Key: repositoryCreationType, Convert: settings.NotEquals("none")}),
	orgBool("members_can_create_private_pages",
		func(o OrgSettings) bool { return o.MembersCanCreatePrivatePages },
		func(o *OrgSettings, v bool) { o.MembersCanCreatePrivatePages = v },
		settings.Alias{Key: "members_can_create_pages"}),
	orgBool("members_can_create_public_pages",
		func(o OrgSettings) bool { return o.MembersCanCreatePublicPages },
		func(o *OrgSettings, v bool) { o.MembersCanCreatePublicPages = v },
		settings.Alias{Key: "members_can_create_pages"}),
	orgBool("members_can_fork_private_repositories",
		func(o OrgSettings) bool { return o.MembersCanForkPrivateRepositories },
		func(o *OrgSettings, v bool) { o.MembersCanForkPrivateRepositories = v }),
	orgBool("advanced_security_enabled_for_new_repositories",
		func(o OrgSettings) bool { return o.AdvancedSecurityEnabledForNewRepositories },
		func(o *OrgSettings, v bool) { o.AdvancedSecurityEnabledForNewRepositories = v }),
	orgBool("dependabot_alerts_enabled_for_new_repositories",
		func(o OrgSettings) bool { return o.DependabotAlertsEnabledForNewRepositories },
		func(o *OrgSettings, v bool) { o.DependabotAlertsEnabledForNewRepositories = v }),
	orgBool("dependabot_security_updates_enabled_for_new_repositories",
		func(o OrgSettings) bool { return o.DependabotSecurityUpdatesEnabledForNewRepositories },
		func(o *OrgSettings, v bool) { o.DependabotSecurityUpdatesEnabledForNewRepositories = v }),
	orgBool("dependency_graph_enabled_for_new_repositories",
		func(o OrgSettings) bool { return o.DependencyGraphEnabledForNewRepositories },
		func(o *OrgSettings, v bool) { o.DependencyGraphEnabledForNewRepositories = v }),
	orgBool("secret_scanning_enabled_for_new_repositories",
		func(o OrgSettings) bool { return o.SecretScanningEnabledForNewRepositories },
		func(o *OrgSettings, v bool) { o.SecretScanningEnabledForNewRepositories = v }),
	orgBool("secret_scanning_push_protection_enabled_for_new_repositories",
		func(o OrgSettings) bool { return o.SecretScanningPushProtectionEnabledForNewRepos },
		func(o *OrgSettings, v bool) { o.SecretScanningPushProtectionEnabledForNewRepos = v }),
	orgBool("secret_scanning_push_protection_custom_link_enabled",
		func(o OrgSettings) bool { return o.SecretScanningPushProtectionCustomLinkEnabled },
		func(o *OrgSettings, v bool) { o.SecretScanningPushProtectionCustomLinkEnabled = v }),
	orgString("secret_scanning_push_protection_custom_link",
		func(o OrgSettings) *string { return o.SecretScanningPushProtectionCustomLink },
		func(o *OrgSettings, v *string) { o.SecretScanningPushProtectionCustomLink = v }),
})

// DecodeOrgSettings builds OrgSettings from an organization payload
func DecodeOrgSettings(doc map[string]any) (OrgSettings, error) {
	return OrgSettingsSchema.Decode(doc)
}

// Document returns the settings document of the organization
func (o OrgSettings) Document() (map[string]any, error) {
	return OrgSettingsSchema.Encode(o)
}

// OrgActionsPermissions is the organization-wide GitHub Actions policy
type OrgActionsPermissions struct {
	EnabledRepositories string
	AllowedActions      string
	SelectedActionsURL  *string
}

// OrgActionsPermissionsSchema maps the Actions permissions resource
var OrgActionsPermissionsSchema = settings.MustSchema("OrgActionsPermissions", []settings.Field[OrgActionsPermissions]{
	{
		Name: "enabled_repositories", Kind: settings.KindEnum, Enum: OrgActionsEnabledRepositories, Default: "ALL",
		Get: func(p OrgActionsPermissions) any { return p.EnabledRepositories },
		Set: func(p *OrgActionsPermissions, v any) { p.EnabledRepositories = settings.ToString(v) },
	},
	{
		Name: "allowed_actions", Kind: settings.KindEnum, Enum: OrgAllowedActions, Default: "ALL",
		Get: func(p OrgActionsPermissions) any { return p.AllowedActions },
		Set: func(p *OrgActionsPermissions, v any) { p.AllowedActions = settings.ToString(v) },
	},
	{
		Name: "selected_actions_url", Kind: settings.KindString, Nullable: true, ReadOnly: true,
		Get: func(p OrgActionsPermissions) any { return settings.StringPtr(p.SelectedActionsURL) },
		Set: func(p *OrgActionsPermissions, v any) { p.SelectedActionsURL = settings.ToStringPtr(v) },
	},
})

// OrgSelectedActions lists the actions allowed when the policy is "selected"
type OrgSelectedActions struct {
	GithubOwnedAllowed bool
	VerifiedAllowed    bool
	PatternsAllowed    []string
}

// OrgSelectedActionsSchema maps the selected Actions resource
var OrgSelectedActionsSchema = settings.MustSchema("OrgSelectedActions", []settings.Field[OrgSelectedActions]{
	{
		Name: "github_owned_allowed", Kind: settings.KindBool,
		Get: func(a OrgSelectedActions) any { return a.GithubOwnedAllowed },
		Set: func(a *OrgSelectedActions, v any) { a.GithubOwnedAllowed = settings.ToBool(v) },
	},
	{
		Name: "verified_allowed", Kind: settings.KindBool,
		Get: func(a OrgSelectedActions) any { return a.VerifiedAllowed },
		Set: func(a *OrgSelectedActions, v any) { a.VerifiedAllowed = settings.ToBool(v) },
	},
	{
		Name: "patterns_allowed", Kind: settings.KindStringList,
		Get: func(a OrgSelectedActions) any { return a.PatternsAllowed },
		Set: func(a *OrgSelectedActions, v any) { a.PatternsAllowed = settings.ToStrings(v) },
	},
})

// OrgSecret represents an organization-level Actions secret
type OrgSecret struct {
	Name                    string `json:"name" yaml:"name"`
	Visibility              string `json:"visibility" yaml:"visibility"`
	SelectedRepositoriesURL string `json:"selected_repositories_url,omitempty" yaml:"selected_repositories_url,omitempty"`
	CreatedAt               string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt               string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// IPAllowListEntry represents an organization IP allow list entry
type IPAllowListEntry struct {
	ID             string `json:"id" yaml:"id"`
	AllowListValue string `json:"allow_list_value" yaml:"allow_list_value"`
	Name           string `json:"name" yaml:"name"`
	IsActive       bool   `json:"is_active" yaml:"is_active"`
}

// PublicKey is the key used to encrypt Actions secrets
type PublicKey struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key"`
}
