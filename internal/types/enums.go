package types

import "github.com/callmegreg/gh-migrate-settings/internal/settings"

// Enumerations exchanged with the GitHub API. Members are written on the wire
// as their lower-case name.
var (
	RepoVisibility                = settings.NewEnum("repository visibility", "PRIVATE", "INTERNAL", "PUBLIC")
	OrgSecretVisibility           = settings.NewEnum("secret visibility", "SELECTED", "ALL", "PRIVATE")
	OrgRepoPermissions            = settings.NewEnum("repository permission", "READ", "WRITE", "ADMIN", "NONE")
	OrgActionsEnabledRepositories = settings.NewEnum("Actions enabled repositories policy", "ALL", "NONE", "SELECTED")
	OrgAllowedActions             = settings.NewEnum("allowed Actions policy", "ALL", "LOCAL_ONLY", "SELECTED")
	OrgRepoSort                   = settings.NewEnum("repository sort", "CREATED", "UPDATED", "PUSHED", "FULL_NAME")
	OrgRepoType                   = settings.NewEnum("repository type", "ALL", "PUBLIC", "PRIVATE", "FORKS", "SOURCES", "MEMBER")
)

// Member names used in code
const (
	VisibilityPrivate  = "PRIVATE"
	VisibilityInternal = "INTERNAL"
	VisibilityPublic   = "PUBLIC"

	SecretVisibilityAll      = "ALL"
	SecretVisibilitySelected = "SELECTED"
	SecretVisibilityPrivate  = "PRIVATE"

	PermissionRead = "READ"

	SortFullName = "FULL_NAME"
	TypeAll      = "ALL"
)
