package types_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callmegreg/gh-migrate-settings/internal/settings"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

func decodeJSON(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestOrgSettings(t *testing.T) {
	t.Parallel()

	t.Run("should fan out the repository creation type", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			creationType string
			public       bool
			private      bool
			internal     bool
		}{
			{creationType: "all", public: true, private: true, internal: true},
			{creationType: "private", public: false, private: true, internal: true},
			{creationType: "none", public: false, private: false, internal: false},
		}

		for _, tt := range tests {
			t.Run(tt.creationType, func(t *testing.T) {
				rec, err := types.DecodeOrgSettings(map[string]any{"members_allowed_repository_creation_type": tt.creationType})
				require.NoError(t, err)
				assert.Equal(t, tt.public, rec.MembersCanCreatePublicRepositories)
				assert.Equal(t, tt.private, rec.MembersCanCreatePrivateRepositories)
				assert.Equal(t, tt.internal, rec.MembersCanCreateInternalRepositories)
			})
		}
	})

	t.Run("should fan out the pages flag to public and private pages", func(t *testing.T) {
		t.Parallel()

		for _, enabled := range []bool{true, false} {
			rec, err := types.DecodeOrgSettings(map[string]any{"members_can_create_pages": enabled})
			require.NoError(t, err)
			assert.Equal(t, enabled, rec.MembersCanCreatePublicPages)
			assert.Equal(t, enabled, rec.MembersCanCreatePrivatePages)
		}
	})

	t.Run("should read the name from the login", func(t *testing.T) {
		t.Parallel()

		// when
		rec, err := types.DecodeOrgSettings(map[string]any{"login": "octo-org", "company": nil})

		// then
		require.NoError(t, err)
		require.NotNil(t, rec.Name)
		assert.Equal(t, "octo-org", *rec.Name)
		assert.Nil(t, rec.Company)
		assert.Equal(t, types.PermissionRead, rec.DefaultRepositoryPermission)
	})

	t.Run("should change only the named field when merging", func(t *testing.T) {
		t.Parallel()

		// given
		base, err := types.DecodeOrgSettings(decodeJSON(t, `{"login":"octo-org","blog":"https://octo.example","has_organization_projects":true}`))
		require.NoError(t, err)

		// when
		merged, err := types.OrgSettingsSchema.Merge(base, map[string]any{"bogus_key": 1, "name": "x"})

		// then
		require.NoError(t, err)
		assert.Equal(t, []settings.Change{{Field: "name", Old: "octo-org", New: "x"}}, types.OrgSettingsSchema.Changes(base, merged))
	})

	t.Run("should leave read-only and unset fields out of the write body", func(t *testing.T) {
		t.Parallel()

		// given
		rec, err := types.DecodeOrgSettings(map[string]any{"login": "octo-org", "two_factor_requirement_enabled": true})
		require.NoError(t, err)

		// when
		body, err := types.OrgSettingsSchema.EncodeWrite(rec)

		// then
		require.NoError(t, err)
		assert.NotContains(t, body, "two_factor_requirement_enabled")
		assert.NotContains(t, body, "company")
		assert.Equal(t, "octo-org", body["name"])
		assert.Equal(t, "read", body["default_repository_permission"])
	})

	t.Run("should reproduce the declared keys of a payload", func(t *testing.T) {
		t.Parallel()

		// given
		doc := map[string]any{}
		for _, name := range types.OrgSettingsSchema.FieldNames() {
			doc[name] = false
		}
		for _, name := range []string{"company", "email", "twitter_username", "location", "name", "description", "blog", "secret_scanning_push_protection_custom_link"} {
			doc[name] = nil
		}
		doc["name"] = "octo-org"
		doc["default_repository_permission"] = "write"
		doc["members_can_create_public_repositories"] = true

		// when
		rec, err := types.DecodeOrgSettings(doc)
		require.NoError(t, err)
		out, err := rec.Document()
		require.NoError(t, err)

		// then
		assert.Equal(t, doc, out)
	})

	t.Run("should reject a string where a boolean is expected", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := types.OrgSettingsSchema.Merge(types.OrgSettingsSchema.Defaults(), map[string]any{"has_repository_projects": "yes"})

		// then
		var decodeErr *settings.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "has_repository_projects", decodeErr.Field)
	})
}

func TestRepoSettings(t *testing.T) {
	t.Parallel()

	payload := `{
		"id": 1296269,
		"name": "Hello-World",
		"allow_squash_merge": false,
		"allow_merge_commit": true,
		"allow_rebase_merge": true,
		"allow_auto_merge": false,
		"delete_branch_on_merge": true,
		"allow_update_branch": false,
		"default_branch": "master",
		"visibility": "internal",
		"security_and_analysis": {
			"advanced_security": {"status": "enabled"},
			"secret_scanning": {"status": "disabled"},
			"dependabot_security_updates": {"status": "enabled"}
		}
	}`

	t.Run("should read GHAS settings only when requested", func(t *testing.T) {
		t.Parallel()

		// when
		with, err := types.DecodeRepoSettings(decodeJSON(t, payload), true)
		require.NoError(t, err)
		without, err := types.DecodeRepoSettings(decodeJSON(t, payload), false)
		require.NoError(t, err)

		// then
		require.NotNil(t, with.Ghas)
		assert.Equal(t, types.GhasSettings{AdvancedSecurity: true}, *with.Ghas)
		assert.Nil(t, without.Ghas)
		assert.Equal(t, types.VisibilityInternal, without.Visibility)
		assert.Equal(t, "master", without.DefaultBranch)
	})

	t.Run("should detect a change only when a value differs", func(t *testing.T) {
		t.Parallel()

		// given
		base, err := types.DecodeRepoSettings(decodeJSON(t, payload), false)
		require.NoError(t, err)

		// when
		changed, err := types.RepoSettingsSchema.Merge(base, map[string]any{"allow_squash_merge": true})
		require.NoError(t, err)
		unchanged, err := types.RepoSettingsSchema.Merge(base, map[string]any{"allow_squash_merge": false})
		require.NoError(t, err)

		// then
		assert.True(t, types.RepoSettingsSchema.HasChanged(base, changed))
		assert.False(t, types.RepoSettingsSchema.HasChanged(base, unchanged))
	})

	t.Run("should parse visibility case-insensitively and write it in lower case", func(t *testing.T) {
		t.Parallel()

		// when
		upper, err := types.DecodeRepoSettings(map[string]any{"visibility": "PUBLIC"}, false)
		require.NoError(t, err)
		lower, err := types.DecodeRepoSettings(map[string]any{"visibility": "public"}, false)
		require.NoError(t, err)
		doc, err := upper.Document()
		require.NoError(t, err)

		// then
		assert.Equal(t, upper.Visibility, lower.Visibility)
		assert.Equal(t, "public", doc["visibility"])
	})

	t.Run("should omit every GHAS key when GHAS is unset", func(t *testing.T) {
		t.Parallel()

		// given
		rec := types.RepoSettingsSchema.Defaults()

		// when
		doc, err := rec.Document()
		require.NoError(t, err)
		body, err := rec.WriteBody()
		require.NoError(t, err)

		// then
		for _, key := range []string{"ghas", "advanced_security", "secret_scanning", "secret_scanning_push_protection", types.GhasSecurityGroup} {
			assert.NotContains(t, doc, key)
			assert.NotContains(t, body, key)
		}
	})

	t.Run("should write GHAS settings as status objects", func(t *testing.T) {
		t.Parallel()

		// given
		rec := types.RepoSettingsSchema.Defaults()
		rec.Ghas = &types.GhasSettings{SecretScanning: true}

		// when
		body, err := rec.WriteBody()
		require.NoError(t, err)
		doc, err := rec.Document()
		require.NoError(t, err)

		// then
		assert.Equal(t, map[string]any{
			"advanced_security":               map[string]any{"status": "disabled"},
			"secret_scanning":                 map[string]any{"status": "enabled"},
			"secret_scanning_push_protection": map[string]any{"status": "disabled"},
		}, body[types.GhasSecurityGroup])
		assert.Equal(t, true, doc["secret_scanning"])
		assert.Equal(t, false, doc["advanced_security"])
		assert.NotContains(t, doc, "ghas")
	})

	t.Run("should create GHAS settings from flat keys in a settings file", func(t *testing.T) {
		t.Parallel()

		// given
		base := types.RepoSettingsSchema.Defaults()

		// when
		merged, err := types.RepoSettingsSchema.Merge(base, map[string]any{"secret_scanning_push_protection": true})

		// then
		require.NoError(t, err)
		require.NotNil(t, merged.Ghas)
		assert.True(t, merged.Ghas.SecretScanningPushProtection)
		assert.Nil(t, base.Ghas)
	})

	t.Run("should round trip a settings document", func(t *testing.T) {
		t.Parallel()

		// given
		rec, err := types.DecodeRepoSettings(decodeJSON(t, payload), true)
		require.NoError(t, err)

		// when
		doc, err := rec.Document()
		require.NoError(t, err)
		decoded, err := types.RepoSettingsSchema.Decode(doc)

		// then
		require.NoError(t, err)
		assert.Equal(t, rec, decoded)
	})

	t.Run("should reject an unknown visibility", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := types.DecodeRepoSettings(map[string]any{"visibility": "secret"}, false)

		// then
		var decodeErr *settings.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "visibility", decodeErr.Field)
	})
}

func TestOrgActions(t *testing.T) {
	t.Parallel()

	t.Run("should decode the Actions permissions", func(t *testing.T) {
		t.Parallel()

		// when
		rec, err := types.OrgActionsPermissionsSchema.Decode(decodeJSON(t, `{"enabled_repositories":"selected","allowed_actions":"local_only","selected_actions_url":"https://api.github.com/orgs/o/actions/permissions/selected-actions"}`))
		require.NoError(t, err)
		body, err := types.OrgActionsPermissionsSchema.EncodeWrite(rec)
		require.NoError(t, err)

		// then
		assert.Equal(t, "SELECTED", rec.EnabledRepositories)
		assert.Equal(t, "LOCAL_ONLY", rec.AllowedActions)
		assert.Equal(t, map[string]any{"enabled_repositories": "selected", "allowed_actions": "local_only"}, body)
	})

	t.Run("should decode the selected actions patterns", func(t *testing.T) {
		t.Parallel()

		// when
		rec, err := types.OrgSelectedActionsSchema.Decode(decodeJSON(t, `{"github_owned_allowed":true,"patterns_allowed":["monalisa/octocat@*","docker/*"]}`))

		// then
		require.NoError(t, err)
		assert.True(t, rec.GithubOwnedAllowed)
		assert.False(t, rec.VerifiedAllowed)
		assert.Equal(t, []string{"monalisa/octocat@*", "docker/*"}, rec.PatternsAllowed)
	})
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	t.Run("should render the error report", func(t *testing.T) {
		t.Parallel()

		// given
		err := &types.APIError{Code: 404, Status: "Not Found", Context: "https://api.github.com/orgs/nope", Details: map[string]any{"message": "Not Found"}}

		// when
		report := err.JSON()

		// then
		assert.JSONEq(t, `{"code":404,"status":"Not Found","context":"https://api.github.com/orgs/nope","details":{"message":"Not Found"}}`, report)
		assert.Equal(t, "Not Found (404): https://api.github.com/orgs/nope", err.Error())
	})
}
