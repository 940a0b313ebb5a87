package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/callmegreg/gh-migrate-settings/internal/secrets"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

type secretsPage struct {
	TotalCount int               `json:"total_count"`
	Secrets    []json.RawMessage `json:"secrets"`
}

func getPublicKey(ctx context.Context, c GitHubClient, path string) (types.PublicKey, error) {
	var key types.PublicKey
	if err := c.FetchResource(ctx, path, &key); err != nil {
		return types.PublicKey{}, err
	}
	return key, nil
}

func putSecret(ctx context.Context, c GitHubClient, key types.PublicKey, secretPath, value string, extra map[string]any) error {
	encrypted, err := secrets.Encrypt(key.Key, value)
	if err != nil {
		return err
	}

	body := map[string]any{
		"encrypted_value": encrypted,
		"key_id":          key.KeyID,
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.WriteResource(ctx, http.MethodPut, secretPath, body, nil)
}

// GetOrgPublicKey retrieves the key used to encrypt organization secrets
func GetOrgPublicKey(ctx context.Context, c GitHubClient, org string) (types.PublicKey, error) {
	return getPublicKey(ctx, c, fmt.Sprintf("orgs/%s/actions/secrets/public-key", org))
}

// ListOrgSecrets lists the Actions secrets of an organization
func ListOrgSecrets(ctx context.Context, c GitHubClient, org string) ([]types.OrgSecret, error) {
	var result []types.OrgSecret
	err := c.FetchPages(ctx, fmt.Sprintf("orgs/%s/actions/secrets", org), func(page json.RawMessage) error {
		var body secretsPage
		if err := json.Unmarshal(page, &body); err != nil {
			return fmt.Errorf("failed to parse secrets of '%s': %w", org, err)
		}
		for _, raw := range body.Secrets {
			var secret types.OrgSecret
			if err := json.Unmarshal(raw, &secret); err != nil {
				return fmt.Errorf("failed to parse secrets of '%s': %w", org, err)
			}
			member, err := types.OrgSecretVisibility.Parse(secret.Visibility)
			if err != nil {
				return fmt.Errorf("secret '%s': %w", secret.Name, err)
			}
			secret.Visibility = member
			result = append(result, secret)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetOrgSecret creates or updates an organization secret. Repository IDs are
// only sent for the SELECTED visibility.
func SetOrgSecret(ctx context.Context, c GitHubClient, org, name, value, visibility string, selectedRepositoryIDs []int64) error {
	member, err := types.OrgSecretVisibility.Parse(visibility)
	if err != nil {
		return err
	}
	extra := map[string]any{"visibility": types.OrgSecretVisibility.Token(member)}
	if member == types.SecretVisibilitySelected {
		extra["selected_repository_ids"] = selectedRepositoryIDs
	}
	key, err := GetOrgPublicKey(ctx, c, org)
	if err != nil {
		return err
	}
	return putSecret(ctx, c, key, fmt.Sprintf("orgs/%s/actions/secrets/%s", org, name), value, extra)
}

// ListOrgSelectedReposForSecret lists the repositories that can access a
// secret with SELECTED visibility, given its selected_repositories_url
func ListOrgSelectedReposForSecret(ctx context.Context, c GitHubClient, url string) ([]types.Repo, error) {
	return collectRepositories(ctx, c, url)
}

// GetRepoPublicKey retrieves the key used to encrypt repository secrets
func GetRepoPublicKey(ctx context.Context, c GitHubClient, org, repo string) (types.PublicKey, error) {
	return getPublicKey(ctx, c, fmt.Sprintf("repos/%s/%s/actions/secrets/public-key", org, repo))
}

// SetRepoSecret creates or updates a repository secret
func SetRepoSecret(ctx context.Context, c GitHubClient, org, repo, name, value string) error {
	key, err := GetRepoPublicKey(ctx, c, org, repo)
	if err != nil {
		return err
	}
	return putSecret(ctx, c, key, fmt.Sprintf("repos/%s/%s/actions/secrets/%s", org, repo, name), value, nil)
}

// ListRepoSecrets lists the Actions secrets of a repository
func ListRepoSecrets(ctx context.Context, c GitHubClient, org, repo string) ([]types.RepoSecret, error) {
	var result []types.RepoSecret
	err := c.FetchPages(ctx, fmt.Sprintf("repos/%s/%s/actions/secrets", org, repo), func(page json.RawMessage) error {
		var body struct {
			Secrets []types.RepoSecret `json:"secrets"`
		}
		if err := json.Unmarshal(page, &body); err != nil {
			return fmt.Errorf("failed to parse secrets of '%s/%s': %w", org, repo, err)
		}
		result = append(result, body.Secrets...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetEnvironmentPublicKey retrieves the key used to encrypt secrets of a
// deployment environment
func GetEnvironmentPublicKey(ctx context.Context, c GitHubClient, org, repo, environment string) (types.PublicKey, error) {
	return getPublicKey(ctx, c, fmt.Sprintf("repos/%s/%s/environments/%s/secrets/public-key", org, repo, environment))
}

// SetEnvironmentSecret creates or updates a deployment environment secret
func SetEnvironmentSecret(ctx context.Context, c GitHubClient, org, repo, environment, name, value string) error {
	key, err := GetEnvironmentPublicKey(ctx, c, org, repo, environment)
	if err != nil {
		return err
	}
	return putSecret(ctx, c, key, fmt.Sprintf("repos/%s/%s/environments/%s/secrets/%s", org, repo, environment, name), value, nil)
}
