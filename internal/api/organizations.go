package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"github.com/callmegreg/gh-migrate-settings/internal/settings"
	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

// GetOrgSettings retrieves the settings of an organization
func GetOrgSettings(ctx context.Context, c GitHubClient, org string) (types.OrgSettings, error) {
	var doc map[string]any
	if err := c.FetchResource(ctx, fmt.Sprintf("orgs/%s", org), &doc); err != nil {
		return types.OrgSettings{}, err
	}
	rec, err := types.DecodeOrgSettings(doc)
	if err != nil {
		return types.OrgSettings{}, fmt.Errorf("failed to read settings of organization '%s': %w", org, err)
	}
	return rec, nil
}

// SetOrgSettings writes the settings of an organization and returns the
// settings reported back by the API
func SetOrgSettings(ctx context.Context, c GitHubClient, org string, rec types.OrgSettings) (types.OrgSettings, error) {
	body, err := types.OrgSettingsSchema.EncodeWrite(rec)
	if err != nil {
		return types.OrgSettings{}, err
	}

	var doc map[string]any
	if err := c.WriteResource(ctx, http.MethodPatch, fmt.Sprintf("orgs/%s", org), body, &doc); err != nil {
		return types.OrgSettings{}, err
	}
	return types.DecodeOrgSettings(doc)
}

// LoadOrgSettings merges overlay into the current settings of an organization
// and writes them only when something changed. A dry run reports the changes
// without writing.
func LoadOrgSettings(ctx context.Context, c GitHubClient, org string, overlay map[string]any, dryRun bool) (settings.Result[types.OrgSettings], error) {
	current, err := GetOrgSettings(ctx, c, org)
	if err != nil {
		return settings.Result[types.OrgSettings]{}, err
	}

	var write settings.WriteFunc[types.OrgSettings]
	if !dryRun {
		write = func(ctx context.Context, desired types.OrgSettings) (types.OrgSettings, error) {
			return SetOrgSettings(ctx, c, org, desired)
		}
	}
	res, err := settings.Reconcile(ctx, types.OrgSettingsSchema, current, overlay, write)
	if err != nil {
		return res, fmt.Errorf("failed to update settings of organization '%s': %w", org, err)
	}
	return res, nil
}

// CopyOrgSettings applies the settings of one organization to another. The
// organization name is never copied; GHAS defaults for new repositories are
// only copied when includeGhas is set.
func CopyOrgSettings(ctx context.Context, src GitHubClient, srcOrg string, dest GitHubClient, destOrg string, includeGhas, dryRun bool) (settings.Result[types.OrgSettings], error) {
	source, err := GetOrgSettings(ctx, src, srcOrg)
	if err != nil {
		return settings.Result[types.OrgSettings]{}, err
	}
	overlay, err := source.Document()
	if err != nil {
		return settings.Result[types.OrgSettings]{}, err
	}
	delete(overlay, "name")
	if !includeGhas {
		for _, key := range types.OrgGhasFields {
			delete(overlay, key)
		}
	}
	return LoadOrgSettings(ctx, dest, destOrg, overlay, dryRun)
}

// GetOrgID retrieves the GraphQL node ID of an organization
func GetOrgID(ctx context.Context, c GitHubClient, org string) (string, error) {
	var query orgIDQuery
	if err := c.Query(ctx, &query, map[string]any{"org": githubString(org)}); err != nil {
		return "", fmt.Errorf("failed to look up organization '%s': %w", org, err)
	}
	return fmt.Sprint(query.Organization.ID), nil
}

// ListOrganizationRepositories lists the repositories of an organization
func ListOrganizationRepositories(ctx context.Context, c GitHubClient, org, sort, repoType string) ([]types.Repo, error) {
	if sort == "" {
		sort = types.SortFullName
	}
	if repoType == "" {
		repoType = types.TypeAll
	}
	path := fmt.Sprintf("orgs/%s/repos?sort=%s&type=%s",
		org, types.OrgRepoSort.Token(sort), types.OrgRepoType.Token(repoType))

	var repos []types.Repo
	err := c.FetchPages(ctx, path, func(page json.RawMessage) error {
		var items []repoPayload
		if err := json.Unmarshal(page, &items); err != nil {
			return fmt.Errorf("failed to parse repositories of '%s': %w", org, err)
		}
		for _, item := range items {
			repos = append(repos, item.repo())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debugf("Found %d repositories in %s", len(repos), org)
	return repos, nil
}

type repoPayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	URL      string `json:"url"`
	Private  bool   `json:"private"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (r repoPayload) repo() types.Repo {
	return types.Repo{
		ID:        r.ID,
		Name:      r.Name,
		Owner:     r.Owner.Login,
		FullName:  r.FullName,
		URL:       r.URL,
		IsPrivate: r.Private,
	}
}

// repositoriesPage is the body of endpoints that wrap repositories in a
// counted list
type repositoriesPage struct {
	TotalCount   int           `json:"total_count"`
	Repositories []repoPayload `json:"repositories"`
}

func collectRepositories(ctx context.Context, c GitHubClient, path string) ([]types.Repo, error) {
	var repos []types.Repo
	err := c.FetchPages(ctx, path, func(page json.RawMessage) error {
		var body repositoriesPage
		if err := json.Unmarshal(page, &body); err != nil {
			return fmt.Errorf("failed to parse repositories from %s: %w", path, err)
		}
		for _, item := range body.Repositories {
			repos = append(repos, item.repo())
		}
		return nil
	})
	return repos, err
}
