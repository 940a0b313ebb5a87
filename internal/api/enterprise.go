package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

// Built-in organizations present on every GitHub Enterprise Server instance
var builtinOrganizations = map[string]bool{
	"actions": true,
	"github":  true,
}

// GetOrganizationsInEnterprise lists the organizations of an enterprise. On
// GitHub.com the enterprise is queried through GraphQL; on GitHub Enterprise
// Server every organization of the instance is listed except the built-in ones.
func GetOrganizationsInEnterprise(ctx context.Context, c GitHubClient, enterprise string) ([]types.Organization, error) {
	if IsCloud(c.Host()) {
		return fetchCloudEnterpriseOrganizations(ctx, c, enterprise)
	}
	return fetchServerOrganizations(ctx, c)
}

func fetchCloudEnterpriseOrganizations(ctx context.Context, c GitHubClient, enterprise string) ([]types.Organization, error) {
	var cursor *githubv4.String
	var orgs []types.Organization

	for {
		var query enterpriseOrgsQuery
		variables := map[string]any{
			"slug":   githubString(enterprise),
			"cursor": cursor,
		}
		if err := c.Query(ctx, &query, variables); err != nil {
			return nil, &types.EnterpriseAccessError{Enterprise: enterprise, Reason: err.Error()}
		}
		if query.Enterprise == nil {
			return nil, &types.EnterpriseAccessError{Enterprise: enterprise}
		}

		page := query.Enterprise.Organizations
		for _, node := range page.Nodes {
			org := types.Organization{
				NodeID: fmt.Sprint(node.ID),
				Name:   string(node.Login),
				URL:    string(node.URL),
			}
			if node.Description != nil {
				org.Description = string(*node.Description)
			}
			orgs = append(orgs, org)
		}
		if !page.PageInfo.HasNextPage {
			break
		}
		end := page.PageInfo.EndCursor
		cursor = &end
	}

	return orgs, nil
}

func fetchServerOrganizations(ctx context.Context, c GitHubClient) ([]types.Organization, error) {
	var orgs []types.Organization
	err := c.FetchPages(ctx, "organizations", func(page json.RawMessage) error {
		var items []struct {
			NodeID      string  `json:"node_id"`
			Login       string  `json:"login"`
			URL         string  `json:"url"`
			Description *string `json:"description"`
		}
		if err := json.Unmarshal(page, &items); err != nil {
			return fmt.Errorf("failed to parse organizations: %w", err)
		}
		for _, item := range items {
			if builtinOrganizations[item.Login] {
				continue
			}
			org := types.Organization{NodeID: item.NodeID, Name: item.Login, URL: item.URL}
			if item.Description != nil {
				org.Description = *item.Description
			}
			orgs = append(orgs, org)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orgs, nil
}
