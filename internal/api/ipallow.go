package api

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shurcooL/githubv4"

	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

var validate = validator.New()

// GetOrgIPAllowList retrieves every IP allow list entry of an organization
func GetOrgIPAllowList(ctx context.Context, c GitHubClient, org string) ([]types.IPAllowListEntry, error) {
	var cursor *githubv4.String
	var entries []types.IPAllowListEntry

	for {
		var query ipAllowListQuery
		variables := map[string]any{
			"org":    githubString(org),
			"cursor": cursor,
		}
		if err := c.Query(ctx, &query, variables); err != nil {
			return nil, fmt.Errorf("failed to read IP allow list of '%s': %w", org, err)
		}

		page := query.Organization.IPAllowListEntries
		for _, node := range page.Nodes {
			entries = append(entries, node.entry())
		}
		if !page.PageInfo.HasNextPage {
			break
		}
		end := page.PageInfo.EndCursor
		cursor = &end
	}

	return entries, nil
}

// CreateOrgIPAllowListEntry adds an address or CIDR range to the IP allow list
// of an organization
func CreateOrgIPAllowListEntry(ctx context.Context, c GitHubClient, org, value, name string, active bool) (types.IPAllowListEntry, error) {
	if err := validate.Var(value, "required,cidr|ip"); err != nil {
		return types.IPAllowListEntry{}, fmt.Errorf("'%s' is not an IP address or CIDR range", value)
	}

	ownerID, err := GetOrgID(ctx, c, org)
	if err != nil {
		return types.IPAllowListEntry{}, err
	}

	input := githubv4.CreateIpAllowListEntryInput{
		OwnerID:        githubv4.ID(ownerID),
		AllowListValue: githubv4.String(value),
		IsActive:       githubv4.Boolean(active),
	}
	if name != "" {
		input.Name = githubv4.NewString(githubv4.String(name))
	}

	var m createIPAllowListEntryMutation
	if err := c.Mutate(ctx, &m, input, nil); err != nil {
		return types.IPAllowListEntry{}, fmt.Errorf("failed to create IP allow list entry in '%s': %w", org, err)
	}
	return m.CreateIPAllowListEntry.IPAllowListEntry.entry(), nil
}

// DeleteOrgIPAllowListEntry removes an IP allow list entry by its node ID
func DeleteOrgIPAllowListEntry(ctx context.Context, c GitHubClient, id string) (types.IPAllowListEntry, error) {
	input := githubv4.DeleteIpAllowListEntryInput{
		IPAllowListEntryID: githubv4.ID(id),
	}

	var m deleteIPAllowListEntryMutation
	if err := c.Mutate(ctx, &m, input, nil); err != nil {
		return types.IPAllowListEntry{}, fmt.Errorf("failed to delete IP allow list entry '%s': %w", id, err)
	}
	return m.DeleteIPAllowListEntry.IPAllowListEntry.entry(), nil
}

func (n ipAllowListNode) entry() types.IPAllowListEntry {
	entry := types.IPAllowListEntry{
		ID:             fmt.Sprint(n.ID),
		AllowListValue: string(n.AllowListValue),
		IsActive:       bool(n.IsActive),
	}
	if n.Name != nil {
		entry.Name = string(*n.Name)
	}
	return entry
}
