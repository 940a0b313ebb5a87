package api

import "github.com/shurcooL/githubv4"

type orgIDQuery struct {
	Organization struct {
		ID githubv4.ID
	} `graphql:"organization(login: $org)"`
}

type ipAllowListNode struct {
	ID             githubv4.ID
	AllowListValue githubv4.String
	IsActive       githubv4.Boolean
	Name           *githubv4.String
}

// ipAllowListQuery pages through the IP allow list of an organization
type ipAllowListQuery struct {
	Organization struct {
		IPAllowListEntries struct {
			Nodes    []ipAllowListNode
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
		} `graphql:"ipAllowListEntries(first: 100, after: $cursor)"`
	} `graphql:"organization(login: $org)"`
}

type createIPAllowListEntryMutation struct {
	CreateIPAllowListEntry struct {
		IPAllowListEntry ipAllowListNode
	} `graphql:"createIpAllowListEntry(input: $input)"`
}

type deleteIPAllowListEntryMutation struct {
	DeleteIPAllowListEntry struct {
		IPAllowListEntry ipAllowListNode
	} `graphql:"deleteIpAllowListEntry(input: $input)"`
}

// enterpriseOrgsQuery pages through the organizations of a GHEC enterprise
type enterpriseOrgsQuery struct {
	Enterprise *struct {
		Organizations struct {
			Nodes []struct {
				ID          githubv4.ID
				Login       githubv4.String
				Description *githubv4.String
				URL         githubv4.String
			}
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
		} `graphql:"organizations(first: 100, after: $cursor)"`
	} `graphql:"enterprise(slug: $slug)"`
}

func githubString(s string) githubv4.String {
	return githubv4.String(s)
}
