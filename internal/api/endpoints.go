package api

import (
	"strings"
)

const (
	// DefaultHostname is the API host used when no hostname is configured
	DefaultHostname = "api.github.com"

	cloudAPI        = "https://api.github.com"
	enterpriseREST  = "/api/v3"
	enterpriseGraph = "/api/graphql"
)

// IsCloud reports whether a hostname refers to GitHub.com (GHEC)
func IsCloud(hostname string) bool {
	host := strings.ToLower(strings.TrimSpace(hostname))
	switch host {
	case "", "github.com", "api.github.com", cloudAPI:
		return true
	}
	return false
}

// RESTEndpoint resolves the REST API base URL of a GitHub instance
func RESTEndpoint(hostname string) string {
	return resolveEndpoint(hostname, "", enterpriseREST)
}

// GraphQLEndpoint resolves the GraphQL API URL of a GitHub instance
func GraphQLEndpoint(hostname string) string {
	return resolveEndpoint(hostname, "/graphql", enterpriseGraph)
}

func resolveEndpoint(hostname, cloudPath, enterprisePath string) string {
	host := strings.ToLower(strings.TrimSpace(hostname))
	switch {
	case IsCloud(host):
		return cloudAPI + cloudPath
	case strings.HasPrefix(host, "https://"):
		return host
	case strings.HasSuffix(host, enterprisePath):
		return "https://" + host
	default:
		return "https://" + host + enterprisePath
	}
}

// Hostname reduces a configured hostname or API URL to the bare host that the
// gh REST client and credential store expect
func Hostname(hostname string) string {
	host := strings.ToLower(strings.TrimSpace(hostname))
	if IsCloud(host) {
		return "github.com"
	}
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}
	return host
}
