package types

// Organization represents a GitHub organization
type Organization struct {
	NodeID      string `json:"node_id" yaml:"node_id"`
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
}

// ProcessingResult represents the result of processing a single repository
type ProcessingResult struct {
	Repository string
	Success    bool
	Skipped    bool
	Changes    int
	Error      error
}
