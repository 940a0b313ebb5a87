package types

import (
	"encoding/json"
	"fmt"
)

// APIError represents a client error returned by the GitHub API, classified
// by HTTP status
type APIError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Context string `json:"context"`
	Details any    `json:"details"`
	Err     error  `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Status, e.Code, e.Context)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// JSON renders the error report printed by the CLI
func (e *APIError) JSON() string {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return e.Error()
	}
	return string(data)
}

// EnterpriseAccessError represents an enterprise whose organizations cannot be
// read with the current credentials
type EnterpriseAccessError struct {
	Enterprise string
	Reason     string
}

func (e *EnterpriseAccessError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("error retrieving organizations from '%s': %s", e.Enterprise, e.Reason)
	}
	return fmt.Sprintf("no organizations found in '%s'. Token requires read:enterprise permissions", e.Enterprise)
}

// SecretsFileError represents a secrets file entry that is not a name/value pair
type SecretsFileError struct {
	Name string
}

func (e *SecretsFileError) Error() string {
	return fmt.Sprintf("secret '%s' must have a string value", e.Name)
}
