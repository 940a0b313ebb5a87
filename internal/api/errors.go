package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

var statusText = map[int]string{
	http.StatusUnauthorized:        "Bad credentials",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusConflict:            "Conflict",
	http.StatusUnprocessableEntity: "Unprocessable Entity",
}

// classify turns client errors into an *types.APIError. Other failures are
// wrapped with the resource they refer to.
func classify(context string, err error) error {
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		return fmt.Errorf("%s: %w", context, err)
	}

	status, ok := statusText[httpErr.StatusCode]
	if !ok {
		return fmt.Errorf("%s: %w", context, err)
	}
	if httpErr.StatusCode == http.StatusNotFound && httpErr.RequestURL != nil {
		context = httpErr.RequestURL.String()
	}

	details := map[string]any{"message": httpErr.Message}
	if len(httpErr.Errors) > 0 {
		items := make([]map[string]string, 0, len(httpErr.Errors))
		for _, item := range httpErr.Errors {
			items = append(items, map[string]string{
				"resource": item.Resource,
				"field":    item.Field,
				"code":     item.Code,
				"message":  item.Message,
			})
		}
		details["errors"] = items
	}

	return &types.APIError{
		Code:    httpErr.StatusCode,
		Status:  status,
		Context: context,
		Details: details,
		Err:     err,
	}
}
