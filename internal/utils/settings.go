package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

// OpenInput opens path for reading, or returns stdin when path is empty or
// "-". The returned close function must be called when done.
func OpenInput(path string, stdin io.Reader) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, f.Close, nil
}

// ReadSettings reads a flat YAML or JSON settings document
func ReadSettings(r io.Reader) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("settings document is empty")
		}
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("settings document is empty")
	}
	return doc, nil
}

// ReadSecrets reads a YAML or JSON mapping of secret names to values. With
// upper set, names are converted to upper case.
func ReadSecrets(r io.Reader, upper bool) (map[string]string, error) {
	doc, err := ReadSettings(r)
	if err != nil {
		return nil, err
	}

	secrets := make(map[string]string, len(doc))
	for name, value := range doc {
		str, ok := value.(string)
		if !ok {
			return nil, &types.SecretsFileError{Name: name}
		}
		if upper {
			name = strings.ToUpper(name)
		}
		secrets[name] = str
	}
	return secrets, nil
}
