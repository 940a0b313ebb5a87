package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/callmegreg/gh-migrate-settings/internal/types"
)

// Format selects how list commands serialize their result
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

var compactConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Output writes command results to stdout or a file
type Output struct {
	W        io.Writer
	Format   Format
	Compact  bool
	Terminal bool
}

// NewOutput opens the output of a list command. An empty path writes to
// stdout. The returned close function must be called when done.
func NewOutput(path string, format Format, compact bool) (*Output, func() error, error) {
	if path == "" || path == "-" {
		return &Output{
			W:        os.Stdout,
			Format:   format,
			Compact:  compact,
			Terminal: term.IsTerminal(int(os.Stdout.Fd())),
		}, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &Output{W: f, Format: format}, f.Close, nil
}

// Write serializes v. Compact output is a Go value dump and is only used on
// an interactive terminal.
func (o *Output) Write(v any) error {
	if o.Compact && o.Terminal {
		compactConfig.Fdump(o.W, v)
		return nil
	}

	switch o.Format {
	case FormatJSON:
		enc := json.NewEncoder(o.W)
		if o.Terminal {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(o.W)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}

// PrintError reports a command failure. API errors are written as indented
// JSON so that scripts can parse them; everything else goes through pterm.
func PrintError(w io.Writer, err error) {
	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintln(w, apiErr.JSON())
		return
	}
	pterm.Error.WithWriter(w).Printf("Error: %v\n", err)
}
