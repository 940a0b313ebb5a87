package settings

import (
	"fmt"
	"strings"
)

// Enum is a closed set of upper-case member names. Members travel on the wire
// as their lower-case name and are parsed case-insensitively.
type Enum struct {
	name    string
	members []string
}

// NewEnum declares an enumeration. Member names are normalized to upper case.
func NewEnum(name string, members ...string) *Enum {
	normalized := make([]string, len(members))
	for i, m := range members {
		normalized[i] = strings.ToUpper(m)
	}
	return &Enum{name: name, members: normalized}
}

// Name returns the enumeration name
func (e *Enum) Name() string {
	return e.name
}

// Members returns the member names in declaration order
func (e *Enum) Members() []string {
	out := make([]string, len(e.members))
	copy(out, e.members)
	return out
}

// Tokens returns the wire tokens in declaration order
func (e *Enum) Tokens() []string {
	out := make([]string, len(e.members))
	for i, m := range e.members {
		out[i] = strings.ToLower(m)
	}
	return out
}

// Parse resolves a wire token to its member name
func (e *Enum) Parse(token string) (string, error) {
	for _, m := range e.members {
		if strings.EqualFold(m, token) {
			return m, nil
		}
	}
	return "", fmt.Errorf("'%s' is not a valid %s (expected one of %s)", token, e.name, strings.Join(e.Tokens(), ", "))
}

// Token returns the wire token for a member name
func (e *Enum) Token(member string) string {
	return strings.ToLower(member)
}
