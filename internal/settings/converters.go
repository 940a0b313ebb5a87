package settings

import "strings"

// Equals converts a string token to true when it matches want, ignoring case.
// Non-string values are passed through so the field kind can reject them.
func Equals(want string) Converter {
	return func(v any) any {
		s, ok := v.(string)
		if !ok {
			return v
		}
		return strings.EqualFold(s, want)
	}
}

// NotEquals converts a string token to true unless it matches unwanted
func NotEquals(unwanted string) Converter {
	return func(v any) any {
		s, ok := v.(string)
		if !ok {
			return v
		}
		return !strings.EqualFold(s, unwanted)
	}
}

// Enabled converts a {"status": "enabled"} object to a bool. A missing object
// or any other status reads as false.
func Enabled(v any) any {
	obj, ok := v.(map[string]any)
	if !ok {
		if v == nil {
			return false
		}
		return v
	}
	status, _ := obj["status"].(string)
	return strings.EqualFold(status, "enabled")
}

// Status renders a bool as the {"status": ...} object the API expects
func Status(enabled bool) map[string]any {
	if enabled {
		return map[string]any{"status": "enabled"}
	}
	return map[string]any{"status": "disabled"}
}

// StringPtr exchanges a nullable string field value
func StringPtr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// ToStringPtr is the setter counterpart of StringPtr
func ToStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// ToString returns a string field value, or "" when unset
func ToString(v any) string {
	s, _ := v.(string)
	return s
}

// ToBool returns a bool field value, or false when unset
func ToBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// ToInt returns an int field value, or 0 when unset
func ToInt(v any) int {
	n, _ := v.(int)
	return n
}

// ToStrings returns a string list field value
func ToStrings(v any) []string {
	list, _ := v.([]string)
	return list
}
