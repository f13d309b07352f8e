package model

import (
	"encoding/json"
	"strings"
)

// StringList accepts either a JSON array of strings or a single string.
// LLMs return the sales plan in both shapes depending on the model, so
// the ambiguity is resolved once here at the unmarshal boundary.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = splitFreeText(s)
	return nil
}

// splitFreeText breaks a free-text plan into list items. Bracketed
// JSON-array-looking strings are split on commas outside double quotes
// so a quoted item may itself contain commas; everything else splits on
// newlines.
func splitFreeText(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var parts []string
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		parts = splitOutsideQuotes(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
	} else {
		parts = strings.Split(s, "\n")
	}

	var items []string
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), `"`)
		part = strings.TrimSpace(strings.ReplaceAll(part, `\"`, `"`))
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

func splitOutsideQuotes(s string) []string {
	var (
		parts    []string
		buf      strings.Builder
		inQuotes bool
		escaped  bool
	)
	for _, r := range s {
		switch {
		case escaped:
			buf.WriteRune(r)
			escaped = false
		case r == '\\':
			buf.WriteRune(r)
			escaped = true
		case r == '"':
			buf.WriteRune(r)
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			parts = append(parts, buf.String())
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}
	return append(parts, buf.String())
}

// Join renders the list with the given separator, or empty string when
// nothing was extracted.
func (l StringList) Join(sep string) string {
	return strings.Join(l, sep)
}
