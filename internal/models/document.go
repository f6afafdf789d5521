package models

import (
	"strconv"
	"strings"
	"time"
)

// Firestore hands back loosely typed maps: numbers arrive as int64 or float64
// depending on how they were written, and older documents use different keys
// for the same field. These readers take the first key present with a usable value.

func docString(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := data[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func docFloat(data map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := data[k].(type) {
		case float64:
			return v, true
		case int64:
			return float64(v), true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func docBool(data map[string]any, keys ...string) bool {
	for _, k := range keys {
		if b, ok := data[k].(bool); ok {
			return b
		}
	}
	return false
}

func docTime(data map[string]any, keys ...string) *time.Time {
	for _, k := range keys {
		switch v := data[k].(type) {
		case time.Time:
			if !v.IsZero() {
				t := v.UTC()
				return &t
			}
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}

func docStrings(data map[string]any, keys ...string) []string {
	for _, k := range keys {
		switch v := data[k].(type) {
		case []string:
			return append([]string{}, v...)
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			return out
		}
	}
	return []string{}
}
