package utils

import (
	"os"
	"strings"
)

// Getenv reads an environment variable, falling back when it is unset or
// empty. Empty counts as unset so `VAR=` in a .env file does not wipe out a
// default.
func Getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// GetenvList reads a comma-separated environment variable into a slice,
// trimming whitespace around each entry. Used for values like the CORS
// origin allowlist.
func GetenvList(key string, fallback []string) []string {
	raw := Getenv(key, "")
	if raw == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
