package db

import "strings"

// Key joins a namespace prefix and key parts with ":".
// The prefix is expected to carry its own trailing separator ("jobmatch:").
func Key(prefix string, parts ...string) string {
	return prefix + strings.Join(parts, ":")
}
