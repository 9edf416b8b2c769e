// Package sqlutil quotes and validates identifiers used by the report store.
package sqlutil

import (
	"regexp"
	"strings"
)

// QuoteIdentifier wraps a MySQL identifier in backticks, doubling any
// backticks it already contains.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier reports whether name is made only of letters, digits
// and underscores.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe validates name before quoting it.
func QuoteIdentifierSafe(name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return QuoteIdentifier(name), nil
}

// TableName joins a configured prefix with a base table name and quotes the
// result. The prefix may be empty.
func TableName(prefix, name string) (string, error) {
	return QuoteIdentifierSafe(prefix + name)
}

// InvalidIdentifierError is returned when an identifier contains characters
// outside [a-zA-Z0-9_].
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
