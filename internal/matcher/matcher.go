// Package matcher provides the value-level predicates and format signatures
// used to infer column types in CRM and export datasets.
//
// Every predicate operates on a trimmed, non-null string. Every signature
// function reduces a value the predicate accepted to a coarse structural
// fingerprint; a column whose matching values produce several distinct
// fingerprints is using several layouts for the same kind of data.
package matcher

import "strings"

// Type is an inferred column type.
type Type string

const (
	TypeURL     Type = "url"
	TypeEmail   Type = "email"
	TypePhone   Type = "phone"
	TypeDate    Type = "date"
	TypeBoolean Type = "boolean"
	TypeInteger Type = "integer"
	TypeFloat   Type = "float"
	TypeString  Type = "string"
)

// Priority returns the types in the order they are tried. The first type
// whose match ratio clears the threshold wins.
func Priority() []Type {
	return []Type{
		TypeURL,
		TypeEmail,
		TypePhone,
		TypeDate,
		TypeBoolean,
		TypeInteger,
		TypeFloat,
		TypeString,
	}
}

// Rank returns the position of t in Priority, or -1 for unknown types.
func Rank(t Type) int {
	for i, candidate := range Priority() {
		if candidate == t {
			return i
		}
	}
	return -1
}

// joinSignature joins signature components with "|".
func joinSignature(parts []string) string {
	return strings.Join(parts, "|")
}
