// Package enrichment reconciles a combined source/destination table against
// a set of column mappings and summarizes the result.
package enrichment

import (
	"strings"
)

// SplitColumns partitions names into source and destination columns by a
// case-insensitive marker contained in the name. Columns carrying neither
// marker are ignored.
func SplitColumns(names []string, sourceMarker, destinationMarker string) (source, destination []string) {
	src := strings.ToLower(sourceMarker)
	dst := strings.ToLower(destinationMarker)

	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case src != "" && strings.Contains(lower, src):
			source = append(source, name)
		case dst != "" && strings.Contains(lower, dst):
			destination = append(destination, name)
		}
	}
	return source, destination
}
