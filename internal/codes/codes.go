// Package codes holds the closed ISO 20022 external code sets consumed by
// the parsing engine. Each table is a typed string constant set with
// exhaustive dispatch for its name and definition. The engine consults
// these read-only, to attach descriptive metadata and (when strict
// validation is enabled) to reject codes outside the set.
package codes

import "strings"

// normalize trims and upper-cases a code token for case-insensitive lookup.
func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
