// Package scoring turns snapshot records into comparable scores, either from
// a named numeric field or from a CEL expression over `snapshot`.
package scoring
