// Package request validates inbound write bodies at the transport boundary.
// Bodies are checked against JSON schemas once, before any storage call, and
// rejected with a *ValidationError that wraps ErrValidation.
package request
