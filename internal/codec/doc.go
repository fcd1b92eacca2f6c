// Package codec serializes event records to and from the JSON representation
// stored in the event log. Each record carries a human-readable generation
// timestamp ("02/01/2006 - 15:04:05") next to its payload fields.
package codec
