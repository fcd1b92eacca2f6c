// Package aggregate reduces an entity's event sequence to a single value.
//
// Reducers must be associative and independent of record order, since
// concurrent appends to one entity may interleave arbitrarily. Balance sums
// transaction amounts; BestScore keeps the maximum of an extracted score and
// reports Found=false when nothing qualified.
package aggregate
