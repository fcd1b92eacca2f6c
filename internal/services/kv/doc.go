// Package kvsvc is a plain key/value passthrough stored next to the event
// logs, in Pebble (kv/<key>) or Redis (kv:<key>).
package kvsvc
