// Package pickcache persists confident classification decisions keyed by
// the sanitized source name, so repeated runs over the same corpus skip
// remote lookups entirely.
package pickcache
