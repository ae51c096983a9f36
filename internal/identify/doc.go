// Package identify turns noisy release-style names into classification
// decisions. It builds candidate search queries from the normalized name,
// resolves them against the metadata catalog with fuzzy scoring, and fuses
// the result with filename markers into a final movie/TV/kids decision.
package identify
