// Package normalize turns noisy release filenames into stable, parse-friendly
// titles. It strips uploader tails, release and language tags, domains, credit
// heads, and bracket noise while preserving year and episode markers, and it
// derives the cleaned query text used for metadata lookups.
package normalize
