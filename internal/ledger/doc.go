// Package ledger persists classification decisions in SQLite. It is the
// durable record of every run: confident picks, unclassified leftovers for
// the rescue pass, and the run that produced each record.
package ledger
