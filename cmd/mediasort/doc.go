// Package main hosts the mediasort CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration resolution, structured
// logging, the TMDB client, the pick cache, and the decision ledger into
// the classification engine. Subcommands cover classification runs, the
// rescue pass for unclassified names, cache and ledger maintenance, and
// configuration scaffolding.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
