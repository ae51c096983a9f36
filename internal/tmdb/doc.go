// Package tmdb provides a typed client for the TMDB API surface used by
// classification: movie/tv/multi search, external-ID lookup, detail fetches
// with certification blocks, and alternative titles.
package tmdb
