// Package library maps classification decisions to destination paths under
// the configured movie and TV roots. It plans; it never moves files.
package library
