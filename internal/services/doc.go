// Package services defines shared error-handling utilities consumed across the
// classification pipeline.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep failure context
//     (component, operation, detail) uniform across components.
//   - Retry classification for transient remote failures.
//
// Use these helpers when wiring new logic so error handling stays uniform
// across the pipeline.
package services
