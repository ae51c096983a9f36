// Package textutil provides text processing utilities for similarity scoring,
// transliteration, and filename sanitization.
//
// The primary use cases are:
//   - Token-order-insensitive similarity ratios for candidate scoring
//   - Rendering titles safe for filesystem use under a configurable strategy
//   - Latin-script detection and romanization of non-Latin titles
//   - Collapsing duplicated phrase runs left behind by aggressive cleanup
//
// Similarity ratios are edit-distance based and reported in [0,100] so scoring
// adjustments can work in whole points.
package textutil
