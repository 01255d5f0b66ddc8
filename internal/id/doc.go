// Package id provides unique identifier generation utilities.
//
// This is the canonical source for ID generation across the codebase.
// It provides a couple of ID formats for different use cases:
//
//   - UUID: Standard UUID v4 (random) for general-purpose unique identifiers
//   - Short: 16-character hex IDs for user-facing contexts where brevity matters
//   - Alphanumeric: Configurable-length random alphanumeric strings
//
// All ID generation functions use crypto/rand for secure randomness.
package id
