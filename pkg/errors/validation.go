package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// keyRegex matches valid type and relation keys: an ASCII letter followed by
// letters, digits, hyphens, or underscores.
var keyRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateKey validates a card type or relation type key.
//
// Keys travel through URLs, cache keys, and file names, so the rules are
// intentionally conservative:
//   - No empty keys
//   - Maximum length of 64 characters
//   - Must start with a letter; only letters, digits, "-" and "_"
func ValidateKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "key cannot be empty")
	}

	if len(key) > 64 {
		return New(ErrCodeInvalidKey, "key too long (max 64 characters)")
	}

	if !keyRegex.MatchString(key) {
		return New(ErrCodeInvalidKey, "invalid key: %q", key)
	}

	return nil
}

// ValidateModelName validates a metamodel name for safety.
// Model names become file names and database identifiers, so path characters
// and control characters are rejected.
func ValidateModelName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidModel, "model name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidModel, "model name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModel, "model name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidModel, "model name cannot contain path characters")
	}

	return nil
}

// categoryRegex matches valid category names: lowercase slugs.
var categoryRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidateCategory validates a layer category name.
func ValidateCategory(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCategory, "category cannot be empty")
	}

	if !categoryRegex.MatchString(name) {
		return New(ErrCodeInvalidCategory, "invalid category: %q (lowercase slugs only)", name)
	}

	return nil
}

// Cardinality values accepted on relation types.
var cardinalities = map[string]bool{
	"one-to-one":   true,
	"one-to-many":  true,
	"many-to-one":  true,
	"many-to-many": true,
}

// ValidateCardinality validates a relation cardinality string.
// An empty value is allowed and means unconstrained.
func ValidateCardinality(c string) error {
	if c == "" {
		return nil
	}

	if !cardinalities[c] {
		return New(ErrCodeInvalidCardinality, "invalid cardinality: %q", c)
	}

	return nil
}

// ValidatePath validates a file path for the file-backed store.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
