package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxDepth is the largest traversal depth accepted from user input.
const MaxDepth = 50

// ValidatePersonID validates a person identifier taken from user input.
// Identifiers are opaque, but they end up in cache keys, URLs and asset
// file names, so anything that could escape those contexts is rejected:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - No control characters, whitespace, slashes, backslashes or ".."
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "person ID cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "person ID too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "person ID contains invalid characters")
		}
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "person ID contains invalid characters: %q", id)
	}
	return nil
}

// entityIDRegex matches Wikibase item identifiers such as Q42.
var entityIDRegex = regexp.MustCompile(`^Q[1-9][0-9]*$`)

// ValidateEntityID validates a Wikibase item identifier.
func ValidateEntityID(id string) error {
	if err := ValidatePersonID(id); err != nil {
		return err
	}
	if !entityIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid entity ID: %q", id)
	}
	return nil
}

// ValidateDepth validates a traversal depth bound.
func ValidateDepth(depth int) error {
	if depth < 0 {
		return New(ErrCodeInvalidDepth, "depth must be non-negative, got %d", depth)
	}
	if depth > MaxDepth {
		return New(ErrCodeInvalidDepth, "depth too large (max %d), got %d", MaxDepth, depth)
	}
	return nil
}

// ValidatePath validates a relative file path for safety.
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

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
