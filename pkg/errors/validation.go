package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxDraftNameLength bounds draft names, which also become output filenames.
const MaxDraftNameLength = 128

// ValidateDraftName validates a draft name for safety.
// Draft names double as the PDF filename stem, so they must not carry
// path components or characters that break a Content-Disposition header.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - No path separators or traversal sequences
//   - No double quotes
//   - Maximum length of 128 characters
func ValidateDraftName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidDraftName, "draft name cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxDraftNameLength {
		return New(ErrCodeInvalidDraftName, "draft name too long (max %d characters)", MaxDraftNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDraftName, "draft name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",
		"/",
		"\\",
		"\"",
		"\x00",
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidDraftName, "draft name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// fieldKeyRegex matches form field keys such as "Topic" or "Option2Benefits/Revenue".
var fieldKeyRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9/_-]*$`)

// ValidateFieldKey validates a form field key read from an import file.
func ValidateFieldKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidFieldKey, "field key cannot be empty")
	}
	if len(key) > 64 {
		return New(ErrCodeInvalidFieldKey, "field key too long (max 64 characters)")
	}
	if !fieldKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidFieldKey, "invalid field key: %q", key)
	}
	return nil
}

// ValidateOwnerID validates an owner identity carried in a cookie or flag.
// Owners are random UUIDs, plus the fixed "local" owner used by the CLI.
func ValidateOwnerID(id string) error {
	if id == "local" {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidOwner, err, "invalid owner id")
	}
	return nil
}

// ValidatePath validates a relative resource path (logo files, profiles)
// for safety. It prevents path traversal and ensures reasonable path length.
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
