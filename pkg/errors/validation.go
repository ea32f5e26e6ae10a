package errors

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ValidateDocumentID validates a document identifier.
// Document IDs are UUIDs assigned by the store.
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "document ID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid document ID %q", id)
	}
	return nil
}

// ValidateDocumentName validates a human-readable document name.
// Names end up in file names of exported documents, so the rules are
// conservative:
//   - No empty or blank names
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateDocumentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "document name cannot be empty")
	}

	const maxNameLength = 128
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "document name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "document name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "document name cannot contain path components")
	}

	return nil
}

// ValidateFormat validates a document file format name.
func ValidateFormat(format string) error {
	switch strings.ToLower(format) {
	case "json", "yaml", "yml", "dot", "svg":
		return nil
	case "":
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (use json, yaml, dot or svg)", format)
}
