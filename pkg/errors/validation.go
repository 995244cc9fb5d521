package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxCandidateLabel is the maximum length of a candidate name or short label.
const MaxCandidateLabel = 128

// ValidateCandidateLabel validates a candidate name or short label. Labels
// end up in DOT sources, SVG text and terminal output, so they must be
// non-empty, reasonably short and free of control characters.
func ValidateCandidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return New(ErrCodeInvalidInput, "candidate label cannot be empty")
	}

	if len(label) > MaxCandidateLabel {
		return New(ErrCodeInvalidInput, "candidate label too long (max %d characters)", MaxCandidateLabel)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "candidate label contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates a file path given for writing output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must name a file, not end in a path separator
func ValidateOutputPath(path string) error {
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

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}
