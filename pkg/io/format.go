package io

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a ballot file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

var (
	// ErrUnsupportedFormat is returned for an unknown format name or file
	// extension, and for writing a format that is read-only.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidDocument is returned when a decoded document is structurally
	// incomplete, e.g. a candidate without a name.
	ErrInvalidDocument = errors.New("invalid ballot document")
)

// Formats lists every readable format.
var Formats = []Format{FormatJSON, FormatTOML, FormatYAML, FormatHCL}

// ParseFormat converts a format name such as "yml" or "JSON" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}
