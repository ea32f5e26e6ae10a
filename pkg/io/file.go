package io

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions without a codec.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format matching the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Write encodes d in the given format.
func Write(d *Document, w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(d, w)
	case FormatYAML:
		return WriteYAML(d, w)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// Read decodes a document in the given format.
func Read(r io.Reader, f Format) (*Document, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

// Import reads the document file at path, choosing the codec by extension.
// Errors wrap the underlying cause with the file path.
func Import(path string) (*Document, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	d, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Export writes d to the file at path, choosing the codec by extension.
func Export(d *Document, path string) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(d, file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
