package io

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteYAML encodes a document as YAML and writes it to w.
func WriteYAML(d *Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadYAML decodes and validates a YAML document from r.
// ReadYAML does not close r.
func ReadYAML(r io.Reader) (*Document, error) {
	d := New()
	if err := yaml.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
