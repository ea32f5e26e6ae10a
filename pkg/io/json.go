package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON encodes a document as indented JSON and writes it to w.
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes and validates a JSON document from r.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	d := New()
	if err := json.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Marshal returns the compact JSON encoding of d, as kept by document stores.
func Marshal(d *Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates a JSON document.
func Unmarshal(data []byte) (*Document, error) {
	return ReadJSON(bytes.NewReader(data))
}
