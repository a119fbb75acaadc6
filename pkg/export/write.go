package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// WriteJSON writes doc as indented JSON. With compress set the output is a
// snappy framed stream.
func WriteJSON(w io.Writer, doc *Document, compress bool) error {
	if !compress {
		return encode(w, doc)
	}

	sw := snappy.NewBufferedWriter(w)
	if err := encode(sw, doc); err != nil {
		sw.Close()
		return err
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("failed to flush compressed export: %w", err)
	}
	return nil
}

// ReadJSON decodes a document written by WriteJSON
func ReadJSON(r io.Reader, compressed bool) (*Document, error) {
	if compressed {
		r = snappy.NewReader(r)
	}
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode export: %w", err)
	}
	return &doc, nil
}

func encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}
