// Package loader reads connectome fixture documents (YAML or JSON) into an
// immutable storage.Graph. It is a thin adapter: the document shape mirrors
// storage.Node and storage.Edge, and every record is validated before load.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dd0wney/connectome-metrics/pkg/logging"
	"github.com/dd0wney/connectome-metrics/pkg/storage"
	"github.com/dd0wney/connectome-metrics/pkg/validation"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for a file extension with no decoder
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is the on-disk form of a graph. Directed defaults to true.
type Document struct {
	Directed *bool                 `json:"directed,omitempty" yaml:"directed,omitempty"`
	Nodes    []validation.NodeSpec `json:"nodes" yaml:"nodes"`
	Edges    []validation.EdgeSpec `json:"edges" yaml:"edges"`
}

// Decoder decodes a document from a reader
type Decoder interface {
	Decode(r io.Reader, doc *Document) error
	Extension() string
}

// YAMLDecoder decodes YAML documents. Unknown fields are rejected.
type YAMLDecoder struct{}

func (YAMLDecoder) Decode(r io.Reader, doc *Document) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	return dec.Decode(doc)
}

func (YAMLDecoder) Extension() string {
	return "yaml"
}

// JSONDecoder decodes JSON documents. Unknown fields are rejected.
type JSONDecoder struct{}

func (JSONDecoder) Decode(r io.Reader, doc *Document) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(doc)
}

func (JSONDecoder) Extension() string {
	return "json"
}

// DecoderFor picks a decoder from a file extension
func DecoderFor(path string) (Decoder, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yaml", "yml":
		return YAMLDecoder{}, nil
	case "json":
		return JSONDecoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads and loads the document at path
func LoadFile(path string, logger logging.Logger) (*storage.Graph, error) {
	dec, err := DecoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph document: %w", err)
	}
	defer f.Close()

	return Load(f, dec, logging.OrDefault(logger).With(logging.Path(path)))
}

// Load decodes a document from r and builds the graph
func Load(r io.Reader, dec Decoder, logger logging.Logger) (*storage.Graph, error) {
	logger = logging.OrDefault(logger).With(logging.Component("loader"))
	timer := logging.StartTimer(logger, "graph document loaded")

	var doc Document
	if err := dec.Decode(r, &doc); err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("failed to decode %s document: %w", dec.Extension(), err)
	}

	g, err := doc.Graph()
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	timer.End(logging.Nodes(g.NodeCount()), logging.Edges(g.EdgeCount()), logging.Bool("directed", g.Directed()))
	return g, nil
}

// Graph validates every record and loads them into a storage.Graph
func (d *Document) Graph() (*storage.Graph, error) {
	if err := validation.ValidateDocumentSize(len(d.Nodes), len(d.Edges)); err != nil {
		return nil, err
	}

	nodes := make([]storage.Node, 0, len(d.Nodes))
	for i := range d.Nodes {
		spec := &d.Nodes[i]
		if err := validation.ValidateNodeSpec(spec); err != nil {
			return nil, fmt.Errorf("node %d (index %d): %w", spec.ID, i, err)
		}
		nodes = append(nodes, storage.Node{
			ID:               spec.ID,
			CellName:         spec.CellName,
			CellClass:        spec.CellClass,
			SomaPos:          *spec.SomaPos,
			Role:             storage.Role(spec.Role),
			Neurotransmitter: spec.Neurotransmitter,
			Attributes:       attributes(spec.Attributes),
		})
	}

	edges := make([]storage.Edge, 0, len(d.Edges))
	for i := range d.Edges {
		spec := &d.Edges[i]
		if err := validation.ValidateEdgeSpec(spec); err != nil {
			return nil, fmt.Errorf("edge %d -> %d (index %d): %w", spec.From, spec.To, i, err)
		}
		edges = append(edges, storage.Edge{
			ID:          spec.ID,
			FromNodeID:  spec.From,
			ToNodeID:    spec.To,
			SynapseType: storage.SynapseType(spec.SynapseType),
			Weight:      spec.Weight,
			Attributes:  attributes(spec.Attributes),
		})
	}

	directed := true
	if d.Directed != nil {
		directed = *d.Directed
	}
	return storage.Load(nodes, edges, directed)
}

// attributes converts validated document values to typed values
func attributes(in map[string]any) map[string]storage.Value {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]storage.Value, len(in))
	for k, v := range in {
		switch x := v.(type) {
		case string:
			out[k] = storage.StringValue(x)
		case int:
			out[k] = storage.FloatValue(float64(x))
		case int64:
			out[k] = storage.FloatValue(float64(x))
		case uint64:
			out[k] = storage.FloatValue(float64(x))
		case float64:
			out[k] = storage.FloatValue(x)
		case map[string]any:
			if label, ok := validation.CategoryLabel(x); ok {
				out[k] = storage.CategoryValue(label)
			}
		}
	}
	return out
}
