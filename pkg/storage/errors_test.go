package storage

import (
	"errors"
	"fmt"
	"testing"
)

func TestGraphError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *GraphError
		expected string
	}{
		{
			name: "with ID",
			err: &GraphError{
				Op:     "load",
				Entity: "node",
				ID:     123,
				HasID:  true,
				Cause:  ErrDuplicateNode,
			},
			expected: "load node 123: duplicate node ID",
		},
		{
			name: "with ID and field",
			err: &GraphError{
				Op:     "load",
				Entity: "node",
				ID:     456,
				HasID:  true,
				Field:  "lineage",
				Cause:  ErrInvalidAttribute,
			},
			expected: "load node 456 (field lineage): invalid attribute",
		},
		{
			name: "with ID and context",
			err: &GraphError{
				Op:      "load",
				Entity:  "edge",
				ID:      7,
				HasID:   true,
				Context: "to 99",
				Cause:   ErrInvalidGraphReference,
			},
			expected: "load edge 7 (to 99): edge references a nonexistent node",
		},
		{
			name: "without ID with field",
			err: &GraphError{
				Op:     "strip",
				Entity: "node",
				Field:  "soma_pos",
				Cause:  fmt.Errorf("core field"),
			},
			expected: "strip node (field soma_pos): core field",
		},
		{
			name: "without ID with context",
			err: &GraphError{
				Op:      "load",
				Entity:  "edge",
				Context: "simplify",
				Cause:   ErrNegativeWeight,
			},
			expected: "load edge (simplify): edge weight is negative",
		},
		{
			name: "minimal",
			err: &GraphError{
				Op:     "get",
				Entity: "node",
				Cause:  ErrNodeNotFound,
			},
			expected: "get node: node not found",
		},
		{
			name: "ID zero is still printed when set",
			err: &GraphError{
				Op:     "get",
				Entity: "edge",
				HasID:  true,
				Cause:  ErrEdgeNotFound,
			},
			expected: "get edge 0: edge not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGraphError_Unwrap(t *testing.T) {
	err := &GraphError{Op: "load", Entity: "edge", ID: 1, HasID: true, Cause: ErrInvalidGraphReference}

	if !errors.Is(err, ErrInvalidGraphReference) {
		t.Error("errors.Is should find the cause")
	}
	if errors.Is(err, ErrDuplicateEdge) {
		t.Error("errors.Is should not match an unrelated sentinel")
	}

	wrapped := fmt.Errorf("building snapshot: %w", err)
	var ge *GraphError
	if !errors.As(wrapped, &ge) {
		t.Fatal("errors.As should extract *GraphError from a wrapped error")
	}
	if ge.ID != 1 || ge.Entity != "edge" {
		t.Errorf("extracted error = %+v", ge)
	}
}

func TestErrorBuilder(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *GraphError
		expected GraphError
	}{
		{
			name:     "node",
			build:    func() *GraphError { return NewError("load").Node(3).Cause(ErrDuplicateNode).Build() },
			expected: GraphError{Op: "load", Entity: "node", ID: 3, HasID: true, Cause: ErrDuplicateNode},
		},
		{
			name:     "edge with context",
			build:    func() *GraphError { return NewError("load").Edge(9).Context("from 4").Cause(ErrInvalidGraphReference).Build() },
			expected: GraphError{Op: "load", Entity: "edge", ID: 9, HasID: true, Context: "from 4", Cause: ErrInvalidGraphReference},
		},
		{
			name:     "field",
			build:    func() *GraphError { return NewError("load").Node(2).Field("order").Cause(ErrInvalidAttribute).Build() },
			expected: GraphError{Op: "load", Entity: "node", ID: 2, HasID: true, Field: "order", Cause: ErrInvalidAttribute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build()
			if *got != tt.expected {
				t.Errorf("Build() = %+v, want %+v", *got, tt.expected)
			}
		})
	}
}

func TestErrorBuilder_Err(t *testing.T) {
	err := NewError("load").Edge(5).Cause(ErrNegativeWeight).Err()

	var ge *GraphError
	if !errors.As(err, &ge) {
		t.Fatal("Err() should return a *GraphError")
	}
	if !errors.Is(err, ErrNegativeWeight) {
		t.Error("Err() should keep the cause")
	}
	if err.Error() != "load edge 5: edge weight is negative" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestNotFoundErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		expected string
	}{
		{"node", NodeNotFoundError(42), ErrNodeNotFound, "get node 42: node not found"},
		{"edge", EdgeNotFoundError(17), ErrEdgeNotFound, "get edge 17: edge not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("expected %v in chain", tt.sentinel)
			}
			if !IsNotFound(tt.err) {
				t.Error("IsNotFound should be true")
			}
			if IsInvalidReference(tt.err) {
				t.Error("IsInvalidReference should be false")
			}
			if tt.err.Error() != tt.expected {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.expected)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		notFound   bool
		invalidRef bool
	}{
		{"nil", nil, false, false},
		{"plain sentinel", ErrNodeNotFound, true, false},
		{"wrapped edge not found", fmt.Errorf("lookup: %w", EdgeNotFoundError(1)), true, false},
		{"dangling endpoint", NewError("load").Edge(1).Cause(ErrInvalidGraphReference).Err(), false, true},
		{"wrapped dangling endpoint", fmt.Errorf("load: %w", NewError("load").Edge(2).Cause(ErrInvalidGraphReference).Err()), false, true},
		{"duplicate node", NewError("load").Node(1).Cause(ErrDuplicateNode).Err(), false, false},
		{"unrelated", errors.New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsInvalidReference(tt.err); got != tt.invalidRef {
				t.Errorf("IsInvalidReference() = %v, want %v", got, tt.invalidRef)
			}
		})
	}
}
