package storage

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ValueType represents the type of an attribute value
type ValueType uint8

const (
	TypeString ValueType = iota
	TypeFloat
	TypeCategory // Enumerated label such as a role or synapse type
)

// String returns the name of the value type
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeFloat:
		return "float"
	case TypeCategory:
		return "category"
	default:
		return "unknown"
	}
}

// Value represents a typed attribute value
type Value struct {
	Type ValueType
	Data []byte
}

// Helper functions to create typed values
func StringValue(s string) Value {
	return Value{Type: TypeString, Data: []byte(s)}
}

func FloatValue(f float64) Value {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(f))
	return Value{Type: TypeFloat, Data: data}
}

func CategoryValue(label string) Value {
	return Value{Type: TypeCategory, Data: []byte(label)}
}

// Decode methods
func (v Value) AsString() (string, error) {
	if v.Type != TypeString {
		return "", fmt.Errorf("value is not a string (got %s)", v.Type)
	}
	return string(v.Data), nil
}

func (v Value) AsFloat() (float64, error) {
	if v.Type != TypeFloat {
		return 0, fmt.Errorf("value is not a float (got %s)", v.Type)
	}
	if len(v.Data) != 8 {
		return 0, fmt.Errorf("invalid float data: expected 8 bytes, got %d", len(v.Data))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(v.Data)), nil
}

func (v Value) AsCategory() (string, error) {
	if v.Type != TypeCategory {
		return "", fmt.Errorf("value is not a category (got %s)", v.Type)
	}
	return string(v.Data), nil
}

// Role classifies a neuron by function
type Role string

const (
	RoleSensory Role = "Sensory"
	RoleMotor   Role = "Motor"
	RoleInter   Role = "Inter"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleSensory, RoleMotor, RoleInter:
		return true
	}
	return false
}

// SynapseType distinguishes gap junctions from chemical synapses
type SynapseType string

const (
	SynapseElectrical SynapseType = "Electrical"
	SynapseChemical   SynapseType = "Chemical"
)

// Valid reports whether s is one of the known synapse types
func (s SynapseType) Valid() bool {
	return s == SynapseElectrical || s == SynapseChemical
}

// Core attribute keys. These always resolve through NodeAttribute/EdgeAttribute
// and cannot be used as extension keys.
const (
	AttrCellName         = "cell_name"
	AttrCellClass        = "cell_class"
	AttrSomaPos          = "soma_pos"
	AttrRole             = "role"
	AttrNeurotransmitter = "neurotransmitter"
	AttrWeight           = "weight"
	AttrSynapseType      = "synapse_type"
)

// MaxExtensionAttributes bounds the extension map of a node or edge
const MaxExtensionAttributes = 32

// Node represents a neuron
type Node struct {
	ID               uint64
	CellName         string
	CellClass        string
	SomaPos          float64
	Role             Role
	Neurotransmitter string // optional, stripped before analysis
	Attributes       map[string]Value
}

// Edge represents a synaptic connection between two neurons
type Edge struct {
	ID          uint64
	FromNodeID  uint64
	ToNodeID    uint64
	SynapseType SynapseType
	Weight      float64 // number of physical contacts
	Attributes  map[string]Value
}

// Clone creates a deep copy of a node
func (n *Node) Clone() *Node {
	clone := *n
	clone.Attributes = cloneAttributes(n.Attributes)
	return &clone
}

// Attribute resolves a core field or extension attribute by key
func (n *Node) Attribute(key string) (Value, bool) {
	switch key {
	case AttrCellName:
		return StringValue(n.CellName), true
	case AttrCellClass:
		return StringValue(n.CellClass), true
	case AttrSomaPos:
		return FloatValue(n.SomaPos), true
	case AttrRole:
		return CategoryValue(string(n.Role)), true
	case AttrNeurotransmitter:
		if n.Neurotransmitter == "" {
			return Value{}, false
		}
		return StringValue(n.Neurotransmitter), true
	}
	val, ok := n.Attributes[key]
	return val, ok
}

// Clone creates a deep copy of an edge
func (e *Edge) Clone() *Edge {
	clone := *e
	clone.Attributes = cloneAttributes(e.Attributes)
	return &clone
}

// IsSelfLoop reports whether the edge starts and ends on the same node
func (e *Edge) IsSelfLoop() bool {
	return e.FromNodeID == e.ToNodeID
}

// Attribute resolves a core field or extension attribute by key
func (e *Edge) Attribute(key string) (Value, bool) {
	switch key {
	case AttrWeight:
		return FloatValue(e.Weight), true
	case AttrSynapseType:
		return CategoryValue(string(e.SynapseType)), true
	}
	val, ok := e.Attributes[key]
	return val, ok
}

func cloneAttributes(attrs map[string]Value) map[string]Value {
	if attrs == nil {
		return nil
	}
	clone := make(map[string]Value, len(attrs))
	for k, v := range attrs {
		data := make([]byte, len(v.Data))
		copy(data, v.Data)
		clone[k] = Value{Type: v.Type, Data: data}
	}
	return clone
}

func isCoreAttribute(key string) bool {
	switch key {
	case AttrCellName, AttrCellClass, AttrSomaPos, AttrRole, AttrNeurotransmitter, AttrWeight, AttrSynapseType:
		return true
	}
	return false
}
