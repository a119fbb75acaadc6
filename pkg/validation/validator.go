package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxAttributeKey  = 64
	MaxDocumentNodes = 100000
	MaxDocumentEdges = 1000000

	// Regular expressions
	attrKeyPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

func init() {
	validate = validator.New()
}

// NodeSpec is a neuron as it appears in an input document
type NodeSpec struct {
	ID               uint64         `json:"id" yaml:"id" validate:"required"`
	CellName         string         `json:"cell_name" yaml:"cell_name" validate:"required,max=64"`
	CellClass        string         `json:"cell_class" yaml:"cell_class" validate:"omitempty,max=64"`
	SomaPos          *float64       `json:"soma_pos" yaml:"soma_pos" validate:"required,gte=0,lte=1"`
	Role             string         `json:"role" yaml:"role" validate:"required,oneof=Sensory Motor Inter"`
	Neurotransmitter string         `json:"neurotransmitter,omitempty" yaml:"neurotransmitter,omitempty" validate:"omitempty,max=64"`
	Attributes       map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty" validate:"omitempty,max=32"`
}

// EdgeSpec is a synapse as it appears in an input document. A zero ID is
// assigned at load.
type EdgeSpec struct {
	ID          uint64         `json:"id,omitempty" yaml:"id,omitempty"`
	From        uint64         `json:"from" yaml:"from" validate:"required"`
	To          uint64         `json:"to" yaml:"to" validate:"required"`
	SynapseType string         `json:"synapse_type" yaml:"synapse_type" validate:"required,oneof=Electrical Chemical"`
	Weight      float64        `json:"weight" yaml:"weight" validate:"gte=0"`
	Attributes  map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty" validate:"omitempty,max=32"`
}

// ValidateNodeSpec validates a node read from a document
func ValidateNodeSpec(spec *NodeSpec) error {
	if spec == nil {
		return errors.New("node spec cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(spec); err != nil {
		return formatValidationError(err)
	}

	return validateAttributes(spec.Attributes)
}

// ValidateEdgeSpec validates an edge read from a document
func ValidateEdgeSpec(spec *EdgeSpec) error {
	if spec == nil {
		return errors.New("edge spec cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(spec); err != nil {
		return formatValidationError(err)
	}

	return validateAttributes(spec.Attributes)
}

// ValidateDocumentSize validates node and edge counts of a document
func ValidateDocumentSize(nodes, edges int) error {
	if nodes > MaxDocumentNodes {
		return fmt.Errorf("document must not exceed %d nodes, got %d", MaxDocumentNodes, nodes)
	}
	if edges > MaxDocumentEdges {
		return fmt.Errorf("document must not exceed %d edges, got %d", MaxDocumentEdges, edges)
	}
	return nil
}

// ValidateAttributeKey validates an extension attribute key
func ValidateAttributeKey(key string) error {
	if key == "" {
		return errors.New("attribute key cannot be empty")
	}
	if len(key) > MaxAttributeKey {
		return fmt.Errorf("attribute key '%s' exceeds maximum length of %d characters", key, MaxAttributeKey)
	}
	if !attrKeyPattern.MatchString(key) {
		return fmt.Errorf("attribute key '%s' is invalid (must start with letter or underscore, followed by alphanumeric or underscore)", key)
	}
	return nil
}

func validateAttributes(attrs map[string]any) error {
	for key, v := range attrs {
		if err := ValidateAttributeKey(key); err != nil {
			return fmt.Errorf("Attributes: %w", err)
		}
		switch x := v.(type) {
		case string, int, int64, uint64, float64:
		case map[string]any:
			if _, ok := CategoryLabel(x); !ok {
				return fmt.Errorf("Attributes: value of '%s' must be {%s: <label>} with a non-empty label", key, CategoryKey)
			}
		default:
			return fmt.Errorf("Attributes: value of '%s' has unsupported type %T", key, v)
		}
	}
	return nil
}

// CategoryKey tags an enumerated attribute value in a document, as in
// {category: L1}
const CategoryKey = "category"

// CategoryLabel returns the label of a tagged category value
func CategoryLabel(v map[string]any) (string, bool) {
	if len(v) != 1 {
		return "", false
	}
	label, ok := v[CategoryKey].(string)
	if !ok || label == "" {
		return "", false
	}
	return label, true
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
