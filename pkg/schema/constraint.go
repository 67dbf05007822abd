package schema

import (
	"fmt"
	"math"

	"github.com/topogen/topogen/pkg/confnode"
)

func newConstraint() Constraint {
	return Constraint{Min: math.MinInt64, Max: math.MaxInt64}
}

// parse fills the constraint from a "constraints" node. Unknown children are
// ignored for forward compatibility.
func (c *Constraint) parse(node *confnode.Node, attrName string) error {
	for _, child := range node.Children() {
		switch child.Name() {
		case "min":
			v, err := child.IntValue()
			if err != nil {
				return fmt.Errorf("%w: min for attribute %q: %v", ErrInvalidConstraint, attrName, err)
			}
			c.Min = v

		case "max":
			v, err := child.IntValue()
			if err != nil {
				return fmt.Errorf("%w: max for attribute %q: %v", ErrInvalidConstraint, attrName, err)
			}
			c.Max = v

		case "valid_values":
			if err := c.parseValidValues(child, attrName); err != nil {
				return err
			}

		case "tuple_values":
			if err := c.parseTupleValues(child, attrName); err != nil {
				return err
			}

		default:
			// Unrecognized constraint sections are ignored.
		}
	}

	return nil
}

// parseValidValues records the pre-defined valid values for an attribute.
// Each new entry is prepended, so the stored order is the reverse of the
// declaration order.
func (c *Constraint) parseValidValues(node *confnode.Node, attrName string) error {
	for _, vn := range node.Children() {
		if vn.Name() == "" {
			return fmt.Errorf("%w: valid value for attribute %q", ErrInvalidNodeID, attrName)
		}

		ref := &ValueRef{ID: vn.Name()}

		if s, err := vn.StringValue(); err == nil {
			if HasDigitPrefix(s) {
				ref.Value = DecimalPrefix(s)
				ref.Resolved = true
			} else {
				// A human-readable value; the integer translation may
				// arrive later through a tuple_values block.
				ref.String = s
			}
		} else if v, err := vn.IntValue(); err == nil {
			ref.Value = v
			ref.Resolved = true
		} else {
			return fmt.Errorf("%w: valid value %q for attribute %q must be a string or integer",
				ErrInvalidConstraint, vn.Name(), attrName)
		}

		c.ValueRefs = append([]*ValueRef{ref}, c.ValueRefs...)
	}

	return nil
}

// parseTupleValues resolves the integer translation of previously declared
// valid values by ID. An entry whose ID has no prior valid-value entry is
// silently ignored; translation never inserts new entries.
func (c *Constraint) parseTupleValues(node *confnode.Node, attrName string) error {
	for _, tn := range node.Children() {
		if tn.Name() == "" {
			return fmt.Errorf("%w: tuple value for attribute %q", ErrInvalidNodeID, attrName)
		}

		var value int64
		if s, err := tn.StringValue(); err == nil {
			if !HasDigitPrefix(s) {
				return fmt.Errorf("%w: tuple value %q for attribute %q is not an integer",
					ErrInvalidConstraint, tn.Name(), attrName)
			}
			value = DecimalPrefix(s)
		} else if v, err := tn.IntValue(); err == nil {
			value = v
		} else {
			return fmt.Errorf("%w: tuple value %q for attribute %q must be a string or integer",
				ErrInvalidConstraint, tn.Name(), attrName)
		}

		if ref := c.ValueRef(tn.Name()); ref != nil {
			ref.Value = value
			ref.Resolved = true
		}
	}

	return nil
}

// HasDigitPrefix reports whether s starts with a decimal digit. This is the
// whole type check for scalar valid values: no sign, no radix prefix, no
// whitespace trimming.
func HasDigitPrefix(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

// DecimalPrefix returns the integer value of the leading decimal digits of
// s, stopping at the first non-digit. It mirrors atoi semantics and keeps
// its quirks: "48khz" is 48 and "-1" is never reached because callers gate
// on HasDigitPrefix.
func DecimalPrefix(s string) int64 {
	var v int64
	for i := 0; i < len(s); i++ {
		d := s[i]
		if d < '0' || d > '9' {
			break
		}
		v = v*10 + int64(d-'0')
	}
	return v
}
