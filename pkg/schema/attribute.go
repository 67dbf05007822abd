package schema

import (
	"fmt"

	"github.com/topogen/topogen/pkg/confnode"
)

// buildAttribute parses one argument or attribute definition node. The
// attribute's name comes from the node's own id; bounds default to the full
// integer range and the mask starts empty. Unknown children are ignored.
func buildAttribute(node *confnode.Node, paramType ParamType) (*Attribute, error) {
	attr := &Attribute{
		Name:       clampName(node.Name()),
		ParamType:  paramType,
		Constraint: newConstraint(),
	}

	for _, child := range node.Children() {
		switch child.Name() {
		case "constraints":
			if err := attr.Constraint.parse(child, attr.Name); err != nil {
				return nil, err
			}

		case "token_ref":
			// token_ref names the vendor-token group and tuple type used
			// to serialize this attribute, e.g. "sof_tkn_dai.word". The
			// referenced group is resolved by a later stage.
			s, err := child.StringValue()
			if err != nil {
				return nil, fmt.Errorf("invalid token_ref for attribute %q: %w", attr.Name, err)
			}
			attr.TokenRef = clampName(s)

		default:
			// Unrecognized attribute sections are ignored.
		}
	}

	return attr, nil
}
