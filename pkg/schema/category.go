package schema

import (
	"fmt"

	"github.com/topogen/topogen/pkg/confnode"
)

// applyCategories post-processes a class's "attributes" section, OR-ing bulk
// category bits into the constraints of the named attributes. Each child
// node selects and immediately applies exactly one category; there is no
// state carried from one child to the next. Unknown category ids are
// ignored.
func applyCategories(node *confnode.Node, class *Class) error {
	for _, child := range node.Children() {
		switch child.Name() {
		case "mandatory":
			if err := applyCategory(child, class, MaskMandatory); err != nil {
				return err
			}
		case "immutable":
			if err := applyCategory(child, class, MaskImmutable); err != nil {
				return err
			}
		case "deprecated":
			if err := applyCategory(child, class, MaskDeprecated); err != nil {
				return err
			}
		case "automatic":
			if err := applyCategory(child, class, MaskAutomatic); err != nil {
				return err
			}
		case "unique":
			// unique names a single attribute rather than a list.
			name, err := child.StringValue()
			if err != nil {
				return fmt.Errorf("invalid unique attribute for class %q: %w", class.Name, err)
			}
			if attr := class.Attribute(name); attr != nil {
				attr.Constraint.Mask |= MaskUnique
			}
		default:
			// Unrecognized categories are ignored.
		}
	}

	return nil
}

// applyCategory ORs mask into every attribute named by the list node.
// Names that match no attribute are silently skipped.
func applyCategory(node *confnode.Node, class *Class, mask Mask) error {
	for _, entry := range node.Children() {
		name, err := entry.StringValue()
		if err != nil {
			return fmt.Errorf("invalid attribute category name for class %q: %w", class.Name, err)
		}

		if attr := class.Attribute(name); attr != nil {
			attr.Constraint.Mask |= mask
		}
	}

	return nil
}
