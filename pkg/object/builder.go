package object

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/topogen/topogen/pkg/confnode"
	"github.com/topogen/topogen/pkg/schema"
)

// Builder creates objects against a compiled class registry. The registry is
// needed beyond the initial class: nested object sections and child
// attribute paths are recognized by class name.
type Builder struct {
	registry *schema.Registry
	logger   zerolog.Logger
}

// NewBuilder creates an object builder over reg.
func NewBuilder(reg *schema.Registry, logger zerolog.Logger) *Builder {
	return &Builder{
		registry: reg,
		logger:   logger.With().Str("component", "object-builder").Logger(),
	}
}

// Create instantiates one object of class from its instance node. The node's
// own id supplies the unique attribute value. When parent is non-nil the new
// object is appended to the parent's children.
func (b *Builder) Create(node *confnode.Node, class *schema.Class, parent *Object) (*Object, error) {
	if class == nil {
		return nil, fmt.Errorf("%w: missing class for object", schema.ErrInvalidNodeID)
	}

	id := node.Name()
	if id == "" {
		return nil, fmt.Errorf("%w: object of class %q", schema.ErrInvalidNodeID, class.Name)
	}

	name := class.Name + "." + id
	if len(name) > schema.MaxNameLen {
		b.logger.Warn().Str("object", name).Msgf("Object name truncated to %d characters", schema.MaxNameLen)
		name = name[:schema.MaxNameLen]
	}

	obj := &Object{
		Name:      name,
		ClassName: class.Name,
		NumArgs:   class.NumArgs,
		parent:    parent,
	}

	obj.Attributes = make([]*Attribute, 0, len(class.Attributes))
	for _, attr := range class.Attributes {
		obj.Attributes = append(obj.Attributes, copyAttribute(attr))
	}

	if parent != nil {
		parent.Children = append(parent.Children, obj)
	}

	if err := obj.setUniqueValue(id); err != nil {
		return nil, err
	}

	if err := obj.applyValues(node); err != nil {
		return nil, err
	}

	if err := b.createChildObjects(node, obj); err != nil {
		return nil, fmt.Errorf("failed to create child objects for %q: %w", obj.Name, err)
	}

	if err := propagateToChildren(obj); err != nil {
		return nil, err
	}

	if err := b.setChildAttributes(node, obj); err != nil {
		return nil, fmt.Errorf("failed to set child attributes for %q: %w", obj.Name, err)
	}

	b.logger.Debug().
		Str("object", obj.Name).
		Str("class", obj.ClassName).
		Int("children", len(obj.Children)).
		Msg("Created object")

	return obj, nil
}

// setUniqueValue fills the unique attribute from the instance node's id,
// using the digit-prefix heuristic to choose between integer and string.
func (o *Object) setUniqueValue(id string) error {
	attr := o.uniqueAttribute()
	if attr == nil {
		return fmt.Errorf("no unique attribute set for object %q", o.Name)
	}

	if schema.HasDigitPrefix(id) {
		attr.Kind = ValueInteger
		attr.Integer = schema.DecimalPrefix(id)
	} else {
		attr.Kind = ValueString
		attr.String = id
	}
	attr.Found = true

	return nil
}

// applyValues copies the values given at the instantiation site onto the
// object's attributes. Children that match no attribute name are left to the
// other create stages (nested objects, child attribute paths). Immutable
// attributes reject instance values.
func (o *Object) applyValues(node *confnode.Node) error {
	for _, child := range node.Children() {
		attr := o.Attribute(child.Name())
		if attr == nil {
			continue
		}

		if attr.Constraint.Mask&schema.MaskImmutable != 0 {
			return fmt.Errorf("cannot update immutable attribute %q in object %q", attr.Name, o.Name)
		}

		attr.setValue(child, true)
	}

	return nil
}

// createChildObjects creates the objects declared under nested "Object"
// sections. Section children whose name is not a known class are skipped.
func (b *Builder) createChildObjects(node *confnode.Node, parent *Object) error {
	for _, section := range node.Children() {
		if section.Name() != "Object" {
			continue
		}

		for _, group := range section.Children() {
			class := b.registry.Lookup(group.Name())
			if class == nil {
				continue
			}

			for _, inst := range group.Children() {
				if _, err := b.Create(inst, class, parent); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// propagateToChildren fills child attribute values from the parent's found
// attributes, matched by name. A parent never overrides a value the child
// already has. The walk recurses through the whole subtree.
func propagateToChildren(parent *Object) error {
	for _, child := range parent.Children {
		for _, attr := range child.Attributes {
			if attr.Found {
				continue
			}

			ref := parent.Attribute(attr.Name)
			if ref == nil || !ref.Found {
				continue
			}

			attr.Kind = ref.Kind
			attr.Integer = ref.Integer
			attr.String = ref.String
			attr.Node = ref.Node
			attr.Found = true
		}

		if err := propagateToChildren(child); err != nil {
			return err
		}
	}

	return nil
}

// setChildAttributes applies attribute values addressed through child paths
// such as "mixer.0.name" or "mixer.0.channel.0.name". The first path element
// must name a known class, the second the child's unique attribute value.
// Values set this way never override what the child already has.
func (b *Builder) setChildAttributes(node *confnode.Node, obj *Object) error {
	for _, group := range node.Children() {
		if !group.IsCompound() {
			continue
		}

		class := b.registry.Lookup(group.Name())
		if class == nil {
			continue
		}

		for _, idx := range group.Children() {
			if !idx.IsCompound() {
				return fmt.Errorf("no attribute name for child %s.%s", group.Name(), idx.Name())
			}

			child := lookupChild(obj.Children, class.Name, idx.Name())
			if child == nil {
				return fmt.Errorf("no child %s.%s found for object %q", group.Name(), idx.Name(), obj.Name)
			}

			for _, entry := range idx.Children() {
				if entry.IsCompound() {
					continue
				}
				if attr := child.Attribute(entry.Name()); attr != nil {
					attr.setValue(entry, false)
				}
			}

			// Compound entries address the next nesting level.
			if err := b.setChildAttributes(idx, child); err != nil {
				return err
			}
		}
	}

	return nil
}
