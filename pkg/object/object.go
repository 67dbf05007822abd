package object

import (
	"github.com/topogen/topogen/pkg/confnode"
	"github.com/topogen/topogen/pkg/schema"
)

// ValueKind identifies which value an attribute instance holds.
type ValueKind int

const (
	// ValueNone means no value has been provided yet.
	ValueNone ValueKind = iota
	// ValueInteger is a numeric value.
	ValueInteger
	// ValueString is a textual value.
	ValueString
	// ValueCompound is a nested configuration value kept as its raw node.
	ValueCompound
)

// Attribute is one attribute instance of an object: the class attribute's
// shape plus the value supplied at instantiation.
type Attribute struct {
	Name      string
	ParamType schema.ParamType
	TokenRef  string

	// Constraint is a private copy; resolving a translation on one object
	// must not leak into the class or into sibling objects.
	Constraint schema.Constraint

	Kind    ValueKind
	Integer int64
	String  string
	Node    *confnode.Node

	// Found reports whether any value was provided, by the instance itself
	// or inherited from a parent.
	Found bool
}

// copyAttribute clones a class attribute, deep-copying the constraint's
// value refs.
func copyAttribute(src *schema.Attribute) *Attribute {
	attr := &Attribute{
		Name:       src.Name,
		ParamType:  src.ParamType,
		TokenRef:   src.TokenRef,
		Constraint: src.Constraint,
	}

	attr.Constraint.ValueRefs = make([]*schema.ValueRef, len(src.Constraint.ValueRefs))
	for i, ref := range src.Constraint.ValueRefs {
		clone := *ref
		attr.Constraint.ValueRefs[i] = &clone
	}

	return attr
}

// setValue fills the attribute from a scalar or compound node. When override
// is false an already-present value is kept.
func (a *Attribute) setValue(node *confnode.Node, override bool) {
	if a.Found && !override {
		return
	}

	if s, err := node.StringValue(); err == nil {
		a.Kind = ValueString
		a.String = s
	} else if v, err := node.IntValue(); err == nil {
		a.Kind = ValueInteger
		a.Integer = v
	} else {
		a.Kind = ValueCompound
		a.Node = node
	}

	a.Found = true
}

// Object is one instantiated configuration object.
type Object struct {
	Name      string
	ClassName string
	NumArgs   int

	// Attributes is in class declaration order.
	Attributes []*Attribute

	// Children holds nested objects in creation order.
	Children []*Object

	parent *Object
}

// Attribute returns the first attribute with the given name, or nil.
func (o *Object) Attribute(name string) *Attribute {
	for _, attr := range o.Attributes {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

// uniqueAttribute returns the attribute carrying the unique mask, or nil.
func (o *Object) uniqueAttribute() *Attribute {
	for _, attr := range o.Attributes {
		if attr.Constraint.Mask&schema.MaskUnique != 0 {
			return attr
		}
	}
	return nil
}

// lookupChild finds the child of the given class whose unique attribute
// value matches key. Integer-valued unique attributes compare against the
// key's leading decimal digits.
func lookupChild(list []*Object, className, key string) *Object {
	for _, obj := range list {
		if obj.ClassName != className {
			continue
		}

		attr := obj.uniqueAttribute()
		if attr == nil {
			continue
		}

		switch attr.Kind {
		case ValueInteger:
			if schema.HasDigitPrefix(key) && attr.Integer == schema.DecimalPrefix(key) {
				return obj
			}
		case ValueString:
			if attr.String == key {
				return obj
			}
		}
	}
	return nil
}
