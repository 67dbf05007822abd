package confnode

import (
	"errors"
	"fmt"
)

// ErrInvalidScalarType is returned when a node's value is read as the wrong
// shape: a string read on an integer or compound node, or an integer read on
// a string or compound node.
var ErrInvalidScalarType = errors.New("invalid scalar type")

// Kind identifies the shape of a node's value.
type Kind int

const (
	// KindCompound is a node with named children and no scalar value.
	KindCompound Kind = iota
	// KindString is a string scalar.
	KindString
	// KindInteger is an integer scalar.
	KindInteger
)

// Node is one vertex of a configuration tree. Nodes are read-only once
// built; the compiler never mutates its input tree.
type Node struct {
	name     string
	kind     Kind
	str      string
	num      int64
	sequence bool
	children []*Node
}

// Compound creates a compound node with the given ordered children.
func Compound(name string, children ...*Node) *Node {
	return &Node{name: name, kind: KindCompound, children: children}
}

// Sequence creates a compound node whose children came from a list rather
// than a mapping. Children are named by their decimal index.
func Sequence(name string, children ...*Node) *Node {
	n := Compound(name, children...)
	n.sequence = true
	return n
}

// String creates a string scalar node.
func String(name, value string) *Node {
	return &Node{name: name, kind: KindString, str: value}
}

// Int creates an integer scalar node.
func Int(name string, value int64) *Node {
	return &Node{name: name, kind: KindInteger, num: value}
}

// Name returns the node's declared id. It is empty for anonymous nodes,
// such as a document root.
func (n *Node) Name() string { return n.name }

// Kind returns the shape of the node's value.
func (n *Node) Kind() Kind { return n.kind }

// IsCompound reports whether the node holds named children.
func (n *Node) IsCompound() bool { return n.kind == KindCompound }

// IsSequence reports whether a compound node was declared as a list.
func (n *Node) IsSequence() bool { return n.sequence }

// Children returns the node's children in declaration order. The returned
// slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Find returns the first child with the given name, or nil.
func (n *Node) Find(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// StringValue returns the node's value as a string. It fails with
// ErrInvalidScalarType unless the node is a string scalar.
func (n *Node) StringValue() (string, error) {
	if n.kind != KindString {
		return "", fmt.Errorf("%w: node %q is not a string", ErrInvalidScalarType, n.name)
	}
	return n.str, nil
}

// IntValue returns the node's value as an integer. It fails with
// ErrInvalidScalarType unless the node is an integer scalar.
func (n *Node) IntValue() (int64, error) {
	if n.kind != KindInteger {
		return 0, fmt.Errorf("%w: node %q is not an integer", ErrInvalidScalarType, n.name)
	}
	return n.num, nil
}

// Interface converts the subtree rooted at n into plain Go values: compounds
// become map[string]any (later duplicates win), sequences become []any, and
// scalars become string or int64. It is used for schema validation, where
// declaration order does not matter.
func (n *Node) Interface() any {
	switch n.kind {
	case KindString:
		return n.str
	case KindInteger:
		return n.num
	}

	if n.sequence {
		out := make([]any, 0, len(n.children))
		for _, c := range n.children {
			out = append(out, c.Interface())
		}
		return out
	}

	out := make(map[string]any, len(n.children))
	for _, c := range n.children {
		out[c.name] = c.Interface()
	}
	return out
}
