// Package confnode provides the hierarchical configuration node tree that
// the topogen compiler consumes.
//
// A Node is either a compound (an ordered list of named children) or a
// scalar holding a string or an integer. Child order always matches
// declaration order in the source document, and duplicate child names are
// preserved. Scalar reads are strict: asking an integer node for its string
// value (or vice versa) fails with ErrInvalidScalarType.
//
// Trees are built either programmatically (Compound, String, Int) or from
// YAML documents via Parse/LoadFile, which operate on yaml.Node directly so
// that key order and duplicate keys survive decoding.
package confnode
