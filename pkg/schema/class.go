package schema

// MaxNameLen bounds class, attribute and token reference names. Longer names
// are truncated to stay within the control-element name limit of downstream
// consumers.
const MaxNameLen = 43

// ParamType distinguishes positional arguments from plain attributes.
type ParamType int

const (
	// ParamAttribute is a named, non-positional class field.
	ParamAttribute ParamType = iota
	// ParamArgument is a positional class field; each one increments the
	// owning class's argument count.
	ParamArgument
)

// Mask is the category bitset attached to an attribute's constraint.
type Mask uint32

const (
	// MaskMandatory marks an attribute whose value must be provided at
	// object instantiation.
	MaskMandatory Mask = 1 << iota
	// MaskImmutable marks an attribute whose class default cannot be
	// overridden by an object instance.
	MaskImmutable
	// MaskDeprecated marks an attribute that must no longer be provided.
	MaskDeprecated
	// MaskAutomatic marks an attribute whose value is computed, not
	// authored.
	MaskAutomatic
	// MaskUnique marks the single attribute that identifies an object
	// instance within its parent.
	MaskUnique
)

// ValueRef is one entry of an attribute's enumerated valid-value table. The
// Resolved flag is the explicit "no integer translation yet" marker; entries
// start unresolved and are filled in by a later tuple_values block matching
// on ID.
type ValueRef struct {
	ID       string
	String   string
	Value    int64
	Resolved bool
}

// Constraint holds the validation rules attached to one attribute. Min and
// Max default to the full int64 range. Min <= Max is not enforced here;
// an unsatisfiable constraint is not a build-time error.
type Constraint struct {
	Min  int64
	Max  int64
	Mask Mask

	// ValueRefs is kept in reverse declaration order; see the package
	// documentation.
	ValueRefs []*ValueRef
}

// ValueRef returns the first entry whose ID matches, or nil.
func (c *Constraint) ValueRef(id string) *ValueRef {
	for _, ref := range c.ValueRefs {
		if ref.ID == id {
			return ref
		}
	}
	return nil
}

// Attribute is a named, constrained field of a class. It is created once
// during class definition parsing and immutable afterwards.
type Attribute struct {
	Name      string
	ParamType ParamType

	// TokenRef names an external vendor-token group and type, for example
	// "sof_tkn_dai.word". Empty means no token. The reference is stored
	// verbatim; resolution happens in a later stage.
	TokenRef string

	Constraint Constraint
}

// Class is a named template describing the attributes and arguments a
// configuration object of this type may carry.
type Class struct {
	Name string

	// NumArgs counts the attributes declared as arguments.
	NumArgs int

	// Attributes is kept in declaration order.
	Attributes []*Attribute
}

// Attribute returns the first attribute with the given name, or nil. Lookup
// is case-sensitive; duplicate names are possible and the first match wins.
func (c *Class) Attribute(name string) *Attribute {
	for _, attr := range c.Attributes {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

// clampName truncates s to MaxNameLen.
func clampName(s string) string {
	if len(s) > MaxNameLen {
		return s[:MaxNameLen]
	}
	return s
}
