package object

import (
	"fmt"
	"strconv"

	"github.com/topogen/topogen/pkg/schema"
)

// Validate checks an object tree after creation: every mandatory attribute
// must carry a value, deprecated attributes must not, and string values are
// translated to integers through the constraint's resolved valid values.
// Finally the object name is recomposed from its argument values.
func (o *Object) Validate() error {
	for _, attr := range o.Attributes {
		if attr.Constraint.Mask&schema.MaskMandatory != 0 && !attr.Found {
			return fmt.Errorf("mandatory attribute %q not found for object %q", attr.Name, o.Name)
		}

		if attr.Constraint.Mask&schema.MaskDeprecated != 0 && attr.Found {
			return fmt.Errorf("attribute %q is deprecated in object %q", attr.Name, o.Name)
		}

		attr.translate()
	}

	if err := o.updateNameFromArgs(); err != nil {
		return err
	}

	for _, child := range o.Children {
		if err := child.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// translate rewrites a string value as its integer tuple value when the
// constraint holds a resolved valid-value entry for it. The first matching
// entry decides; unresolved matches leave the value as a string.
func (a *Attribute) translate() {
	if a.Kind != ValueString || len(a.Constraint.ValueRefs) == 0 {
		return
	}

	for _, ref := range a.Constraint.ValueRefs {
		if ref.String == a.String {
			if ref.Resolved {
				a.Integer = ref.Value
				a.Kind = ValueInteger
			}
			return
		}
	}
}

// updateNameFromArgs recomposes the object name from the class name and the
// argument values, in argument order. Arguments without a value contribute
// nothing. Child objects inherit argument values from their parent before
// this runs, so the name reflects the final values.
func (o *Object) updateNameFromArgs() error {
	name := o.ClassName

	for _, attr := range o.Attributes {
		if attr.ParamType != schema.ParamArgument {
			continue
		}

		switch attr.Kind {
		case ValueInteger:
			name += "." + strconv.FormatInt(attr.Integer, 10)
		case ValueString:
			name += "." + attr.String
		default:
			continue
		}

		if len(name) > schema.MaxNameLen {
			return fmt.Errorf("object name too long for %q", o.Name)
		}
	}

	o.Name = name
	return nil
}
