// Package object instantiates configuration objects against compiled
// classes.
//
// A Builder copies a class's attribute sequence and constraints into a new
// Object, applies the values given at the instantiation site (the unique
// attribute comes from the instance node's own id), creates nested child
// objects, and propagates argument values from parents to children that have
// none of their own.
//
// After creation, Validate checks the category mask rules (mandatory values
// present, deprecated values absent), translates string values to integers
// through the constraint's resolved valid values, and recomposes the object
// name from its argument values.
package object
