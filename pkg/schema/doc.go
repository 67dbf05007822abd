// Package schema compiles class definition nodes into the in-memory schema
// used by the topogen pre-processor.
//
// A Registry owns the set of compiled classes. Each class carries an ordered
// attribute sequence; each attribute carries exactly one constraint holding
// integer bounds, an enumerated valid-value table and a category mask. The
// object package later instantiates configuration objects against these
// classes and relies on the constraints to validate and translate values.
//
// Two ordering contracts are deliberate and load-bearing for downstream
// consumers:
//
//   - attributes appear in declaration order (append),
//   - valid-value entries appear in reverse declaration order, because each
//     new entry is prepended to the constraint's list.
//
// Class definitions are idempotent by first definition: redefining an
// existing class name is silently skipped, never merged.
package schema
