package compiler

import (
	"context"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/topogen/topogen/pkg/confnode"
)

// SchemaRegistry manages the CUE schemas used to pre-validate configuration
// documents before they reach the pre-processor.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// NewSchemaRegistry creates a schema registry with the built-in schemas.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}

	sr.registerBuiltInSchemas()

	return sr
}

func (sr *SchemaRegistry) registerBuiltInSchemas() {
	sr.RegisterSchema("document", builtinDocumentSchema)
	sr.RegisterSchema("class", builtinClassSchema)
	sr.RegisterSchema("attributes", builtinAttributesSchema)
}

// RegisterSchema compiles and registers a CUE schema under the given name.
func (sr *SchemaRegistry) RegisterSchema(name, schema string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(schema)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	sr.schemas[name] = val
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// ValidateAgainstSchema validates data against a named schema.
func (sr *SchemaRegistry) ValidateAgainstSchema(ctx context.Context, schemaName string, data interface{}) error {
	schema, ok := sr.GetSchema(schemaName)
	if !ok {
		return fmt.Errorf("schema %s not found", schemaName)
	}

	dataVal := sr.ctx.Encode(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	unified := schema.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// ValidateDocument validates a whole configuration tree against the document
// schema. Duplicate keys collapse to the last occurrence here; only the
// pre-processor sees them all.
func (sr *SchemaRegistry) ValidateDocument(ctx context.Context, node *confnode.Node) error {
	return sr.ValidateAgainstSchema(ctx, "document", node.Interface())
}

// ListSchemas returns all registered schema names.
func (sr *SchemaRegistry) ListSchemas() []string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	names := make([]string, 0, len(sr.schemas))
	for name := range sr.schemas {
		names = append(names, name)
	}
	return names
}

// Built-in schema definitions. Schemas are deliberately open: documents
// routinely carry sections and attribute values the pre-processor does not
// interpret, and class bodies carry free-form default values.

const builtinDocumentSchema = `
#Constraints: {
	min?: int
	max?: int

	// Keys are valid-value ids; values are the human-readable names or
	// direct integer values.
	valid_values?: {[string]: string | int}

	// Keys must match valid-value ids; values are their integer
	// translations, given as ints or decimal strings.
	tuple_values?: {[string]: int | string}
	...
}

#AttributeDef: {
	constraints?: #Constraints
	token_ref?:   string
	...
}

#Categories: {
	mandatory?:  [...string]
	immutable?:  [...string]
	deprecated?: [...string]
	automatic?:  [...string]
	unique?:     string
	...
}

#Class: {
	DefineArgument?:  {[string]: #AttributeDef}
	DefineAttribute?: {[string]: #AttributeDef}
	attributes?:      #Categories
	...
}

#Document: {
	// Class groups class definitions by type; Object groups instances by
	// class name and unique id.
	Class?:  {[string]: {[string]: #Class}}
	Object?: {[string]: {[string]: {...}}}
	...
}

#Document
`

const builtinClassSchema = `
#Class: {
	DefineArgument?:  {[string]: {...}}
	DefineAttribute?: {[string]: {...}}
	attributes?:      {...}
	...
}

#Class
`

const builtinAttributesSchema = `
#Categories: {
	mandatory?:  [...string]
	immutable?:  [...string]
	deprecated?: [...string]
	automatic?:  [...string]
	unique?:     string
	...
}

#Categories
`
