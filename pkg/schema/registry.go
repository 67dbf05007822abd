package schema

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/topogen/topogen/pkg/confnode"
)

// Registry owns the compiled classes for one compilation. It is exclusively
// owned by its caller; nothing here is safe for concurrent writers.
type Registry struct {
	logger  zerolog.Logger
	classes []*Class
	byName  map[string]*Class
}

// NewRegistry creates an empty class registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		logger: logger.With().Str("component", "schema-registry").Logger(),
		byName: make(map[string]*Class),
	}
}

// Lookup returns the class with the given name, or nil.
func (r *Registry) Lookup(name string) *Class {
	return r.byName[clampName(name)]
}

// Classes returns the compiled classes in definition order.
func (r *Registry) Classes() []*Class {
	return r.classes
}

// DefineClasses compiles every top-level named child of node into a class.
// Children without a usable name are skipped. The first error aborts the
// call; classes registered before the failure stay registered.
func (r *Registry) DefineClasses(node *confnode.Node) error {
	for _, child := range node.Children() {
		if child.Name() == "" {
			continue
		}

		if err := r.defineClass(child); err != nil {
			return fmt.Errorf("failed to define class %q: %w", child.Name(), err)
		}
	}

	return nil
}

// defineClass compiles one class definition node. If a class with the same
// name already exists the definition is skipped entirely: no re-parse, no
// merge, no error.
func (r *Registry) defineClass(node *confnode.Node) error {
	name := node.Name()
	if name == "" {
		return ErrInvalidNodeID
	}

	if r.Lookup(name) != nil {
		r.logger.Debug().Str("class", name).Msg("Class already defined, skipping")
		return nil
	}

	class := &Class{Name: clampName(name)}

	// Register before parsing the body so that reuse during the same pass
	// sees the class. A later parse failure leaves it registered.
	r.classes = append(r.classes, class)
	r.byName[class.Name] = class

	for _, child := range node.Children() {
		switch child.Name() {
		case "DefineArgument":
			if err := r.parseAttributes(child, class, ParamArgument); err != nil {
				return fmt.Errorf("failed to parse arguments: %w", err)
			}

		case "DefineAttribute":
			if err := r.parseAttributes(child, class, ParamAttribute); err != nil {
				return fmt.Errorf("failed to parse attributes: %w", err)
			}

		case "attributes":
			if err := applyCategories(child, class); err != nil {
				return fmt.Errorf("failed to parse attribute categories: %w", err)
			}

		default:
			// Unrecognized class sections are ignored.
		}
	}

	r.logger.Debug().
		Str("class", class.Name).
		Int("attributes", len(class.Attributes)).
		Int("arguments", class.NumArgs).
		Msg("Created class")

	return nil
}

// parseAttributes builds one attribute per named child and appends them to
// the class in declaration order. Children without a usable name are
// skipped. Arguments additionally bump the class's argument count.
func (r *Registry) parseAttributes(node *confnode.Node, class *Class, paramType ParamType) error {
	for _, child := range node.Children() {
		if child.Name() == "" {
			continue
		}

		attr, err := buildAttribute(child, paramType)
		if err != nil {
			return err
		}

		if paramType == ParamArgument {
			class.NumArgs++
		}
		class.Attributes = append(class.Attributes, attr)
	}

	return nil
}
