package compiler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/topogen/topogen/pkg/confnode"
	"github.com/topogen/topogen/pkg/object"
	"github.com/topogen/topogen/pkg/schema"
)

// PreProcessor walks top-level configuration trees, defining classes from
// "Class" sections and instantiating objects from "Object" sections. Classes
// accumulate across documents, so a class defined in one file can be
// instantiated from another as long as the definition is processed first.
type PreProcessor struct {
	registry *schema.Registry
	builder  *object.Builder
	logger   zerolog.Logger
	objects  []*object.Object
}

// NewPreProcessor creates a pre-processor with an empty class registry.
func NewPreProcessor(logger zerolog.Logger) *PreProcessor {
	registry := schema.NewRegistry(logger)
	return &PreProcessor{
		registry: registry,
		builder:  object.NewBuilder(registry, logger),
		logger:   logger.With().Str("component", "pre-processor").Logger(),
	}
}

// Registry returns the class registry populated so far.
func (p *PreProcessor) Registry() *schema.Registry {
	return p.registry
}

// Objects returns the top-level objects created so far, in creation order.
func (p *PreProcessor) Objects() []*object.Object {
	return p.objects
}

// Process handles one document: "Class" sections define classes, "Object"
// sections create objects, anything else is ignored.
func (p *PreProcessor) Process(top *confnode.Node) error {
	if !top.IsCompound() {
		return fmt.Errorf("compound type expected at top level")
	}

	for _, section := range top.Children() {
		switch section.Name() {
		case "Class":
			if err := p.processCompound(section, p.registry.DefineClasses); err != nil {
				return err
			}
		case "Object":
			if err := p.processCompound(section, p.createObjects); err != nil {
				return err
			}
		}
	}

	return nil
}

// processCompound applies fn to every child of a section node, which must be
// a compound.
func (p *PreProcessor) processCompound(node *confnode.Node, fn func(*confnode.Node) error) error {
	if !node.IsCompound() {
		return fmt.Errorf("compound type expected for %s", node.Name())
	}

	for _, child := range node.Children() {
		if err := fn(child); err != nil {
			return err
		}
	}

	return nil
}

// createObjects instantiates all objects in a class group. The group's own
// id names the class, its children are the instances.
func (p *PreProcessor) createObjects(group *confnode.Node) error {
	class := p.registry.Lookup(group.Name())
	if class == nil {
		return fmt.Errorf("no class definition found for %q", group.Name())
	}

	for _, inst := range group.Children() {
		obj, err := p.builder.Create(inst, class, nil)
		if err != nil {
			return fmt.Errorf("failed to create object %q of class %q: %w",
				inst.Name(), class.Name, err)
		}

		if err := obj.Validate(); err != nil {
			return fmt.Errorf("object %q failed sanity check: %w", obj.Name, err)
		}

		p.objects = append(p.objects, obj)
	}

	return nil
}
