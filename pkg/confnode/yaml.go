package confnode

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML document from path and returns its node tree. The
// returned root is an anonymous compound holding the document's top-level
// entries.
func LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	node, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return node, nil
}

// Parse builds a node tree from YAML source, preserving mapping key order
// and duplicate keys.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		// Empty document compiles to an empty tree.
		return Compound(""), nil
	}

	return fromYAML("", doc.Content[0])
}

func fromYAML(name string, yn *yaml.Node) (*Node, error) {
	// Anchors are resolved in place; merge keys are not supported.
	if yn.Kind == yaml.AliasNode {
		yn = yn.Alias
	}

	switch yn.Kind {
	case yaml.MappingNode:
		node := Compound(name)
		for i := 0; i+1 < len(yn.Content); i += 2 {
			key := yn.Content[i]
			child, err := fromYAML(key.Value, yn.Content[i+1])
			if err != nil {
				return nil, err
			}
			node.children = append(node.children, child)
		}
		return node, nil

	case yaml.SequenceNode:
		node := Sequence(name)
		for i, item := range yn.Content {
			child, err := fromYAML(strconv.Itoa(i), item)
			if err != nil {
				return nil, err
			}
			node.children = append(node.children, child)
		}
		return node, nil

	case yaml.ScalarNode:
		return scalarFromYAML(name, yn)

	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d for %q (line %d)", yn.Kind, name, yn.Line)
	}
}

func scalarFromYAML(name string, yn *yaml.Node) (*Node, error) {
	if yn.Tag == "!!int" {
		v, err := strconv.ParseInt(yn.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q for %q (line %d): %w", yn.Value, name, yn.Line, err)
		}
		return Int(name, v), nil
	}

	// Everything else, including booleans, floats and nulls, is carried as
	// its source text. The compiler only distinguishes strings and integers.
	return String(name, yn.Value), nil
}
