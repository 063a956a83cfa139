package mapping

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"mapsynth/internal/diagnostic"
)

func nodeLoc(node *yaml.Node) diagnostic.Location {
	return diagnostic.Location{Line: node.Line, Column: node.Column}
}

// --- RenameList YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for RenameList.
// Accepts:
//   - Mapping: {Name: FullName, Id: ID}
//   - Sequence of single-entry mappings: [{Name: FullName}, {Id: ID}]
func (r *RenameList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		entries, err := renamesFromMap(node)
		if err != nil {
			return err
		}

		*r = entries

		return nil

	case yaml.SequenceNode:
		var entries RenameList

		for _, item := range node.Content {
			if item.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: expected {source: target} entry, got %v", item.Line, item.Kind)
			}

			more, err := renamesFromMap(item)
			if err != nil {
				return err
			}

			entries = append(entries, more...)
		}

		*r = entries

		return nil

	default:
		return fmt.Errorf("line %d: expected mapping or sequence of renames, got %v", node.Line, node.Kind)
	}
}

func renamesFromMap(node *yaml.Node) (RenameList, error) {
	entries := make(RenameList, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var src, dst string

		if err := node.Content[i].Decode(&src); err != nil {
			return nil, fmt.Errorf("invalid rename source: %w", err)
		}

		if err := node.Content[i+1].Decode(&dst); err != nil {
			return nil, fmt.Errorf("invalid rename target: %w", err)
		}

		if src == "" || dst == "" {
			return nil, fmt.Errorf("line %d: rename needs both a source and a target", node.Content[i].Line)
		}

		entries = append(entries, RenameEntry{Source: src, Target: dst, Loc: nodeLoc(node.Content[i])})
	}

	return entries, nil
}

// MarshalYAML implements custom YAML marshaling for RenameList as an ordered mapping.
func (r RenameList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range r {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Source},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Target},
		)
	}

	return node, nil
}

// --- EnumValues YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for EnumValues.
// Accepts a sequence of names ([Red, Green]) or a mapping of names to ordinals ({Red: 1}).
func (e *EnumValues) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		values := make(EnumValues, 0, len(node.Content))

		for i, item := range node.Content {
			var name string
			if err := item.Decode(&name); err != nil {
				return fmt.Errorf("invalid enum value: %w", err)
			}

			values = append(values, EnumValueDecl{Name: name, Ordinal: int64(i), Loc: nodeLoc(item)})
		}

		*e = values

		return nil

	case yaml.MappingNode:
		values := make(EnumValues, 0, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			var (
				name    string
				ordinal int64
			)

			if err := node.Content[i].Decode(&name); err != nil {
				return fmt.Errorf("invalid enum value name: %w", err)
			}

			if err := node.Content[i+1].Decode(&ordinal); err != nil {
				return fmt.Errorf("invalid ordinal for enum value %q: %w", name, err)
			}

			values = append(values, EnumValueDecl{Name: name, Ordinal: ordinal, Loc: nodeLoc(node.Content[i])})
		}

		*e = values

		return nil

	default:
		return errors.New("expected sequence of names or mapping of name to ordinal")
	}
}

// MarshalYAML implements custom YAML marshaling for EnumValues.
func (e EnumValues) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, v := range e {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: v.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v.Ordinal)},
		)
	}

	return node, nil
}

// --- position capture ---

// UnmarshalYAML records the position of the mapping entry and of its reverse key.
func (tm *TypeMapping) UnmarshalYAML(node *yaml.Node) error {
	type plain TypeMapping
	if err := node.Decode((*plain)(tm)); err != nil {
		return err
	}

	tm.Loc = nodeLoc(node)

	if key := mappingKey(node, "reverse"); key != nil {
		tm.ReverseLoc = nodeLoc(key)
	}

	return nil
}

// mappingKey returns the key node called name of a mapping node, or nil.
func mappingKey(node *yaml.Node, name string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == name {
			return node.Content[i]
		}
	}

	return nil
}

// UnmarshalYAML records the position of the type declaration.
func (d *TypeDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain TypeDecl
	if err := node.Decode((*plain)(d)); err != nil {
		return err
	}

	d.Loc = nodeLoc(node)

	return nil
}

// UnmarshalYAML records the position of the field declaration.
func (f *FieldDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain FieldDecl
	if err := node.Decode((*plain)(f)); err != nil {
		return err
	}

	f.Loc = nodeLoc(node)

	return nil
}

// UnmarshalYAML records the position of the constructor declaration.
func (c *CtorDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain CtorDecl
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}

	c.Loc = nodeLoc(node)

	return nil
}
