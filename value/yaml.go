package value

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ============================================================
// YAML Bridge
// ============================================================

// FromYAML parses a single YAML document into a Value.
func FromYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if doc.Kind == 0 {
		// empty document
		return Null(), nil
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromYAMLNode(n.Content[0])

	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)

	case yaml.SequenceNode:
		items := make([]*Value, 0, len(n.Content))
		for i, c := range n.Content {
			elem, err := fromYAMLNode(c)
			if err != nil {
				return nil, fmt.Errorf("sequence[%d]: %w", i, err)
			}
			items = append(items, elem)
		}
		return Array(items...), nil

	case yaml.MappingNode:
		obj := Object()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			elem, err := fromYAMLNode(valNode)
			if err != nil {
				return nil, fmt.Errorf("mapping[%q]: %w", keyNode.Value, err)
			}
			obj.Set(keyNode.Value, elem)
		}
		return obj, nil

	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}

	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func fromYAMLScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil

	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bool(b), nil

	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, fmt.Errorf("line %d: integer %q out of range", n.Line, n.Value)
		}
		return Uint(u), nil

	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Float(f), nil

	default:
		return Str(n.Value), nil
	}
}

// ToYAML converts a Value to YAML text. Arrays holding only scalars are
// written in flow style.
func ToYAML(v *Value) ([]byte, error) {
	node, err := toYAMLNode(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("YAML encode error: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("YAML encode error: %w", err)
	}
	return buf.Bytes(), nil
}

func toYAMLNode(v *Value) (*yaml.Node, error) {
	switch v.Kind() {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil

	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.boolVal)}, nil

	case KindNumber:
		n := v.numVal
		if !n.IsFloat() {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: n.String()}, nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(n.f)}, nil

	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.strVal}, nil

	case KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(v.arrVal) == 0 || allScalars(v.arrVal) {
			node.Style = yaml.FlowStyle
		}
		for _, elem := range v.arrVal {
			c, err := toYAMLNode(elem)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, c)
		}
		return node, nil

	case KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if len(v.objVal) == 0 {
			node.Style = yaml.FlowStyle
		}
		for _, e := range v.objVal {
			c, err := toYAMLNode(e.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				c,
			)
		}
		return node, nil
	}

	return nil, fmt.Errorf("unsupported value kind: %s", v.Kind())
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return formatFloat(f)
}
