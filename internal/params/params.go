// Package params decodes check parameters. Values are stored as serialized
// literals ("5", "['N/A', '-']") and parsed as YAML flow nodes, which accepts
// both quote styles used by check authors.
package params

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrMissingParameter = errors.New("missing required parameter")

type Parameter struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

type Parameters []Parameter

// DecodeError reports a parameter whose literal could not be decoded into the
// requested type.
type DecodeError struct {
	Name  string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("parameter %s: cannot decode %q: %v", e.Name, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Lookup returns the raw literal of the first parameter with the given name.
func (ps Parameters) Lookup(name string) (string, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Int decodes a required non-negative integer parameter.
func (ps Parameters) Int(name string) (int64, error) {
	raw, ok := ps.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	node, err := parse(raw)
	if err != nil {
		return 0, &DecodeError{Name: name, Value: raw, Err: err}
	}
	if node.Kind != yaml.ScalarNode || node.Tag != "!!int" {
		return 0, &DecodeError{Name: name, Value: raw, Err: fmt.Errorf("expected an integer, got %s", describe(node))}
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return 0, &DecodeError{Name: name, Value: raw, Err: err}
	}
	if n < 0 {
		return 0, &DecodeError{Name: name, Value: raw, Err: errors.New("must not be negative")}
	}
	return n, nil
}

// StringList decodes an optional sequence of strings. The boolean reports
// whether the parameter was present at all.
func (ps Parameters) StringList(name string) ([]string, bool, error) {
	raw, ok := ps.Lookup(name)
	if !ok {
		return nil, false, nil
	}
	node, err := parse(raw)
	if err != nil {
		return nil, true, &DecodeError{Name: name, Value: raw, Err: err}
	}
	if node.Kind != yaml.SequenceNode {
		return nil, true, &DecodeError{Name: name, Value: raw, Err: fmt.Errorf("expected a list, got %s", describe(node))}
	}
	out := make([]string, 0, len(node.Content))
	for i, item := range node.Content {
		if item.Kind != yaml.ScalarNode || item.Tag == "!!null" {
			return nil, true, &DecodeError{Name: name, Value: raw, Err: fmt.Errorf("item %d: expected a scalar, got %s", i, describe(item))}
		}
		out = append(out, item.Value)
	}
	return out, true, nil
}

func parse(raw string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty value")
	}
	return doc.Content[0], nil
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return n.ShortTag()
	default:
		return "unsupported node"
	}
}
