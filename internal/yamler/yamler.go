// Package yamler builds yaml.v3 node trees by hand, so that documents are
// emitted with exactly the key order they are built in.
package yamler

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const strTag = "!!str"

// Text is a string scalar. It is quoted on output whenever it would
// otherwise read back as a number, bool or null.
func Text(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: value}
}

// Seq is a block sequence of the given items.
func Seq(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Content: items}
}

// Pair is one key/value entry of a mapping node.
type Pair struct {
	key   *yaml.Node
	value *yaml.Node
}

// Field pairs a plain string key with v.
func Field(key string, v *yaml.Node) Pair {
	return Pair{key: Text(key), value: v}
}

// Map is a mapping node holding pairs in the given order.
func Map(pairs ...Pair) *yaml.Node {
	return Append(&yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{}}, pairs...)
}

// Append adds entries to an existing mapping node.
func Append(m *yaml.Node, pairs ...Pair) *yaml.Node {
	for _, p := range pairs {
		m.Content = append(m.Content, p.key, p.value)
	}
	return m
}

// FromJSON converts a JSON document into a node tree in block style, keeping
// key order. Nulls, empty mappings and empty sequences inside mappings are
// dropped.
func FromJSON(b []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("yamler: expected a single JSON value")
	}
	root := doc.Content[0]
	normalize(root)
	return root, nil
}

func normalize(n *yaml.Node) {
	n.Style = 0
	n.Line, n.Column = 0, 0

	switch n.Kind {
	case yaml.SequenceNode:
		for _, c := range n.Content {
			normalize(c)
		}
	case yaml.MappingNode:
		kept := n.Content[:0]
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if isEmpty(v) {
				continue
			}
			normalize(k)
			normalize(v)
			kept = append(kept, k, v)
		}
		n.Content = kept
	}
}

func isEmpty(n *yaml.Node) bool {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Tag == "!!null"
	case yaml.MappingNode, yaml.SequenceNode:
		if len(n.Content) == 0 {
			return true
		}
		if n.Kind == yaml.MappingNode {
			for i := 1; i < len(n.Content); i += 2 {
				if !isEmpty(n.Content[i]) {
					return false
				}
			}
			return true
		}
	}
	return false
}

// Encode renders n as a YAML document with two-space indentation.
func Encode(n *yaml.Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
