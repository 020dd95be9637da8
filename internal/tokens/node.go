package tokens

import (
	"bytes"
	"encoding/json"
)

// Node is a JSON object that keeps its keys in insertion order.
type Node struct {
	keys []string
	vals map[string]any
}

// NewNode returns an empty node.
func NewNode() *Node {
	return &Node{vals: make(map[string]any)}
}

// Set adds or replaces a key. New keys are appended.
func (n *Node) Set(key string, v any) *Node {
	if _, ok := n.vals[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.vals[key] = v
	return n
}

// Get returns the value stored under key.
func (n *Node) Get(key string) (any, bool) {
	v, ok := n.vals[key]
	return v, ok
}

// Child returns the nested node under key, or nil.
func (n *Node) Child(key string) *Node {
	c, _ := n.vals[key].(*Node)
	return c
}

// Keys returns keys in insertion order.
func (n *Node) Keys() []string {
	return append([]string(nil), n.keys...)
}

// Len reports the number of keys.
func (n *Node) Len() int { return len(n.keys) }

func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range n.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(n.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
