package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cast"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Node is a hierarchical configuration tree. Nested maps become child
// Nodes; every other value is stored as-is. Dotted keys address nested
// values ("model.path"). A frozen Node rejects writes.
type Node struct {
	values map[string]any
	frozen bool
}

// New creates an empty Node.
func New() *Node {
	return &Node{values: make(map[string]any)}
}

// FromMap creates a Node from a possibly-nested map. The input is deep
// copied; keys must be valid identifiers.
func FromMap(in map[string]any) (*Node, error) {
	n := New()
	for k, v := range in {
		if err := n.Set(k, v); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Set stores a value under a dotted key, creating intermediate child
// Nodes as needed. Map values are converted into child Nodes.
func (n *Node) Set(key string, value any) error {
	if n.frozen {
		return fmt.Errorf("config: node is frozen, cannot set %q", key)
	}

	head, rest, nested := strings.Cut(key, ".")
	if !keyPattern.MatchString(head) {
		return fmt.Errorf("config: invalid key %q", head)
	}

	if nested {
		child, ok := n.values[head].(*Node)
		if !ok {
			child = New()
			n.values[head] = child
		}
		return child.Set(rest, value)
	}

	converted, err := convertValue(value)
	if err != nil {
		return err
	}
	n.values[head] = converted
	return nil
}

func convertValue(value any) (any, error) {
	switch v := value.(type) {
	case *Node:
		return v.Clone(), nil
	case map[string]any:
		return FromMap(v)
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("config: non-string key %v", k)
			}
			m[ks] = val
		}
		return FromMap(m)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			c, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	default:
		return v, nil
	}
}

// Get returns the value under a dotted key.
func (n *Node) Get(key string) (any, bool) {
	head, rest, nested := strings.Cut(key, ".")
	v, ok := n.values[head]
	if !ok {
		return nil, false
	}
	if nested {
		child, ok := v.(*Node)
		if !ok {
			return nil, false
		}
		return child.Get(rest)
	}
	return v, true
}

// GetString returns the value under key coerced to a string.
func (n *Node) GetString(key string) string {
	v, _ := n.Get(key)
	return cast.ToString(v)
}

// GetInt returns the value under key coerced to an int.
func (n *Node) GetInt(key string) int {
	v, _ := n.Get(key)
	return cast.ToInt(v)
}

// GetFloat returns the value under key coerced to a float64.
func (n *Node) GetFloat(key string) float64 {
	v, _ := n.Get(key)
	return cast.ToFloat64(v)
}

// GetBool returns the value under key coerced to a bool.
func (n *Node) GetBool(key string) bool {
	v, _ := n.Get(key)
	return cast.ToBool(v)
}

// Child returns the child Node under a dotted key.
func (n *Node) Child(key string) (*Node, bool) {
	v, ok := n.Get(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Node)
	return child, ok
}

// Has reports whether a dotted key is present.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Delete removes the value under a dotted key.
func (n *Node) Delete(key string) error {
	if n.frozen {
		return fmt.Errorf("config: node is frozen, cannot delete %q", key)
	}
	head, rest, nested := strings.Cut(key, ".")
	if nested {
		child, ok := n.values[head].(*Node)
		if !ok {
			return fmt.Errorf("config: key %q not found", key)
		}
		return child.Delete(rest)
	}
	if _, ok := n.values[head]; !ok {
		return fmt.Errorf("config: key %q not found", key)
	}
	delete(n.values, head)
	return nil
}

// Keys returns the sorted top-level keys.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.values))
	for k := range n.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent deep copy of the tree. The copy is never
// frozen, regardless of the receiver's state.
func (n *Node) Clone() *Node {
	out := New()
	for k, v := range n.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Node:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

// Merge merges another Node into this one; other's values override.
// Child Nodes merge recursively; other is not modified.
func (n *Node) Merge(other *Node) error {
	if n.frozen {
		return fmt.Errorf("config: node is frozen, cannot merge")
	}
	for k, v := range other.values {
		if otherChild, ok := v.(*Node); ok {
			if ownChild, ok := n.values[k].(*Node); ok {
				if err := ownChild.Merge(otherChild); err != nil {
					return err
				}
				continue
			}
		}
		n.values[k] = cloneValue(v)
	}
	return nil
}

// Freeze marks the tree and all of its children read-only (or writable
// again when frozen is false).
func (n *Node) Freeze(frozen bool) {
	n.frozen = frozen
	for _, v := range n.values {
		if child, ok := v.(*Node); ok {
			child.Freeze(frozen)
		}
	}
}

// IsFrozen reports whether the Node rejects writes.
func (n *Node) IsFrozen() bool { return n.frozen }

// ToMap converts the tree to plain nested maps, deep-copied.
func (n *Node) ToMap() map[string]any {
	out := make(map[string]any, len(n.values))
	for k, v := range n.values {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch val := v.(type) {
	case *Node:
		return val.ToMap()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	default:
		return val
	}
}

// Dump serializes the tree as YAML.
func (n *Node) Dump() (string, error) {
	data, err := yaml.Marshal(n.ToMap())
	if err != nil {
		return "", fmt.Errorf("config: marshaling node: %w", err)
	}
	return string(data), nil
}

// SaveFile writes the tree to a YAML file.
func (n *Node) SaveFile(path string) error {
	data, err := n.Dump()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(data), 0o644)
}

// ParseYAML builds a Node from YAML bytes.
func ParseYAML(data []byte) (*Node, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parsing yaml: %w", err)
	}
	return FromMap(raw)
}

// OpenFile builds a Node from a YAML file.
func OpenFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return ParseYAML(data)
}

func (n *Node) String() string {
	s, err := n.Dump()
	if err != nil {
		return fmt.Sprintf("Node(error: %v)", err)
	}
	return s
}
