package model

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treelist/pkg/treelist"
)

// Tree is the on-disk shape of a tree data file.
type Tree struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Parents []Parent `json:"parents" yaml:"parents"`
}

// Parent is a root-level record with its ordered children.
type Parent struct {
	Name     string  `json:"name" yaml:"name"`
	Children []Child `json:"children,omitempty" yaml:"children,omitempty"`
}

// Child is a leaf record. In data files a child may be written as a plain
// string, which sets only Name.
type Child struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// String is what child cells display and what gets copied.
func (c Child) String() string {
	if c.Value == "" {
		return c.Name
	}
	return c.Name + " = " + c.Value
}

// childFields keeps UnmarshalJSON from recursing.
type childFields Child

// UnmarshalJSON accepts either "name" or {"name": ..., "value": ...}.
func (c *Child) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = Child{Name: name}
		return nil
	}
	var f childFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = Child(f)
	return nil
}

// UnmarshalYAML accepts either a scalar or a mapping.
func (c *Child) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = Child{Name: node.Value}
		return nil
	}
	var f childFields
	if err := node.Decode(&f); err != nil {
		return err
	}
	*c = Child(f)
	return nil
}

// Validate checks that every parent is named.
func (t *Tree) Validate() error {
	for i, p := range t.Parents {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("parents[%d]: name cannot be empty", i)
		}
	}
	return nil
}

// Clone creates a deep copy of the tree.
func (t Tree) Clone() Tree {
	clone := t
	if t.Parents != nil {
		clone.Parents = make([]Parent, len(t.Parents))
		for i, p := range t.Parents {
			clone.Parents[i] = p
			if p.Children != nil {
				clone.Parents[i].Children = append([]Child(nil), p.Children...)
			}
		}
	}
	return clone
}

// ChildCount returns the total number of children across all parents.
func (t Tree) ChildCount() int {
	n := 0
	for _, p := range t.Parents {
		n += len(p.Children)
	}
	return n
}

// Merge concatenates the parents of several trees in order. The first
// non-empty title wins.
func Merge(trees ...Tree) Tree {
	var merged Tree
	for _, t := range trees {
		if merged.Title == "" {
			merged.Title = t.Title
		}
		merged.Parents = append(merged.Parents, t.Parents...)
	}
	return merged
}

// Nodes converts the tree to list data. Children are Child values. The
// result is never nil, so an empty tree clears a list instead of keeping
// its old data.
func (t Tree) Nodes() []treelist.ParentNode {
	nodes := make([]treelist.ParentNode, len(t.Parents))
	for i, p := range t.Parents {
		children := make([]any, len(p.Children))
		for j, c := range p.Children {
			children[j] = c
		}
		nodes[i] = treelist.ParentNode{Name: p.Name, Children: children}
	}
	return nodes
}

// FromNodes is the inverse of Nodes. Children that are not Child values are
// formatted with fmt.Sprint.
func FromNodes(nodes []treelist.ParentNode) Tree {
	t := Tree{Parents: make([]Parent, len(nodes))}
	for i := range nodes {
		n := &nodes[i]
		p := Parent{Name: n.DisplayName()}
		for _, c := range n.Children {
			switch v := c.(type) {
			case Child:
				p.Children = append(p.Children, v)
			case nil:
				p.Children = append(p.Children, Child{})
			default:
				p.Children = append(p.Children, Child{Name: fmt.Sprint(v)})
			}
		}
		t.Parents[i] = p
	}
	return t
}
