// Package scene provides the in-memory node graph that builds produce
// their output into. The graph doubles as the node lookup for action
// validation and as the pair lookup for the symmetry transform.
package scene

import (
	"fmt"
	"sort"
	"sync"
)

// Node is one named object in the graph.
type Node struct {
	g        *Graph
	name     string
	typ      string
	parent   *Node
	children []*Node

	position [3]float64
	tags     []string
	attrs    map[string]any
}

// Name returns the node name, unique within its graph.
func (n *Node) Name() string { return n.name }

// Type returns the node type label.
func (n *Node) Type() string { return n.typ }

// Parent returns the parent node, nil at the top level.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	return append([]*Node(nil), n.children...)
}

// Position returns the node position.
func (n *Node) Position() [3]float64 {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	return n.position
}

// SetPosition moves the node.
func (n *Node) SetPosition(p [3]float64) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.position = p
}

// Tags returns a copy of the node's tags in the order they were added.
func (n *Node) Tags() []string {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	return append([]string(nil), n.tags...)
}

// HasTag reports whether a tag was added to this node.
func (n *Node) HasTag(tag string) bool {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	for _, t := range n.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag tags the node; adding an existing tag is a no-op.
func (n *Node) AddTag(tag string) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	for _, t := range n.tags {
		if t == tag {
			return
		}
	}
	n.tags = append(n.tags, tag)
}

// Attr returns an arbitrary attribute value stored on the node.
func (n *Node) Attr(key string) (any, bool) {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	v, ok := n.attrs[key]
	return v, ok
}

// SetAttr stores an arbitrary attribute value on the node.
func (n *Node) SetAttr(key string, value any) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	n.attrs[key] = value
}

// Graph is a set of uniquely named nodes plus the symmetry pairs
// declared between them. Safe for concurrent use.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	pairs map[string]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: map[string]*Node{},
		pairs: map[string]string{},
	}
}

// CreateNode adds a node, failing when the name is taken or empty.
func (g *Graph) CreateNode(name, typ string) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("node name must not be empty")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[name]; ok {
		return nil, fmt.Errorf("node already exists: %s", name)
	}
	n := &Node{g: g, name: name, typ: typ, attrs: map[string]any{}}
	g.nodes[name] = n
	return n, nil
}

// Node returns a node by name.
func (g *Graph) Node(name string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[name]
	return n, ok
}

// Exists reports whether a node with a name is in the graph.
func (g *Graph) Exists(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[name]
	return ok
}

// Remove deletes a node, detaching it from its parent and orphaning its
// children to the top level.
func (g *Graph) Remove(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[name]
	if !ok {
		return false
	}
	if n.parent != nil {
		n.parent.dropChild(n)
	}
	for _, c := range n.children {
		c.parent = nil
	}
	delete(g.nodes, name)
	delete(g.pairs, name)
	return true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Names returns all node names sorted.
func (g *Graph) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Parent reparents child under parent; a nil parent moves the child to
// the top level.
func (g *Graph) Parent(child, parent *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if child.parent != nil {
		child.parent.dropChild(child)
	}
	child.parent = parent
	if parent != nil {
		parent.children = append(parent.children, child)
	}
}

func (n *Node) dropChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// SetPair declares two node names as a symmetry pair, both directions.
func (g *Graph) SetPair(left, right string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pairs[left] = right
	g.pairs[right] = left
}

// MirrorPair returns the paired name of a node.
func (g *Graph) MirrorPair(name string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	other, ok := g.pairs[name]
	return other, ok
}
