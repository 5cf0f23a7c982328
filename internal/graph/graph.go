// Package graph assembles typed layer configs into a validated, acyclic
// dependency graph and infers per-node tensor shapes.
//
// Node indices are 0-based positions among the layer sections, excluding
// the leading [net] section, which is represented by the synthetic
// InputIndex predecessor instead of a node. Every edge points strictly
// backwards, so increasing index order is already a topological order and
// the single forward pass of Infer visits each node after all of its
// inputs.
package graph

import (
	"github.com/darknet-ml/darknet/internal/layer"
)

// Node is one layer of the network graph.
type Node struct {
	index  int
	config layer.Config
	preds  []int
	inputs []Shape
	output Shape
}

// Index returns the node's position among the layer sections.
func (n *Node) Index() int { return n.index }

// Config returns the node's validated layer descriptor.
func (n *Node) Config() layer.Config { return n.config }

// Predecessors returns the resolved predecessor indices, in reference
// order. InputIndex stands for the network input.
func (n *Node) Predecessors() []int { return n.preds }

// InputShapes returns the input shape per predecessor, in the same order
// as Predecessors. Empty until the graph has been shaped.
func (n *Node) InputShapes() []Shape { return n.inputs }

// OutputShape returns the inferred output shape. Zero until the graph has
// been shaped.
func (n *Node) OutputShape() Shape { return n.output }

// Graph is the ordered, index-keyed collection of nodes plus the declared
// network input shape. It is immutable after Infer completes.
type Graph struct {
	net    *layer.Net
	input  Shape
	nodes  []Node
	shaped bool
}

// Build combines layer configs into a network graph, resolving every
// cross-reference. The first config must be the single [net] section; all
// remaining configs become nodes 0..n-1 in order.
func Build(configs []layer.Config) (*Graph, error) {
	var net *layer.Net
	layers := make([]layer.Config, 0, len(configs))
	for _, c := range configs {
		n, ok := c.(*layer.Net)
		if !ok {
			layers = append(layers, c)
			continue
		}
		switch {
		case net != nil:
			return nil, ErrDuplicateNetworkInput
		case len(layers) > 0:
			return nil, ErrNetNotFirst
		default:
			net = n
		}
	}
	if net == nil {
		return nil, ErrMissingNetworkInput
	}

	refs, err := resolveRefs(layers)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		net:   net,
		input: Shape{Channels: net.Channels, Height: net.Height, Width: net.Width},
		nodes: make([]Node, len(layers)),
	}
	for i, c := range layers {
		g.nodes[i] = Node{index: i, config: c, preds: refs[i]}
	}
	return g, nil
}

// Net returns the network section the graph was built from.
func (g *Graph) Net() *layer.Net { return g.net }

// Input returns the declared global input shape.
func (g *Graph) Input() Shape { return g.input }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node at index i.
func (g *Graph) Node(i int) *Node { return &g.nodes[i] }

// Nodes returns the nodes in index order. The slice is freshly allocated,
// but the nodes it points to are the graph's own storage and must be
// treated as read-only.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	for i := range g.nodes {
		out[i] = &g.nodes[i]
	}
	return out
}

// Shaped reports whether Infer has completed on this graph.
func (g *Graph) Shaped() bool { return g.shaped }
