// Package graph provides the public API for building and shaping the
// network dependency graph.
//
// The pipeline is decode -> map -> build -> infer:
//
//	sections, err := cfg.Decode(file)
//	configs, err := layer.Map(sections, layer.Options{})
//	g, err := graph.Build(configs)
//	report, err := graph.Infer(g)
//
// After Infer the graph is immutable: nodes expose their config, resolved
// predecessor indices, and final output shape in index order. That
// traversal is the sole handoff contract to a numeric backend constructing
// the model.
package graph

import (
	"github.com/darknet-ml/darknet/internal/graph"
	"github.com/darknet-ml/darknet/internal/layer"
)

// InputIndex is the synthetic predecessor index standing for the network
// input.
const InputIndex = graph.InputIndex

// Shape is the (channels, height, width) descriptor of a layer output.
type Shape = graph.Shape

// Node is one layer of the network graph.
type Node = graph.Node

// Graph is the ordered, index-keyed node collection plus the declared
// input shape.
type Graph = graph.Graph

// Report collects the non-fatal findings of one inference pass.
type Report = graph.Report

// Caveat is one non-fatal inference finding.
type Caveat = graph.Caveat

// Sentinel errors.
var (
	ErrMissingNetworkInput   = graph.ErrMissingNetworkInput
	ErrDuplicateNetworkInput = graph.ErrDuplicateNetworkInput
	ErrNetNotFirst           = graph.ErrNetNotFirst
	ErrAlreadyShaped         = graph.ErrAlreadyShaped
)

// Structured errors.
type (
	DanglingReferenceError = graph.DanglingReferenceError
	GeometryError          = graph.GeometryError
	ShapeMismatchError     = graph.ShapeMismatchError
	AnchorMaskError        = graph.AnchorMaskError
)

// Build combines typed layer configs into a network graph, resolving every
// cross-reference into back-pointing edges.
func Build(configs []layer.Config) (*Graph, error) {
	return graph.Build(configs)
}

// Infer runs the single forward shape pass over a freshly built graph.
func Infer(g *Graph) (*Report, error) {
	return graph.Infer(g)
}
