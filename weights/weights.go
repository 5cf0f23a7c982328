// Package weights provides the public API for the binary weight-file
// codec.
//
// The layout of a weight file is derived entirely from a shaped graph:
// each node contributes a fixed, ordered list of named float32 arrays
// sized from its parameters and inferred shapes. Decoding therefore
// requires the same graph the file was trained against:
//
//	g, _, _ := darknet.Parse(cfgFile, darknet.Options{})
//	file, err := weights.Decode(weightsFile, g)
//	if file.Trailing > 0 {
//	    log.Printf("warning: %d trailing bytes ignored", file.Trailing)
//	}
package weights

import (
	"io"

	"github.com/darknet-ml/darknet/internal/graph"
	"github.com/darknet-ml/darknet/internal/weights"
)

// Header is the fixed weight-file header.
type Header = weights.Header

// Default versions for newly written files.
const (
	DefaultMajor = weights.DefaultMajor
	DefaultMinor = weights.DefaultMinor
)

// Segment is one named parameter array of a layer.
type Segment = weights.Segment

// Segment names, in on-disk order.
const (
	SegmentBias     = weights.SegmentBias
	SegmentScale    = weights.SegmentScale
	SegmentMean     = weights.SegmentMean
	SegmentVariance = weights.SegmentVariance
	SegmentWeight   = weights.SegmentWeight
)

// Block is the ordered parameter layout of one node.
type Block = weights.Block

// Params holds parameter arrays keyed by node index, then segment name.
type Params = weights.Params

// File is one decoded weight file.
type File = weights.File

// ErrUnshapedGraph is returned when the graph has not been through shape
// inference.
var ErrUnshapedGraph = weights.ErrUnshapedGraph

// Structured errors.
type (
	TruncatedError        = weights.TruncatedError
	MissingParameterError = weights.MissingParameterError
	SizeMismatchError     = weights.SizeMismatchError
)

// Layout computes the ordered parameter layout of every node.
func Layout(g *graph.Graph) ([]Block, error) {
	return weights.Layout(g)
}

// Decode reads a weight buffer against the layout of the shaped graph.
func Decode(r io.Reader, g *graph.Graph) (*File, error) {
	return weights.Decode(r, g)
}

// Encode writes a weight file for the shaped graph from the supplied
// parameter arrays.
func Encode(w io.Writer, g *graph.Graph, header Header, params Params) error {
	return weights.Encode(w, g, header, params)
}
