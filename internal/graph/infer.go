package graph

import (
	"fmt"

	"github.com/darknet-ml/darknet/internal/layer"
)

// Caveat is a non-fatal finding from shape inference, surfaced for the
// caller to judge instead of aborting the pass.
type Caveat struct {
	Node    int
	Message string
}

// Report collects the caveats of one inference pass.
type Report struct {
	Caveats []Caveat
}

func (r *Report) caveat(node int, format string, args ...any) {
	r.Caveats = append(r.Caveats, Caveat{Node: node, Message: fmt.Sprintf(format, args...)})
}

// Infer walks the graph once in index order, computing every node's output
// shape from its input shapes and parameters. Shapes are written exactly
// once: the pass is all-or-nothing, and running it again on an already
// shaped graph fails with ErrAlreadyShaped. On failure the graph is left
// unshaped with no partial results.
func Infer(g *Graph) (*Report, error) {
	if g.shaped {
		return nil, ErrAlreadyShaped
	}

	report := &Report{}
	outputs := make([]Shape, len(g.nodes))
	inputs := make([][]Shape, len(g.nodes))

	shapeAt := func(idx int) Shape {
		if idx == InputIndex {
			return g.input
		}
		return outputs[idx]
	}

	for i := range g.nodes {
		node := &g.nodes[i]
		in := make([]Shape, len(node.preds))
		for j, p := range node.preds {
			in[j] = shapeAt(p)
		}
		inputs[i] = in

		out, err := inferNode(node, in, report)
		if err != nil {
			return nil, err
		}
		outputs[i] = out
	}

	// Commit only after the whole pass succeeded.
	for i := range g.nodes {
		g.nodes[i].inputs = inputs[i]
		g.nodes[i].output = outputs[i]
	}
	g.shaped = true
	return report, nil
}

func inferNode(node *Node, in []Shape, report *Report) (Shape, error) {
	i := node.index
	switch c := node.config.(type) {
	case *layer.Convolutional:
		return inferConvolutional(i, c, in[0])
	case *layer.Connected:
		return Shape{Channels: c.Output, Height: 1, Width: 1}, nil
	case *layer.MaxPool:
		return inferMaxPool(i, c, in[0])
	case *layer.AvgPool:
		return Shape{Channels: in[0].Channels, Height: 1, Width: 1}, nil
	case *layer.Route:
		return inferRoute(i, c, in)
	case *layer.Shortcut:
		return inferShortcut(i, in)
	case *layer.Upsample:
		return inferUpsample(i, c, in[0])
	case *layer.Yolo:
		return inferYolo(i, c, in[0])
	case *layer.BatchNorm:
		return in[0], nil
	case *layer.Unknown:
		report.caveat(i, "unknown layer kind %q: input shape passed through unchanged", c.Name)
		return in[0], nil
	default:
		return Shape{}, fmt.Errorf("layer %d: unsupported config type %T", i, node.config)
	}
}

// spatialOut is the darknet output-extent formula floor((in+pad-size)/stride)+1,
// where pad is the total padding across the dimension. Go's integer division
// truncates toward zero, so a negative numerator is mapped to a non-positive
// extent explicitly rather than rounding up to 1.
func spatialOut(in, pad, size, stride int) int {
	n := in + pad - size
	if n < 0 {
		return 0
	}
	return n/stride + 1
}

func inferConvolutional(i int, c *layer.Convolutional, in Shape) (Shape, error) {
	if in.Channels%c.Groups != 0 {
		return Shape{}, &GeometryError{
			Node:   i,
			Input:  in,
			Reason: fmt.Sprintf("input channels %d not divisible by groups %d", in.Channels, c.Groups),
		}
	}
	out := Shape{
		Channels: c.Filters,
		Height:   spatialOut(in.Height, 2*c.Padding, c.Size, c.Stride),
		Width:    spatialOut(in.Width, 2*c.Padding, c.Size, c.Stride),
	}
	if !out.Valid() {
		return Shape{}, &GeometryError{
			Node:   i,
			Input:  in,
			Reason: fmt.Sprintf("size=%d stride=%d padding=%d yields %s", c.Size, c.Stride, c.Padding, out),
		}
	}
	return out, nil
}

// inferMaxPool uses darknet's pooling geometry, where padding is the total
// padding added across each spatial dimension (default size-1), not
// per-side.
func inferMaxPool(i int, c *layer.MaxPool, in Shape) (Shape, error) {
	out := Shape{
		Channels: in.Channels,
		Height:   spatialOut(in.Height, c.Padding, c.Size, c.Stride),
		Width:    spatialOut(in.Width, c.Padding, c.Size, c.Stride),
	}
	if !out.Valid() {
		return Shape{}, &GeometryError{
			Node:   i,
			Input:  in,
			Reason: fmt.Sprintf("size=%d stride=%d padding=%d yields %s", c.Size, c.Stride, c.Padding, out),
		}
	}
	return out, nil
}

func inferRoute(i int, c *layer.Route, in []Shape) (Shape, error) {
	first := in[0]
	channels := 0
	for _, s := range in {
		if s.Height != first.Height || s.Width != first.Width {
			return Shape{}, &ShapeMismatchError{Node: i, Expected: first, Actual: s}
		}
		channels += s.Channels
	}
	if channels%c.Groups != 0 {
		return Shape{}, &GeometryError{
			Node:   i,
			Input:  first,
			Reason: fmt.Sprintf("concatenated channels %d not divisible by groups %d", channels, c.Groups),
		}
	}
	return Shape{Channels: channels / c.Groups, Height: first.Height, Width: first.Width}, nil
}

func inferShortcut(i int, in []Shape) (Shape, error) {
	if !in[0].Equal(in[1]) {
		return Shape{}, &ShapeMismatchError{Node: i, Expected: in[0], Actual: in[1]}
	}
	return in[0], nil
}

func inferUpsample(i int, c *layer.Upsample, in Shape) (Shape, error) {
	if c.Reverse {
		if in.Height%c.Stride != 0 || in.Width%c.Stride != 0 {
			return Shape{}, &GeometryError{
				Node:   i,
				Input:  in,
				Reason: fmt.Sprintf("spatial dims not divisible by reverse stride %d", c.Stride),
			}
		}
		return Shape{Channels: in.Channels, Height: in.Height / c.Stride, Width: in.Width / c.Stride}, nil
	}
	return Shape{Channels: in.Channels, Height: in.Height * c.Stride, Width: in.Width * c.Stride}, nil
}

func inferYolo(i int, c *layer.Yolo, in Shape) (Shape, error) {
	// Mask indices select from the anchor list; fall back to num when the
	// anchors key is absent.
	bound := len(c.Anchors)
	if bound == 0 {
		bound = c.Num
	}
	for _, m := range c.Mask {
		if m < 0 || m >= bound {
			return Shape{}, &AnchorMaskError{Node: i, Index: m, Anchors: bound}
		}
	}
	return in, nil
}
