package weights

import (
	"github.com/darknet-ml/darknet/internal/graph"
	"github.com/darknet-ml/darknet/internal/layer"
)

// Layout computes the ordered parameter layout of every node in the shaped
// graph. Element counts derive purely from layer parameters and inferred
// shapes; the result is deterministic for a given graph.
func Layout(g *graph.Graph) ([]Block, error) {
	if !g.Shaped() {
		return nil, ErrUnshapedGraph
	}
	blocks := make([]Block, g.Len())
	for i := 0; i < g.Len(); i++ {
		blocks[i] = Block{Node: i, Segments: nodeSegments(g.Node(i))}
	}
	return blocks, nil
}

func nodeSegments(node *graph.Node) []Segment {
	common := node.Config().Options()
	if common.DontLoad {
		return nil
	}

	switch c := node.Config().(type) {
	case *layer.Convolutional:
		return convolutionalSegments(c, node, common)
	case *layer.Connected:
		return connectedSegments(c, node, common)
	case *layer.BatchNorm:
		ch := node.OutputShape().Channels
		return []Segment{
			{SegmentBias, ch},
			{SegmentScale, ch},
			{SegmentMean, ch},
			{SegmentVariance, ch},
		}
	case *layer.Shortcut:
		return shortcutSegments(c, node)
	default:
		// Route, pooling, upsample, yolo and unknown layers carry no
		// trainable parameters.
		return nil
	}
}

// convolutionalSegments follows darknet's on-disk order: biases, the batch
// norm triplet when enabled, then the kernel tensor.
func convolutionalSegments(c *layer.Convolutional, node *graph.Node, common layer.Common) []Segment {
	in := node.InputShapes()[0].Channels
	segments := []Segment{{SegmentBias, c.Filters}}
	if c.BatchNormalize && !common.DontLoadScales {
		segments = append(segments,
			Segment{SegmentScale, c.Filters},
			Segment{SegmentMean, c.Filters},
			Segment{SegmentVariance, c.Filters},
		)
	}
	kernel := c.Filters * (in / c.Groups) * c.Size * c.Size
	return append(segments, Segment{SegmentWeight, kernel})
}

// connectedSegments: biases, weights, then the batch norm triplet.
func connectedSegments(c *layer.Connected, node *graph.Node, common layer.Common) []Segment {
	in := node.InputShapes()[0].Elements()
	segments := []Segment{
		{SegmentBias, c.Output},
		{SegmentWeight, in * c.Output},
	}
	if c.BatchNormalize && !common.DontLoadScales {
		segments = append(segments,
			Segment{SegmentScale, c.Output},
			Segment{SegmentMean, c.Output},
			Segment{SegmentVariance, c.Output},
		)
	}
	return segments
}

// shortcutSegments: blending weights only when a weights_type is declared.
// With n explicit sources (always 1 here) the count is n+1 per feature, or
// (n+1) * out_channels per channel.
func shortcutSegments(c *layer.Shortcut, node *graph.Node) []Segment {
	n := len(node.Predecessors()) - 1
	switch c.WeightsType {
	case layer.ShortcutWeightsPerFeature:
		return []Segment{{SegmentWeight, n + 1}}
	case layer.ShortcutWeightsPerChannel:
		return []Segment{{SegmentWeight, (n + 1) * node.OutputShape().Channels}}
	default:
		return nil
	}
}
