// Package darknet turns Darknet-style configuration text into a
// validated, shape-annotated network graph.
//
// Parse runs the full pipeline: section decoding, schema mapping,
// reference resolution, graph building, and shape inference. The returned
// graph is immutable and ready to drive a numeric backend or the weights
// codec; the returned report carries non-fatal findings such as unknown
// layer kinds passed through inference.
//
//	f, _ := os.Open("yolov3.cfg")
//	g, report, err := darknet.Parse(f, darknet.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, node := range g.Nodes() {
//	    fmt.Println(node.Index(), node.Config().Kind(), node.OutputShape())
//	}
package darknet

import (
	"io"
	"strings"

	"github.com/darknet-ml/darknet/cfg"
	"github.com/darknet-ml/darknet/graph"
	"github.com/darknet-ml/darknet/layer"
)

// Options controls parsing.
type Options struct {
	// Strict rejects unknown section names instead of carrying them as
	// pass-through Unknown layers.
	Strict bool
}

// Parse decodes, maps, builds, and shapes a network configuration.
func Parse(r io.Reader, opts Options) (*graph.Graph, *graph.Report, error) {
	sections, err := cfg.Decode(r)
	if err != nil {
		return nil, nil, err
	}
	configs, err := layer.Map(sections, layer.Options{Strict: opts.Strict})
	if err != nil {
		return nil, nil, err
	}
	g, err := graph.Build(configs)
	if err != nil {
		return nil, nil, err
	}
	report, err := graph.Infer(g)
	if err != nil {
		return nil, nil, err
	}
	return g, report, nil
}

// ParseString is Parse over in-memory configuration text.
func ParseString(text string, opts Options) (*graph.Graph, *graph.Report, error) {
	return Parse(strings.NewReader(text), opts)
}
