package layer

import (
	"fmt"
	"strconv"

	"github.com/darknet-ml/darknet/internal/cfg"
)

// Options controls schema mapping.
type Options struct {
	// Strict rejects unknown section names with UnknownKindError instead
	// of mapping them to the Unknown variant.
	Strict bool
}

// Map converts every raw section into exactly one typed layer config,
// preserving occurrence order and indices. It fails on the first invalid
// field.
func Map(sections []cfg.Section, opts Options) ([]Config, error) {
	configs := make([]Config, 0, len(sections))
	for i := range sections {
		c, err := mapSection(&sections[i], opts)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, nil
}

func mapSection(sec *cfg.Section, opts Options) (Config, error) {
	r := newReader(sec)
	b := base{index: sec.Index, common: r.common()}

	var c Config
	switch sec.Name {
	case "net", "network":
		c = mapNet(r, b)
	case "convolutional", "conv":
		c = mapConvolutional(r, b)
	case "connected":
		c = mapConnected(r, b)
	case "maxpool":
		c = mapMaxPool(r, b)
	case "avgpool":
		c = &AvgPool{base: b}
	case "route":
		c = mapRoute(r, b)
	case "shortcut":
		c = mapShortcut(r, b)
	case "upsample":
		c = mapUpsample(r, b)
	case "yolo":
		c = mapYolo(r, b)
	case "batchnorm":
		c = &BatchNorm{base: b}
	default:
		if opts.Strict {
			return nil, &UnknownKindError{Block: sec.Index, Name: sec.Name}
		}
		fields := make([]cfg.Field, len(sec.Fields))
		copy(fields, sec.Fields)
		c = &Unknown{base: b, Name: sec.Name, Fields: fields}
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

// netKeys are the net-section keys the core interprets; everything else
// lands in Net.Extra untouched.
var netKeys = map[string]bool{
	"width": true, "height": true, "channels": true, "inputs": true,
	"batch": true, "subdivisions": true, "max_batches": true, "burn_in": true,
	"momentum": true, "decay": true, "learning_rate": true,
}

func mapNet(r *reader, b base) Config {
	n := &Net{
		base:         b,
		Width:        r.intField("width", 0),
		Height:       r.intField("height", 0),
		Channels:     r.intField("channels", 0),
		Batch:        r.intField("batch", 1),
		Subdivisions: r.intField("subdivisions", 1),
		MaxBatches:   r.intField("max_batches", 0),
		BurnIn:       r.intField("burn_in", 0),
		Momentum:     r.floatField("momentum", 0.9),
		Decay:        r.floatField("decay", 0.0001),
		LearningRate: r.floatField("learning_rate", 0.001),
	}

	// Flat input networks declare `inputs` instead of width/height/channels.
	// The graph carries HWC shapes only, so inputs=N becomes N x 1 x 1.
	inputs := r.intField("inputs", 0)
	switch {
	case r.err != nil:
	case inputs > 0 && (n.Width > 0 || n.Height > 0 || n.Channels > 0):
		r.fail("inputs", strconv.Itoa(inputs), "inputs and width/height/channels are mutually exclusive")
	case inputs > 0:
		n.Width, n.Height, n.Channels = 1, 1, inputs
	case n.Width < 1 || n.Height < 1 || n.Channels < 1:
		r.fail("width", strconv.Itoa(n.Width), "either width/height/channels or inputs must be declared")
	}

	for _, f := range r.sec.Fields {
		if !netKeys[f.Key] {
			if n.Extra == nil {
				n.Extra = make(map[string]string)
			}
			n.Extra[f.Key] = f.Value
		}
	}
	return n
}

func mapConvolutional(r *reader, b base) Config {
	c := &Convolutional{
		base:           b,
		Filters:        r.positive("filters", r.requireInt("filters")),
		Size:           r.positive("size", r.requireInt("size")),
		Stride:         r.positive("stride", r.intField("stride", 1)),
		Groups:         r.positive("groups", r.intField("groups", 1)),
		Dilation:       r.positive("dilation", r.intField("dilation", 1)),
		BatchNormalize: r.boolField("batch_normalize", false),
		Activation:     r.activation("activation", ActivationLinear),
	}

	// pad=1 overrides any explicit padding with size/2.
	if r.boolField("pad", false) {
		c.Padding = c.Size / 2
	} else {
		c.Padding = r.nonNegative("padding", r.intField("padding", 0))
	}

	if r.err == nil && c.Size == 1 && c.Dilation != 1 {
		r.fail("dilation", strconv.Itoa(c.Dilation), "dilation must be 1 when size is 1")
	}
	return c
}

func mapConnected(r *reader, b base) Config {
	return &Connected{
		base:           b,
		Output:         r.positive("output", r.intField("output", 1)),
		BatchNormalize: r.boolField("batch_normalize", false),
		Activation:     r.activation("activation", ActivationLogistic),
	}
}

func mapMaxPool(r *reader, b base) Config {
	stride := r.positive("stride", r.intField("stride", 1))
	size := r.positive("size", r.intField("size", stride))
	return &MaxPool{
		base:    b,
		Size:    size,
		Stride:  stride,
		Padding: r.nonNegative("padding", r.intField("padding", size-1)),
	}
}

func mapRoute(r *reader, b base) Config {
	rt := &Route{
		base:    b,
		Layers:  r.requireIntList("layers"),
		Groups:  r.positive("groups", r.intField("groups", 1)),
		GroupID: r.nonNegative("group_id", r.intField("group_id", 0)),
	}
	if r.err == nil && rt.GroupID >= rt.Groups {
		r.fail("group_id", strconv.Itoa(rt.GroupID),
			fmt.Sprintf("must be < groups (%d)", rt.Groups))
	}
	return rt
}

func mapShortcut(r *reader, b base) Config {
	from := r.requireIntList("from")
	s := &Shortcut{
		base:       b,
		Activation: r.activation("activation", ActivationLinear),
		WeightsType: ShortcutWeights(r.enum("weights_type", string(ShortcutWeightsNone),
			string(ShortcutWeightsNone), string(ShortcutWeightsPerFeature), string(ShortcutWeightsPerChannel))),
	}
	if r.err == nil {
		if len(from) != 1 {
			raw, _ := r.sec.Lookup("from")
			r.fail("from", raw, "expected exactly one layer index")
		} else {
			s.From = from[0]
		}
	}
	return s
}

func mapUpsample(r *reader, b base) Config {
	return &Upsample{
		base:    b,
		Stride:  r.positive("stride", r.intField("stride", 2)),
		Reverse: r.boolField("reverse", false),
	}
}

func mapYolo(r *reader, b base) Config {
	y := &Yolo{
		base:         b,
		Classes:      r.positive("classes", r.intField("classes", 20)),
		Num:          r.positive("num", r.intField("num", 1)),
		Mask:         r.intList("mask"),
		Anchors:      r.anchors("anchors"),
		IgnoreThresh: r.floatField("ignore_thresh", 0.5),
		TruthThresh:  r.floatField("truth_thresh", 1.0),
		Jitter:       r.floatField("jitter", 0.2),
		ScaleXY:      r.floatField("scale_x_y", 1.0),
	}
	return y
}
