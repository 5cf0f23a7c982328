// Package layer converts raw configuration sections into a closed set of
// typed layer descriptors.
//
// Each section name dispatches to a fixed field schema; values are coerced
// to their declared types (integers, floats, 0/1 booleans, comma-delimited
// lists, enumerated choices) with darknet's documented defaults. Section
// names outside the known set map to the Unknown variant, which keeps the
// raw fields verbatim, unless strict mode is requested.
package layer

import (
	"github.com/darknet-ml/darknet/internal/cfg"
)

// Kind identifies one variant of the closed layer set.
type Kind int

// Layer kinds.
const (
	KindNet Kind = iota
	KindConvolutional
	KindConnected
	KindMaxPool
	KindAvgPool
	KindRoute
	KindShortcut
	KindUpsample
	KindYolo
	KindBatchNorm
	KindUnknown
)

// String returns the section name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNet:
		return "net"
	case KindConvolutional:
		return "convolutional"
	case KindConnected:
		return "connected"
	case KindMaxPool:
		return "maxpool"
	case KindAvgPool:
		return "avgpool"
	case KindRoute:
		return "route"
	case KindShortcut:
		return "shortcut"
	case KindUpsample:
		return "upsample"
	case KindYolo:
		return "yolo"
	case KindBatchNorm:
		return "batchnorm"
	default:
		return "unknown"
	}
}

// Common holds the per-layer options darknet accepts on every section.
// DontLoad and DontLoadScales participate in the weight file layout.
type Common struct {
	DontLoad          bool
	DontLoadScales    bool
	StopBackward      bool
	OnlyForward       bool
	LearningRateScale float64
}

// Config is one validated layer descriptor. Exactly one concrete type
// implements it per Kind; the set is closed.
type Config interface {
	Kind() Kind
	// Index is the 0-based position of the originating section in the
	// source text, and the permanent node identity downstream.
	Index() int
	Options() Common

	isConfig()
}

// base carries the identity and common options shared by every variant.
type base struct {
	index  int
	common Common
}

func (b base) Index() int      { return b.index }
func (b base) Options() Common { return b.common }
func (b base) isConfig()       {}

// Net is the reserved first section declaring the global input shape.
// Training hyperparameters the core does not interpret are kept in Extra.
type Net struct {
	base
	Width    int
	Height   int
	Channels int

	Batch        int
	Subdivisions int
	MaxBatches   int
	BurnIn       int
	Momentum     float64
	Decay        float64
	LearningRate float64

	Extra map[string]string
}

func (*Net) Kind() Kind { return KindNet }

// Convolutional is a 2D convolution layer.
type Convolutional struct {
	base
	Filters        int
	Size           int
	Stride         int
	Padding        int
	Groups         int
	Dilation       int
	BatchNormalize bool
	Activation     Activation
}

func (*Convolutional) Kind() Kind { return KindConvolutional }

// Connected is a fully connected layer over the flattened input.
type Connected struct {
	base
	Output         int
	BatchNormalize bool
	Activation     Activation
}

func (*Connected) Kind() Kind { return KindConnected }

// MaxPool is a max pooling layer. Padding is darknet-style total padding,
// not per-side.
type MaxPool struct {
	base
	Size    int
	Stride  int
	Padding int
}

func (*MaxPool) Kind() Kind { return KindMaxPool }

// AvgPool is a global average pooling layer.
type AvgPool struct {
	base
}

func (*AvgPool) Kind() Kind { return KindAvgPool }

// Route concatenates earlier layers along the channel dimension. Layers
// holds the raw signed indices as written; resolution against absolute
// positions happens in the graph package.
type Route struct {
	base
	Layers  []int
	Groups  int
	GroupID int
}

func (*Route) Kind() Kind { return KindRoute }

// Shortcut adds one earlier layer's output to the immediate predecessor's
// output. From holds the raw signed index as written.
type Shortcut struct {
	base
	From        int
	Activation  Activation
	WeightsType ShortcutWeights
}

func (*Shortcut) Kind() Kind { return KindShortcut }

// ShortcutWeights selects the optional learned blending weights of a
// shortcut layer.
type ShortcutWeights string

// Shortcut weight modes.
const (
	ShortcutWeightsNone       ShortcutWeights = "none"
	ShortcutWeightsPerFeature ShortcutWeights = "per_feature"
	ShortcutWeightsPerChannel ShortcutWeights = "per_channel"
)

// Upsample scales the spatial dimensions by an integer stride. Reverse
// turns it into a downsample.
type Upsample struct {
	base
	Stride  int
	Reverse bool
}

func (*Upsample) Kind() Kind { return KindUpsample }

// Yolo is a detection head. Anchors are (width, height) pairs; Mask selects
// the anchors this head is responsible for.
type Yolo struct {
	base
	Classes      int
	Num          int
	Mask         []int
	Anchors      [][2]int
	IgnoreThresh float64
	TruthThresh  float64
	Jitter       float64
	ScaleXY      float64
}

func (*Yolo) Kind() Kind { return KindYolo }

// BatchNorm is a standalone batch normalization layer.
type BatchNorm struct {
	base
}

func (*BatchNorm) Kind() Kind { return KindBatchNorm }

// Unknown preserves a section whose name is outside the known set, raw
// fields included, for forward compatibility and round-tripping.
type Unknown struct {
	base
	Name   string
	Fields []cfg.Field
}

func (*Unknown) Kind() Kind { return KindUnknown }
