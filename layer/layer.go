// Package layer provides the public API for typed layer descriptors.
//
// Raw sections from the cfg package are mapped through a per-kind field
// schema into a closed set of validated config types. Consumers traversing
// a built graph type-switch on the concrete config to read layer
// parameters:
//
//	switch c := node.Config().(type) {
//	case *layer.Convolutional:
//	    fmt.Println(c.Filters, c.Size, c.Stride)
//	case *layer.Route:
//	    fmt.Println(c.Layers)
//	}
package layer

import (
	"github.com/darknet-ml/darknet/internal/cfg"
	"github.com/darknet-ml/darknet/internal/layer"
)

// Kind identifies one variant of the closed layer set.
type Kind = layer.Kind

// Layer kinds.
const (
	KindNet           Kind = layer.KindNet
	KindConvolutional Kind = layer.KindConvolutional
	KindConnected     Kind = layer.KindConnected
	KindMaxPool       Kind = layer.KindMaxPool
	KindAvgPool       Kind = layer.KindAvgPool
	KindRoute         Kind = layer.KindRoute
	KindShortcut      Kind = layer.KindShortcut
	KindUpsample      Kind = layer.KindUpsample
	KindYolo          Kind = layer.KindYolo
	KindBatchNorm     Kind = layer.KindBatchNorm
	KindUnknown       Kind = layer.KindUnknown
)

// Config is one validated layer descriptor.
type Config = layer.Config

// Common holds the per-layer options darknet accepts on every section.
type Common = layer.Common

// Layer config variants.
type (
	Net           = layer.Net
	Convolutional = layer.Convolutional
	Connected     = layer.Connected
	MaxPool       = layer.MaxPool
	AvgPool       = layer.AvgPool
	Route         = layer.Route
	Shortcut      = layer.Shortcut
	Upsample      = layer.Upsample
	Yolo          = layer.Yolo
	BatchNorm     = layer.BatchNorm
	Unknown       = layer.Unknown
)

// Activation names a per-layer activation function.
type Activation = layer.Activation

// ShortcutWeights selects the optional learned blending weights of a
// shortcut layer.
type ShortcutWeights = layer.ShortcutWeights

// Options controls schema mapping.
type Options = layer.Options

// Errors.
type (
	InvalidFieldError = layer.InvalidFieldError
	UnknownKindError  = layer.UnknownKindError
)

// Map converts raw sections into typed layer configs, one per section,
// preserving occurrence order.
func Map(sections []cfg.Section, opts Options) ([]Config, error) {
	return layer.Map(sections, opts)
}

// ParseActivation maps a config value to an Activation.
func ParseActivation(s string) (Activation, bool) {
	return layer.ParseActivation(s)
}
