package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrMissingNetworkInput   = errors.New("no [net] section declaring the network input")
	ErrDuplicateNetworkInput = errors.New("duplicate [net] section")
	ErrNetNotFirst           = errors.New("[net] section must come before all layers")
	ErrAlreadyShaped         = errors.New("graph has already been shaped")
)

// DanglingReferenceError reports a layer reference that resolves outside
// the valid range of strictly earlier nodes.
type DanglingReferenceError struct {
	From int // referencing node index
	To   int // resolved target index
}

// Error implements the error interface.
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("layer %d: reference to layer %d is not an earlier layer", e.From, e.To)
}

// GeometryError reports a layer whose parameters produce an impossible
// output geometry for its input shape.
type GeometryError struct {
	Node   int
	Input  Shape
	Reason string
}

// Error implements the error interface.
func (e *GeometryError) Error() string {
	return fmt.Sprintf("layer %d: invalid geometry for input %s: %s", e.Node, e.Input, e.Reason)
}

// ShapeMismatchError reports incompatible input shapes on a layer that
// requires agreement (route spatial dims, shortcut full equality).
type ShapeMismatchError struct {
	Node     int
	Expected Shape
	Actual   Shape
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("layer %d: shape mismatch: expected %s, got %s", e.Node, e.Expected, e.Actual)
}

// AnchorMaskError reports a detection-head mask index outside the range of
// the configured anchor list.
type AnchorMaskError struct {
	Node    int
	Index   int // offending mask value
	Anchors int // number of configured anchors
}

// Error implements the error interface.
func (e *AnchorMaskError) Error() string {
	return fmt.Sprintf("layer %d: anchor mask index %d out of range (%d anchors)", e.Node, e.Index, e.Anchors)
}
