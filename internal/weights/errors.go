package weights

import (
	"errors"
	"fmt"
)

// ErrUnshapedGraph is returned when a layout or codec operation receives a
// graph that has not been through shape inference.
var ErrUnshapedGraph = errors.New("graph has not been shaped")

// TruncatedError reports a weight buffer that ends before the layout's
// computed total.
type TruncatedError struct {
	Node    int    // node whose segment could not be fully read
	Segment string // segment name, or "header"
	Want    int    // bytes required
	Got     int    // bytes available
}

// Error implements the error interface.
func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated weights at layer %d segment %q: want %d bytes, got %d",
		e.Node, e.Segment, e.Want, e.Got)
}

// MissingParameterError reports an absent required array during encoding.
type MissingParameterError struct {
	Node    int
	Segment string
}

// Error implements the error interface.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing parameter array for layer %d segment %q", e.Node, e.Segment)
}

// SizeMismatchError reports a supplied array whose length disagrees with
// the computed element count.
type SizeMismatchError struct {
	Node    int
	Segment string
	Want    int // elements
	Got     int // elements
}

// Error implements the error interface.
func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("size mismatch for layer %d segment %q: want %d elements, got %d",
		e.Node, e.Segment, e.Want, e.Got)
}
