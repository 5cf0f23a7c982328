package graph

import "fmt"

// Shape is the (channels, height, width) descriptor of a layer's output
// tensor. It is a value type: recomputed, never mutated in place.
type Shape struct {
	Channels int
	Height   int
	Width    int
}

// Equal reports whether two shapes match in every dimension.
func (s Shape) Equal(o Shape) bool {
	return s == o
}

// Elements returns the total element count, channels * height * width.
func (s Shape) Elements() int {
	return s.Channels * s.Height * s.Width
}

// Valid reports whether every dimension is strictly positive.
func (s Shape) Valid() bool {
	return s.Channels > 0 && s.Height > 0 && s.Width > 0
}

// String renders the shape as HxWxC, the order darknet prints.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Height, s.Width, s.Channels)
}
