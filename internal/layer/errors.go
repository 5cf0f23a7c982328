package layer

import "fmt"

// InvalidFieldError reports a field whose value cannot be coerced to its
// declared type or violates a declared bound.
type InvalidFieldError struct {
	Block  int // section occurrence index
	Key    string
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("block %d: field %q = %q: %s", e.Block, e.Key, e.Value, e.Reason)
}

// UnknownKindError reports a section name outside the known layer set.
// Returned only in strict mode; the permissive default maps such sections
// to the Unknown variant instead.
type UnknownKindError struct {
	Block int
	Name  string
}

// Error implements the error interface.
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("block %d: unknown layer kind %q", e.Block, e.Name)
}
