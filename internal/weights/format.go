// Package weights computes the binary weight-file layout of a shaped
// network graph and encodes/decodes the flat parameter buffer that darknet
// weight files carry.
//
// A weight file is a little-endian header (major, minor, revision, then the
// seen-samples counter) followed by the concatenated float32 parameter
// arrays of every layer in node-index order. There is no per-layer framing:
// the layout is derived entirely from the graph, which is why decoding
// requires the same shaped graph the file was written against.
package weights

// Header is the fixed weight-file header.
type Header struct {
	Major    int32
	Minor    int32
	Revision int32
	// Seen counts the training samples consumed when the file was
	// written. Stored as 64 bits; files older than format 0.2 store it
	// as 32 bits (see legacySeen).
	Seen int64
}

// Current versions written by Encode when the caller does not override
// them.
const (
	DefaultMajor = 0
	DefaultMinor = 2
)

// legacySeen reports whether the header versions select the old 32-bit
// seen counter, per darknet's (major*10 + minor >= 2) rule.
func (h Header) legacySeen() bool {
	return h.Major*10+h.Minor < 2
}

// Segment is one named parameter array of a layer, with its element count
// (float32 elements, not bytes).
type Segment struct {
	Name  string
	Count int
}

// Segment names, in the fixed intra-layer order they appear on disk.
const (
	SegmentBias     = "bias"
	SegmentScale    = "scale"
	SegmentMean     = "mean"
	SegmentVariance = "variance"
	SegmentWeight   = "weight"
)

// Block is the ordered parameter layout of one node. Layers without
// trainable parameters have an empty segment list.
type Block struct {
	Node     int
	Segments []Segment
}

// Elements returns the total float32 count of the block.
func (b Block) Elements() int {
	n := 0
	for _, s := range b.Segments {
		n += s.Count
	}
	return n
}

// Params holds parameter arrays keyed by node index, then segment name.
type Params map[int]map[string][]float32

// Get returns the array for (node, segment), or nil.
func (p Params) Get(node int, segment string) []float32 {
	return p[node][segment]
}

// Set stores an array, allocating the inner map on first use.
func (p Params) Set(node int, segment string, data []float32) {
	m := p[node]
	if m == nil {
		m = make(map[string][]float32)
		p[node] = m
	}
	m[segment] = data
}
