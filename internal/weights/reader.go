package weights

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/darknet-ml/darknet/internal/graph"
)

// File is one decoded weight file. Trailing is the number of surplus bytes
// left in the buffer after the last layer; it does not invalidate the
// decoded prefix and is surfaced for the caller to judge.
type File struct {
	Header   Header
	Params   Params
	Trailing int
}

// Decode reads a weight buffer against the layout computed from the shaped
// graph. It fails with TruncatedError when the buffer ends before the
// computed total; surplus bytes are reported on File.Trailing instead of
// failing.
func Decode(r io.Reader, g *graph.Graph) (*File, error) {
	layout, err := Layout(g)
	if err != nil {
		return nil, err
	}

	header, err := decodeHeader(r)
	if err != nil {
		return nil, err
	}

	file := &File{Header: header, Params: make(Params)}
	for _, block := range layout {
		for _, seg := range block.Segments {
			data, err := readFloats(r, seg.Count)
			if err != nil {
				var terr *TruncatedError
				if errors.As(err, &terr) {
					terr.Node = block.Node
					terr.Segment = seg.Name
					return nil, terr
				}
				return nil, fmt.Errorf("layer %d segment %q: %w", block.Node, seg.Name, err)
			}
			file.Params.Set(block.Node, seg.Name, data)
		}
	}

	trailing, err := io.Copy(io.Discard, r)
	if err != nil {
		return nil, fmt.Errorf("count trailing bytes: %w", err)
	}
	file.Trailing = int(trailing)
	return file, nil
}

func decodeHeader(r io.Reader) (Header, error) {
	var h Header
	buf := make([]byte, 12)
	if n, err := io.ReadFull(r, buf); err != nil {
		return h, &TruncatedError{Node: -1, Segment: "header", Want: 12, Got: n}
	}
	h.Major = int32(binary.LittleEndian.Uint32(buf[0:]))
	h.Minor = int32(binary.LittleEndian.Uint32(buf[4:]))
	h.Revision = int32(binary.LittleEndian.Uint32(buf[8:]))

	// Files before format 0.2 carry a 32-bit counter.
	seenSize := 8
	if h.legacySeen() {
		seenSize = 4
	}
	seen := make([]byte, seenSize)
	if n, err := io.ReadFull(r, seen); err != nil {
		return h, &TruncatedError{Node: -1, Segment: "header", Want: 12 + seenSize, Got: 12 + n}
	}
	if h.legacySeen() {
		h.Seen = int64(int32(binary.LittleEndian.Uint32(seen)))
	} else {
		h.Seen = int64(binary.LittleEndian.Uint64(seen))
	}
	return h, nil
}

func readFloats(r io.Reader, count int) ([]float32, error) {
	buf := make([]byte, 4*count)
	if n, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &TruncatedError{Want: len(buf), Got: n}
		}
		return nil, err
	}
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return out, nil
}
