package weights

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/darknet-ml/darknet/internal/graph"
)

// Encode writes a weight file for the shaped graph: the header, then every
// node's parameter arrays in node-index order and fixed intra-node segment
// order. Every array the layout requires must be present in params with
// exactly the computed element count. Surplus entries in params are
// ignored.
func Encode(w io.Writer, g *graph.Graph, header Header, params Params) error {
	layout, err := Layout(g)
	if err != nil {
		return err
	}

	// Validate the full parameter set before writing anything.
	for _, block := range layout {
		for _, seg := range block.Segments {
			data := params.Get(block.Node, seg.Name)
			if data == nil {
				return &MissingParameterError{Node: block.Node, Segment: seg.Name}
			}
			if len(data) != seg.Count {
				return &SizeMismatchError{
					Node:    block.Node,
					Segment: seg.Name,
					Want:    seg.Count,
					Got:     len(data),
				}
			}
		}
	}

	bw := bufio.NewWriter(w)
	if err := encodeHeader(bw, header); err != nil {
		return err
	}
	buf := make([]byte, 4)
	for _, block := range layout {
		for _, seg := range block.Segments {
			for _, v := range params.Get(block.Node, seg.Name) {
				binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
				if _, err := bw.Write(buf); err != nil {
					return fmt.Errorf("write layer %d segment %q: %w", block.Node, seg.Name, err)
				}
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush weights: %w", err)
	}
	return nil
}

func encodeHeader(w io.Writer, h Header) error {
	buf := make([]byte, 0, 20)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.Major))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.Minor))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.Revision))
	if h.legacySeen() {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(h.Seen)))
	} else {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(h.Seen))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}
