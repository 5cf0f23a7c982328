package graph

import (
	"github.com/darknet-ml/darknet/internal/layer"
)

// InputIndex is the synthetic predecessor index standing for the declared
// network input. It is not a real node; it is the only permitted reference
// below zero.
const InputIndex = -1

// resolveRefs turns each layer's declared cross-references into concrete
// predecessor node indices. Signed indexing rule: a negative value v written
// at node i resolves to i+v, a non-negative value is taken as an absolute
// node index. Every resolved reference must point strictly backwards.
func resolveRefs(configs []layer.Config) ([][]int, error) {
	refs := make([][]int, len(configs))
	for i, c := range configs {
		switch c := c.(type) {
		case *layer.Route:
			list := make([]int, 0, len(c.Layers))
			for _, v := range c.Layers {
				to, err := resolveIndex(i, v)
				if err != nil {
					return nil, err
				}
				list = append(list, to)
			}
			refs[i] = list
		case *layer.Shortcut:
			to, err := resolveIndex(i, c.From)
			if err != nil {
				return nil, err
			}
			// Implicit sequential predecessor first, explicit target second.
			refs[i] = []int{i - 1, to}
		default:
			refs[i] = []int{i - 1}
		}
	}
	return refs, nil
}

func resolveIndex(from, v int) (int, error) {
	to := v
	if v < 0 {
		to = from + v
	}
	if to >= from || to < InputIndex {
		return 0, &DanglingReferenceError{From: from, To: to}
	}
	return to, nil
}
