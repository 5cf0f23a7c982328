package layer

import (
	"strconv"
	"strings"

	"github.com/darknet-ml/darknet/internal/cfg"
)

// reader coerces the fields of one section against its schema. The first
// coercion failure sticks; subsequent reads return zero values so each
// per-kind mapper can read its whole schema and check the error once.
type reader struct {
	sec *cfg.Section
	err error
}

func newReader(sec *cfg.Section) *reader {
	return &reader{sec: sec}
}

func (r *reader) fail(key, value, reason string) {
	if r.err == nil {
		r.err = &InvalidFieldError{Block: r.sec.Index, Key: key, Value: value, Reason: reason}
	}
}

// intField reads an integer with a default for absent keys.
func (r *reader) intField(key string, def int) int {
	if r.err != nil {
		return 0
	}
	raw, ok := r.sec.Lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, raw, "expected integer")
		return 0
	}
	return v
}

// requireInt reads an integer that must be present.
func (r *reader) requireInt(key string) int {
	if r.err != nil {
		return 0
	}
	if _, ok := r.sec.Lookup(key); !ok {
		r.fail(key, "", "required field missing")
		return 0
	}
	return r.intField(key, 0)
}

// positive enforces value >= 1 on an already-read field.
func (r *reader) positive(key string, v int) int {
	if r.err == nil && v < 1 {
		r.fail(key, strconv.Itoa(v), "must be >= 1")
	}
	return v
}

// nonNegative enforces value >= 0 on an already-read field.
func (r *reader) nonNegative(key string, v int) int {
	if r.err == nil && v < 0 {
		r.fail(key, strconv.Itoa(v), "must be >= 0")
	}
	return v
}

// floatField reads a float with a default for absent keys.
func (r *reader) floatField(key string, def float64) float64 {
	if r.err != nil {
		return 0
	}
	raw, ok := r.sec.Lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(key, raw, "expected number")
		return 0
	}
	return v
}

// boolField reads a darknet 0/1 flag with a default for absent keys.
func (r *reader) boolField(key string, def bool) bool {
	if r.err != nil {
		return false
	}
	raw, ok := r.sec.Lookup(key)
	if !ok {
		return def
	}
	switch raw {
	case "0":
		return false
	case "1":
		return true
	default:
		r.fail(key, raw, "expected 0 or 1")
		return false
	}
}

// intList reads a comma-delimited integer list; absent keys yield nil.
func (r *reader) intList(key string) []int {
	if r.err != nil {
		return nil
	}
	raw, ok := r.sec.Lookup(key)
	if !ok {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			r.fail(key, raw, "expected comma-delimited integers")
			return nil
		}
		out = append(out, v)
	}
	return out
}

// requireIntList reads a comma-delimited integer list that must be present
// and non-empty.
func (r *reader) requireIntList(key string) []int {
	if r.err != nil {
		return nil
	}
	if _, ok := r.sec.Lookup(key); !ok {
		r.fail(key, "", "required field missing")
		return nil
	}
	list := r.intList(key)
	if r.err == nil && len(list) == 0 {
		raw, _ := r.sec.Lookup(key)
		r.fail(key, raw, "list must not be empty")
	}
	return list
}

// anchors reads an even-length integer list as (width, height) pairs.
func (r *reader) anchors(key string) [][2]int {
	list := r.intList(key)
	if r.err != nil || list == nil {
		return nil
	}
	if len(list)%2 != 0 {
		raw, _ := r.sec.Lookup(key)
		r.fail(key, raw, "anchors require an even number of values")
		return nil
	}
	pairs := make([][2]int, len(list)/2)
	for i := range pairs {
		pairs[i] = [2]int{list[2*i], list[2*i+1]}
	}
	return pairs
}

// activation reads an enumerated activation name with a default.
func (r *reader) activation(key string, def Activation) Activation {
	if r.err != nil {
		return def
	}
	raw, ok := r.sec.Lookup(key)
	if !ok {
		return def
	}
	a, ok := ParseActivation(raw)
	if !ok {
		r.fail(key, raw, "unknown activation")
		return def
	}
	return a
}

// enum reads a string restricted to the given choices, with a default.
func (r *reader) enum(key string, def string, choices ...string) string {
	if r.err != nil {
		return def
	}
	raw, ok := r.sec.Lookup(key)
	if !ok {
		return def
	}
	for _, c := range choices {
		if raw == c {
			return raw
		}
	}
	r.fail(key, raw, "not one of "+strings.Join(choices, ", "))
	return def
}

// common reads the options darknet accepts on every layer section.
func (r *reader) common() Common {
	return Common{
		DontLoad:          r.boolField("dontload", false),
		DontLoadScales:    r.boolField("dontloadscales", false),
		StopBackward:      r.boolField("stopbackward", false),
		OnlyForward:       r.boolField("onlyforward", false),
		LearningRateScale: r.floatField("learning_rate", 1.0),
	}
}
