// Package cfg provides the public API for decoding Darknet-style
// configuration text into raw sections.
//
// The decoder is the first stage of the pipeline: it splits the text into
// an ordered sequence of named sections with their raw key/value fields,
// preserving duplicate section names and source order. Typing and
// validation of the fields belong to the layer package.
//
// Example:
//
//	sections, err := cfg.Decode(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range sections {
//	    fmt.Println(s.Index, s.Name)
//	}
package cfg

import (
	"io"

	"github.com/darknet-ml/darknet/internal/cfg"
)

// Section is one raw configuration block in source order.
type Section = cfg.Section

// Field is one key=value line inside a section.
type Field = cfg.Field

// MalformedSectionError reports text that does not follow the section
// grammar.
type MalformedSectionError = cfg.MalformedSectionError

// Decode reads configuration text into ordered raw sections.
func Decode(r io.Reader) ([]Section, error) {
	return cfg.Decode(r)
}

// DecodeString decodes configuration text into ordered raw sections.
func DecodeString(s string) ([]Section, error) {
	return cfg.DecodeString(s)
}
