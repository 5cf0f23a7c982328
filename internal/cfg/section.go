// Package cfg decodes Darknet-style configuration text into an ordered
// sequence of raw sections.
//
// The format is line-oriented: a section starts at a `[name]` header and
// collects the `key=value` lines that follow it until the next header or end
// of input. Section names are not unique; the order of sections and of the
// fields inside each section is significant and is preserved.
package cfg

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Section is one raw configuration block. Index is the 0-based position of
// the section in the source text and becomes the permanent layer identity
// downstream.
type Section struct {
	Name   string
	Fields []Field
	Index  int
}

// Field is one key=value line inside a section, in source order.
type Field struct {
	Key   string
	Value string
	Line  int // 1-based source line number
}

// Lookup returns the value of the last occurrence of key, like darknet's
// option list does, and whether the key was present at all.
func (s *Section) Lookup(key string) (string, bool) {
	for i := len(s.Fields) - 1; i >= 0; i-- {
		if s.Fields[i].Key == key {
			return s.Fields[i].Value, true
		}
	}
	return "", false
}

// MalformedSectionError reports a line that cannot be interpreted as a
// section header, a field, a comment, or a blank line.
type MalformedSectionError struct {
	Line   int    // 1-based source line number
	Text   string // offending line, trimmed
	Reason string
}

// Error implements the error interface.
func (e *MalformedSectionError) Error() string {
	return fmt.Sprintf("malformed section at line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// DecodeString decodes configuration text into ordered raw sections.
func DecodeString(s string) ([]Section, error) {
	return Decode(strings.NewReader(s))
}

// Decode reads configuration text and returns its ordered raw sections.
// The transform is purely functional: no file system or global state.
func Decode(r io.Reader) ([]Section, error) {
	var sections []Section
	open := false // a header has been seen

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			name, err := parseHeader(line, lineNo)
			if err != nil {
				return nil, err
			}
			sections = append(sections, Section{Name: name, Index: len(sections)})
			open = true
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &MalformedSectionError{
				Line:   lineNo,
				Text:   line,
				Reason: "expected [section] header or key=value field",
			}
		}
		if !open {
			return nil, &MalformedSectionError{
				Line:   lineNo,
				Text:   line,
				Reason: "field before any section header",
			}
		}
		cur := &sections[len(sections)-1]
		cur.Fields = append(cur.Fields, Field{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
			Line:  lineNo,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return sections, nil
}

func parseHeader(line string, lineNo int) (string, error) {
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return "", &MalformedSectionError{
			Line:   lineNo,
			Text:   line,
			Reason: "unterminated section header",
		}
	}
	if rest := strings.TrimSpace(line[end+1:]); rest != "" {
		return "", &MalformedSectionError{
			Line:   lineNo,
			Text:   line,
			Reason: "trailing content after section header",
		}
	}
	name := strings.TrimSpace(line[1:end])
	if name == "" {
		return "", &MalformedSectionError{
			Line:   lineNo,
			Text:   line,
			Reason: "empty section name",
		}
	}
	return name, nil
}

// stripComment removes `#` and `;` comments. Darknet treats both markers as
// full-line comments; trailing comments are stripped here as well since no
// field value legitimately contains either character.
func stripComment(line string) string {
	if i := strings.IndexAny(line, "#;"); i >= 0 {
		return line[:i]
	}
	return line
}
