package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEncoding marks a token that is not valid UTF-8. Identifiers are
// persisted as JSON, which cannot carry such bytes unchanged.
var ErrInvalidEncoding = errors.New("token is not valid UTF-8")

// directive is one non-blank DSL line split on whitespace.
type directive struct {
	file    string
	line    int
	keyword string
	args    []string
}

// scan splits a whole file into directives. Blank lines are dropped; any
// token that is not valid UTF-8 is a DirectiveError.
func scan(file string, data []byte) ([]directive, error) {
	lines := strings.Split(string(data), "\n")
	out := make([]directive, 0, len(lines))
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		for _, f := range fields {
			if !utf8.ValidString(f) {
				return nil, &DirectiveError{
					File:      file,
					Line:      i + 1,
					Directive: strings.ToValidUTF8(fields[0], "?"),
					Cause:     fmt.Errorf("%w: %q", ErrInvalidEncoding, f),
				}
			}
		}
		out = append(out, directive{
			file:    file,
			line:    i + 1,
			keyword: fields[0],
			args:    fields[1:],
		})
	}
	return out, nil
}

// float parses args[i] as a float64, wrapping failures in a DirectiveError.
func (d directive) float(i int) (float64, error) {
	v, err := strconv.ParseFloat(d.args[i], 64)
	if err != nil {
		return 0, &DirectiveError{File: d.file, Line: d.line, Directive: d.keyword, Cause: err}
	}
	return v, nil
}
