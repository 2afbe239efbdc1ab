package docweaver

import (
	"fmt"
	"strconv"
	"strings"
)

// Template is an output pattern with positional {n} placeholders, compiled
// once when the rule table is built.
type Template struct {
	raw   string
	parts []templatePart
	arity int
}

type templatePart struct {
	literal string
	index   int // -1 for literal parts
}

// MustTemplate compiles raw and panics on a malformed pattern. Rule tables
// are built at init time, so a bad template is a programming error.
func MustTemplate(raw string) Template {
	t, err := ParseTemplate(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTemplate compiles raw. Placeholder indices must be contiguous from 0,
// but may appear in any order and more than once.
func ParseTemplate(raw string) (Template, error) {
	t := Template{raw: raw}
	seen := map[int]bool{}
	rest := raw
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			t.parts = append(t.parts, templatePart{literal: rest, index: -1})
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return Template{}, fmt.Errorf("template %q: unterminated placeholder", raw)
		}
		end += open

		idx, err := strconv.Atoi(rest[open+1 : end])
		if err != nil || idx < 0 {
			return Template{}, fmt.Errorf("template %q: bad placeholder %q", raw, rest[open:end+1])
		}
		if open > 0 {
			t.parts = append(t.parts, templatePart{literal: rest[:open], index: -1})
		}
		t.parts = append(t.parts, templatePart{index: idx})
		seen[idx] = true
		rest = rest[end+1:]
	}

	for i := 0; i < len(seen); i++ {
		if !seen[i] {
			return Template{}, fmt.Errorf("template %q: placeholder {%d} missing", raw, i)
		}
	}
	t.arity = len(seen)
	return t, nil
}

// Arity is the number of values Format expects.
func (t Template) Arity() int { return t.arity }

// String returns the raw pattern.
func (t Template) String() string { return t.raw }

// Format substitutes vals positionally.
func (t Template) Format(vals []string) (string, error) {
	if len(vals) != t.arity {
		return "", &FormatArityError{Want: t.arity, Got: len(vals)}
	}
	var sb strings.Builder
	for _, p := range t.parts {
		if p.index < 0 {
			sb.WriteString(p.literal)
			continue
		}
		sb.WriteString(vals[p.index])
	}
	return sb.String(), nil
}
