package docweaver

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	preserveWhitespace bool
}

// WithPreserveWhitespace keeps whitespace-only text nodes. By default they
// are dropped, as an XML loader does for insignificant whitespace.
func WithPreserveWhitespace() ParseOption {
	return func(c *parseConfig) { c.preserveWhitespace = true }
}

// Parse reads an XML documentation file into a Document. Every element and
// text node records the line and column it started at.
func Parse(r io.Reader, opts ...ParseOption) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse: read input: %w", err)
	}
	return parseBytes(data, opts...)
}

// ParseString is Parse over an in-memory string.
func ParseString(s string, opts ...ParseOption) (*Document, error) {
	return parseBytes([]byte(s), opts...)
}

func parseBytes(data []byte, opts ...ParseOption) (*Document, error) {
	var cfg parseConfig
	for _, o := range opts {
		o(&cfg)
	}

	src := string(data)
	doc := &Document{Source: src}
	dec := xml.NewDecoder(bytes.NewReader(data))

	var stack []*Element
	for {
		line, col := dec.InputPos()
		pos := Position{Line: line, Column: col}

		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			var syn *xml.SyntaxError
			if errors.As(err, &syn) && syn.Line != line {
				pos = Position{Line: syn.Line}
			}
			return nil, NewParseError(pos, err, src)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local, Attrs: attrMap(t.Attr), Pos: pos}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, NewParseError(pos, fmt.Errorf("unexpected second root element <%s>", el.Name), src)
				}
				doc.Root = el
			} else {
				stack[len(stack)-1].AppendChild(el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			v := string(t)
			if !cfg.preserveWhitespace && strings.TrimSpace(v) == "" {
				continue
			}
			stack[len(stack)-1].AppendChild(&Text{Value: v, Pos: pos})
		}
	}

	if doc.Root == nil {
		return nil, NewParseError(Position{}, errors.New("document has no root element"), src)
	}
	return doc, nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		// Namespace declarations are not attributes of the documentation.
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		m[a.Name.Local] = a.Value
	}
	return m
}
