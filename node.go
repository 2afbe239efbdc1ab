package docweaver

import (
	"slices"
	"strings"
)

// Node is one entry of a parsed documentation tree: a *Document, an
// *Element or a *Text.
type Node interface{ isNode() }

// Document wraps the root element of a parsed file. Source holds the raw
// input when it is known and is only used to quote context in errors.
type Document struct {
	Root   *Element
	Source string
}

func (*Document) isNode() {}

// Element is a named node with attributes and ordered children.
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []Node
	Parent   *Element
	Pos      Position
}

func (*Element) isNode() {}

// Text is character data. CDATA sections are also Text.
type Text struct {
	Value string
	Pos   Position
}

func (*Text) isNode() {}

// NewElement builds an element and adopts the given children.
func NewElement(name string, attrs map[string]string, children ...Node) *Element {
	el := &Element{Name: name, Attrs: attrs}
	for _, c := range children {
		el.AppendChild(c)
	}
	return el
}

// NewText builds a text node.
func NewText(value string) *Text {
	return &Text{Value: value}
}

// AppendChild adds n as the last child of e.
func (e *Element) AppendChild(n Node) {
	if child, ok := n.(*Element); ok {
		child.Parent = e
	}
	e.Children = append(e.Children, n)
}

// Attr returns the attribute value and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	if e.Attrs == nil {
		return "", false
	}
	v, ok := e.Attrs[name]
	return v, ok
}

// Child returns the first child element with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for _, n := range e.Children {
		if el, ok := n.(*Element); ok && el.Name == name {
			return el
		}
	}
	return nil
}

// ChildElements returns child elements in document order. With no names
// every element child is returned, otherwise only those whose name matches.
func (e *Element) ChildElements(names ...string) []*Element {
	var out []*Element
	for _, n := range e.Children {
		el, ok := n.(*Element)
		if !ok {
			continue
		}
		if len(names) == 0 || slices.Contains(names, el.Name) {
			out = append(out, el)
		}
	}
	return out
}

// PrevElement returns the nearest preceding sibling element, or nil.
func (e *Element) PrevElement() *Element {
	if e.Parent == nil {
		return nil
	}
	var prev *Element
	for _, n := range e.Parent.Children {
		if n == Node(e) {
			return prev
		}
		if el, ok := n.(*Element); ok {
			prev = el
		}
	}
	return nil
}

// Value is the concatenated text of all descendants, unescaped.
func (e *Element) Value() string {
	var sb strings.Builder
	writeValue(&sb, e)
	return sb.String()
}

func writeValue(sb *strings.Builder, e *Element) {
	for _, n := range e.Children {
		switch t := n.(type) {
		case *Text:
			sb.WriteString(t.Value)
		case *Element:
			writeValue(sb, t)
		}
	}
}
