package docweaver

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// DefaultMaxDepth is the element nesting a Renderer accepts before failing
// with a RecursionLimitError.
const DefaultMaxDepth = 512

// localAnchorMarker prefixes a cref that points inside the current page.
const localAnchorMarker = "!:#"

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Renderer walks one documentation tree. It is created per conversion and
// must not be shared between goroutines; the RuleTable it reads is.
type Renderer struct {
	rules       *RuleTable
	maxDepth    int
	systemLinks bool
	source      string
	depth       int
}

// NewRenderer returns a renderer over rules. A maxDepth of zero or less
// disables the depth ceiling.
func NewRenderer(rules *RuleTable, maxDepth int) *Renderer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Renderer{rules: rules, maxDepth: maxDepth}
}

// Render converts n and everything below it to Markdown. The result is not
// post-processed.
func (r *Renderer) Render(n Node, ctx ConversionContext) (string, error) {
	var prev *Element
	if el, ok := n.(*Element); ok {
		prev = el.PrevElement()
	}
	return r.render(n, prev, ctx)
}

// RenderChildren renders the children of el in order and concatenates them.
func (r *Renderer) RenderChildren(el *Element, ctx ConversionContext) (string, error) {
	if el == nil {
		return "", nil
	}
	var sb strings.Builder
	var prev *Element
	for _, n := range el.Children {
		s, err := r.render(n, prev, ctx)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
		if child, ok := n.(*Element); ok {
			prev = child
		}
	}
	return sb.String(), nil
}

// RenderElements renders a selection of elements and concatenates them.
// Each element sees its real preceding sibling, selected or not.
func (r *Renderer) RenderElements(els []*Element, ctx ConversionContext) (string, error) {
	prevs := previousSiblings(els)
	var sb strings.Builder
	for _, el := range els {
		s, err := r.render(el, prevs[el], ctx)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// previousSiblings maps every element of els to its preceding sibling
// element, walking each distinct parent once.
func previousSiblings(els []*Element) map[*Element]*Element {
	prevs := make(map[*Element]*Element, len(els))
	walked := map[*Element]bool{}
	for _, el := range els {
		p := el.Parent
		if p == nil || walked[p] {
			continue
		}
		walked[p] = true
		var prev *Element
		for _, n := range p.Children {
			if child, ok := n.(*Element); ok {
				prevs[child] = prev
				prev = child
			}
		}
	}
	return prevs
}

func (r *Renderer) render(n Node, prev *Element, ctx ConversionContext) (string, error) {
	switch t := n.(type) {
	case *Document:
		if r.source == "" {
			r.source = t.Source
		}
		if t.Root == nil {
			return "", nil
		}
		return r.render(t.Root, nil, ctx)
	case *Text:
		return escapeText(t.Value), nil
	case *Element:
		return r.renderElement(t, prev, ctx)
	default:
		return "", nil
	}
}

func (r *Renderer) renderElement(el *Element, prev *Element, ctx ConversionContext) (string, error) {
	if r.maxDepth > 0 && r.depth >= r.maxDepth {
		return "", NewRecursionLimitError(el.Pos, el.Name, r.maxDepth)
	}
	r.depth++
	defer func() { r.depth-- }()

	name := effectiveName(el, prev)
	rule, ok := r.rules.Lookup(name)
	if !ok {
		switch ctx.Policy {
		case UnknownWarn:
			ctx.warn(fmt.Sprintf("Unknown element type %q on line %d, pos %d", name, el.Pos.Line, el.Pos.Column))
			return "", nil
		case UnknownAccept:
			return "", nil
		default:
			return "", NewUnknownTagError(el.Pos, name, r.source)
		}
	}

	vals, err := rule.Extract(r, el, ctx)
	if err != nil {
		return "", err
	}
	out, err := rule.Template.Format(vals)
	if err != nil {
		var arity *FormatArityError
		if errors.As(err, &arity) {
			arity.TagName = name
		}
		return "", err
	}
	return out, nil
}

// effectiveName applies the renaming rules: see splits into seeAnchor and
// seePage, and a *param element that does not follow a param sibling
// becomes firstparam so it also emits the table header.
func effectiveName(el *Element, prev *Element) string {
	name := el.Name
	if name == "see" {
		if cref, ok := el.Attr("cref"); ok && strings.HasPrefix(cref, localAnchorMarker) {
			name = "seeAnchor"
		} else {
			name = "seePage"
		}
	}
	if strings.HasSuffix(name, "param") && (prev == nil || prev.Name != "param") {
		name = "firstparam"
	}
	return name
}

// link returns the target for a cross-reference to a display name.
func (r *Renderer) link(name string) string {
	if r.systemLinks {
		return ToLink(name)
	}
	return ToAnchor(name)
}

func (r *Renderer) malformed(el *Element, message string) error {
	return NewMalformedInputError(el.Pos, el.Name, message, r.source)
}

// escapeText collapses every whitespace run to one space and entity-escapes
// the characters Markdown renderers would treat as HTML.
func escapeText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, c := range s {
		if unicode.IsSpace(c) {
			if !space {
				sb.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		sb.WriteRune(c)
	}
	return textEscaper.Replace(sb.String())
}
