package docweaver

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Extractor produces the ordered values a rule's template is filled with.
// It receives the renderer so it can render its own children.
type Extractor func(r *Renderer, el *Element, ctx ConversionContext) ([]string, error)

// RenderRule pairs an output template with the extractor feeding it.
type RenderRule struct {
	Template Template
	Extract  Extractor
}

// NewRule compiles tpl and panics if it is malformed.
func NewRule(tpl string, extract Extractor) RenderRule {
	return RenderRule{Template: MustTemplate(tpl), Extract: extract}
}

// RuleTable maps element names to render rules. A table is never modified
// after construction and may be shared by any number of conversions.
type RuleTable struct {
	byName map[string]RenderRule
}

// NewRuleTable builds a table from a copy of rules.
func NewRuleTable(rules map[string]RenderRule) *RuleTable {
	return &RuleTable{byName: maps.Clone(rules)}
}

var defaultRules = sync.OnceValue(func() *RuleTable {
	return &RuleTable{byName: builtinRules()}
})

// DefaultRules returns the process-wide table of built-in rules.
func DefaultRules() *RuleTable {
	return defaultRules()
}

// Lookup returns the rule registered for name.
func (t *RuleTable) Lookup(name string) (RenderRule, bool) {
	rule, ok := t.byName[name]
	return rule, ok
}

// Has reports whether a rule is registered for name.
func (t *RuleTable) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Names returns a sorted list of rule names.
func (t *RuleTable) Names() []string {
	return slices.Sorted(maps.Keys(t.byName))
}

// Len returns the number of rules.
func (t *RuleTable) Len() int { return len(t.byName) }

// Extend returns a new table holding t's rules plus rule under name,
// replacing any rule already registered for it. t itself is unchanged.
func (t *RuleTable) Extend(name string, rule RenderRule) *RuleTable {
	next := maps.Clone(t.byName)
	if next == nil {
		next = map[string]RenderRule{}
	}
	next[name] = rule
	return &RuleTable{byName: next}
}

const preliminaryNotice = "[This is preliminary documentation and subject to change.]"

func builtinRules() map[string]RenderRule {
	children := func(tpl string) RenderRule { return NewRule(tpl, extractChildren) }
	quoted := func(tpl string) RenderRule { return NewRule(tpl, extractQuoted) }
	row := func(tpl string) RenderRule { return NewRule(tpl, nameAndBodyOf("name")) }

	return map[string]RenderRule{
		"doc":    NewRule("# {0} #\n\n{1}\n\n", extractDoc),
		"member": NewRule("## {0}\n\n{1}\n\n---\n", extractMember),

		"i": children("*{0}*"),
		"b": children("**{0}**"),
		// Markdown has no underline.
		"u": children("**{0}**"),
		"c": children(" `{0}` "),

		"p":       children("{0}\n\n"),
		"para":    children("{0}\n\n"),
		"summary": children("{0}\n\n"),
		"returns": children("**Returns**: {0}\n\n"),
		"value":   children("**Value**: {0}\n\n"),
		"example": children("##### Example: {0}\n\n"),
		"version": children("*Added in {0}*"),

		"blockquote": quoted("\n\n{0}\n"),
		"remarks":    quoted("\n\n{0}\n"),

		"a":         NewRule("[{0}]({1})", extractAnchorLink),
		"seealso":   NewRule("##### See also: [{1}]({0})\n", extractCrossRef),
		"seePage":   NewRule("[{1}]({0})", extractCrossRef),
		"seeAnchor": NewRule("[{1}]({0})", extractLocalAnchor),

		"firstparam": row("\n| Name | Description |\n|-----|------|\n|{0}: |{1}|\n"),
		"param":      row("|{0}: |{1}|\n"),
		"typeparam":  row("|{0}: |{1}|\n"),
		"paramref":   NewRule("`{0}`", extractParamRef),
		"exception":  NewRule("[[{0}|{0}]]: {1}\n\n", nameAndBodyOf("cref")),

		"list":        NewRule("{0}\n", extractList),
		"code":        NewRule("\n\n###### {0} code\n\n```\n{1}\n```\n\n", extractCode),
		"preliminary": NewRule("**{0}**", extractPreliminary),
		"platform":    NewRule("*Available on {0}*", extractPlatform),
		"br":          NewRule("\n  ", extractNothing),
		"none":        NewRule("", extractNothing),
	}
}

func one(s string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

func extractNothing(*Renderer, *Element, ConversionContext) ([]string, error) {
	return nil, nil
}

func extractChildren(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
	return one(r.RenderChildren(el, ctx))
}

func extractQuoted(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
	body, err := r.RenderChildren(el, ctx)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, line := range strings.Split(body, "\n") {
		sb.WriteString("> ")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return []string{sb.String()}, nil
}

func extractDoc(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
	var nameEl *Element
	if asm := el.Child("assembly"); asm != nil {
		nameEl = asm.Child("name")
	}
	if nameEl == nil {
		return nil, r.malformed(el, "missing assembly name")
	}
	assembly := strings.TrimSpace(nameEl.Value())

	var members []*Element
	if m := el.Child("members"); m != nil {
		members = m.ChildElements("member")
	}
	body, err := r.RenderElements(members, ctx.WithAssemblyName(assembly))
	if err != nil {
		return nil, err
	}
	return []string{assembly, body}, nil
}

func extractMember(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
	name, body, err := memberNameAndBody(r, el, "name", ctx)
	if err != nil {
		return nil, err
	}
	return []string{name, body}, nil
}

// memberNameAndBody returns the display form of the member ID held in attr
// and the rendered children. A missing attribute yields an empty name.
func memberNameAndBody(r *Renderer, el *Element, attr string, ctx ConversionContext) (string, string, error) {
	body, err := r.RenderChildren(el, ctx)
	if err != nil {
		return "", "", err
	}
	raw, ok := el.Attr(attr)
	if !ok {
		return "", body, nil
	}
	return NormalizeMemberName(raw, ctx.AssemblyName), body, nil
}

func nameAndBodyOf(attr string) Extractor {
	return func(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
		body, err := r.RenderChildren(el, ctx)
		if err != nil {
			return nil, err
		}
		name, _ := el.Attr(attr)
		return []string{name, body}, nil
	}
}

func extractParamRef(_ *Renderer, el *Element, _ ConversionContext) ([]string, error) {
	name, _ := el.Attr("name")
	return []string{name}, nil
}

func extractAnchorLink(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
	label, err := r.RenderChildren(el, ctx)
	if err != nil {
		return nil, err
	}
	href, _ := el.Attr("href")
	if label == "" {
		label = href
	}
	return []string{label, href}, nil
}

func extractCrossRef(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
	name, label, err := memberNameAndBody(r, el, "cref", ctx)
	if err != nil {
		return nil, err
	}
	if label == "" {
		label = name
	}
	return []string{r.link(name), label}, nil
}

func extractLocalAnchor(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
	label, err := r.RenderChildren(el, ctx)
	if err != nil {
		return nil, err
	}
	cref, _ := el.Attr("cref")
	fragment := strings.TrimPrefix(cref, localAnchorMarker)
	if label == "" {
		label = fragment
	}
	return []string{"#" + fragment, label}, nil
}

func extractList(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
	kind, ok := el.Attr("type")
	if !ok {
		return nil, r.malformed(el, `list requires a "type" attribute`)
	}

	var lines []string
	switch kind {
	case "table":
		if header := el.Child("listheader"); header != nil {
			cells, err := termRow(r, header, ctx)
			if err != nil {
				return nil, err
			}
			sep := "|" + strings.Repeat(" --- |", len(header.ChildElements("term")))
			lines = append(lines, "\n"+cells, sep)
		} else {
			lines = append(lines, "\n| Name | Description |", "|-----|------|")
		}
		for _, item := range el.ChildElements("item") {
			cells, err := termRow(r, item, ctx)
			if err != nil {
				return nil, err
			}
			lines = append(lines, cells)
		}
		// A GFM table runs until a blank line.
		lines = append(lines, "")
	case "number":
		// Every entry is "1."; Markdown renderers number the list themselves.
		for _, item := range el.ChildElements("item") {
			d, err := describe(r, item, ctx)
			if err != nil {
				return nil, err
			}
			lines = append(lines, "1. "+d)
		}
	default:
		for _, item := range el.ChildElements("item") {
			d, err := describe(r, item, ctx)
			if err != nil {
				return nil, err
			}
			lines = append(lines, "* "+d)
		}
	}
	return []string{strings.Join(lines, "\n")}, nil
}

// termRow renders the term children of el as one table row.
func termRow(r *Renderer, el *Element, ctx ConversionContext) (string, error) {
	var sb strings.Builder
	sb.WriteString("|")
	for _, term := range el.ChildElements("term") {
		s, err := r.RenderChildren(term, ctx)
		if err != nil {
			return "", err
		}
		sb.WriteString(" ")
		sb.WriteString(s)
		sb.WriteString(" |")
	}
	return sb.String(), nil
}

// describe renders a list item as "term: description", or as its plain
// children when it has no description.
func describe(r *Renderer, item *Element, ctx ConversionContext) (string, error) {
	desc := item.Child("description")
	if desc == nil {
		return r.RenderChildren(item, ctx)
	}
	body, err := r.RenderChildren(desc, ctx)
	if err != nil {
		return "", err
	}
	term := item.Child("term")
	if term == nil {
		return body, nil
	}
	t, err := r.RenderChildren(term, ctx)
	if err != nil {
		return "", err
	}
	return t + ": " + body, nil
}

func extractCode(_ *Renderer, el *Element, _ ConversionContext) ([]string, error) {
	lang, _ := el.Attr("lang")
	return []string{lang, ToCodeBlock(el.Value())}, nil
}

func extractPreliminary(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
	body, err := r.RenderChildren(el, ctx)
	if err != nil {
		return nil, err
	}
	if body == "" {
		body = preliminaryNotice
	}
	return []string{body}, nil
}

func extractPlatform(r *Renderer, el *Element, ctx ConversionContext) ([]string, error) {
	var parts []string
	for _, child := range el.ChildElements() {
		if child.Name == "frameworks" {
			if compact := child.Child("compact"); compact != nil && strings.TrimSpace(compact.Value()) == "true" {
				parts = append(parts, "Compact Framework")
			} else {
				parts = append(parts, ".NET Framework")
			}
			continue
		}
		s, err := r.RenderChildren(child, ctx)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return []string{strings.TrimRight(strings.Join(parts, ", "), ", ")}, nil
}
